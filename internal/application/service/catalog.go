package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/shop-ledger/internal/application/port"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/parser"
)

type cachedPrice struct {
	price   float64
	found   bool
	expires time.Time
}

// Catalog resolves item prices for the parser and records price changes.
// Lookups try an exact, case-insensitive match first and then a substring match.
// Results, including misses, are cached for the configured TTL.
type Catalog struct {
	repo   port.PriceRepository
	ttl    time.Duration
	now    func() time.Time
	logger Logger

	mu    sync.RWMutex
	cache map[string]cachedPrice
}

// NewCatalog creates a catalog over repo. A ttl of zero disables caching.
func NewCatalog(repo port.PriceRepository, ttl time.Duration, logger Logger) *Catalog {
	return &Catalog{
		repo:   repo,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
		cache:  make(map[string]cachedPrice),
	}
}

func cacheKey(item string) string {
	return strings.ToLower(strings.Join(strings.Fields(item), " "))
}

// LookupPrice implements parser.PriceLookup
func (c *Catalog) LookupPrice(ctx context.Context, itemName string) (float64, bool, error) {
	key := cacheKey(itemName)
	if key == "" {
		return 0, false, nil
	}

	if hit, ok := c.cached(key); ok {
		return hit.price, hit.found, nil
	}

	price, err := c.repo.GetByItem(ctx, itemName)
	if err != nil {
		return 0, false, err
	}
	if price == nil {
		matches, err := c.repo.SearchByItem(ctx, itemName, 1)
		if err != nil {
			return 0, false, err
		}
		if len(matches) > 0 {
			price = matches[0]
		}
	}

	entry := cachedPrice{expires: c.now().Add(c.ttl)}
	if price != nil {
		entry.price, entry.found = price.Price, true
	}
	c.store(key, entry)

	return entry.price, entry.found, nil
}

func (c *Catalog) cached(key string) (cachedPrice, bool) {
	if c.ttl <= 0 {
		return cachedPrice{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	hit, ok := c.cache[key]
	if !ok || !c.now().Before(hit.expires) {
		return cachedPrice{}, false
	}
	return hit, true
}

func (c *Catalog) store(key string, entry cachedPrice) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = entry
}

// Invalidate drops every cached lookup
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]cachedPrice)
}

// SetPrice creates or replaces the catalog price of an item
func (c *Catalog) SetPrice(ctx context.Context, item string, price float64, unit string) (*entity.CatalogPrice, error) {
	item = strings.TrimSpace(item)
	if item == "" || price <= 0 {
		return nil, fmt.Errorf("%w: item %q price %v", ErrInvalidPrice, item, price)
	}

	p := &entity.CatalogPrice{
		Item:  item,
		Price: price,
		Unit:  parser.NormalizeUnit(unit),
	}
	if err := c.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	// a new item can change substring matches for other keys
	c.Invalidate()

	c.logger.Info("Catalog price set", "item", p.Item, "price", p.Price, "unit", p.Unit)
	return p, nil
}

// Get returns the catalog row for an exact item name, or nil
func (c *Catalog) Get(ctx context.Context, item string) (*entity.CatalogPrice, error) {
	return c.repo.GetByItem(ctx, item)
}

// Search returns catalog rows matching a fragment
func (c *Catalog) Search(ctx context.Context, fragment string) ([]*entity.CatalogPrice, error) {
	return c.repo.SearchByItem(ctx, fragment, 0)
}

// List returns the whole catalog
func (c *Catalog) List(ctx context.Context) ([]*entity.CatalogPrice, error) {
	return c.repo.List(ctx)
}

var _ parser.PriceLookup = (*Catalog)(nil)
