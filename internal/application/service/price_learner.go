package service

import (
	"context"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/domain/event"
)

// PriceBook is the catalog view used to learn prices from confirmed sales
type PriceBook interface {
	PriceSetter
	Get(ctx context.Context, item string) (*entity.CatalogPrice, error)
}

// PriceLearner fills catalog gaps from confirmed entries whose price was spoken.
// Items that already have a catalog price are left alone.
type PriceLearner struct {
	catalog PriceBook
	logger  Logger
}

// NewPriceLearner creates a new PriceLearner
func NewPriceLearner(catalog PriceBook, logger Logger) *PriceLearner {
	return &PriceLearner{
		catalog: catalog,
		logger:  logger,
	}
}

// HandleCommandConfirmed is a dispatcher.Handler for event.TypeCommandConfirmed
func (l *PriceLearner) HandleCommandConfirmed(ctx context.Context, evt *event.Event) error {
	entries, ok := evt.Payload[event.KeyEntries].([]*entity.LedgerEntry)
	if !ok || len(entries) == 0 {
		return nil
	}

	learned := 0
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		key := cacheKey(e.Item)
		if e.PriceSource != entity.PriceSourceParsed || e.Price <= 0 || seen[key] {
			continue
		}
		seen[key] = true

		existing, err := l.catalog.Get(ctx, e.Item)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		if _, err := l.catalog.SetPrice(ctx, e.Item, e.Price, e.Unit); err != nil {
			return err
		}
		learned++
	}

	if learned > 0 {
		l.logger.Info("Learned catalog prices", "batch_id", evt.AggregateID, "count", learned)
	}
	return nil
}
