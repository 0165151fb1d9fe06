package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/garyjia/shop-ledger/internal/application/port"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// PriceRepository implements port.PriceRepository
type PriceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPriceRepository creates a new catalog price repository
func NewPriceRepository(db *sql.DB, logger *zap.Logger) port.PriceRepository {
	return &PriceRepository{
		db:     db,
		logger: logger,
	}
}

// itemKey is the case-insensitive lookup key stored alongside the display name
func itemKey(item string) string {
	return strings.ToLower(strings.Join(strings.Fields(item), " "))
}

// likeEscaper escapes LIKE wildcards in user supplied fragments
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Upsert inserts a catalog price or replaces the price and unit of an existing item
func (r *PriceRepository) Upsert(ctx context.Context, price *entity.CatalogPrice) error {
	query := `
		INSERT INTO catalog_prices (item, item_key, price, unit, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(item_key) DO UPDATE SET
			item = excluded.item,
			price = excluded.price,
			unit = excluded.unit,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, query,
		price.Item,
		itemKey(price.Item),
		price.Price,
		price.Unit,
	)
	if err != nil {
		r.logger.Error("Failed to upsert catalog price",
			zap.String("item", price.Item),
			zap.Error(err))
		return fmt.Errorf("failed to upsert catalog price: %w", err)
	}

	stored, err := r.GetByItem(ctx, price.Item)
	if err != nil {
		return err
	}
	if stored != nil {
		price.ID = stored.ID
		price.UpdatedAt = stored.UpdatedAt
	}
	return nil
}

// GetByItem retrieves a catalog price by exact, case-insensitive item name
func (r *PriceRepository) GetByItem(ctx context.Context, item string) (*entity.CatalogPrice, error) {
	query := `
		SELECT id, item, price, unit, updated_at
		FROM catalog_prices
		WHERE item_key = ?
	`

	var p entity.CatalogPrice
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx, query, itemKey(item)).Scan(
		&p.ID,
		&p.Item,
		&p.Price,
		&p.Unit,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get catalog price", zap.String("item", item), zap.Error(err))
		return nil, fmt.Errorf("failed to get catalog price: %w", err)
	}

	return &p, nil
}

// SearchByItem returns catalog prices whose item contains fragment, or appears in fragment
// as whole words, shortest item first
func (r *PriceRepository) SearchByItem(ctx context.Context, fragment string, limit int) ([]*entity.CatalogPrice, error) {
	key := itemKey(fragment)
	if key == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT id, item, price, unit, updated_at
		FROM catalog_prices
		WHERE item_key LIKE '%' || ? || '%' ESCAPE '\'
			OR instr(' ' || ? || ' ', ' ' || item_key || ' ') > 0
		ORDER BY length(item_key) ASC, item_key ASC
		LIMIT ?
	`

	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx, query, likeEscaper.Replace(key), key, limit)
	if err != nil {
		r.logger.Error("Failed to search catalog prices", zap.String("fragment", fragment), zap.Error(err))
		return nil, fmt.Errorf("failed to search catalog prices: %w", err)
	}
	defer rows.Close()

	return scanPrices(rows)
}

// List returns the whole catalog ordered by item
func (r *PriceRepository) List(ctx context.Context) ([]*entity.CatalogPrice, error) {
	query := `
		SELECT id, item, price, unit, updated_at
		FROM catalog_prices
		ORDER BY item_key ASC
	`

	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list catalog prices", zap.Error(err))
		return nil, fmt.Errorf("failed to list catalog prices: %w", err)
	}
	defer rows.Close()

	return scanPrices(rows)
}

func scanPrices(rows *sql.Rows) ([]*entity.CatalogPrice, error) {
	var prices []*entity.CatalogPrice
	for rows.Next() {
		var p entity.CatalogPrice
		if err := rows.Scan(&p.ID, &p.Item, &p.Price, &p.Unit, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan catalog price: %w", err)
		}
		prices = append(prices, &p)
	}
	return prices, rows.Err()
}

// Verify interface compliance
var _ port.PriceRepository = (*PriceRepository)(nil)
