package port

import (
	"context"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
)

// PriceRepository persists the item price catalog. Item matching is case-insensitive.
type PriceRepository interface {
	Upsert(ctx context.Context, price *entity.CatalogPrice) error
	GetByItem(ctx context.Context, item string) (*entity.CatalogPrice, error)
	// SearchByItem returns catalog rows whose item contains fragment, shortest name first
	SearchByItem(ctx context.Context, fragment string, limit int) ([]*entity.CatalogPrice, error)
	List(ctx context.Context) ([]*entity.CatalogPrice, error)
}

// EntryRepository persists confirmed cash entries grouped by batch
type EntryRepository interface {
	CreateBatch(ctx context.Context, entries []*entity.LedgerEntry) error
	GetByBatchID(ctx context.Context, batchID string) ([]*entity.LedgerEntry, error)
	// DeleteBatch returns the number of removed entries
	DeleteBatch(ctx context.Context, batchID string) (int64, error)
	List(ctx context.Context, limit, offset int) ([]*entity.LedgerEntry, error)
}

// OrderRepository persists customer orders with their items
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}

// CreditRepository persists credit sales and payments
type CreditRepository interface {
	Create(ctx context.Context, record *entity.CreditRecord) error
	ListByCustomer(ctx context.Context, customer string) ([]*entity.CreditRecord, error)
	// Totals returns the summed sales and payments for a customer
	Totals(ctx context.Context, customer string) (sales float64, payments float64, err error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
