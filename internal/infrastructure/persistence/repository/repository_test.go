package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/shop-ledger/migrations"
	"github.com/garyjia/shop-ledger/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.NewInMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.NewMigrator(db, logger).RunMigrations(context.Background(), migrations.FS)
	require.NoError(t, err)
	return db.DB
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestPriceRepository_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewPriceRepository(newTestDB(t), zap.NewNop())

	price := &entity.CatalogPrice{Item: "Basmati Rice", Price: 90, Unit: "kg"}
	require.NoError(t, repo.Upsert(ctx, price))
	assert.NotZero(t, price.ID)

	got, err := repo.GetByItem(ctx, "  basmati   RICE ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Basmati Rice", got.Item)
	assert.Equal(t, 90.0, got.Price)

	require.NoError(t, repo.Upsert(ctx, &entity.CatalogPrice{Item: "basmati rice", Price: 95}))
	got, err = repo.GetByItem(ctx, "Basmati Rice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, price.ID, got.ID)
	assert.Equal(t, 95.0, got.Price)
	assert.Equal(t, "", got.Unit)

	missing, err := repo.GetByItem(ctx, "Sugar")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPriceRepository_SearchByItem(t *testing.T) {
	ctx := context.Background()
	repo := NewPriceRepository(newTestDB(t), zap.NewNop())

	for _, p := range []*entity.CatalogPrice{
		{Item: "Rice", Price: 40},
		{Item: "Basmati Rice", Price: 90},
		{Item: "Dal", Price: 110},
		{Item: "100% Juice", Price: 60},
		{Item: "Oil", Price: 150},
	} {
		require.NoError(t, repo.Upsert(ctx, p))
	}

	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{"catalog item contains fragment", "ric", []string{"Rice", "Basmati Rice"}},
		{"fragment contains catalog item", "brown rice", []string{"Rice"}},
		{"wildcards are literal", "%", []string{"100% Juice"}},
		{"catalog item as a whole word", "mustard oil", []string{"Oil"}},
		{"catalog item inside a longer word", "Toilet Soap", nil},
		{"catalog item as a word prefix", "dalia", nil},
		{"no match", "ghee", nil},
		{"blank", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices, err := repo.SearchByItem(ctx, tt.fragment, 0)
			require.NoError(t, err)
			var items []string
			for _, p := range prices {
				items = append(items, p.Item)
			}
			assert.Equal(t, tt.want, items)
		})
	}

	limited, err := repo.SearchByItem(ctx, "rice", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Rice", limited[0].Item)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	toilet, err := repo.SearchByItem(ctx, "Toilet Soap", 1)
	require.NoError(t, err)
	assert.Empty(t, toilet)
}

func TestEntryRepository_BatchLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository(newTestDB(t), zap.NewNop())
	when := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	entries := []*entity.LedgerEntry{
		{BatchID: "b1", Item: "Rice", Qty: 2, Unit: "kg", Price: 40, Total: 80,
			Type: entity.CashIn, PriceSource: entity.PriceSourceParsed, TransactionDate: when},
		{BatchID: "b1", Item: "Biscuit", Qty: 1, Unit: "packet", Price: 10, Total: 10,
			Type: entity.CashIn, PriceSource: entity.PriceSourceAutoLookup, TransactionDate: when},
		{BatchID: "b2", Item: "Milk", Qty: 1, Unit: "l", Price: 60, Total: 60,
			Type: entity.CashOut, PriceSource: entity.PriceSourceParsed, TransactionDate: when.Add(time.Hour)},
	}
	require.NoError(t, repo.CreateBatch(ctx, entries))
	for _, e := range entries {
		assert.NotZero(t, e.ID)
	}

	batch, err := repo.GetByBatchID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, "Rice", batch[0].Item)
	assert.Equal(t, entity.CashIn, batch[0].Type)
	assert.Equal(t, entity.PriceSourceAutoLookup, batch[1].PriceSource)
	assert.True(t, when.Equal(batch[0].TransactionDate))

	all, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Milk", all[0].Item)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)

	n, err := repo.DeleteBatch(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteBatch(ctx, "b1")
	require.NoError(t, err)
	assert.Zero(t, n)

	batch, err = repo.GetByBatchID(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestEntryRepository_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEntryRepository(db, zap.NewNop())
	txm := sqlite.NewTxManager(db, zap.NewNop())

	errAbort := errors.New("abort")
	err := txm.WithTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.CreateBatch(ctx, []*entity.LedgerEntry{
			{BatchID: "b1", Item: "Rice", Qty: 1, Type: entity.CashIn, TransactionDate: time.Now()},
		}))
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	batch, err := repo.GetByBatchID(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestDB(t), zap.NewNop())

	order := &entity.Order{
		ID:       "order-1",
		Customer: "Ramesh",
		Items: []entity.OrderItem{
			{Item: "Rice", Qty: 2, Unit: "kg", Price: floatPtr(40), DeliveryDate: strPtr("2026-10-17")},
			{Item: "Dal", Qty: 1},
		},
		SourceText: "order 2 kg rice for 40 and dal for ramesh tomorrow",
	}
	require.NoError(t, repo.Create(ctx, order))
	assert.Equal(t, entity.OrderStatusOpen, order.Status)

	got, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ramesh", got.Customer)
	require.Len(t, got.Items, 2)
	require.NotNil(t, got.Items[0].Price)
	assert.Equal(t, 40.0, *got.Items[0].Price)
	require.NotNil(t, got.Items[0].DeliveryDate)
	assert.Equal(t, "2026-10-17", *got.Items[0].DeliveryDate)
	assert.Nil(t, got.Items[1].Price)
	assert.Nil(t, got.Items[1].DeliveryDate)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreditRepository_Totals(t *testing.T) {
	ctx := context.Background()
	repo := NewCreditRepository(newTestDB(t), zap.NewNop())

	for _, rec := range []*entity.CreditRecord{
		{ID: "c1", Customer: "Priya", Type: entity.CreditSale, Amount: 120},
		{ID: "c2", Customer: "priya", Type: entity.CreditSale, Amount: 30.5},
		{ID: "c3", Customer: "Priya", Type: entity.CreditPayment, Amount: 100},
		{ID: "c4", Customer: "Ramesh", Type: entity.CreditSale, Amount: 999},
	} {
		require.NoError(t, repo.Create(ctx, rec))
	}

	sales, payments, err := repo.Totals(ctx, "PRIYA")
	require.NoError(t, err)
	assert.InDelta(t, 150.5, sales, 0.001)
	assert.InDelta(t, 100.0, payments, 0.001)

	records, err := repo.ListByCustomer(ctx, "Priya")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c1", records[0].ID)
	assert.Equal(t, entity.CreditPayment, records[2].Type)

	sales, payments, err = repo.Totals(ctx, "Nobody")
	require.NoError(t, err)
	assert.Zero(t, sales)
	assert.Zero(t, payments)
}
