package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/garyjia/shop-ledger/internal/application/dispatcher"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	entries  *mockEntryRepo
	orders   *mockOrderRepo
	credits  *mockCreditRepo
	exporter *stubExporter
}

func newLedgerService(d dispatcher.Dispatcher) (*LedgerService, *ledgerFixture) {
	f := &ledgerFixture{
		entries:  &mockEntryRepo{},
		orders:   &mockOrderRepo{},
		credits:  &mockCreditRepo{},
		exporter: &stubExporter{},
	}
	return NewLedgerService(f.entries, f.orders, f.credits, f.exporter, d, nopLogger{}), f
}

func TestLedgerService_Batch(t *testing.T) {
	ctx := context.Background()
	svc, f := newLedgerService(nil)
	f.entries.On("GetByBatchID", mock.Anything, "b1").Return([]*entity.LedgerEntry{{Item: "Rice"}}, nil)
	f.entries.On("GetByBatchID", mock.Anything, "missing").Return(nil, nil)

	entries, err := svc.Batch(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = svc.Batch(ctx, "missing")
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestLedgerService_DeleteBatch(t *testing.T) {
	ctx := context.Background()
	d := dispatcher.NewDispatcher()
	deleted := make(chan *event.Event, 1)
	d.Subscribe(event.TypeBatchDeleted, "recorder", func(ctx context.Context, evt *event.Event) error {
		deleted <- evt
		return nil
	})

	svc, f := newLedgerService(d)
	f.entries.On("DeleteBatch", mock.Anything, "b1").Return(int64(2), nil)
	f.entries.On("DeleteBatch", mock.Anything, "missing").Return(int64(0), nil)

	n, err := svc.DeleteBatch(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, d.Close())
	evt := <-deleted
	assert.Equal(t, "b1", evt.AggregateID)
	assert.Equal(t, int64(2), evt.GetPayloadInt(event.KeyCount))

	_, err = svc.DeleteBatch(ctx, "missing")
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestLedgerService_Order(t *testing.T) {
	ctx := context.Background()
	svc, f := newLedgerService(nil)
	f.orders.On("GetByID", mock.Anything, "o1").Return(&entity.Order{ID: "o1"}, nil)
	f.orders.On("GetByID", mock.Anything, "o2").Return(nil, nil)

	order, err := svc.Order(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	_, err = svc.Order(ctx, "o2")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestLedgerService_Balance(t *testing.T) {
	tests := []struct {
		name     string
		sales    float64
		payments float64
		want     float64
	}{
		{name: "outstanding", sales: 100.1, payments: 40.05, want: 60.05},
		{name: "settled", sales: 0.3, payments: 0.1 + 0.2, want: 0},
		{name: "overpaid", sales: 50, payments: 80, want: -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, f := newLedgerService(nil)
			f.credits.On("Totals", mock.Anything, "Priya").Return(tt.sales, tt.payments, nil)

			balance, err := svc.Balance(context.Background(), " Priya ")
			require.NoError(t, err)
			assert.Equal(t, "Priya", balance.Customer)
			assert.Equal(t, tt.want, balance.Balance)
		})
	}

	t.Run("repository error", func(t *testing.T) {
		svc, f := newLedgerService(nil)
		f.credits.On("Totals", mock.Anything, "Priya").Return(0.0, 0.0, errors.New("closed"))

		_, err := svc.Balance(context.Background(), "Priya")
		assert.Error(t, err)
	})
}

func TestLedgerService_Export(t *testing.T) {
	ctx := context.Background()
	all := []*entity.LedgerEntry{{Item: "Rice"}, {Item: "Dal"}}

	t.Run("all entries", func(t *testing.T) {
		svc, f := newLedgerService(nil)
		f.entries.On("List", mock.Anything, 0, 0).Return(all, nil)

		var buf bytes.Buffer
		require.NoError(t, svc.Export(ctx, &buf, ""))
		assert.Equal(t, all, f.exporter.written)
		assert.Equal(t, "ok", buf.String())
	})

	t.Run("unknown batch", func(t *testing.T) {
		svc, f := newLedgerService(nil)
		f.entries.On("GetByBatchID", mock.Anything, "nope").Return(nil, nil)

		err := svc.Export(ctx, &bytes.Buffer{}, "nope")
		assert.ErrorIs(t, err, ErrBatchNotFound)
		assert.Nil(t, f.exporter.written)
	})

	t.Run("exporter failure", func(t *testing.T) {
		svc, f := newLedgerService(nil)
		f.entries.On("List", mock.Anything, 0, 0).Return(all, nil)
		f.exporter.err = errors.New("disk")

		err := svc.Export(ctx, &bytes.Buffer{}, "")
		assert.ErrorContains(t, err, "failed to export ledger")
	})

	contentType, ext := (&LedgerService{exporter: &stubExporter{}}).ExportFormat()
	assert.Equal(t, "text/plain", contentType)
	assert.Equal(t, ".txt", ext)
}
