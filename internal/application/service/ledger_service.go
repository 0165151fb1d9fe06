package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/garyjia/shop-ledger/internal/application/dispatcher"
	"github.com/garyjia/shop-ledger/internal/application/port"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/garyjia/shop-ledger/internal/domain/event"
	"github.com/shopspring/decimal"
)

// LedgerService answers questions about stored entries, orders and credit
type LedgerService struct {
	entries    port.EntryRepository
	orders     port.OrderRepository
	credits    port.CreditRepository
	exporter   port.LedgerExporter
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	entries port.EntryRepository,
	orders port.OrderRepository,
	credits port.CreditRepository,
	exporter port.LedgerExporter,
	dispatcher dispatcher.Dispatcher,
	logger Logger,
) *LedgerService {
	return &LedgerService{
		entries:    entries,
		orders:     orders,
		credits:    credits,
		exporter:   exporter,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Batch returns the entries confirmed together under batchID
func (s *LedgerService) Batch(ctx context.Context, batchID string) ([]*entity.LedgerEntry, error) {
	entries, err := s.entries.GetByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}
	return entries, nil
}

// DeleteBatch removes a batch and publishes batch.deleted
func (s *LedgerService) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	n, err := s.entries.DeleteBatch(ctx, batchID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}

	s.logger.Info("Batch deleted", "batch_id", batchID, "count", n)
	if s.dispatcher != nil {
		evt := event.NewEvent(event.TypeBatchDeleted, batchID, map[string]interface{}{event.KeyCount: n})
		s.dispatcher.DispatchAsync(ctx, evt)
	}
	return n, nil
}

// Order returns a stored order
func (s *LedgerService) Order(ctx context.Context, orderID string) (*entity.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return order, nil
}

// Balance returns the outstanding credit of a customer: sales minus payments
func (s *LedgerService) Balance(ctx context.Context, customer string) (*entity.CustomerBalance, error) {
	customer = strings.TrimSpace(customer)
	sales, payments, err := s.credits.Totals(ctx, customer)
	if err != nil {
		return nil, err
	}

	return &entity.CustomerBalance{
		Customer: customer,
		Sales:    money(decimal.NewFromFloat(sales)),
		Payments: money(decimal.NewFromFloat(payments)),
		Balance:  money(decimal.NewFromFloat(sales).Sub(decimal.NewFromFloat(payments))),
	}, nil
}

// CreditHistory returns every credit sale and payment of a customer
func (s *LedgerService) CreditHistory(ctx context.Context, customer string) ([]*entity.CreditRecord, error) {
	return s.credits.ListByCustomer(ctx, strings.TrimSpace(customer))
}

// Export writes all entries, or one batch when batchID is set, with the configured exporter
func (s *LedgerService) Export(ctx context.Context, w io.Writer, batchID string) error {
	var entries []*entity.LedgerEntry
	var err error
	if batchID != "" {
		entries, err = s.Batch(ctx, batchID)
	} else {
		entries, err = s.entries.List(ctx, 0, 0)
	}
	if err != nil {
		return err
	}

	if err := s.exporter.WriteEntries(w, entries); err != nil {
		s.logger.Error("Failed to export ledger", "batch_id", batchID, "error", err)
		return fmt.Errorf("failed to export ledger: %w", err)
	}
	return nil
}

// ExportFormat returns the content type and file extension of exports
func (s *LedgerService) ExportFormat() (string, string) {
	return s.exporter.ContentType(), s.exporter.FileExtension()
}
