package service

import (
	"context"
	"io"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockPriceRepo struct {
	mock.Mock
}

func (m *mockPriceRepo) Upsert(ctx context.Context, price *entity.CatalogPrice) error {
	return m.Called(ctx, price).Error(0)
}

func (m *mockPriceRepo) GetByItem(ctx context.Context, item string) (*entity.CatalogPrice, error) {
	args := m.Called(ctx, item)
	p, _ := args.Get(0).(*entity.CatalogPrice)
	return p, args.Error(1)
}

func (m *mockPriceRepo) SearchByItem(ctx context.Context, fragment string, limit int) ([]*entity.CatalogPrice, error) {
	args := m.Called(ctx, fragment, limit)
	p, _ := args.Get(0).([]*entity.CatalogPrice)
	return p, args.Error(1)
}

func (m *mockPriceRepo) List(ctx context.Context) ([]*entity.CatalogPrice, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]*entity.CatalogPrice)
	return p, args.Error(1)
}

type mockEntryRepo struct {
	mock.Mock
}

func (m *mockEntryRepo) CreateBatch(ctx context.Context, entries []*entity.LedgerEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *mockEntryRepo) GetByBatchID(ctx context.Context, batchID string) ([]*entity.LedgerEntry, error) {
	args := m.Called(ctx, batchID)
	e, _ := args.Get(0).([]*entity.LedgerEntry)
	return e, args.Error(1)
}

func (m *mockEntryRepo) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEntryRepo) List(ctx context.Context, limit, offset int) ([]*entity.LedgerEntry, error) {
	args := m.Called(ctx, limit, offset)
	e, _ := args.Get(0).([]*entity.LedgerEntry)
	return e, args.Error(1)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*entity.Order)
	return o, args.Error(1)
}

type mockCreditRepo struct {
	mock.Mock
}

func (m *mockCreditRepo) Create(ctx context.Context, record *entity.CreditRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockCreditRepo) ListByCustomer(ctx context.Context, customer string) ([]*entity.CreditRecord, error) {
	args := m.Called(ctx, customer)
	r, _ := args.Get(0).([]*entity.CreditRecord)
	return r, args.Error(1)
}

func (m *mockCreditRepo) Totals(ctx context.Context, customer string) (float64, float64, error) {
	args := m.Called(ctx, customer)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}

type mockPriceBook struct {
	mock.Mock
}

func (m *mockPriceBook) SetPrice(ctx context.Context, item string, price float64, unit string) (*entity.CatalogPrice, error) {
	args := m.Called(ctx, item, price, unit)
	p, _ := args.Get(0).(*entity.CatalogPrice)
	return p, args.Error(1)
}

func (m *mockPriceBook) Get(ctx context.Context, item string) (*entity.CatalogPrice, error) {
	args := m.Called(ctx, item)
	p, _ := args.Get(0).(*entity.CatalogPrice)
	return p, args.Error(1)
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) ExtractEntries(ctx context.Context, text string) ([]entity.ParsedEntry, error) {
	args := m.Called(ctx, text)
	e, _ := args.Get(0).([]entity.ParsedEntry)
	return e, args.Error(1)
}

// stubParser returns a fixed result for every utterance
type stubParser struct {
	result entity.ParsedResult
}

func (s stubParser) ParseEnhanced(ctx context.Context, text string) entity.ParsedResult {
	r := s.result
	r.SourceText = text
	return r
}

// inlineTx runs fn directly, standing in for a database transaction
type inlineTx struct{}

func (inlineTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubExporter struct {
	written []*entity.LedgerEntry
	err     error
}

func (s *stubExporter) WriteEntries(w io.Writer, entries []*entity.LedgerEntry) error {
	s.written = entries
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, "ok")
	return err
}

func (s *stubExporter) ContentType() string   { return "text/plain" }
func (s *stubExporter) FileExtension() string { return ".txt" }
