package parser

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

type mockPriceLookup struct {
	mock.Mock
}

func (m *mockPriceLookup) LookupPrice(ctx context.Context, itemName string) (float64, bool, error) {
	args := m.Called(ctx, itemName)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

// mapLookup is a fixed catalog keyed by item name
type mapLookup map[string]float64

func (m mapLookup) LookupPrice(_ context.Context, itemName string) (float64, bool, error) {
	price, ok := m[itemName]
	return price, ok, nil
}

func newTestParser(lookup PriceLookup, opts ...Option) *Parser {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(lookup, zap.NewNop(), opts...)
}
