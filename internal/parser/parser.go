// Package parser turns a single free-form shopkeeper utterance into a typed ledger command:
// a cash transaction, an order, a price update or a credit sale/payment.
//
// Every entry point returns a value; ambiguity and missing data are reported as warnings in the
// result rather than as errors.
package parser

import (
	"context"
	"time"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"go.uber.org/zap"
)

// PriceLookup resolves a catalog price for an item name.
// found is false when the catalog has no price; errors are logged and treated as not found.
type PriceLookup interface {
	LookupPrice(ctx context.Context, itemName string) (price float64, found bool, err error)
}

// Parser holds the injected collaborators and policy used for every utterance.
// It keeps no state between calls and is safe for concurrent use.
type Parser struct {
	lookup          PriceLookup
	logger          *zap.Logger
	defaultType     entity.EntryType
	defaultCustomer string
	currencySymbol  string
	lookupTimeout   time.Duration
	now             func() time.Time
}

// Option configures a Parser
type Option func(*Parser)

// WithDefaultType sets the cash direction used when a chunk carries no buy/sell signal
func WithDefaultType(t entity.EntryType) Option {
	return func(p *Parser) {
		if t.IsValid() {
			p.defaultType = t
		}
	}
}

// WithDefaultCustomer sets the customer used when none is named
func WithDefaultCustomer(name string) Option {
	return func(p *Parser) {
		if name != "" {
			p.defaultCustomer = name
		}
	}
}

// WithCurrencySymbol sets the symbol used in warning messages
func WithCurrencySymbol(symbol string) Option {
	return func(p *Parser) {
		p.currencySymbol = symbol
	}
}

// WithLookupTimeout bounds each catalog lookup; zero means no bound
func WithLookupTimeout(d time.Duration) Option {
	return func(p *Parser) {
		if d > 0 {
			p.lookupTimeout = d
		}
	}
}

// WithClock replaces time.Now, used for transaction dates and relative delivery dates
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a parser. lookup may be nil, in which case no prices are auto-populated.
func New(lookup PriceLookup, logger *zap.Logger, opts ...Option) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Parser{
		lookup:          lookup,
		logger:          logger,
		defaultType:     entity.CashIn,
		defaultCustomer: entity.DefaultCustomer,
		currencySymbol:  "₹",
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
