package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

// EnrichedItems is the outcome of a sentence parse followed by catalog price lookup
type EnrichedItems struct {
	Entries  []entity.ParsedEntry
	Warnings []string
}

type lookupOutcome struct {
	price float64
	found bool
}

// ParseSentenceWithPriceLookup parses text and fills in catalog prices for entries that were
// spoken without one. Lookups for distinct entries run concurrently; a failing lookup only
// affects its own entry.
func (p *Parser) ParseSentenceWithPriceLookup(ctx context.Context, text string) EnrichedItems {
	entries := p.ParseSentence(text)
	return EnrichedItems{
		Entries:  entries,
		Warnings: p.enrichPrices(ctx, entries),
	}
}

// enrichPrices updates entries in place and returns the provenance warnings
func (p *Parser) enrichPrices(ctx context.Context, entries []entity.ParsedEntry) []string {
	var pending []int
	for i := range entries {
		if entries[i].Price <= 0 {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	outcomes := iter.Map(pending, func(idx *int) lookupOutcome {
		return p.lookupPrice(ctx, entries[*idx].Item)
	})

	var missing, populated []string
	for i, idx := range pending {
		entry := &entries[idx]
		out := outcomes[i]
		if !out.found {
			missing = append(missing, entry.Item)
			continue
		}
		entry.Price = out.price
		entry.Total = lineTotal(entry.Qty, out.price)
		entry.PriceSource = entity.PriceSourceAutoLookup
		populated = append(populated, fmt.Sprintf("%s (%s%s)", entry.Item, p.currencySymbol, formatAmount(out.price)))
	}

	var warnings []string
	if len(missing) > 0 {
		warnings = append(warnings, "No price found for: "+strings.Join(missing, ", "))
	}
	if len(populated) > 0 {
		warnings = append(warnings, "Auto-populated prices for: "+strings.Join(populated, ", "))
	}
	return warnings
}

func (p *Parser) lookupPrice(ctx context.Context, item string) lookupOutcome {
	if p.lookup == nil {
		return lookupOutcome{}
	}
	if p.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.lookupTimeout)
		defer cancel()
	}
	price, found, err := p.lookup.LookupPrice(ctx, item)
	if err != nil {
		p.logger.Warn("Price lookup failed",
			zap.String("item", item),
			zap.Error(err))
		return lookupOutcome{}
	}
	if !found || price <= 0 {
		return lookupOutcome{}
	}
	return lookupOutcome{price: price, found: true}
}
