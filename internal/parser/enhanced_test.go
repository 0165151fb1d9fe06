package parser

import (
	"context"
	"testing"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnhanced_EmptyInput(t *testing.T) {
	p := newTestParser(nil)

	for _, input := range []string{"", "   ", "\n\t"} {
		got := p.ParseEnhanced(context.Background(), input)
		assert.Equal(t, entity.ParsedResult{
			Type:       entity.CommandTransaction,
			Warnings:   []string{"Empty input text"},
			SourceText: "",
		}, got)
	}
}

func TestParseEnhanced_Routing(t *testing.T) {
	p := newTestParser(mapLookup{"Rice": 45})
	ctx := context.Background()

	tests := []struct {
		name        string
		input       string
		wantType    entity.CommandType
		wantPayload bool
	}{
		{"credit sale", "Credit Sales 1 kg Rice for Rs 20 for Priya", entity.CommandCredit, true},
		{"credit payment", "credit paid 500 by Ramesh", entity.CommandCredit, true},
		{"order", "order 2 kg rice for Priya", entity.CommandOrder, true},
		{"price update", "rice price 40", entity.CommandPrice, true},
		{"transaction", "sold 2 kg rice", entity.CommandTransaction, true},
		{"unrecognizable", "!!!", entity.CommandTransaction, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ParseEnhanced(ctx, tt.input)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantPayload, got.HasPayload())
			assert.Equal(t, tt.input, got.SourceText)
			assert.NotNil(t, got.Warnings)
		})
	}
}

func TestParseEnhanced_Transaction(t *testing.T) {
	p := newTestParser(mapLookup{"Rice": 45})
	got := p.ParseEnhanced(context.Background(), "sold 2 kg rice")

	require.Len(t, got.Entries, 1)
	entry := got.Entry()
	require.NotNil(t, entry)
	assert.Equal(t, 45.0, entry.Price)
	assert.Equal(t, 90.0, entry.Total)
	assert.Equal(t, entity.CashIn, entry.Type)
	assert.Equal(t, []string{"Auto-populated prices for: Rice (₹45)"}, got.Warnings)
}

func TestParseEnhanced_UnrecognizableTransaction(t *testing.T) {
	p := newTestParser(nil)
	got := p.ParseEnhanced(context.Background(), "!!!")

	assert.Nil(t, got.Entries)
	assert.Nil(t, got.Entry())
	assert.Equal(t, []string{"Could not identify any items"}, got.Warnings)
}

func TestParseEnhanced_PaymentForcesReview(t *testing.T) {
	p := newTestParser(nil)
	got := p.ParseEnhanced(context.Background(), "  credit paid Rs 500 by Ramesh")

	require.NotNil(t, got.Credit)
	assert.True(t, got.ForceReview)
	assert.Equal(t, 500.0, got.Credit.Amount)
}
