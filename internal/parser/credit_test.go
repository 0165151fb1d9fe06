package parser

import (
	"context"
	"testing"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseCredit_Sale(t *testing.T) {
	ctx := context.Background()

	t.Run("single item with customer", func(t *testing.T) {
		p := newTestParser(nil)
		got := p.ParseCredit(ctx, "Credit Sales 1 kg Rice for Rs 20 for Priya")

		assert.Equal(t, entity.CommandCredit, got.Type)
		assert.False(t, got.ForceReview)
		require.NotNil(t, got.Credit)
		assert.Equal(t, entity.CreditSale, got.Credit.Type)
		assert.Equal(t, "Priya", got.Credit.Customer)
		assert.Equal(t, "Rice", got.Credit.Item)
		assert.Equal(t, 1.0, got.Credit.Qty)
		assert.Equal(t, "kg", got.Credit.Unit)
		assert.Equal(t, 20.0, got.Credit.Price)
		assert.Equal(t, 20.0, got.Credit.Amount)
		assert.False(t, got.Credit.IsMultiItem())
	})

	t.Run("multiple items with catalog prices", func(t *testing.T) {
		lookup := new(mockPriceLookup)
		lookup.On("LookupPrice", mock.Anything, "Rice").Return(45.0, true, nil)
		lookup.On("LookupPrice", mock.Anything, "Dal").Return(90.0, true, nil)

		p := newTestParser(lookup)
		got := p.ParseCredit(ctx, "credit sale 2 kg rice and 1 kg dal for Ramesh")

		require.NotNil(t, got.Credit)
		assert.Equal(t, "Ramesh", got.Credit.Customer)
		require.True(t, got.Credit.IsMultiItem())
		require.Len(t, got.Credit.Items, 2)
		assert.Equal(t, 90.0, got.Credit.Items[0].Total)
		assert.Equal(t, 90.0, got.Credit.Items[1].Total)
		assert.Equal(t, 180.0, got.Credit.Amount)
		require.Len(t, got.Warnings, 1)
		assert.Contains(t, got.Warnings[0], "Auto-populated")
	})

	t.Run("missing customer defaults to walk-in", func(t *testing.T) {
		p := newTestParser(nil)
		got := p.ParseCredit(ctx, "credit sale 1 kg sugar for 40")

		require.NotNil(t, got.Credit)
		assert.Equal(t, entity.DefaultCustomer, got.Credit.Customer)
		assert.Equal(t, "Sugar", got.Credit.Item)
		assert.Equal(t, 40.0, got.Credit.Amount)
	})

	t.Run("no items", func(t *testing.T) {
		p := newTestParser(nil)
		got := p.ParseCredit(ctx, "credit sale ??? for Priya")

		assert.Equal(t, entity.CommandCredit, got.Type)
		assert.Nil(t, got.Credit)
		assert.Contains(t, got.Warnings, "Could not identify items for credit sale")
	})
}

func TestParseCredit_Payment(t *testing.T) {
	p := newTestParser(nil)
	ctx := context.Background()

	tests := []struct {
		name         string
		input        string
		wantAmount   float64
		wantCustomer string
	}{
		{"currency amount by name", "credit paid Rs 500 by Ramesh", 500, "Ramesh"},
		{"rupee symbol from name", "credit paid ₹1,200 from sita devi", 1200, "Sita Devi"},
		{"bare amount from name", "credit paid 300 from sita", 300, "Sita"},
		{"amount with suffix for name", "Credit Paid 250 rupees for Priya.", 250, "Priya"},
		{"amount only", "credit paid ₹250", 250, ""},
		{"bare amount only", "credit paid 75", 75, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.ParseCredit(ctx, tt.input)

			assert.Equal(t, entity.CommandCredit, got.Type)
			assert.True(t, got.ForceReview)
			require.NotNil(t, got.Credit)
			assert.Equal(t, entity.CreditPayment, got.Credit.Type)
			assert.Equal(t, tt.wantAmount, got.Credit.Amount)
			assert.Equal(t, tt.wantCustomer, got.Credit.Customer)
			assert.Empty(t, got.Warnings)
		})
	}
}

func TestParseCredit_PaymentFailures(t *testing.T) {
	p := newTestParser(nil)
	ctx := context.Background()

	for _, input := range []string{
		"credit paid by Ramesh",
		"credit paid 0 by Ramesh",
		"credit paid rs 0",
	} {
		t.Run(input, func(t *testing.T) {
			got := p.ParseCredit(ctx, input)

			assert.Equal(t, entity.CommandTransaction, got.Type)
			assert.Nil(t, got.Credit)
			assert.False(t, got.ForceReview)
			assert.Equal(t, []string{"Could not identify payment amount"}, got.Warnings)
		})
	}
}

func TestCreditPayload_DisplayCustomer(t *testing.T) {
	p := newTestParser(nil)
	got := p.ParseCredit(context.Background(), "credit paid 75")

	require.NotNil(t, got.Credit)
	assert.Equal(t, "", got.Credit.Customer)
	assert.Equal(t, entity.DefaultCustomer, got.Credit.DisplayCustomer())
}
