package parser

import (
	"testing"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleItem(t *testing.T) {
	p := newTestParser(nil)

	tests := []struct {
		name     string
		input    string
		expected entity.ParsedEntry
	}{
		{
			name:  "default quantity",
			input: "sold rice for 20 rupees",
			expected: entity.ParsedEntry{
				Item: "Rice", Qty: 1, Unit: "", Price: 20, Total: 20, Type: entity.CashIn,
			},
		},
		{
			name:  "purchase",
			input: "bought 2 kg sugar for 80",
			expected: entity.ParsedEntry{
				Item: "Sugar", Qty: 2, Unit: "kg", Price: 80, Total: 160, Type: entity.CashOut,
			},
		},
		{
			name:  "special brand keeps its name",
			input: "2 packets parle-g",
			expected: entity.ParsedEntry{
				Item: "Parle G", Qty: 2, Unit: "packet", Price: 0, Total: 0, Type: entity.CashIn,
			},
		},
		{
			name:  "brand without unit defaults to packet",
			input: "sold maggi noodles for 14",
			expected: entity.ParsedEntry{
				Item: "Maggi Noodles", Qty: 1, Unit: "packet", Price: 14, Total: 14, Type: entity.CashIn,
			},
		},
		{
			name:  "paid by a customer is not an expense",
			input: "5 kg atta paid by Ramesh",
			expected: entity.ParsedEntry{
				Item: "Atta Ramesh", Qty: 5, Unit: "kg", Price: 0, Total: 0, Type: entity.CashIn,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.ParseSingleItem(tt.input)
			require.True(t, res.OK(), "skipped: %s", res.Skip)

			got := res.Entry
			assert.Equal(t, tt.expected.Item, got.Item)
			assert.Equal(t, tt.expected.Qty, got.Qty)
			assert.Equal(t, tt.expected.Unit, got.Unit)
			assert.Equal(t, tt.expected.Price, got.Price)
			assert.Equal(t, tt.expected.Total, got.Total)
			assert.Equal(t, tt.expected.Type, got.Type)
			assert.Equal(t, entity.PriceSourceParsed, got.PriceSource)
			assert.Equal(t, fixedNow, got.TransactionDate)
		})
	}
}

func TestParseSingleItem_Skips(t *testing.T) {
	p := newTestParser(nil)

	assert.Equal(t, SkipEmptyChunk, p.ParseSingleItem("   ").Skip)
	assert.Equal(t, SkipUnknownItem, p.ParseSingleItem("2 kg").Skip)
	assert.Nil(t, p.ParseSingleItem("2 kg").Entry)
}

func TestParseSingleItem_DefaultTypePolicy(t *testing.T) {
	p := newTestParser(nil, WithDefaultType(entity.CashOut))

	res := p.ParseSingleItem("2 kg rice")
	require.True(t, res.OK())
	assert.Equal(t, entity.CashOut, res.Entry.Type)

	// currency without a verb still reads as a sale
	res = p.ParseSingleItem("2 kg rice rs 80")
	require.True(t, res.OK())
	assert.Equal(t, entity.CashIn, res.Entry.Type)
}

func TestParseSingleItem_BareAmounts(t *testing.T) {
	p := newTestParser(nil)
	tests := []struct {
		input     string
		item      string
		price     float64
		entryType entity.EntryType
	}{
		{"paid electricity bill 500", "Electricity", 500, entity.CashOut},
		{"spent 200 on tea", "Tea", 200, entity.CashOut},
		{"bought rice 60", "Rice", 60, entity.CashOut},
		{"received 500 from Ramesh", "Ramesh", 500, entity.CashIn},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res := p.ParseSingleItem(tt.input)
			require.True(t, res.OK())
			assert.Equal(t, tt.item, res.Entry.Item)
			assert.Equal(t, 1.0, res.Entry.Qty)
			assert.Equal(t, tt.price, res.Entry.Price)
			assert.Equal(t, tt.price, res.Entry.Total)
			assert.Equal(t, tt.entryType, res.Entry.Type)
		})
	}
}

func TestParseSingleItem_GarbageNeverPanics(t *testing.T) {
	p := newTestParser(nil)
	inputs := []string{
		"!!! ??? ###",
		"and and and",
		"12345",
		"₹₹₹",
		"for for for",
		"rs.",
		"kg kg 2 2 ,,, and",
		"\t\n",
		"ऊँ नमः",
	}

	for _, input := range inputs {
		assert.NotPanics(t, func() {
			res := p.ParseSingleItem(input)
			if res.OK() {
				assert.True(t, res.Entry.Valid())
			}
		}, input)
	}
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"and", "2 kg rice and 1 packet biscuit", []string{"2 kg rice", "1 packet biscuit"}},
		{"comma keeps thousands", "tv 1,200, sugar 40", []string{"tv 1200", "sugar 40"}},
		{"sentence boundary before digit", "bought rice. 2 kg sugar", []string{"bought rice", "2 kg sugar"}},
		{"pipe", "rice | dal", []string{"rice", "dal"}},
		{"and inside a word", "sandy bread", []string{"sandy bread"}},
		{"empty", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitChunks(tt.input))
		})
	}
}

func TestParseSentence(t *testing.T) {
	p := newTestParser(nil)

	t.Run("empty input", func(t *testing.T) {
		entries := p.ParseSentence("")
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("multi item split", func(t *testing.T) {
		entries := p.ParseSentence("2 kg rice and 1 packet biscuit")
		require.Len(t, entries, 2)
		assert.Equal(t, "Rice", entries[0].Item)
		assert.Equal(t, 2.0, entries[0].Qty)
		assert.Equal(t, "kg", entries[0].Unit)
		assert.Equal(t, "Biscuit", entries[1].Item)
		assert.Equal(t, 1.0, entries[1].Qty)
		assert.Equal(t, "packet", entries[1].Unit)
	})

	t.Run("chunks inherit the sentence verb", func(t *testing.T) {
		entries := p.ParseSentence("bought 2 kg rice for 80, 1 kg sugar for 40")
		require.Len(t, entries, 2)
		assert.Equal(t, entity.CashOut, entries[0].Type)
		assert.Equal(t, entity.CashOut, entries[1].Type)
		assert.Equal(t, "Sugar", entries[1].Item)
		assert.Equal(t, 40.0, entries[1].Total)
	})

	t.Run("unparseable chunks are skipped", func(t *testing.T) {
		entries := p.ParseSentence("2 kg rice, 5")
		require.Len(t, entries, 1)
		assert.Equal(t, "Rice", entries[0].Item)
	})

	t.Run("nothing recognizable", func(t *testing.T) {
		entries := p.ParseSentence("!!!, ???")
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}

func TestParseSentence_TotalInvariant(t *testing.T) {
	p := newTestParser(nil)
	inputs := []string{
		"sold 2.5 kg rice for 45.5",
		"3 bottles oil at 120.75 each",
		"bought 7 packets maggi for 12.35",
		"sold 1.333 kg paneer for rs 360",
		"2 kg rice and 1 packet biscuit for 10",
	}

	for _, input := range inputs {
		for _, e := range p.ParseSentence(input) {
			assert.InDelta(t, e.Qty*e.Price, e.Total, 0.01, input)
		}
	}
}
