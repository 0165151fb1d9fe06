package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExcelExporter_WriteEntries(t *testing.T) {
	when := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	entries := []*entity.LedgerEntry{
		{BatchID: "b1", Item: "Rice", Qty: 2, Unit: "kg", Price: 40.1, Total: 80.2,
			Type: entity.CashIn, PriceSource: entity.PriceSourceParsed, TransactionDate: when},
		{BatchID: "b1", Item: "Biscuit", Qty: 1, Unit: "packet", Price: 10.1, Total: 10.1,
			Type: entity.CashIn, PriceSource: entity.PriceSourceAutoLookup, TransactionDate: when},
		{BatchID: "b2", Item: "Diesel", Qty: 1, Price: 50, Total: 50,
			Type: entity.CashOut, PriceSource: entity.PriceSourceParsed, TransactionDate: when},
	}

	exporter := NewExcelExporter("", zap.NewNop())
	var buf bytes.Buffer
	require.NoError(t, exporter.WriteEntries(&buf, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Ledger"}, f.GetSheetList())

	cell := func(axis string) string {
		v, err := f.GetCellValue("Ledger", axis)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Date", cell("A1"))
	assert.Equal(t, "Source Text", cell("J1"))
	assert.Equal(t, "2026-10-16 09:30", cell("A2"))
	assert.Equal(t, "Rice", cell("C2"))
	assert.Equal(t, "auto-lookup", cell("I3"))
	assert.Equal(t, "cash-out", cell("H4"))

	assert.Equal(t, "Cash in", cell("F6"))
	assert.Equal(t, "90.3", cell("G6"))
	assert.Equal(t, "50", cell("G7"))
	assert.Equal(t, "Net", cell("F8"))
	assert.Equal(t, "40.3", cell("G8"))
}

func TestExcelExporter_Empty(t *testing.T) {
	exporter := NewExcelExporter("Shop", zap.NewNop())
	var buf bytes.Buffer
	require.NoError(t, exporter.WriteEntries(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Shop", "G5")
	require.NoError(t, err)
	assert.Equal(t, "0", v)
	assert.Equal(t, ".xlsx", exporter.FileExtension())
}
