// Package export renders ledger entries as spreadsheet workbooks
package export

import (
	"fmt"
	"io"

	"github.com/garyjia/shop-ledger/internal/application/port"
	"github.com/garyjia/shop-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	defaultSheet = "Ledger"
	dateLayout   = "2006-01-02 15:04"
)

var headers = []interface{}{
	"Date", "Batch", "Item", "Qty", "Unit", "Price", "Total", "Type", "Price Source", "Source Text",
}

// ExcelExporter implements port.LedgerExporter with excelize
type ExcelExporter struct {
	sheet  string
	logger *zap.Logger
}

// NewExcelExporter creates an exporter writing to the named sheet
func NewExcelExporter(sheet string, logger *zap.Logger) *ExcelExporter {
	if sheet == "" {
		sheet = defaultSheet
	}
	return &ExcelExporter{
		sheet:  sheet,
		logger: logger,
	}
}

// ContentType implements port.LedgerExporter
func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileExtension implements port.LedgerExporter
func (e *ExcelExporter) FileExtension() string {
	return ".xlsx"
}

// WriteEntries writes one row per entry followed by cash-in, cash-out and net totals
func (e *ExcelExporter) WriteEntries(w io.Writer, entries []*entity.LedgerEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", e.sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := e.writeHeader(f); err != nil {
		return err
	}

	cashIn, cashOut := decimal.Zero, decimal.Zero
	for i, entry := range entries {
		row := []interface{}{
			entry.TransactionDate.Format(dateLayout),
			entry.BatchID,
			entry.Item,
			entry.Qty,
			entry.Unit,
			entry.Price,
			entry.Total,
			string(entry.Type),
			entry.PriceSource,
			entry.SourceText,
		}
		if err := e.setRow(f, i+2, row); err != nil {
			return err
		}

		switch entry.Type {
		case entity.CashIn:
			cashIn = cashIn.Add(decimal.NewFromFloat(entry.Total))
		case entity.CashOut:
			cashOut = cashOut.Add(decimal.NewFromFloat(entry.Total))
		}
	}

	summary := len(entries) + 3
	totals := [][]interface{}{
		{"Cash in", cashIn.Round(2).InexactFloat64()},
		{"Cash out", cashOut.Round(2).InexactFloat64()},
		{"Net", cashIn.Sub(cashOut).Round(2).InexactFloat64()},
	}
	for i, row := range totals {
		cell, err := excelize.CoordinatesToCellName(6, summary+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(e.sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write totals: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		e.logger.Error("Failed to write workbook", zap.Error(err))
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Ledger exported", zap.Int("entries", len(entries)))
	return nil
}

func (e *ExcelExporter) writeHeader(f *excelize.File) error {
	if err := e.setRow(f, 1, headers); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(e.sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if err := f.SetColWidth(e.sheet, "A", "A", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(e.sheet, "B", "C", 24); err != nil {
		return err
	}
	return f.SetColWidth(e.sheet, "J", "J", 48)
}

func (e *ExcelExporter) setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(e.sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

var _ port.LedgerExporter = (*ExcelExporter)(nil)
