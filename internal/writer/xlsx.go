package writer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

var xlsxColumns = []string{"Date", "Value Date", "Description", "Reference", "Debit", "Credit", "Balance"}

// XLSXWriter writes a ledger to an Excel (.xlsx) workbook.
type XLSXWriter struct{}

// Write builds the workbook and returns its bytes.
func (w *XLSXWriter) Write(ledger *models.Ledger) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	// Header row, bold.
	for i, name := range xlsxColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(xlsxColumns), 1)
	f.SetCellStyle(sheet, first, last, style)

	for rowIdx, txn := range ledger.Transactions {
		values := []interface{}{
			txn.Date,
			txn.ValueDate,
			Description(txn),
			txn.ChequeRef,
			cellAmount(txn.Debit.IsZero(), txn.Debit.InexactFloat64()),
			cellAmount(txn.Credit.IsZero(), txn.Credit.InexactFloat64()),
			txn.Balance.InexactFloat64(),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if v != nil {
				f.SetCellValue(sheet, cell, v)
			}
		}
	}

	// Approximate column widths.
	for i, name := range xlsxColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(name) + 4)
		if i == 2 {
			width = 40
		}
		if width < 12 {
			width = 12
		}
		f.SetColWidth(sheet, colName, colName, width)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// cellAmount leaves zero debit/credit cells empty, matching the rendered
// statement table.
func cellAmount(zero bool, v float64) interface{} {
	if zero {
		return nil
	}
	return v
}
