package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// CSVWriter writes a ledger to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the ledger to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, ledger *models.Ledger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, ledger)
}

// Write writes the ledger in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, ledger *models.Ledger) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		meta := ledger.Meta
		if meta.Bank != "" {
			writer.Write([]string{"# Bank", meta.Bank})
		}
		if meta.AccountName != "" {
			writer.Write([]string{"# Account Name", meta.AccountName})
		}
		if meta.AccountNumber != "" {
			writer.Write([]string{"# Account Number", meta.AccountNumber})
		}
		if meta.Period != "" {
			writer.Write([]string{"# Period", meta.Period})
		}
		writer.Write([]string{"# Opening Balance", meta.OpeningBalance.StringFixed(2)})
	}

	header := []string{"Date", "Value Date", "Description", "Reference", "Debit", "Credit", "Balance"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range ledger.Transactions {
		row := []string{
			txn.Date,
			txn.ValueDate,
			Description(txn),
			txn.ChequeRef,
			blankIfZero(txn.Debit),
			blankIfZero(txn.Credit),
			txn.Balance.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// Description joins the two description lines for single-cell output,
// dropping the non-breaking separators used by the PDF renderer.
func Description(txn models.Transaction) string {
	d := txn.DescriptionLine1
	if txn.DescriptionLine2 != "" {
		if d != "" {
			d += " / "
		}
		d += txn.DescriptionLine2
	}
	return strings.ReplaceAll(d, "\u00A0", " ")
}

func blankIfZero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}
