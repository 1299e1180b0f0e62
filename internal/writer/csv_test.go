package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func amt(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleLedger() *models.Ledger {
	return &models.Ledger{
		Meta: models.Meta{
			AccountName:    "Mrs. JANE DOE",
			AccountNumber:  "00000012345678",
			Period:         "01-01-2025 To 31-03-2025",
			OpeningBalance: amt("47030"),
			Bank:           "SBI",
			Layout:         string(models.LayoutTxnValue),
		},
		Transactions: []models.Transaction{
			{
				Date:             "10-03-2025",
				ValueDate:        "10-03-2025",
				DescriptionLine1: "WDL\u00A0TFR",
				DescriptionLine2: "UPI/DR/400123456789/JOHN DOE",
				Debit:            amt("1800"),
				Balance:          amt("45230"),
			},
			{
				Date:             "11-03-2025",
				ValueDate:        "11-03-2025",
				DescriptionLine1: "BY\u00A0TRANSFER",
				ChequeRef:        "9876543210",
				Credit:           amt("500"),
				Balance:          amt("45730"),
			},
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, sampleLedger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	// Metadata rows.
	for _, want := range []string{"# Bank,SBI", "# Account Name,Mrs. JANE DOE", "# Opening Balance,47030.00"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output", want)
		}
	}

	// Column header.
	if !strings.Contains(output, "Date,Value Date,Description,Reference,Debit,Credit,Balance") {
		t.Error("expected column headers")
	}

	// The joined description drops the non-breaking separators.
	if !strings.Contains(output, "WDL TFR / UPI/DR/400123456789/JOHN DOE") {
		t.Error("expected joined description with plain spaces")
	}
	if strings.Contains(output, "\u00A0") {
		t.Error("CSV output must not contain non-breaking spaces")
	}

	// Zero debit cells stay blank.
	if !strings.Contains(output, ",,500.00,45730.00") {
		t.Error("expected blank debit cell on the credit row")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 5 metadata lines + 1 header + 2 transactions = 8
	if len(lines) != 8 {
		t.Errorf("expected 8 lines, got %d", len(lines))
	}
}

func TestCSVWriter_NoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	if err := w.Write(&buf, sampleLedger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "# Bank") {
		t.Error("unexpected metadata rows")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 1 header + 2 transactions = 3
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d", len(lines))
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name string
		txn  models.Transaction
		want string
	}{
		{
			name: "both lines joined",
			txn:  models.Transaction{DescriptionLine1: "WDL\u00A0TFR", DescriptionLine2: "UPI/DR/1234/X"},
			want: "WDL TFR / UPI/DR/1234/X",
		},
		{
			name: "line1 only",
			txn:  models.Transaction{DescriptionLine1: "DEP"},
			want: "DEP",
		},
		{
			name: "line2 only",
			txn:  models.Transaction{DescriptionLine2: "UPI/CR/5678/Y"},
			want: "UPI/CR/5678/Y",
		},
		{
			name: "empty",
			txn:  models.Transaction{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Description(tt.txn); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
