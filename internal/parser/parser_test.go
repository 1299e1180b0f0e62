package parser

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

const txnHeader = "Txn Date Value Date Description Ref No./Cheque No. Debit Credit Balance"

func newTxnEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewForLayout(models.LayoutTxnValue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func amt(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestParse_CanonicalRow(t *testing.T) {
	e := newTxnEngine(t)

	page := txnHeader + "\n" +
		"10-03-2025 10-03-2025 WDL TFR UPI/DR/400123456789/JOHN DOE 1,800.00 45,230.00"
	ledger := e.Parse([]string{page})

	if len(ledger.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(ledger.Transactions))
	}
	txn := ledger.Transactions[0]

	if txn.Date != "10-03-2025" {
		t.Errorf("date: got %q", txn.Date)
	}
	if txn.ValueDate != "10-03-2025" {
		t.Errorf("value date: got %q", txn.ValueDate)
	}
	if txn.DescriptionLine1 != "WDL\u00A0TFR" {
		t.Errorf("line1: got %q, want %q", txn.DescriptionLine1, "WDL\u00A0TFR")
	}
	if txn.DescriptionLine2 != "UPI/DR/400123456789/JOHN DOE" {
		t.Errorf("line2: got %q", txn.DescriptionLine2)
	}
	if !txn.Debit.Equal(amt("1800.00")) {
		t.Errorf("debit: got %s", txn.Debit)
	}
	if !txn.Credit.IsZero() {
		t.Errorf("credit: got %s, want 0", txn.Credit)
	}
	if !txn.Balance.Equal(amt("45230.00")) {
		t.Errorf("balance: got %s", txn.Balance)
	}
}

func TestParse_NoHeaderYieldsEmptyLedger(t *testing.T) {
	e := newTxnEngine(t)

	// Rows without a preceding header band are invisible.
	page := "10-03-2025 10-03-2025 WDL TFR UPI/DR/1234/X 1,800.00 45,230.00\n" +
		"Some other text"
	ledger := e.Parse([]string{page})

	if ledger == nil {
		t.Fatal("expected a ledger, got nil")
	}
	if len(ledger.Transactions) != 0 {
		t.Errorf("expected 0 transactions, got %d", len(ledger.Transactions))
	}
}

func TestParse_OpeningBalanceFromBroughtForward(t *testing.T) {
	e := newTxnEngine(t)

	page := "BROUGHT FORWARD 10,245.00CR\n" +
		txnHeader + "\n" +
		"10-03-2025 10-03-2025 WDL TFR UPI/DR/1234/X 1,800.00 8,445.00"
	ledger := e.Parse([]string{page})

	if !ledger.Meta.OpeningBalance.Equal(amt("10245.00")) {
		t.Errorf("opening balance: got %s, want 10245.00", ledger.Meta.OpeningBalance)
	}
}

func TestParse_InfersOpeningBalanceFromFirstRow(t *testing.T) {
	e := newTxnEngine(t)

	page := txnHeader + "\n" +
		"10-03-2025 10-03-2025 WDL TFR UPI/DR/1234/X 1,800.00 45,230.00"
	ledger := e.Parse([]string{page})

	// opening = balance + debit - credit of the first row.
	if !ledger.Meta.OpeningBalance.Equal(amt("47030.00")) {
		t.Errorf("opening balance: got %s, want 47030.00", ledger.Meta.OpeningBalance)
	}
}

func TestParse_TerminatorEndsTable(t *testing.T) {
	e := newTxnEngine(t)

	page := txnHeader + "\n" +
		"10-03-2025 10-03-2025 WDL TFR UPI/DR/1234/X 1,800.00 45,230.00\n" +
		"CLOSING BALANCE 45,230.00\n" +
		"11-03-2025 11-03-2025 DEP TFR UPI/CR/5678/Y 500.00 45,730.00"
	ledger := e.Parse([]string{page})

	if len(ledger.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(ledger.Transactions))
	}
}

func TestParse_RepeatedHeaderResumesTable(t *testing.T) {
	e := newTxnEngine(t)

	// Page footer terminates the table; the repeated header on the next
	// page re-opens it.
	pages := []string{
		txnHeader + "\n" +
			"10-03-2025 10-03-2025 WDL TFR UPI/DR/1234/X 1,800.00 45,230.00\n" +
			"Page No. 1",
		txnHeader + "\n" +
			"11-03-2025 11-03-2025 BY TRANSFER NEFT CREDIT 500.00 45,730.00",
	}
	ledger := e.Parse(pages)

	if len(ledger.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(ledger.Transactions))
	}
	if ledger.Transactions[1].Date != "11-03-2025" {
		t.Errorf("second row date: got %q", ledger.Transactions[1].Date)
	}
}

func TestParse_MidLineDateIsNotARowStart(t *testing.T) {
	e := newTxnEngine(t)

	// The continuation line carries a date-shaped token mid-line; it must
	// extend the open block, not open a new one.
	page := txnHeader + "\n" +
		"10-03-2025 10-03-2025 WDL TFR UPI/DR/400123456789/JOHN DOE 1,800.00 45,230.00\n" +
		"Ref dated 12-03-2025 ABCDEF"
	ledger := e.Parse([]string{page})

	if len(ledger.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(ledger.Transactions))
	}
	if ledger.Transactions[0].DescriptionLine2 != "UPI/DR/400123456789/JOHN DOE" {
		t.Errorf("line2: got %q", ledger.Transactions[0].DescriptionLine2)
	}
}

func TestParse_SingleLeadingDateIsContinuation(t *testing.T) {
	e := newTxnEngine(t)

	// One leading date does not satisfy the two-date row grammar. With no
	// open block the line is dropped.
	page := txnHeader + "\n" +
		"12-03-2025 SOMETHING 1.00"
	ledger := e.Parse([]string{page})

	if len(ledger.Transactions) != 0 {
		t.Fatalf("expected 0 transactions, got %d", len(ledger.Transactions))
	}
}

func TestParse_RowWithoutAmountsKeepsDates(t *testing.T) {
	e := newTxnEngine(t)

	page := txnHeader + "\n" +
		"10-03-2025 10-03-2025 REVERSAL PENDING"
	ledger := e.Parse([]string{page})

	if len(ledger.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(ledger.Transactions))
	}
	txn := ledger.Transactions[0]
	if txn.Date != "10-03-2025" {
		t.Errorf("date: got %q", txn.Date)
	}
	if !txn.Debit.IsZero() || !txn.Credit.IsZero() || !txn.Balance.IsZero() {
		t.Errorf("expected zero amounts, got debit=%s credit=%s balance=%s",
			txn.Debit, txn.Credit, txn.Balance)
	}
}

func TestParse_MultiLineBlockMerges(t *testing.T) {
	e := newTxnEngine(t)

	page := txnHeader + "\n" +
		"10-03-2025 10-03-2025 WDL TFR\n" +
		"UPI/DR/400123456789/JOHN\n" +
		"DOE 1,800.00 45,230.00"
	ledger := e.Parse([]string{page})

	if len(ledger.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(ledger.Transactions))
	}
	txn := ledger.Transactions[0]
	if txn.DescriptionLine2 != "UPI/DR/400123456789/JOHN DOE" {
		t.Errorf("line2: got %q", txn.DescriptionLine2)
	}
	if !txn.Debit.Equal(amt("1800.00")) {
		t.Errorf("debit: got %s", txn.Debit)
	}
}

func TestParse_ArtifactFixes(t *testing.T) {
	e := newTxnEngine(t)

	page := txnHeader + "\n" +
		"10-03-2025 10-03-2025 WDL TFR UPI DR/400123456789/JOHN DOE 1,800.00 45,230.00"
	ledger := e.Parse([]string{page})

	if len(ledger.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(ledger.Transactions))
	}
	if got := ledger.Transactions[0].DescriptionLine2; got != "UPI/DR/400123456789/JOHN DOE" {
		t.Errorf("line2: got %q, want artifact rewritten to UPI/DR", got)
	}
}

func TestParse_DebitCreditExclusive(t *testing.T) {
	e := newTxnEngine(t)

	page := txnHeader + "\n" +
		"10-03-2025 10-03-2025 WDL TFR UPI/DR/1234/X 1,800.00 45,230.00\n" +
		"11-03-2025 11-03-2025 BY TRANSFER NEFT SALARY 5,000.00 50,230.00\n" +
		"12-03-2025 12-03-2025 MISC CHARGE 300.00DR 49,930.00\n" +
		"13-03-2025 13-03-2025 REFUND 150.00CR 50,080.00"
	ledger := e.Parse([]string{page})

	if len(ledger.Transactions) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(ledger.Transactions))
	}
	for i, txn := range ledger.Transactions {
		if !txn.Debit.IsZero() && !txn.Credit.IsZero() {
			t.Errorf("row %d: both debit (%s) and credit (%s) set", i, txn.Debit, txn.Credit)
		}
	}
}

func TestParse_DescriptionsNeverContainAmounts(t *testing.T) {
	e := newTxnEngine(t)

	page := txnHeader + "\n" +
		"10-03-2025 10-03-2025 WDL TFR UPI/DR/1234/X 1,800.00 45,230.00\n" +
		"11-03-2025 11-03-2025 SALARY CREDIT NEFT 5,000.00 50,230.00\n" +
		"12-03-2025 12-03-2025 TO TRANSFER 9876543210 500.00 49,730.00"
	ledger := e.Parse([]string{page})

	for i, txn := range ledger.Transactions {
		if amountPattern.MatchString(txn.DescriptionLine1) {
			t.Errorf("row %d: line1 %q contains a monetary token", i, txn.DescriptionLine1)
		}
		if amountPattern.MatchString(txn.DescriptionLine2) {
			t.Errorf("row %d: line2 %q contains a monetary token", i, txn.DescriptionLine2)
		}
	}
}

func TestParse_StampsBankAndLayout(t *testing.T) {
	e := newTxnEngine(t)

	ledger := e.Parse([]string{"no table here"})
	if ledger.Meta.Bank != "SBI" {
		t.Errorf("bank: got %q", ledger.Meta.Bank)
	}
	if ledger.Meta.Layout != string(models.LayoutTxnValue) {
		t.Errorf("layout: got %q", ledger.Meta.Layout)
	}
}

func TestNewForLayout_Unknown(t *testing.T) {
	if _, err := NewForLayout("NO_SUCH_LAYOUT"); err == nil {
		t.Error("expected error for unknown layout, got nil")
	}
}
