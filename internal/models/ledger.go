package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction represents a single ledger row. At most one of Debit and
// Credit is non-zero; the description lines never contain a monetary token.
type Transaction struct {
	Date             string          `json:"date"`
	ValueDate        string          `json:"value_date"`
	DescriptionLine1 string          `json:"description_line1"`
	DescriptionLine2 string          `json:"description_line2"`
	ChequeRef        string          `json:"cheque_ref"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	Balance          decimal.Decimal `json:"balance"`
}

// Meta holds statement-level metadata extracted alongside the transactions.
type Meta struct {
	AccountName    string          `json:"account_name"`
	AccountNumber  string          `json:"account_number"`
	Period         string          `json:"period"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Bank           string          `json:"bank"`
	Layout         string          `json:"layout"`
}

// Ledger is the top-level parse artifact: metadata plus transactions in
// document order. The order is chronological and is never rearranged.
type Ledger struct {
	Meta         Meta          `json:"meta"`
	Transactions []Transaction `json:"transactions"`
}

// LayoutType identifies a statement column format.
type LayoutType string

const (
	LayoutPostValue LayoutType = "SBI_POST_VALUE"
	LayoutTxnValue  LayoutType = "SBI_TXN_VALUE"
)

// InferOpeningBalance back-fills a missing opening balance from the first
// transaction: opening = first.balance + first.debit - first.credit.
// With no transactions the opening balance stays zero.
func (l *Ledger) InferOpeningBalance() {
	if !l.Meta.OpeningBalance.IsZero() || len(l.Transactions) == 0 {
		return
	}
	first := l.Transactions[0]
	l.Meta.OpeningBalance = first.Balance.Add(first.Debit).Sub(first.Credit)
}

// FormatAmount renders a decimal with thousands separators and two fraction
// digits, e.g. 45230 -> "45,230.00".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(fracPart)
	return b.String()
}
