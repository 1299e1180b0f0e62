package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern matches monetary literals: digit groups separated by
// commas, a decimal point, exactly two fraction digits, and an optional
// glued CR/DR suffix. There is deliberately no left word boundary —
// extraction artifacts often glue a payee name straight onto an amount.
var amountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}(?:CR|DR)?`)

// DecodeAmount converts an amount token like "1,800.00" or "10,245.00CR"
// to a decimal. Unparsable text decodes to zero rather than failing.
func DecodeAmount(tok string) decimal.Decimal {
	s := strings.TrimSpace(tok)
	s = strings.TrimSuffix(s, "CR")
	s = strings.TrimSuffix(s, "DR")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// classifyAmounts selects the balance and transaction-amount tokens from a
// block's merged text and splits the amount into debit or credit.
//
// The last amount match is always the running balance — statements print
// balance as the final column. The transaction amount is preferentially
// the match inside the reference/payee region (after refPos) and before
// the balance; failing that, the second-to-last match overall, or the only
// match if just one exists. This fallback order is a best-effort policy
// and must not be reordered.
func (e *Engine) classifyAmounts(text string, matches [][]int, refPos int) (debit, credit, balance decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero

	last := matches[len(matches)-1]
	balance = DecodeAmount(text[last[0]:last[1]])

	amtIdx := -1
	if refPos >= 0 {
		for i, m := range matches[:len(matches)-1] {
			if m[0] > refPos {
				amtIdx = i
				break
			}
		}
	}
	if amtIdx < 0 {
		if len(matches) >= 2 {
			amtIdx = len(matches) - 2
		} else {
			amtIdx = 0
		}
	}

	tok := text[matches[amtIdx][0]:matches[amtIdx][1]]
	amount := DecodeAmount(tok)

	// A CR suffix always forces credit; a DR suffix forces debit; with no
	// suffix the block's keyword table decides.
	switch {
	case strings.HasSuffix(tok, "CR"):
		credit = amount
	case strings.HasSuffix(tok, "DR"):
		debit = amount
	case containsAnyFold(text, e.cfg.DebitKeywords):
		debit = amount
	default:
		credit = amount
	}

	return debit, credit, balance
}
