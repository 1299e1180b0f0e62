package parser

import (
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

var salutations = []string{"Mrs.", "Mr.", "M/s", "Ms."}

var openingBalanceMarkers = []string{"BROUGHT FORWARD", "BALANCE B/F"}

// extractMeta scans the full line sequence once for account metadata.
// Later matches overwrite earlier ones; no field is mandatory.
func extractMeta(lines []string) models.Meta {
	var meta models.Meta

	for _, line := range lines {
		for _, sal := range salutations {
			if strings.HasPrefix(line, sal) {
				meta.AccountName = line
				break
			}
		}

		if idx := strings.Index(line, "Account No"); idx >= 0 {
			meta.AccountNumber = strings.TrimSpace(trimLeadingPunct(line[idx+len("Account No"):]))
		}

		if idx := strings.Index(line, "Statement From"); idx >= 0 {
			meta.Period = strings.TrimSpace(trimLeadingPunct(line[idx+len("Statement From"):]))
		}

		upper := strings.ToUpper(line)
		for _, marker := range openingBalanceMarkers {
			if strings.HasPrefix(upper, marker) {
				if toks := amountPattern.FindAllString(line, -1); len(toks) > 0 {
					meta.OpeningBalance = DecodeAmount(toks[len(toks)-1])
				}
				break
			}
		}
	}

	return meta
}

// trimLeadingPunct drops separators left over after a label is cut off,
// e.g. ": 1234" or ". 1234".
func trimLeadingPunct(s string) string {
	return strings.TrimLeft(s, " \t:.-")
}
