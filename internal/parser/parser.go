// Package parser turns the text recovered from a paged statement document
// into a structured ledger. The whole pass is a single-threaded, pure
// transform: malformed fragments degrade to zero values instead of failing
// the document.
package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/layout"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Engine parses extracted statement text using one layout configuration.
type Engine struct {
	cfg      *layout.Config
	rowStart *regexp.Regexp
	line1    []tagPattern
	fixKeys  []string
}

type tagPattern struct {
	canonical string
	re        *regexp.Regexp
	firstWord *regexp.Regexp
	restWords []string
}

// New builds an engine for the given layout configuration.
func New(cfg *layout.Config) (*Engine, error) {
	rowStart, err := regexp.Compile(`^(` + cfg.DateGrammar + `)\s+(` + cfg.DateGrammar + `)(?:\s+(.*))?$`)
	if err != nil {
		return nil, fmt.Errorf("invalid date grammar for layout %q: %w", cfg.Name, err)
	}

	e := &Engine{cfg: cfg, rowStart: rowStart}

	for _, kw := range cfg.Line1Keywords {
		words := strings.Fields(kw)
		if len(words) == 0 {
			continue
		}
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		// \s* between words tolerates glued tokens like "WDLTFR".
		re, err := regexp.Compile(`(?i)` + strings.Join(quoted, `\s*`))
		if err != nil {
			return nil, fmt.Errorf("invalid line-1 keyword %q: %w", kw, err)
		}
		e.line1 = append(e.line1, tagPattern{
			canonical: strings.Join(words, " "),
			re:        re,
			firstWord: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(words[0]) + `\b`),
			restWords: words[1:],
		})
	}

	// Apply artifact fixes in a stable order.
	e.fixKeys = make([]string, 0, len(cfg.ArtifactFixes))
	for k := range cfg.ArtifactFixes {
		e.fixKeys = append(e.fixKeys, k)
	}
	sort.Strings(e.fixKeys)

	return e, nil
}

// NewForLayout builds an engine for a registered layout type.
func NewForLayout(t models.LayoutType) (*Engine, error) {
	cfg, err := layout.Builtin(t)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// Layout returns the configuration the engine was built with.
func (e *Engine) Layout() *layout.Config {
	return e.cfg
}

// Parse converts per-page text blobs into a ledger. It never fails: input
// that matches nothing yields an empty transaction list, and unparsable
// fragments decode to zero values.
func (e *Engine) Parse(pages []string) *models.Ledger {
	lines := Lines(pages)

	ledger := &models.Ledger{
		Meta:         extractMeta(lines),
		Transactions: []models.Transaction{},
	}
	ledger.Meta.Bank = e.cfg.Bank
	ledger.Meta.Layout = e.cfg.Name

	for _, b := range e.segment(lines) {
		ledger.Transactions = append(ledger.Transactions, e.buildTransaction(b))
	}

	ledger.InferOpeningBalance()
	return ledger
}

// buildTransaction classifies one segmented block into a ledger row.
func (e *Engine) buildTransaction(b block) models.Transaction {
	txn := models.Transaction{
		Date:      b.date,
		ValueDate: b.valueDate,
	}

	merged := e.mergeBlock(b.lines)
	matches := amountPattern.FindAllStringIndex(merged, -1)
	if len(matches) == 0 {
		// No monetary tokens at all — emit the row with zero amounts.
		return txn
	}

	refPos := e.line2Pos(merged)
	txn.Debit, txn.Credit, txn.Balance = e.classifyAmounts(merged, matches, refPos)
	txn.DescriptionLine1, txn.DescriptionLine2, txn.ChequeRef = e.describe(merged, matches, refPos)
	return txn
}

// mergeBlock joins a block's lines, collapses whitespace and applies the
// layout's artifact substitution table.
func (e *Engine) mergeBlock(lines []string) string {
	merged := strings.Join(lines, " ")
	merged = collapseWhitespace(merged)
	for _, k := range e.fixKeys {
		merged = strings.ReplaceAll(merged, k, e.cfg.ArtifactFixes[k])
	}
	return merged
}

// line2Pos finds the earliest occurrence of any reference-prefix in the
// block text, or -1.
func (e *Engine) line2Pos(text string) int {
	pos := -1
	for _, prefix := range e.cfg.Line2Prefixes {
		if i := strings.Index(text, prefix); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}
	return pos
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func containsAnyFold(text string, needles []string) bool {
	upper := strings.ToUpper(text)
	for _, n := range needles {
		if strings.Contains(upper, strings.ToUpper(n)) {
			return true
		}
	}
	return false
}
