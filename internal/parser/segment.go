package parser

import "strings"

// block is the raw group of lines belonging to one transaction, created by
// the segmenter and discarded once classified.
type block struct {
	date      string
	valueDate string
	lines     []string
}

// segment groups the table-mode line stream into per-transaction blocks.
//
// The scan has three modes: before the header band every line is invisible;
// once a line carrying all header markers appears, row scanning starts; a
// terminator marker flushes the open block and drops back to header
// scanning, so tables that repeat their header on every page parse fully.
//
// A row starts only when a line begins with two consecutive date tokens.
// A date-shaped token mid-line (inside a reference number, say) must never
// open a row, which is why the grammar is anchored at position 0. A line
// with only one leading date is a continuation of the current block.
func (e *Engine) segment(lines []string) []block {
	var blocks []block
	var current *block
	inTable := false

	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
			current = nil
		}
	}

	for _, line := range lines {
		upper := strings.ToUpper(line)

		if !inTable {
			if e.isHeaderBand(upper) {
				inTable = true
			}
			continue
		}

		if e.isTerminator(upper) {
			flush()
			inTable = false
			continue
		}

		if m := e.rowStart.FindStringSubmatch(line); m != nil {
			flush()
			current = &block{
				date:      collapseWhitespace(m[1]),
				valueDate: collapseWhitespace(m[2]),
			}
			if rest := strings.TrimSpace(m[3]); rest != "" {
				current.lines = append(current.lines, rest)
			}
			continue
		}

		if current != nil {
			current.lines = append(current.lines, line)
		}
	}

	flush()
	return blocks
}

func (e *Engine) isHeaderBand(upper string) bool {
	if len(e.cfg.HeaderMarkers) == 0 {
		return false
	}
	for _, marker := range e.cfg.HeaderMarkers {
		if !strings.Contains(upper, marker) {
			return false
		}
	}
	return true
}

func (e *Engine) isTerminator(upper string) bool {
	for _, marker := range e.cfg.TerminatorMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}
