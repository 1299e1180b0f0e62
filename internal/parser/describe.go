package parser

import (
	"regexp"
	"strings"
)

// Canonical tags keep a non-breaking separator between words so rendering
// never wraps them mid-phrase.
const nbsp = "\u00A0"

// refToken matches trailing reference fragments (cheque numbers, transfer
// account references) at the end of the description region.
var refToken = regexp.MustCompile(`^[A-Z0-9/-]{6,}$`)

// describe derives the canonical two-line description from a block's merged
// text. Line 1 is the earliest transaction-type tag; line 2 is the
// reference/payee region, cut off before the first amount token that
// follows it. Neither line ever contains a monetary token.
func (e *Engine) describe(text string, matches [][]int, refPos int) (line1, line2, chequeRef string) {
	tagStart, tagEnd, canonical := e.findTag(text)
	if tagStart >= 0 {
		line1 = strings.ReplaceAll(canonical, " ", nbsp)
	}

	switch {
	case refPos >= 0:
		end := len(text)
		for _, m := range matches {
			if m[0] > refPos {
				end = m[0]
				break
			}
		}
		line2 = text[refPos:end]
		if tagEnd >= 0 && tagEnd < refPos {
			_, chequeRef = popTrailingRef(text[tagEnd:refPos])
		}

	case tagStart >= 0:
		end := matches[0][0]
		if end < tagEnd {
			end = tagEnd
		}
		region, ref := popTrailingRef(text[tagEnd:end])
		line2 = region
		chequeRef = ref

	default:
		// Neither keyword set found: generic two-token split of the block
		// with all monetary tokens stripped.
		stripped := collapseWhitespace(amountPattern.ReplaceAllString(text, " "))
		if stripped == "" {
			return "", "", ""
		}
		parts := strings.SplitN(stripped, " ", 2)
		line1 = parts[0]
		if len(parts) > 1 {
			line2 = parts[1]
		}
	}

	line2 = collapseWhitespace(amountPattern.ReplaceAllString(line2, " "))
	return line1, line2, chequeRef
}

// findTag locates the earliest canonical transaction-type tag. If no full
// tag matches, a lone leading token ("WDL", "DEP") is accepted and extended
// forward to absorb an immediately following fragment of the tag within a
// short lookahead window.
func (e *Engine) findTag(text string) (start, end int, canonical string) {
	start, end = -1, -1

	for _, tp := range e.line1 {
		if loc := tp.re.FindStringIndex(text); loc != nil && (start < 0 || loc[0] < start) {
			start, end = loc[0], loc[1]
			canonical = tp.canonical
		}
	}
	if start >= 0 {
		return start, end, canonical
	}

	const lookahead = 12
	for _, tp := range e.line1 {
		if len(tp.restWords) == 0 {
			continue
		}
		loc := tp.firstWord.FindStringIndex(text)
		if loc == nil || (start >= 0 && loc[0] >= start) {
			continue
		}
		start, end = loc[0], loc[1]
		canonical = strings.Fields(tp.canonical)[0]

		windowEnd := end + lookahead
		if windowEnd > len(text) {
			windowEnd = len(text)
		}
		rest := strings.Join(tp.restWords, "")
		if i := strings.Index(strings.ToUpper(text[end:windowEnd]), strings.ToUpper(rest)); i >= 0 {
			end += i + len(rest)
			canonical = tp.canonical
		}
	}

	return start, end, canonical
}

// popTrailingRef pulls trailing reference-shaped tokens off a description
// region, returning the remaining text and the joined reference.
func popTrailingRef(region string) (rest, ref string) {
	tokens := strings.Fields(region)
	var refs []string
	for len(tokens) > 0 && refToken.MatchString(tokens[len(tokens)-1]) {
		refs = append([]string{tokens[len(tokens)-1]}, refs...)
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " "), strings.Join(refs, " ")
}
