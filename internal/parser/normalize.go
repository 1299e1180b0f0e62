package parser

import (
	"regexp"
	"strings"
)

// Lines collapses a paged document into one ordered sequence of trimmed,
// non-empty lines. Page boundaries are erased; dates that extraction split
// across consecutive lines are re-joined.
func Lines(pages []string) []string {
	var lines []string
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return joinSplitDates(lines)
}

// Extraction sometimes breaks a date across lines: "12 Mar" / "2025",
// or even "12" / "Mar" / "2025".
var (
	dayMonLine   = regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3}$`)
	yearLine     = regexp.MustCompile(`^\d{4}$`)
	shortDayLine = regexp.MustCompile(`^\d{1,2}$`)
	shortMonLine = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

func joinSplitDates(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); {
		line := lines[i]
		if i+1 < len(lines) && dayMonLine.MatchString(line) && yearLine.MatchString(lines[i+1]) {
			out = append(out, line+" "+lines[i+1])
			i += 2
			continue
		}
		if i+2 < len(lines) && shortDayLine.MatchString(line) &&
			shortMonLine.MatchString(lines[i+1]) && yearLine.MatchString(lines[i+2]) {
			out = append(out, line+" "+lines[i+1]+" "+lines[i+2])
			i += 3
			continue
		}
		out = append(out, line)
		i++
	}
	return out
}
