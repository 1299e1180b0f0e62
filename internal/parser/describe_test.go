package parser

import (
	"testing"
)

func TestDescribe(t *testing.T) {
	e := newTxnEngine(t)

	tests := []struct {
		name      string
		text      string
		line1     string
		line2     string
		chequeRef string
	}{
		{
			name:  "tag and reference region",
			text:  "WDL TFR UPI/DR/400123456789/JOHN DOE 1,800.00 45,230.00",
			line1: "WDL\u00A0TFR",
			line2: "UPI/DR/400123456789/JOHN DOE",
		},
		{
			name:  "glued tag tokens",
			text:  "WDLTFR UPI/DR/4001/JOHN 1,800.00 45,230.00",
			line1: "WDL\u00A0TFR",
			line2: "UPI/DR/4001/JOHN",
		},
		{
			name:      "trailing cheque reference after tag",
			text:      "TO TRANSFER 9876543210 500.00 1,500.00",
			line1:     "TO\u00A0TRANSFER",
			line2:     "",
			chequeRef: "9876543210",
		},
		{
			name:  "no keywords falls back to generic split",
			text:  "SALARY CREDIT NEFT 5,000.00 12,000.00",
			line1: "SALARY",
			line2: "CREDIT NEFT",
		},
		{
			name:  "reference region without tag",
			text:  "UPI/CR/555000111/ACME CORP 2,000.00 14,000.00",
			line2: "UPI/CR/555000111/ACME CORP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := amountPattern.FindAllStringIndex(tt.text, -1)
			line1, line2, chequeRef := e.describe(tt.text, matches, e.line2Pos(tt.text))

			if line1 != tt.line1 {
				t.Errorf("line1: got %q, want %q", line1, tt.line1)
			}
			if line2 != tt.line2 {
				t.Errorf("line2: got %q, want %q", line2, tt.line2)
			}
			if chequeRef != tt.chequeRef {
				t.Errorf("chequeRef: got %q, want %q", chequeRef, tt.chequeRef)
			}
		})
	}
}

func TestFindTagLookahead(t *testing.T) {
	e := newTxnEngine(t)

	// A lone leading token extends over a nearby trailing fragment.
	start, end, canonical := e.findTag("WDL 123 TFR UPI/X 1.00 2.00")
	if start != 0 {
		t.Errorf("start: got %d, want 0", start)
	}
	if canonical != "WDL TFR" {
		t.Errorf("canonical: got %q, want %q", canonical, "WDL TFR")
	}
	if got := "WDL 123 TFR"; end != len(got) {
		t.Errorf("end: got %d, want %d", end, len(got))
	}

	// Without the fragment nearby, the lone token stands alone.
	_, _, canonical = e.findTag("WDL 9,999.00 10,000.00")
	if canonical != "WDL" {
		t.Errorf("canonical: got %q, want %q", canonical, "WDL")
	}
}

func TestPopTrailingRef(t *testing.T) {
	tests := []struct {
		region   string
		wantRest string
		wantRef  string
	}{
		{" 9876543210 ", "", "9876543210"},
		{"CHQ PAID 000123456", "CHQ PAID", "000123456"},
		{"JOHN DOE", "JOHN DOE", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		rest, ref := popTrailingRef(tt.region)
		if rest != tt.wantRest || ref != tt.wantRef {
			t.Errorf("popTrailingRef(%q) = (%q, %q), want (%q, %q)",
				tt.region, rest, ref, tt.wantRest, tt.wantRef)
		}
	}
}
