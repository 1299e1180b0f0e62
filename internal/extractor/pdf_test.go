package extractor

import (
	"strings"
	"testing"
)

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{
			name: "statement text",
			pages: []string{
				"Account No : 00000012345678\n" +
					"Txn Date Value Date Description Debit Credit Balance\n" +
					"10-03-2025 10-03-2025 WDL TFR 1,800.00 45,230.00",
			},
			want: true,
		},
		{
			name:  "too short",
			pages: []string{"account"},
			want:  false,
		},
		{
			name:  "mis-decoded glyphs",
			pages: []string{strings.Repeat("□þǂ", 40)},
			want:  false,
		},
		{
			name:  "readable but no statement vocabulary",
			pages: []string{strings.Repeat("lorem ipsum dolor sit amet ", 10)},
			want:  false,
		},
		{
			name:  "empty",
			pages: nil,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReadableText(tt.pages); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	if _, err := ExtractText("/nonexistent/statement.pdf"); err == nil {
		t.Error("expected error for missing file")
	}
}
