// Package layout holds the per-statement-format configuration tables that
// drive the parsing engine. New bank layouts are added as configuration,
// not as new code paths.
package layout

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Config describes one statement column format: which date shapes start a
// row, which markers bound the transaction table, and the keyword tables
// used to classify amounts and normalize descriptions.
type Config struct {
	Name string `yaml:"name"`

	// Bank is the human-readable bank name stamped into ledger metadata.
	Bank string `yaml:"bank"`

	// DateGrammar is a regexp fragment matching a single date token.
	DateGrammar string `yaml:"date_grammar"`

	// HeaderMarkers must all appear (case-insensitive) on one line for it
	// to count as the table header band.
	HeaderMarkers []string `yaml:"header_markers"`

	// TerminatorMarkers end table mode immediately when any appears.
	TerminatorMarkers []string `yaml:"terminator_markers"`

	// DebitKeywords classify a suffix-less amount as a withdrawal.
	DebitKeywords []string `yaml:"debit_keywords"`

	// Line1Keywords are canonical transaction-type tags ("WDL TFR").
	Line1Keywords []string `yaml:"line1_keywords"`

	// Line2Prefixes mark the start of the reference/payee region ("UPI/").
	Line2Prefixes []string `yaml:"line2_prefixes"`

	// ArtifactFixes are literal substitutions for known text-extraction
	// artifacts (tokens split by a spurious space or glued together).
	ArtifactFixes map[string]string `yaml:"artifact_fixes"`
}

// defaultDateGrammar accepts DD-MM-YYYY, DD/MM/YYYY, DD-Mon-YYYY and
// "DD Mon YYYY" shaped tokens.
const defaultDateGrammar = `(?:\d{1,2}[-/]\d{1,2}[-/]\d{2,4}|\d{1,2}[-/][A-Za-z]{3}[-/]\d{2,4}|\d{1,2}\s+[A-Za-z]{3}\s+\d{2,4})`

var defaultArtifactFixes = map[string]string{
	"UPI DR":  "UPI/DR",
	"UPIDR":   "UPI/DR",
	"UPI CR":  "UPI/CR",
	"UPICR":   "UPI/CR",
	"ATMCASH": "ATM CASH",
	"Paym e":  "Payme",
}

var builtins = map[models.LayoutType]*Config{
	models.LayoutPostValue: {
		Name:              string(models.LayoutPostValue),
		Bank:              "SBI",
		DateGrammar:       defaultDateGrammar,
		HeaderMarkers:     []string{"POST DATE", "VALUE DATE", "DESCRIPTION"},
		TerminatorMarkers: []string{"CLOSING BALANCE", "TOTAL", "SUMMARY", "PAGE NO"},
		DebitKeywords:     []string{"WDL", "UPI/DR", "IMPS/DR", "ATM WDL", "POS/", "TO TRANSFER", "/DR/"},
		Line1Keywords:     []string{"WDL TFR", "DEP TFR", "ATM WDL", "TO TRANSFER", "BY TRANSFER"},
		Line2Prefixes:     []string{"UPI/", "IMPS/", "ATM CASH", "POS/"},
		ArtifactFixes:     defaultArtifactFixes,
	},
	models.LayoutTxnValue: {
		Name:              string(models.LayoutTxnValue),
		Bank:              "SBI",
		DateGrammar:       defaultDateGrammar,
		HeaderMarkers:     []string{"TXN DATE", "VALUE DATE"},
		TerminatorMarkers: []string{"CLOSING BALANCE", "CLOSING BAL.", "TOTAL", "SUMMARY", "PAGE NO"},
		DebitKeywords:     []string{"WDL", "UPI/DR", "IMPS/DR", "ATM WDL", "POS/", "TO TRANSFER", "/DR/"},
		Line1Keywords:     []string{"WDL TFR", "DEP TFR", "ATM WDL", "TO TRANSFER", "BY TRANSFER"},
		Line2Prefixes:     []string{"UPI/", "IMPS/", "ATM CASH", "POS/"},
		ArtifactFixes:     defaultArtifactFixes,
	},
}

// Builtin returns the built-in configuration for a layout type.
func Builtin(t models.LayoutType) (*Config, error) {
	cfg, ok := builtins[t]
	if !ok {
		return nil, fmt.Errorf("unsupported layout: %q", t)
	}
	return cfg, nil
}

// Names lists the registered layout names.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for t := range builtins {
		names = append(names, string(t))
	}
	return names
}

// AutoDetect samples the leading lines of a document for a layout whose
// header markers all appear. Explicit selection by the caller always wins;
// this is only a convenience for the common formats.
func AutoDetect(lines []string) (models.LayoutType, bool) {
	n := len(lines)
	if n > 120 {
		n = 120
	}
	sample := strings.ToUpper(strings.Join(lines[:n], " "))

	// Most specific first: the POST DATE header is a superset check.
	for _, t := range []models.LayoutType{models.LayoutPostValue, models.LayoutTxnValue} {
		cfg := builtins[t]
		all := true
		for _, marker := range cfg.HeaderMarkers {
			if !strings.Contains(sample, marker) {
				all = false
				break
			}
		}
		if all {
			return t, true
		}
	}
	return "", false
}

// yamlFile is the on-disk shape of a user-supplied layout file.
type yamlFile struct {
	Layouts []*Config `yaml:"layouts"`
}

// LoadFile reads extra layout configurations from a YAML file and registers
// them so they can be selected by name.
func LoadFile(path string) ([]*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file %q: %w", path, err)
	}
	return Load(data)
}

// Load parses YAML layout definitions and registers them. Missing fields
// fall back to the shared defaults so a file only needs to override what
// differs from the built-in tables.
func Load(data []byte) ([]*Config, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse layout YAML: %w", err)
	}
	for _, cfg := range f.Layouts {
		if cfg.Name == "" {
			return nil, fmt.Errorf("layout definition missing name")
		}
		if cfg.Bank == "" {
			cfg.Bank = "SBI"
		}
		if cfg.DateGrammar == "" {
			cfg.DateGrammar = defaultDateGrammar
		}
		if cfg.ArtifactFixes == nil {
			cfg.ArtifactFixes = defaultArtifactFixes
		}
		builtins[models.LayoutType(cfg.Name)] = cfg
	}
	return f.Layouts, nil
}
