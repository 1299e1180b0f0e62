package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/insightdelivered/statement-ledger/internal/api"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/layout"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/parser"
	"github.com/insightdelivered/statement-ledger/internal/renderer"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

const version = "2.0.0"

func main() {
	layoutFlag := flag.String("layout", "", "Statement layout (auto-detected if omitted)")
	layoutsFile := flag.String("layouts", "", "YAML file with extra layout definitions")
	formatFlag := flag.String("format", "csv", "Output format for parsed statements: csv, xlsx, json")
	outputFlag := flag.String("output", "", "Output file path (defaults to input filename with new extension)")
	renderFlag := flag.Bool("render", false, "Treat inputs as ledger JSON files and regenerate statement PDFs")
	headerFlag := flag.Bool("header", true, "Include account metadata header rows in CSV output")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API server")
	addrFlag := flag.String("addr", "", "Listen address for -serve (default :8080, or $PORT)")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Ledger Converter
by Insight Delivered

Extracts transaction ledgers from bank-statement PDFs and regenerates
paginated statement PDFs from edited ledgers.

Usage:
  statement-ledger [flags] <input.pdf> [input2.pdf ...]
  statement-ledger -render [flags] <ledger.json> [ledger2.json ...]
  statement-ledger -serve [-addr :8080]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Auto-detect layout and convert to CSV
  statement-ledger statement.pdf

  # Parse with an explicit layout, keep the ledger as JSON
  statement-ledger -layout=SBI_TXN_VALUE -format=json statement.pdf

  # Regenerate a statement PDF from an edited ledger
  statement-ledger -render ledger.json

Built-in layouts: %s
`, strings.Join(layout.Names(), ", "))
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-ledger v%s\n", version)
		os.Exit(0)
	}

	if *layoutsFile != "" {
		extra, err := layout.LoadFile(*layoutsFile)
		if err != nil {
			fatalf("Error loading layouts: %v\n", err)
		}
		fmt.Printf("Loaded %d extra layout(s) from %s\n", len(extra), *layoutsFile)
	}

	if *serveFlag {
		serve(*addrFlag)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		var err error
		if *renderFlag {
			err = renderFile(inputPath, *outputFlag)
		} else {
			err = parseFile(inputPath, *layoutFlag, *formatFlag, *outputFlag, *headerFlag)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func parseFile(inputPath, layoutName, format, outputPath string, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	pages, err := extractor.ExtractText(inputPath)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}
	fmt.Printf("  Extracted text from %d page(s)\n", len(pages))

	layoutType := models.LayoutType(strings.ToUpper(layoutName))
	if layoutName == "" {
		detected, ok := layout.AutoDetect(parser.Lines(pages))
		if !ok {
			detected = models.LayoutPostValue
		}
		layoutType = detected
		fmt.Printf("  Auto-detected layout: %s\n", layoutType)
	}

	engine, err := parser.NewForLayout(layoutType)
	if err != nil {
		return err
	}

	ledger := engine.Parse(pages)
	fmt.Printf("  Found %d transaction(s)\n", len(ledger.Transactions))
	if len(ledger.Transactions) == 0 {
		fmt.Println("  Warning: no transactions found. The layout may not match; try -layout explicitly.")
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + format
	}

	switch strings.ToLower(format) {
	case "csv":
		w := &writer.CSVWriter{IncludeHeader: includeHeader}
		if err := w.WriteToFile(outPath, ledger); err != nil {
			return fmt.Errorf("CSV write failed: %w", err)
		}
	case "xlsx":
		w := &writer.XLSXWriter{}
		data, err := w.Write(ledger)
		if err != nil {
			return fmt.Errorf("XLSX write failed: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("XLSX write failed: %w", err)
		}
	case "json":
		data, err := json.MarshalIndent(ledger, "", "  ")
		if err != nil {
			return fmt.Errorf("JSON encoding failed: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("JSON write failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q; use csv, xlsx or json", format)
	}

	fmt.Printf("  Output: %s\n", outPath)

	if ledger.Meta.AccountName != "" {
		fmt.Printf("  Account name: %s\n", ledger.Meta.AccountName)
	}
	if ledger.Meta.AccountNumber != "" {
		fmt.Printf("  Account number: %s\n", ledger.Meta.AccountNumber)
	}
	if ledger.Meta.Period != "" {
		fmt.Printf("  Period: %s\n", ledger.Meta.Period)
	}
	fmt.Printf("  Opening balance: %s\n", models.FormatAmount(ledger.Meta.OpeningBalance))

	fmt.Println("  Done.")
	return nil
}

func renderFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read ledger file: %w", err)
	}

	ledger := new(models.Ledger)
	if err := json.Unmarshal(data, ledger); err != nil {
		return fmt.Errorf("invalid ledger JSON: %w", err)
	}

	fmt.Printf("Rendering: %s (%d transactions, layout %s)\n",
		inputPath, len(ledger.Transactions), ledger.Meta.Layout)

	r := renderer.NewForLayout(models.LayoutType(ledger.Meta.Layout))
	pdfBytes, err := r.Render(ledger)
	if err != nil {
		return fmt.Errorf("PDF generation failed: %w", err)
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "_updated.pdf"
	}
	if err := os.WriteFile(outPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("PDF write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)
	return nil
}

func serve(addr string) {
	// .env is optional; flags and real environment win.
	_ = godotenv.Load()

	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}

	app := api.NewApp()
	fmt.Printf("statement-ledger v%s listening on %s\n", version, addr)
	if err := app.Listen(addr); err != nil {
		fatalf("Server error: %v\n", err)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
