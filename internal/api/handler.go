// Package api exposes the parsing and rendering engines over HTTP.
// Authentication and statement persistence are the caller's concern; the
// endpoints are stateless transforms over the request body.
package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/layout"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/parser"
	"github.com/insightdelivered/statement-ledger/internal/renderer"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

const version = "2.0.0"

// ParseResponse is the JSON response from the /api/parse endpoint.
type ParseResponse struct {
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
	ID          string          `json:"id,omitempty"`
	Ledger      *models.Ledger  `json:"ledger,omitempty"`
	Count       int             `json:"count"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Version     string          `json:"version,omitempty"`
}

// NewApp builds the fiber application with all routes registered.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "statement-ledger",
		BodyLimit: 32 << 20,
	})
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/api/health", HandleHealth)
	app.Post("/api/parse", HandleParse)
	app.Post("/api/render", HandleRender)
	app.Post("/api/export", HandleExport)

	return app
}

// HandleHealth reports service liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// HandleParse accepts a statement PDF (multipart field "file") or
// pre-extracted text (field "extractedText", pages separated by
// "---PAGE_BREAK---") and returns the parsed ledger.
func HandleParse(c *fiber.Ctx) error {
	pages, err := requestPages(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	if len(pages) == 0 {
		return writeError(c, fiber.StatusUnprocessableEntity, "no text could be extracted from the upload")
	}

	layoutName := strings.TrimSpace(c.FormValue("layout"))
	layoutType := models.LayoutType(strings.ToUpper(layoutName))
	if layoutName == "" {
		detected, ok := layout.AutoDetect(parser.Lines(pages))
		if !ok {
			detected = models.LayoutPostValue
		}
		layoutType = detected
	}

	engine, err := parser.NewForLayout(layoutType)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest,
			fmt.Sprintf("unknown layout %q; available: %s", layoutName, strings.Join(layout.Names(), ", ")))
	}

	ledger := engine.Parse(pages)

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, txn := range ledger.Transactions {
		totalDebit = totalDebit.Add(txn.Debit)
		totalCredit = totalCredit.Add(txn.Credit)
	}

	return c.JSON(ParseResponse{
		Success:     true,
		ID:          uuid.NewString(),
		Ledger:      ledger,
		Count:       len(ledger.Transactions),
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Version:     version,
	})
}

// HandleRender accepts a ledger as the JSON body (typically edited by the
// caller after parsing) and responds with the regenerated statement PDF.
func HandleRender(c *fiber.Ctx) error {
	ledger, err := requestLedger(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	r := renderer.NewForLayout(models.LayoutType(ledger.Meta.Layout))
	data, err := r.Render(ledger)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("PDF generation failed: %v", err))
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="statement_updated.pdf"`)
	return c.Send(data)
}

// HandleExport accepts a ledger as the JSON body and responds with a CSV
// (default) or XLSX export, selected by the "format" query parameter.
func HandleExport(c *fiber.Ctx) error {
	ledger, err := requestLedger(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	switch strings.ToLower(c.Query("format", "csv")) {
	case "csv":
		var buf strings.Builder
		w := &writer.CSVWriter{IncludeHeader: true}
		if err := w.Write(&buf, ledger); err != nil {
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="statement.csv"`)
		return c.SendString(buf.String())

	case "xlsx":
		w := &writer.XLSXWriter{}
		data, err := w.Write(ledger)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("XLSX generation failed: %v", err))
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="statement.xlsx"`)
		return c.Send(data)

	default:
		return writeError(c, fiber.StatusBadRequest, "unknown export format; use csv or xlsx")
	}
}

// requestPages resolves the page texts for a parse request, preferring
// pre-extracted text over server-side extraction.
func requestPages(c *fiber.Ctx) ([]string, error) {
	if extracted := c.FormValue("extractedText"); extracted != "" {
		var pages []string
		for _, page := range strings.Split(extracted, "---PAGE_BREAK---") {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
		return pages, nil
	}

	file, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("no file uploaded; use form field 'file'")
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		return nil, fmt.Errorf("only PDF files are supported")
	}

	tmpPath := filepath.Join(os.TempDir(), "statement-"+uuid.NewString()+".pdf")
	if err := c.SaveFile(file, tmpPath); err != nil {
		return nil, fmt.Errorf("failed to save uploaded file: %w", err)
	}
	defer os.Remove(tmpPath)

	pages, err := extractor.ExtractText(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("PDF extraction failed: %w", err)
	}
	return pages, nil
}

func requestLedger(c *fiber.Ctx) (*models.Ledger, error) {
	ledger := new(models.Ledger)
	if err := c.BodyParser(ledger); err != nil {
		return nil, fmt.Errorf("invalid ledger body: %w", err)
	}
	return ledger, nil
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ParseResponse{
		Success: false,
		Error:   msg,
	})
}
