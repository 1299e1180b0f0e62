// Package renderer re-paginates a ledger into a fixed-layout tabular PDF.
// Rendering is a deterministic, pure transform: the running balance is
// recomputed from the opening balance on every call, stored balances are
// ignored, and the same ledger always yields identical bytes.
package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// creationDate pins the PDF metadata clock so re-rendering the same ledger
// is byte-identical.
var creationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Renderer draws a ledger as a paginated statement table.
type Renderer struct {
	geo Geometry
}

// New returns a renderer for the given page geometry.
func New(geo Geometry) *Renderer {
	return &Renderer{geo: geo}
}

// NewForLayout returns a renderer with the built-in geometry of a layout.
func NewForLayout(t models.LayoutType) *Renderer {
	return New(DefaultGeometry(t))
}

// Render produces the PDF bytes for a ledger. The returned buffer is fresh
// and exclusively owned by the caller.
func (r *Renderer) Render(ledger *models.Ledger) ([]byte, error) {
	g := r.geo

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	pdf.SetCreationDate(creationDate)
	pdf.SetModificationDate(creationDate)
	pdf.SetMargins(g.MarginLeft, g.MarginTop, g.MarginRight)
	pdf.SetAutoPageBreak(false, 0)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Page-number stamp at a fixed absolute position on every page.
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(0, g.PageHeight-14)
		pdf.CellFormat(g.PageWidth, 6, fmt.Sprintf("Page no. %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	balances := RunningBalances(ledger.Meta.OpeningBalance, ledger.Transactions)
	rowsPerPage := g.RowsPerPage()

	pages := g.PageCount(len(ledger.Transactions))

	for page := 0; page < pages; page++ {
		pdf.AddPage()

		if page == 0 {
			r.drawMetaBand(pdf, tr, ledger.Meta)
		}
		r.drawHeaderRow(pdf, tr)

		start := page * rowsPerPage
		end := start + rowsPerPage
		if end > len(ledger.Transactions) {
			end = len(ledger.Transactions)
		}
		for i := start; i < end; i++ {
			r.drawRow(pdf, tr, ledger.Transactions[i], balances[i])
		}

		r.drawFooterBand(pdf)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF generation failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RunningBalances re-derives the balance column from the opening balance,
// threading the accumulator through transaction order and ignoring any
// stored balance values.
func RunningBalances(opening decimal.Decimal, txns []models.Transaction) []decimal.Decimal {
	out := make([]decimal.Decimal, len(txns))
	running := opening
	for i, t := range txns {
		running = running.Sub(t.Debit).Add(t.Credit)
		out[i] = running
	}
	return out
}

func (r *Renderer) drawMetaBand(pdf *fpdf.Fpdf, tr func(string) string, meta models.Meta) {
	g := r.geo
	wide := g.usableWidth() * 0.7
	narrow := g.usableWidth() * 0.3

	pdf.SetFont("Helvetica", "B", g.HeaderFontSize)
	pdf.CellFormat(wide, 5, tr(meta.AccountName), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", g.BodyFontSize)
	opening := "Opening Balance: " + models.FormatAmount(meta.OpeningBalance) + g.BalanceSuffix
	pdf.CellFormat(narrow, 5, tr(opening), "", 1, g.AmountAlign, false, 0, "")

	pdf.CellFormat(wide, 5, tr("Account No: "+meta.AccountNumber), "", 0, "L", false, 0, "")
	pdf.CellFormat(narrow, 5, tr("Period: "+meta.Period), "", 1, g.AmountAlign, false, 0, "")
	pdf.Ln(2)
}

func (r *Renderer) drawHeaderRow(pdf *fpdf.Fpdf, tr func(string) string) {
	g := r.geo
	pdf.SetFont("Helvetica", "B", g.HeaderFontSize)
	if g.HeaderFill {
		pdf.SetFillColor(0xBF, 0xE1, 0xFF)
	}
	for i, label := range g.Labels {
		align := "C"
		if g.AmountAlign == "R" {
			align = "L"
			if i >= 4 {
				align = "R"
			}
		}
		ln := 0
		if i == len(g.Labels)-1 {
			ln = 1
		}
		pdf.CellFormat(g.ColumnShares[i]*g.usableWidth(), g.HeaderRowHeight, tr(label), "1", ln, align, g.HeaderFill, 0, "")
	}
}

func (r *Renderer) drawRow(pdf *fpdf.Fpdf, tr func(string) string, txn models.Transaction, balance decimal.Decimal) {
	g := r.geo
	w := g.usableWidth()
	x := g.MarginLeft
	y := pdf.GetY()

	pdf.SetFont("Helvetica", "", g.BodyFontSize)

	debit, credit := "", ""
	if !txn.Debit.IsZero() {
		debit = models.FormatAmount(txn.Debit)
	}
	if !txn.Credit.IsZero() {
		credit = models.FormatAmount(txn.Credit)
	}

	cells := [7]string{
		txn.Date,
		txn.ValueDate,
		"", // description drawn separately, two stacked lines
		txn.ChequeRef,
		debit,
		credit,
		models.FormatAmount(balance) + g.BalanceSuffix,
	}

	for i, cell := range cells {
		align := "C"
		switch {
		case i == 3 && g.AmountAlign == "R":
			align = "L"
		case i >= 4:
			align = g.AmountAlign
		}
		ln := 0
		if i == len(cells)-1 {
			ln = 1
		}
		pdf.CellFormat(g.ColumnShares[i]*w, g.RowHeight, tr(cell), "1", ln, align, false, 0, "")
	}

	descX := x + (g.ColumnShares[0]+g.ColumnShares[1])*w
	r.drawDescription(pdf, tr, descX, y, g.ColumnShares[2]*w, txn.DescriptionLine1, txn.DescriptionLine2)
	pdf.SetXY(x, y+g.RowHeight)
}

// drawDescription stacks the two description lines inside the cell, each
// wrapped independently to the column width.
func (r *Renderer) drawDescription(pdf *fpdf.Fpdf, tr func(string) string, x, y, w float64, line1, line2 string) {
	g := r.geo
	const pad = 1.5
	leading := g.BodyFontSize * 0.42 // mm per text line

	var lines []string
	for _, src := range []string{line1, line2} {
		if src == "" {
			continue
		}
		lines = append(lines, pdf.SplitText(tr(src), w-2*pad)...)
	}

	maxLines := int(g.RowHeight / leading)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	// Center the stack vertically inside the row.
	top := y + (g.RowHeight-float64(len(lines))*leading)/2
	for i, line := range lines {
		pdf.SetXY(x+pad, top+float64(i)*leading)
		pdf.CellFormat(w-2*pad, leading, line, "", 0, "L", false, 0, "")
	}
}

func (r *Renderer) drawFooterBand(pdf *fpdf.Fpdf) {
	g := r.geo
	if g.HeaderFill {
		pdf.SetFillColor(0xBF, 0xE1, 0xFF)
	}
	pdf.CellFormat(g.usableWidth(), g.FooterRowHeight, "", "1", 1, "C", g.HeaderFill, 0, "")
}
