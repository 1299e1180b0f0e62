package renderer

import "github.com/insightdelivered/statement-ledger/internal/models"

// Geometry is the page configuration for one rendered layout: page size,
// margins, row heights and column width proportions, all in millimetres.
type Geometry struct {
	PageWidth  float64
	PageHeight float64

	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64

	RowHeight       float64
	HeaderRowHeight float64
	FooterRowHeight float64
	MinRows         int

	// ColumnShares are the seven column widths as fractions of usable width:
	// date, value date, description, reference, debit, credit, balance.
	ColumnShares [7]float64
	Labels       [7]string

	HeaderFontSize float64
	BodyFontSize   float64

	// AmountAlign is the fpdf alignment code for the amount columns.
	AmountAlign string

	// BalanceSuffix is appended to every rendered balance ("CR" on the
	// post/value layout, empty otherwise).
	BalanceSuffix string

	// HeaderFill shades the header and footer bands.
	HeaderFill bool
}

// DefaultGeometry returns the built-in page geometry for a layout. Unknown
// layouts fall back to the post/value variant.
func DefaultGeometry(t models.LayoutType) Geometry {
	if t == models.LayoutTxnValue {
		return Geometry{
			PageWidth:       210,
			PageHeight:      297,
			MarginLeft:      10,
			MarginRight:     10,
			MarginTop:       10,
			MarginBottom:    12,
			RowHeight:       14.5,
			HeaderRowHeight: 11.5,
			FooterRowHeight: 14.5,
			MinRows:         6,
			ColumnShares:    [7]float64{0.10, 0.10, 0.24, 0.17, 0.12, 0.12, 0.13},
			Labels: [7]string{
				"Txn Date", "Value Date", "Description",
				"Ref No./Cheque No.", "Debit", "Credit", "Balance",
			},
			HeaderFontSize: 10.5,
			BodyFontSize:   9,
			AmountAlign:    "R",
		}
	}
	return Geometry{
		PageWidth:       210,
		PageHeight:      297,
		MarginLeft:      6,
		MarginRight:     9,
		MarginTop:       5,
		MarginBottom:    8,
		RowHeight:       10.7,
		HeaderRowHeight: 10.7,
		FooterRowHeight: 10.7,
		MinRows:         8,
		ColumnShares:    [7]float64{0.11, 0.11, 0.26, 0.16, 0.12, 0.12, 0.12},
		Labels: [7]string{
			"Post Date", "Value Date", "Description",
			"Cheque No/Reference", "Debit", "Credit", "Balance",
		},
		HeaderFontSize: 10.5,
		BodyFontSize:   8,
		AmountAlign:    "C",
		BalanceSuffix:  "CR",
		HeaderFill:     true,
	}
}

// PageCount returns how many pages a ledger of the given row count fills.
// An empty ledger still produces one page.
func (g Geometry) PageCount(rows int) int {
	per := g.RowsPerPage()
	pages := rows / per
	if rows%per != 0 || pages == 0 {
		pages++
	}
	return pages
}

// usableWidth is the printable width between the side margins.
func (g Geometry) usableWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// RowsPerPage computes the fixed row capacity of one page: usable height
// minus the header and footer bands, divided by the row height, floored,
// never below MinRows.
func (g Geometry) RowsPerPage() int {
	usable := g.PageHeight - g.MarginTop - g.MarginBottom
	n := int((usable - g.HeaderRowHeight - g.FooterRowHeight) / g.RowHeight)
	if n < g.MinRows {
		n = g.MinRows
	}
	return n
}
