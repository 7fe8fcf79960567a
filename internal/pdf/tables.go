package pdf

import (
	"github.com/jung-kurt/gofpdf"

	"github.com/aocampo/invoicer/internal/extract"
)

// drawTablePage renders one extracted spreadsheet range as a styled table on
// its own appendix page.
func (a *Assembler) drawTablePage(pdf *gofpdf.Fpdf, table extract.Table) {
	pdf.AddPage()

	pdf.SetFont(a.fontName, "B", 13)
	pdf.CellFormat(0, 8, table.Title, "", 1, "L", false, 0, "")
	if table.Period != "" {
		pdf.SetFont(a.fontName, "", 10)
		pdf.CellFormat(0, 6, table.Period, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	cols := len(table.Header)
	for _, row := range table.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := (pageWidth - left - right) / float64(cols)

	if len(table.Header) > 0 {
		pdf.SetFont(a.fontName, "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i := 0; i < cols; i++ {
			text := ""
			if i < len(table.Header) {
				text = table.Header[i]
			}
			pdf.CellFormat(width, 7, text, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont(a.fontName, "", 9)
	for _, row := range table.Rows {
		for i := 0; i < cols; i++ {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			pdf.CellFormat(width, 6, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
