// Package pdf renders the invoice document. The with-taxes and no-tax
// layouts share one generator; the appendix tables are drawn as extra pages
// of the same document, after the invoice pages and in extraction order.
package pdf

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/aocampo/invoicer/internal/extract"
	"github.com/aocampo/invoicer/internal/model"
)

type Assembler struct {
	fontName string
}

func NewAssembler() *Assembler {
	return &Assembler{fontName: "Helvetica"}
}

// InvoiceDocument is everything needed to render one invoice.
type InvoiceDocument struct {
	Invoice  model.Invoice
	Sender   model.SenderInfo
	BillTo   model.BillTo
	Services []model.Service
	Totals   Totals
}

type Totals struct {
	Subtotal float64
	Tax1     float64
	Tax2     float64
	Total    float64
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// ComputeTotals sums the service amounts and applies the invoice's tax rates
// when the with-taxes layout is selected. Every monetary output is rounded
// to 2 decimals.
func ComputeTotals(invoice model.Invoice, services []model.Service) Totals {
	var totals Totals
	for _, service := range services {
		totals.Subtotal += service.Amount
	}
	totals.Subtotal = round2(totals.Subtotal)

	if invoice.WithTaxes {
		totals.Tax1 = round2(totals.Subtotal * invoice.Tax1Rate() / 100)
		totals.Tax2 = round2(totals.Subtotal * invoice.Tax2Rate() / 100)
	}
	totals.Total = round2(totals.Subtotal + totals.Tax1 + totals.Tax2)
	return totals
}

// Render produces the final PDF: invoice pages first, then one appendix page
// per table, preserving the given order.
func (a *Assembler) Render(doc InvoiceDocument, tables []extract.Table) ([]byte, error) {
	if len(doc.Services) == 0 {
		return nil, fmt.Errorf("invoice %d has no services to render", doc.Invoice.Number)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	a.drawHeader(pdf, doc)
	a.drawBillTo(pdf, doc.BillTo)
	a.drawServices(pdf, doc.Services)
	a.drawTotals(pdf, doc)

	for _, table := range tables {
		a.drawTablePage(pdf, table)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Assembler) drawHeader(pdf *gofpdf.Fpdf, doc InvoiceDocument) {
	pdf.SetFont(a.fontName, "B", 18)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "L", false, 0, "")

	pdf.SetFont(a.fontName, "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Invoice #: %d", doc.Invoice.Number), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Created: %s", doc.Invoice.CreatedAt.Format("January 2, 2006")), "", 1, "L", false, 0, "")
	if doc.Invoice.Reason != "" {
		pdf.CellFormat(0, 5, doc.Invoice.Reason, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(a.fontName, "B", 11)
	pdf.CellFormat(0, 6, doc.Sender.From, "", 1, "L", false, 0, "")
	pdf.SetFont(a.fontName, "", 10)
	for _, line := range []string{doc.Sender.Address, doc.Sender.Phone, doc.Sender.Email} {
		if line != "" {
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)
}

func (a *Assembler) drawBillTo(pdf *gofpdf.Fpdf, billTo model.BillTo) {
	pdf.SetFont(a.fontName, "B", 11)
	pdf.CellFormat(0, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont(a.fontName, "", 10)
	for _, line := range []string{billTo.To, billTo.Address, billTo.Phone, billTo.Email} {
		if line != "" {
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)
}

func (a *Assembler) drawServices(pdf *gofpdf.Fpdf, services []model.Service) {
	headers := []string{"#", "Service", "Hours", "Price/h", "Amount"}
	widths := []float64{12, 88, 25, 27, 28}
	drawTableRow(pdf, a.fontName, headers, widths, true)

	for i, service := range services {
		row := []string{
			fmt.Sprintf("%d", i+1),
			service.Title,
			formatAmount(service.Hours, 2),
			formatAmount(service.PriceUnit, 2),
			fmt.Sprintf("%s %s", formatAmount(service.Amount, 2), service.Currency),
		}
		drawTableRow(pdf, a.fontName, row, widths, false)
	}
	pdf.Ln(4)
}

func (a *Assembler) drawTotals(pdf *gofpdf.Fpdf, doc InvoiceDocument) {
	pdf.SetFont(a.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Subtotal: %s", formatAmount(doc.Totals.Subtotal, 2)), "", 1, "R", false, 0, "")

	if doc.Invoice.WithTaxes {
		pdf.CellFormat(0, 6, fmt.Sprintf("Tax 1 (%.3f%%): %s", doc.Invoice.Tax1Rate(), formatAmount(doc.Totals.Tax1, 2)), "", 1, "R", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Tax 2 (%.3f%%): %s", doc.Invoice.Tax2Rate(), formatAmount(doc.Totals.Tax2, 2)), "", 1, "R", false, 0, "")
	}

	pdf.SetFont(a.fontName, "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total: %s", formatAmount(doc.Totals.Total, 2)), "", 1, "R", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatAmount(value float64, precision int) string {
	return fmt.Sprintf(fmt.Sprintf("%%.%df", precision), value)
}
