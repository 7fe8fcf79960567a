package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/aocampo/invoicer/internal/extract"
	"github.com/aocampo/invoicer/internal/spreadsheet"
)

// Summary is the content of a date-range summary workbook: every contract
// block found in the customer's stored timesheets over the period, in
// invoice order.
type Summary struct {
	Customer  string
	Start     time.Time
	End       time.Time
	Contracts []extract.Table
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the summary workbook: an index sheet followed by one
// "Contrat N" sheet per contract block.
func (g *Generator) Generate(summary Summary) ([]byte, error) {
	file := excelize.NewFile()

	indexSheet := "Sommaire"
	file.SetSheetName("Sheet1", indexSheet)
	g.writeIndex(file, indexSheet, summary)

	for i, contract := range summary.Contracts {
		sheetName := fmt.Sprintf("Contrat %d", i+1)
		file.NewSheet(sheetName)
		g.writeContract(file, sheetName, contract)
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeIndex(file *excelize.File, sheet string, summary Summary) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Client")
	set("B1", summary.Customer)
	set("A2", "Début de période")
	set("B2", formatDate(summary.Start))
	set("A3", "Fin de période")
	set("B3", formatDate(summary.End))
	set("A4", "Nombre de contrats")
	set("B4", len(summary.Contracts))
	set("A5", "Heures totales")
	set("B5", fmt.Sprintf("%.2f", sumSummaryHours(summary)))

	tableRow := 7
	set(fmt.Sprintf("A%d", tableRow), "Feuille")
	set(fmt.Sprintf("B%d", tableRow), "Contrat")
	set(fmt.Sprintf("C%d", tableRow), "Période")
	set(fmt.Sprintf("D%d", tableRow), "Heures")

	for i, contract := range summary.Contracts {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), fmt.Sprintf("Contrat %d", i+1))
		set(fmt.Sprintf("B%d", row), contract.Title)
		set(fmt.Sprintf("C%d", row), contract.Period)
		set(fmt.Sprintf("D%d", row), fmt.Sprintf("%.2f", sumContractHours(contract)))
	}

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 45)
	_ = file.SetColWidth(sheet, "C", "D", 16)
}

func (g *Generator) writeContract(file *excelize.File, sheet string, contract extract.Table) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("C1", contract.Title)
	set("C2", contract.Period)

	tableRow := 4
	for i, header := range contract.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, values := range contract.Rows {
		row := tableRow + 1 + i
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			set(cell, value)
		}
	}

	totalRow := tableRow + 1 + len(contract.Rows)
	set(fmt.Sprintf("A%d", totalRow), "TOTAL")
	totalCell, _ := excelize.CoordinatesToCellName(lastColumn(contract), totalRow)
	set(totalCell, fmt.Sprintf("%.2f", sumContractHours(contract)))

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "E", 14)
}

// lastColumn is where the hour values sit, after the extraction step has
// trimmed empty trailing columns.
func lastColumn(contract extract.Table) int {
	width := len(contract.Header)
	for _, row := range contract.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < 1 {
		width = 1
	}
	return width
}

func sumContractHours(contract extract.Table) float64 {
	total := 0.0
	for _, row := range contract.Rows {
		if len(row) == 0 {
			continue
		}
		if hours, ok := spreadsheet.ParseNumber(row[len(row)-1]); ok {
			total += hours
		}
	}
	return total
}

func sumSummaryHours(summary Summary) float64 {
	total := 0.0
	for _, contract := range summary.Contracts {
		total += sumContractHours(contract)
	}
	return total
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
