package extract

import (
	"github.com/aocampo/invoicer/internal/spreadsheet"
)

// Table is a tabular snapshot of one block's data range, ready to be printed
// as an appendix page.
type Table struct {
	Title  string
	Period string
	Header []string
	Rows   [][]string
}

var nameColumnSentinels = []string{"NOM", "NAME"}

// BuildTable snapshots the data range of a block. Two layout quirks of the
// source documents are normalized here: an optional per-day name column is
// stripped, and a trailing column is dropped when every data cell in it is
// empty. The period label is re-derived from the first data row's date.
func BuildTable(sheet *spreadsheet.Sheet, block Block, hourCol int) Table {
	table := Table{Title: block.Title}

	lastCol := hourCol
	headerRow := block.Range.DataStart - 1

	keep := make([]int, 0, lastCol)
	for col := 1; col <= lastCol; col++ {
		if matchesAny(sheet.Cell(headerRow, col), nameColumnSentinels) {
			continue
		}
		keep = append(keep, col)
	}

	// Trim trailing columns that carry neither a header nor data.
	for len(keep) > 1 {
		last := keep[len(keep)-1]
		empty := sheet.Cell(headerRow, last) == ""
		for row := block.Range.DataStart; empty && row < block.Range.DataEnd; row++ {
			if sheet.Cell(row, last) != "" {
				empty = false
			}
		}
		if !empty {
			break
		}
		keep = keep[:len(keep)-1]
	}

	if headerRow >= 1 {
		for _, col := range keep {
			table.Header = append(table.Header, sheet.Cell(headerRow, col))
		}
	}

	for row := block.Range.DataStart; row < block.Range.DataEnd; row++ {
		cells := make([]string, 0, len(keep))
		blank := true
		for _, col := range keep {
			value := sheet.Cell(row, col)
			if value != "" {
				blank = false
			}
			cells = append(cells, value)
		}
		if blank {
			continue
		}
		table.Rows = append(table.Rows, cells)

		if table.Period == "" {
			if date, ok := spreadsheet.ParseDate(sheet.Cell(row, 1)); ok {
				table.Period = date.Format("January 2006")
			}
		}
	}
	return table
}
