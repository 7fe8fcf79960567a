package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Scan bounds. Source workbooks are free-form, so reads are capped instead of
// trusting the sheet's declared dimensions.
const (
	MaxRows = 200
	MaxCols = 10
)

// Workbook wraps a parsed xlsx file.
type Workbook struct {
	file *excelize.File
}

func Open(r io.Reader) (*Workbook, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{file: file}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames returns sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet materializes one sheet as a bounded grid of formatted cell values.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) > MaxRows {
		rows = rows[:MaxRows]
	}
	grid := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > MaxCols {
			row = row[:MaxCols]
		}
		grid[i] = row
	}
	return &Sheet{Name: name, Rows: grid}, nil
}
