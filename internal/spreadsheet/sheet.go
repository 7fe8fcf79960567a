package spreadsheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet is a 2D grid of cell values. Rows and columns are addressed 1-based,
// matching spreadsheet conventions; out-of-range cells read as empty.
type Sheet struct {
	Name string
	Rows [][]string
}

func (s *Sheet) RowCount() int {
	return len(s.Rows)
}

func (s *Sheet) Cell(row, col int) string {
	if row < 1 || row > len(s.Rows) {
		return ""
	}
	cells := s.Rows[row-1]
	if col < 1 || col > len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col-1])
}

// ColumnIndex converts a column letter ("A", "F") to its 1-based index.
func ColumnIndex(letter string) (int, error) {
	return excelize.ColumnNameToNumber(strings.ToUpper(strings.TrimSpace(letter)))
}

// ParseNumber reads a numeric cell value, tolerating spaces and a comma
// decimal separator.
func ParseNumber(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, false
	}
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if strings.Contains(cleaned, ",") && !strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01-02-06",
	"2/1/2006",
	"02.01.2006",
	time.RFC3339,
}

// ParseDate reads a date cell, accepting common layouts and raw Excel serial
// numbers.
func ParseDate(raw string) (time.Time, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed, true
		}
	}
	if serial, err := strconv.ParseFloat(cleaned, 64); err == nil && serial > 59 {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
