// Package extract recovers per-contract timesheet data from semi-structured
// workbooks. Blocks are delimited by sentinel rows rather than fixed
// coordinates, which is what lets the same scan handle months of different
// lengths.
package extract

import (
	"strings"

	"github.com/aocampo/invoicer/internal/spreadsheet"
)

// Sentinel prefixes, matched case-insensitively against the first cell of a
// row. The French labels come straight from the source timesheets.
var (
	headerSentinels = []string{"NOM CONTRAT", "NOM DU CONTRAT", "CONTRACT NAME"}
	totalSentinels  = []string{"TOTAL"}
	dateSentinels   = []string{"DATE"}
	hourSentinels   = []string{"HEURES", "HEURE", "HOURS"}
)

// Fixed header height and the legacy data offsets used when no DATE header
// row is present in the block.
const (
	headerRows      = 3
	legacyDataStart = 4
	legacyDataEnd   = 34
)

// BlockRange describes one detected contract block by row indices (1-based).
// DataEnd is exclusive: it is the row of the closing TOTAL sentinel.
type BlockRange struct {
	HeaderStart int
	HeaderEnd   int
	DataStart   int
	DataEnd     int
}

func matchesAny(cell string, sentinels []string) bool {
	upper := strings.ToUpper(strings.TrimSpace(cell))
	for _, sentinel := range sentinels {
		if strings.HasPrefix(upper, sentinel) {
			return true
		}
	}
	return false
}

// FindRanges scans the sheet top to bottom and returns one BlockRange per
// sentinel-delimited contract block, in sheet order. A block that opens but
// never sees a TOTAL row before the scan limit is dropped.
func FindRanges(sheet *spreadsheet.Sheet) []BlockRange {
	var ranges []BlockRange

	headerStart := 0
	dataStart := 0
	limit := sheet.RowCount()
	if limit > spreadsheet.MaxRows {
		limit = spreadsheet.MaxRows
	}

	for row := 1; row <= limit; row++ {
		first := sheet.Cell(row, 1)
		if first == "" {
			continue
		}

		switch {
		case matchesAny(first, headerSentinels):
			headerStart = row
			dataStart = 0
		case matchesAny(first, dateSentinels) && headerStart != 0:
			// Column-header row; data begins right below it.
			if dataStart == 0 {
				dataStart = row + 1
			}
		case matchesAny(first, totalSentinels) && headerStart != 0:
			start := dataStart
			end := row
			if start == 0 {
				start = headerStart + legacyDataStart
				if legacyEnd := headerStart + legacyDataEnd; legacyEnd < end {
					end = legacyEnd
				}
			}
			ranges = append(ranges, BlockRange{
				HeaderStart: headerStart,
				HeaderEnd:   headerStart + headerRows - 1,
				DataStart:   start,
				DataEnd:     end,
			})
			headerStart = 0
			dataStart = 0
		}
	}
	return ranges
}

// HourColumn locates the hours column by finding an hour header cell on the
// DATE sentinel row of the block. Falls back to the configured column when
// the header is absent.
func HourColumn(sheet *spreadsheet.Sheet, rng BlockRange, fallback string) int {
	headerRow := rng.DataStart - 1
	if headerRow >= 1 && matchesAny(sheet.Cell(headerRow, 1), dateSentinels) {
		for col := 2; col <= spreadsheet.MaxCols; col++ {
			if matchesAny(sheet.Cell(headerRow, col), hourSentinels) {
				return col
			}
		}
	}
	if col, err := spreadsheet.ColumnIndex(fallback); err == nil {
		return col
	}
	return 6 // column F, the historical default
}
