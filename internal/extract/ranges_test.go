package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aocampo/invoicer/internal/spreadsheet"
)

// buildContractSheet lays out sentinel-delimited contract blocks the way the
// source timesheets do: a 3-row header, a DATE column-header row, one data
// row per day, and a closing TOTAL row.
func buildContractSheet(dayCounts ...int) *spreadsheet.Sheet {
	var rows [][]string
	for i, days := range dayCounts {
		rows = append(rows,
			[]string{fmt.Sprintf("NOM CONTRAT %d", i+1), "", fmt.Sprintf("Contract %d", i+1)},
			[]string{"TAUX HEURE", "", "$20.00"},
			[]string{"", "", ""},
			[]string{"DATE", "", "", "", "", "HEURES"},
		)
		for day := 1; day <= days; day++ {
			rows = append(rows, []string{
				fmt.Sprintf("2026-01-%02d", day), "", "", "", "", "7.5",
			})
		}
		rows = append(rows, []string{"TOTAL", "", "", "", "", ""})
		rows = append(rows, []string{""})
	}
	return &spreadsheet.Sheet{Name: "Janvier", Rows: rows}
}

func TestFindRanges_SingleBlock(t *testing.T) {
	sheet := buildContractSheet(5)

	ranges := FindRanges(sheet)

	assert.Len(t, ranges, 1)
	assert.Equal(t, BlockRange{
		HeaderStart: 1,
		HeaderEnd:   3,
		DataStart:   5,
		DataEnd:     10,
	}, ranges[0])
}

func TestFindRanges_TwoBlocksOfDifferentLengths(t *testing.T) {
	// A 28-day and a 31-day month must come back as two blocks with no
	// cross-block bleed.
	sheet := buildContractSheet(28, 31)

	ranges := FindRanges(sheet)

	assert.Len(t, ranges, 2)

	first, second := ranges[0], ranges[1]
	assert.Equal(t, 5, first.DataStart)
	assert.Equal(t, 33, first.DataEnd)
	assert.Equal(t, 28, first.DataEnd-first.DataStart)

	assert.Equal(t, 31, second.DataEnd-second.DataStart)
	assert.Greater(t, second.HeaderStart, first.DataEnd)
}

func TestFindRanges_Idempotent(t *testing.T) {
	sheet := buildContractSheet(28, 31)

	assert.Equal(t, FindRanges(sheet), FindRanges(sheet))
}

func TestFindRanges_UnclosedBlockDropped(t *testing.T) {
	rows := [][]string{
		{"NOM CONTRAT", "", "Never closed"},
		{"TAUX HEURE", "", "$20.00"},
		{""},
		{"DATE", "", "", "", "", "HEURES"},
		{"2026-01-01", "", "", "", "", "7.5"},
	}
	sheet := &spreadsheet.Sheet{Rows: rows}

	assert.Empty(t, FindRanges(sheet))
}

func TestFindRanges_CaseInsensitiveSentinels(t *testing.T) {
	rows := [][]string{
		{"Nom Contrat ABC", "", "Acme"},
		{""},
		{""},
		{"Date", "", "", "", "", "Heures"},
		{"2026-01-01", "", "", "", "", "8"},
		{"total", "", "", "", "", ""},
	}
	sheet := &spreadsheet.Sheet{Rows: rows}

	ranges := FindRanges(sheet)

	assert.Len(t, ranges, 1)
	assert.Equal(t, 5, ranges[0].DataStart)
	assert.Equal(t, 6, ranges[0].DataEnd)
}

func TestFindRanges_LegacyOffsetsWhenNoDateRow(t *testing.T) {
	rows := make([][]string, 0, 40)
	rows = append(rows, []string{"NOM CONTRAT", "", "Legacy"})
	for len(rows) < 37 {
		rows = append(rows, []string{""})
	}
	rows = append(rows, []string{"TOTAL"}) // row 38

	sheet := &spreadsheet.Sheet{Rows: rows}
	ranges := FindRanges(sheet)

	assert.Len(t, ranges, 1)
	assert.Equal(t, 5, ranges[0].DataStart)  // headerStart + 4
	assert.Equal(t, 35, ranges[0].DataEnd)   // capped at headerStart + 34
}

func TestFindRanges_TotalWithoutHeaderIgnored(t *testing.T) {
	rows := [][]string{
		{"TOTAL", "", ""},
		{"NOM CONTRAT", "", "Acme"},
		{""},
		{""},
		{"DATE", "", "", "", "", "HEURES"},
		{"2026-01-01", "", "", "", "", "8"},
		{"TOTAL"},
	}
	sheet := &spreadsheet.Sheet{Rows: rows}

	ranges := FindRanges(sheet)

	assert.Len(t, ranges, 1)
	assert.Equal(t, 2, ranges[0].HeaderStart)
}

func TestHourColumn_AutodetectFromHeaderRow(t *testing.T) {
	rows := [][]string{
		{"NOM CONTRAT", "", "Acme"},
		{""},
		{""},
		{"DATE", "", "HEURES", "", "", ""},
		{"2026-01-01", "", "8", "", "", ""},
		{"TOTAL"},
	}
	sheet := &spreadsheet.Sheet{Rows: rows}
	ranges := FindRanges(sheet)

	assert.Len(t, ranges, 1)
	assert.Equal(t, 3, HourColumn(sheet, ranges[0], "F"))
}

func TestHourColumn_FallbackToConfiguredLetter(t *testing.T) {
	rows := make([][]string, 0, 40)
	rows = append(rows, []string{"NOM CONTRAT", "", "Legacy"})
	for len(rows) < 37 {
		rows = append(rows, []string{""})
	}
	rows = append(rows, []string{"TOTAL"})

	sheet := &spreadsheet.Sheet{Rows: rows}
	ranges := FindRanges(sheet)

	assert.Len(t, ranges, 1)
	assert.Equal(t, 4, HourColumn(sheet, ranges[0], "D"))
}
