package extract

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aocampo/invoicer/internal/spreadsheet"
)

var (
	// ErrZeroHours fires when a block declares no hourly rate and its hour
	// column sums to zero, which would make the backward price derivation a
	// division by zero.
	ErrZeroHours = errors.New("block has zero hours and no declared rate")
	// ErrNoAmount fires when a block declares neither a rate nor a total.
	ErrNoAmount = errors.New("block declares neither hourly rate nor total amount")
	ErrBadRate  = errors.New("unparseable hourly rate")
)

// Header field labels, matched case-insensitively as substrings of the first
// cell within the header region.
var (
	titleLabel  = "NOM CONTRAT"
	rateLabel   = "HEURE"
	amountLabel = "MONTANT"
)

// Block is one contract block read out of a sheet: the declared header
// fields plus the summed hours of its data range.
type Block struct {
	Range    BlockRange
	Title    string
	RawRate  string
	RawTotal string
	Hours    float64
	LastDate time.Time
	HasDate  bool
}

// Derived is a billable line item computed from a block.
type Derived struct {
	Title     string
	Hours     float64
	PriceUnit float64
	Amount    float64
	Currency  string
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// ReadBlock reads the header fields and sums the hour column of one block.
// Each hour cell is rounded to 2 decimals before summing.
func ReadBlock(sheet *spreadsheet.Sheet, rng BlockRange, hourCol int) Block {
	block := Block{Range: rng}

	for row := rng.HeaderStart; row <= rng.HeaderEnd; row++ {
		label := strings.ToUpper(sheet.Cell(row, 1))
		if label == "" {
			continue
		}
		value := sheet.Cell(row, 3)
		switch {
		case strings.Contains(label, titleLabel):
			block.Title = value
		case strings.Contains(label, rateLabel):
			block.RawRate = value
		case strings.Contains(label, amountLabel):
			block.RawTotal = value
		}
	}

	for row := rng.DataStart; row < rng.DataEnd; row++ {
		if hours, ok := spreadsheet.ParseNumber(sheet.Cell(row, hourCol)); ok {
			block.Hours += round2(hours)
		}
		if date, ok := spreadsheet.ParseDate(sheet.Cell(row, 1)); ok {
			block.LastDate = date
			block.HasDate = true
		}
	}
	return block
}

// parseMoney strips currency symbols and whitespace before parsing.
func parseMoney(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "$€£ ")
	cleaned = strings.TrimSuffix(cleaned, "CAD")
	cleaned = strings.TrimSuffix(cleaned, "USD")
	return spreadsheet.ParseNumber(cleaned)
}

// Derive computes the line item for a block. A declared hourly rate wins;
// otherwise a declared total is authoritative and the price per hour is
// derived backward from it.
func Derive(block Block, currency string) (Derived, error) {
	derived := Derived{
		Title:    block.Title,
		Hours:    block.Hours,
		Currency: currency,
	}

	if strings.TrimSpace(block.RawRate) != "" {
		rate, ok := parseMoney(block.RawRate)
		if !ok {
			return Derived{}, fmt.Errorf("%w: %q", ErrBadRate, block.RawRate)
		}
		// A declared rate of zero counts as no rate at all; fall through to
		// the declared total.
		if rate != 0 {
			derived.PriceUnit = rate
			derived.Amount = round2(block.Hours * rate)
			return derived, nil
		}
	}

	if strings.TrimSpace(block.RawTotal) == "" {
		return Derived{}, fmt.Errorf("%w: block %q", ErrNoAmount, block.Title)
	}
	total, ok := parseMoney(block.RawTotal)
	if !ok {
		return Derived{}, fmt.Errorf("%w: %q", ErrBadRate, block.RawTotal)
	}
	if block.Hours == 0 {
		return Derived{}, fmt.Errorf("%w: block %q", ErrZeroHours, block.Title)
	}
	derived.PriceUnit = round2(total / block.Hours)
	derived.Amount = round2(total)
	return derived, nil
}
