package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aocampo/invoicer/internal/excel"
	"github.com/aocampo/invoicer/internal/extract"
	"github.com/aocampo/invoicer/internal/spreadsheet"
	"github.com/aocampo/invoicer/internal/storage"
)

// SummaryGenerator renders the summary workbook.
type SummaryGenerator interface {
	Generate(summary excel.Summary) ([]byte, error)
}

// SummaryService assembles the date-range summary workbook for a customer:
// every contract block of every timesheet attached to the customer's
// invoices in the period, re-extracted from the stored spreadsheets.
type SummaryService struct {
	invoices   InvoiceStore
	files      FileStore
	customers  CustomerStore
	store      storage.Storage
	generator  SummaryGenerator
	hourColumn string
	log        zerolog.Logger
}

func NewSummaryService(
	invoices InvoiceStore,
	files FileStore,
	customers CustomerStore,
	store storage.Storage,
	generator SummaryGenerator,
	hourColumn string,
	log zerolog.Logger,
) *SummaryService {
	return &SummaryService{
		invoices:   invoices,
		files:      files,
		customers:  customers,
		store:      store,
		generator:  generator,
		hourColumn: hourColumn,
		log:        log,
	}
}

// SummaryResult is a rendered workbook ready to be served as an attachment.
type SummaryResult struct {
	FileName string
	Content  []byte
}

func (s *SummaryService) Generate(ctx context.Context, customerID, userID uuid.UUID, start, end time.Time) (*SummaryResult, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}
	start = dateOnly(start)
	// The end date is inclusive.
	end = dateOnly(end).Add(24*time.Hour - time.Second)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date must be before or equal to end date", ErrInvalidInput)
	}

	customer, err := s.customers.Get(ctx, customerID, userID)
	if err != nil {
		return nil, mapErr(err)
	}

	invoices, err := s.invoices.ListByCustomerAndDateRange(ctx, customerID, userID, start, end)
	if err != nil {
		return nil, err
	}

	var contracts []extract.Table
	for _, invoice := range invoices {
		files, err := s.files.ListByInvoice(ctx, invoice.ID, userID)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if file.SpreadsheetKey == nil {
				continue
			}
			tables, err := s.extractTables(ctx, *file.SpreadsheetKey, file.SheetNames)
			if err != nil {
				return nil, fmt.Errorf("file %s: %w", file.ID, err)
			}
			contracts = append(contracts, tables...)
		}
	}

	content, err := s.generator.Generate(excel.Summary{
		Customer:  customer.Name,
		Start:     start,
		End:       dateOnly(end),
		Contracts: contracts,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Stringer("customer_id", customerID).
		Int("contracts", len(contracts)).
		Msg("summary workbook generated")

	return &SummaryResult{
		FileName: buildSummaryFileName(customer.Name, start, end),
		Content:  content,
	}, nil
}

func (s *SummaryService) extractTables(ctx context.Context, key string, sheetNames []string) ([]extract.Table, error) {
	reader, _, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download spreadsheet: %w", err)
	}
	defer reader.Close()

	workbook, err := spreadsheet.Open(reader)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	var tables []extract.Table
	for _, name := range workbook.SheetNames() {
		if !sheetSelected(name, sheetNames) {
			continue
		}
		sheet, err := workbook.Sheet(name)
		if err != nil {
			return nil, err
		}
		for _, rng := range extract.FindRanges(sheet) {
			hourCol := extract.HourColumn(sheet, rng, s.hourColumn)
			block := extract.ReadBlock(sheet, rng, hourCol)
			tables = append(tables, extract.BuildTable(sheet, block, hourCol))
		}
	}
	return tables, nil
}

func sheetSelected(name string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == name {
			return true
		}
	}
	return false
}

func buildSummaryFileName(customer string, start, end time.Time) string {
	name := sanitizeFileName(customer)
	if name == "" {
		name = "client"
	}
	return fmt.Sprintf("sommaire-%s-%s-%s.xlsx",
		name, start.Format("20060102"), dateOnly(end).Format("20060102"))
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
