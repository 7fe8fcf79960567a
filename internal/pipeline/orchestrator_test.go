package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/aocampo/invoicer/internal/bus"
	"github.com/aocampo/invoicer/internal/config"
	"github.com/aocampo/invoicer/internal/extract"
	"github.com/aocampo/invoicer/internal/model"
	"github.com/aocampo/invoicer/internal/pdf"
)

type pipelineEnv struct {
	state *memState
	store *memStorage
	orch  *Orchestrator
}

func newPipelineEnv(assembler DocumentAssembler) *pipelineEnv {
	state := newMemState()
	store := newMemStorage()
	if assembler == nil {
		assembler = pdf.NewAssembler()
	}
	orch := NewOrchestrator(
		bus.New(),
		&fakeInvoiceStore{state: state},
		&fakeFileStore{state: state},
		&fakeServiceStore{state: state},
		&fakeBillToStore{state: state},
		&fakeGlobalStore{state: state},
		store,
		assembler,
		config.PipelineConfig{Currency: "CAD", HourColumn: "F", StageTimeout: time.Minute},
		zerolog.Nop(),
	)
	orch.RegisterHandlers()
	return &pipelineEnv{state: state, store: store, orch: orch}
}

func (env *pipelineEnv) seedBillTo() uuid.UUID {
	billTo := model.BillTo{
		ID:      uuid.New(),
		To:      "Ville de Montreal",
		Address: "275 Rue Notre-Dame E",
		Phone:   "514-555-0100",
		Email:   "ap@ville.example",
	}
	env.state.billTos[billTo.ID] = billTo
	return billTo.ID
}

func (env *pipelineEnv) seedGlobals(userID uuid.UUID) {
	env.state.globals = []model.GlobalConfig{
		{ID: uuid.New(), Name: model.GlobalFrom, Value: "Deneigement Aurele", UserID: userID},
		{ID: uuid.New(), Name: model.GlobalEmail, Value: "aurele@example.com", UserID: userID},
	}
}

func principal() model.Principal {
	return model.Principal{UserID: uuid.New(), Username: "aurele"}
}

type failingAssembler struct{}

func (failingAssembler) Render(pdf.InvoiceDocument, []extract.Table) ([]byte, error) {
	return nil, errors.New("render failed")
}

func float64Ptr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

// buildContractWorkbook writes a timesheet workbook with one contract block
// for "Acme Corp": a declared $20 hourly rate and five 7.5 hour days.
func buildContractWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	set := func(cell, value string) {
		require.NoError(t, f.SetCellValue(sheet, cell, value))
	}

	set("A1", "NOM CONTRAT")
	set("C1", "Acme Corp")
	set("A2", "TAUX HEURE")
	set("C2", "$20")
	set("A4", "DATE")
	set("F4", "HEURES")
	for day := 1; day <= 5; day++ {
		set(fmt.Sprintf("A%d", 4+day), fmt.Sprintf("2024-05-0%d", day))
		set(fmt.Sprintf("F%d", 4+day), "7.5")
	}
	set("A10", "TOTAL")

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// buildZeroHoursWorkbook declares a total but no rate, with an empty hour
// column, so the backward price derivation must fail.
func buildZeroHoursWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	set := func(cell, value string) {
		require.NoError(t, f.SetCellValue(sheet, cell, value))
	}

	set("A1", "NOM CONTRAT")
	set("C1", "Acme Corp")
	set("A3", "MONTANT")
	set("C3", "$500")
	set("A4", "DATE")
	set("F4", "HEURES")
	set("A8", "TOTAL")

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestGenerateManualItems(t *testing.T) {
	env := newPipelineEnv(nil)
	caller := principal()
	env.seedGlobals(caller.UserID)
	billToID := env.seedBillTo()

	file, err := env.orch.Generate(context.Background(), GenerateInput{
		Principal: caller,
		Invoice: &InvoiceFields{
			Number:     1001,
			Reason:     "Snow removal May 2024",
			Tax1:       float64Ptr(5),
			Tax2:       float64Ptr(9.975),
			WithTaxes:  true,
			CustomerID: uuid.New(),
		},
		BillToID: billToID,
		Items: []LineItem{
			{Title: "Parking lot clearing", Amount: 750, Currency: "CAD", Hours: 37.5, PriceUnit: 20},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, file)
	require.NotNil(t, file.DocumentKey)

	reader, info, err := env.store.Get(context.Background(), *file.DocumentKey)
	require.NoError(t, err)
	defer reader.Close()
	assert.Greater(t, info.Size, int64(0))
	header := make([]byte, 4)
	_, err = reader.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(header))

	assert.Len(t, env.state.invoices, 1)
	require.Len(t, env.state.services, 1)
	for _, service := range env.state.services {
		assert.Equal(t, "Parking lot clearing", service.Title)
		assert.Equal(t, file.ID, service.FileID)
		assert.Equal(t, caller.UserID, service.UserID)
	}
}

func TestGenerateRejectsMissingInput(t *testing.T) {
	env := newPipelineEnv(nil)

	_, err := env.orch.Generate(context.Background(), GenerateInput{
		BillToID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.orch.Generate(context.Background(), GenerateInput{
		Principal: principal(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.orch.Generate(context.Background(), GenerateInput{
		Principal: principal(),
		BillToID:  uuid.New(),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateRejectsFileIDWithUpload(t *testing.T) {
	env := newPipelineEnv(nil)
	fileID := uuid.New()

	_, err := env.orch.Generate(context.Background(), GenerateInput{
		Principal:      principal(),
		Invoice:        &InvoiceFields{Number: 1001, CustomerID: uuid.New()},
		BillToID:       env.seedBillTo(),
		ExistingFileID: &fileID,
		Spreadsheet:    bytes.NewReader(buildContractWorkbook(t)),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, env.state.invoices)
	assert.Empty(t, env.store.objects)
}

func TestGenerateInvoiceConflict(t *testing.T) {
	env := newPipelineEnv(nil)
	caller := principal()
	customerID := uuid.New()
	existingID := uuid.New()
	env.state.invoices[existingID] = model.Invoice{
		ID:         existingID,
		Number:     1001,
		CustomerID: customerID,
		UserID:     caller.UserID,
	}

	_, err := env.orch.Generate(context.Background(), GenerateInput{
		Principal: caller,
		Invoice:   &InvoiceFields{Number: 1001, CustomerID: customerID},
		BillToID:  env.seedBillTo(),
	})
	assert.ErrorIs(t, err, ErrInvoiceConflict)

	assert.Len(t, env.state.invoices, 1)
	assert.Empty(t, env.state.files)
	assert.Empty(t, env.state.services)
	assert.Empty(t, env.store.objects)
}

func TestGenerateRollsBackOnRenderFailure(t *testing.T) {
	env := newPipelineEnv(failingAssembler{})
	caller := principal()
	billToID := env.seedBillTo()

	_, err := env.orch.Generate(context.Background(), GenerateInput{
		Principal: caller,
		Invoice:   &InvoiceFields{Number: 1002, CustomerID: uuid.New()},
		BillToID:  billToID,
		Items: []LineItem{
			{Title: "Salting", Amount: 100, Currency: "CAD", Hours: 4, PriceUnit: 25},
		},
	})
	assert.ErrorIs(t, err, ErrGeneration)

	assert.Empty(t, env.state.invoices)
	assert.Empty(t, env.state.files)
	assert.Empty(t, env.state.services)
	assert.Empty(t, env.store.objects)
}

func TestGenerateReuseExistingInvoice(t *testing.T) {
	env := newPipelineEnv(nil)
	caller := principal()
	billToID := env.seedBillTo()
	customerID := uuid.New()

	invoiceID := uuid.New()
	env.state.invoices[invoiceID] = model.Invoice{
		ID:         invoiceID,
		Number:     1003,
		CustomerID: customerID,
		UserID:     caller.UserID,
	}
	fileID := uuid.New()
	env.state.files[fileID] = model.File{
		ID:        fileID,
		InvoiceID: &invoiceID,
		BillToID:  billToID,
		UserID:    caller.UserID,
	}
	existingService := uuid.New()
	env.state.services[existingService] = model.Service{
		ID:        existingService,
		Title:     "Sidewalk clearing",
		Amount:    200,
		Currency:  "CAD",
		Hours:     8,
		PriceUnit: 25,
		FileID:    fileID,
		InvoiceID: invoiceID,
		UserID:    caller.UserID,
	}

	file, err := env.orch.Generate(context.Background(), GenerateInput{
		Principal:          caller,
		UseExistingInvoice: true,
		ExistingNumber:     1003,
		ExistingCustomerID: customerID,
		WithTaxes:          boolPtr(true),
		BillToID:           billToID,
		ExistingFileID:     &fileID,
		Items: []LineItem{
			{Title: "Salting", Amount: 100, Currency: "CAD", Hours: 4, PriceUnit: 25},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, fileID, file.ID)
	assert.NotNil(t, file.DocumentKey)

	assert.Len(t, env.state.invoices, 1)
	assert.True(t, env.state.invoices[invoiceID].WithTaxes)
	assert.Len(t, env.state.files, 1)
	assert.Len(t, env.state.services, 2)
	for _, service := range env.state.services {
		assert.Equal(t, fileID, service.FileID)
	}
}

func TestGenerateReuseUnknownInvoice(t *testing.T) {
	env := newPipelineEnv(nil)

	_, err := env.orch.Generate(context.Background(), GenerateInput{
		Principal:          principal(),
		UseExistingInvoice: true,
		ExistingNumber:     9999,
		ExistingCustomerID: uuid.New(),
		BillToID:           env.seedBillTo(),
	})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestGenerateFromSpreadsheet(t *testing.T) {
	env := newPipelineEnv(nil)
	caller := principal()
	env.seedGlobals(caller.UserID)
	billToID := env.seedBillTo()

	file, err := env.orch.Generate(context.Background(), GenerateInput{
		Principal: caller,
		Invoice: &InvoiceFields{
			Number:     1004,
			Reason:     "Snow removal May 2024",
			Tax1:       float64Ptr(5),
			Tax2:       float64Ptr(9.975),
			WithTaxes:  true,
			WithTables: true,
			CustomerID: uuid.New(),
		},
		BillToID:    billToID,
		Spreadsheet: bytes.NewReader(buildContractWorkbook(t)),
	})
	require.NoError(t, err)
	require.NotNil(t, file)
	require.NotNil(t, file.SpreadsheetKey)
	require.NotNil(t, file.DocumentKey)

	require.Len(t, env.state.services, 1)
	for _, service := range env.state.services {
		assert.Equal(t, "Acme Corp", service.Title)
		assert.Equal(t, 37.5, service.Hours)
		assert.Equal(t, 20.0, service.PriceUnit)
		assert.Equal(t, 750.0, service.Amount)
		assert.Equal(t, "CAD", service.Currency)
	}

	// The invoice date follows the last worked day of the timesheet.
	require.Len(t, env.state.invoices, 1)
	for _, invoice := range env.state.invoices {
		assert.Equal(t, time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC), invoice.CreatedAt)
	}

	assert.Len(t, env.store.objects, 2)
}

func TestGenerateSpreadsheetZeroHoursRollsBack(t *testing.T) {
	env := newPipelineEnv(nil)
	caller := principal()

	_, err := env.orch.Generate(context.Background(), GenerateInput{
		Principal:   caller,
		Invoice:     &InvoiceFields{Number: 1005, CustomerID: uuid.New()},
		BillToID:    env.seedBillTo(),
		Spreadsheet: bytes.NewReader(buildZeroHoursWorkbook(t)),
	})
	assert.ErrorIs(t, err, ErrGeneration)

	assert.Empty(t, env.state.invoices)
	assert.Empty(t, env.state.files)
	assert.Empty(t, env.state.services)
	assert.Empty(t, env.store.objects)
}
