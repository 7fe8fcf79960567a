package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aocampo/invoicer/internal/bus"
	"github.com/aocampo/invoicer/internal/config"
	"github.com/aocampo/invoicer/internal/extract"
	"github.com/aocampo/invoicer/internal/model"
	"github.com/aocampo/invoicer/internal/pdf"
	"github.com/aocampo/invoicer/internal/storage"
)

// DocumentAssembler renders the final invoice document.
type DocumentAssembler interface {
	Render(doc pdf.InvoiceDocument, tables []extract.Table) ([]byte, error)
}

// Orchestrator drives one invoice generation end to end: resolve the
// invoice, create the file bundle, dispatch the extraction / build /
// finalize stages over the bus, and roll everything back on failure.
type Orchestrator struct {
	bus       *bus.Bus
	invoices  InvoiceStore
	files     FileStore
	services  ServiceStore
	billTos   BillToStore
	globals   GlobalStore
	store     storage.Storage
	assembler DocumentAssembler
	cfg       config.PipelineConfig
	log       zerolog.Logger
}

func NewOrchestrator(
	b *bus.Bus,
	invoices InvoiceStore,
	files FileStore,
	services ServiceStore,
	billTos BillToStore,
	globals GlobalStore,
	store storage.Storage,
	assembler DocumentAssembler,
	cfg config.PipelineConfig,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		bus:       b,
		invoices:  invoices,
		files:     files,
		services:  services,
		billTos:   billTos,
		globals:   globals,
		store:     store,
		assembler: assembler,
		cfg:       cfg,
		log:       log,
	}
}

// InvoiceFields are the caller-supplied fields for a new invoice.
type InvoiceFields struct {
	Number     int
	Reason     string
	Tax1       *float64
	Tax2       *float64
	WithTaxes  bool
	WithTables bool
	CustomerID uuid.UUID
}

// LineItem is one manually entered billable item.
type LineItem struct {
	Title     string
	Amount    float64
	Currency  string
	Hours     float64
	PriceUnit float64
}

// GenerateInput describes one generation request. Exactly one of Invoice or
// UseExistingInvoice must be supplied; Spreadsheet is optional and switches
// between the extraction path and the manual-items path.
type GenerateInput struct {
	Principal model.Principal

	Invoice            *InvoiceFields
	UseExistingInvoice bool
	ExistingNumber     int
	ExistingCustomerID uuid.UUID
	WithTaxes          *bool
	WithTables         *bool

	BillToID       uuid.UUID
	Items          []LineItem
	Spreadsheet    io.Reader
	SheetNames     []string
	ExistingFileID *uuid.UUID
}

// Generate runs the pipeline synchronously and returns the file record with
// its document location set. Conflict and validation errors surface as-is;
// every other failure rolls back and surfaces ErrGeneration.
func (o *Orchestrator) Generate(ctx context.Context, input GenerateInput) (*model.File, error) {
	if !input.Principal.Valid() {
		return nil, fmt.Errorf("%w: missing principal", ErrInvalidInput)
	}
	if input.BillToID == uuid.Nil {
		return nil, fmt.Errorf("%w: bill_to_id is required", ErrInvalidInput)
	}
	if input.ExistingFileID != nil && input.Spreadsheet != nil {
		return nil, fmt.Errorf("%w: file_id and a spreadsheet upload are mutually exclusive", ErrInvalidInput)
	}

	requestID := uuid.New()
	userID := input.Principal.UserID
	log := o.log.With().
		Stringer("request_id", requestID).
		Stringer("user_id", userID).
		Logger()

	invoice, invoiceCreated, err := o.resolveInvoice(ctx, input, userID)
	if err != nil {
		return nil, err
	}
	log = log.With().Stringer("invoice_id", invoice.ID).Logger()

	sg := newSaga(log)
	if invoiceCreated {
		invoiceID := invoice.ID
		sg.push("delete invoice", func(ctx context.Context) error {
			return o.invoices.Delete(ctx, invoiceID, userID)
		})
	}

	file, err := o.run(ctx, sg, log, requestID, userID, invoice, input)
	if err != nil {
		log.Error().Err(err).Msg("invoice generation failed, rolling back")
		sg.rollback(ctx)
		return nil, ErrGeneration
	}
	return file, nil
}

// resolveInvoice either reuses an existing invoice or creates a new one,
// failing fast on a number conflict.
func (o *Orchestrator) resolveInvoice(ctx context.Context, input GenerateInput, userID uuid.UUID) (*model.Invoice, bool, error) {
	if input.UseExistingInvoice {
		invoice, err := o.invoices.GetByNumber(ctx, input.ExistingNumber, input.ExistingCustomerID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, ErrInvoiceNotFound
			}
			return nil, false, err
		}
		updates := map[string]interface{}{}
		if input.WithTaxes != nil {
			updates["with_taxes"] = *input.WithTaxes
			invoice.WithTaxes = *input.WithTaxes
		}
		if input.WithTables != nil {
			updates["with_tables"] = *input.WithTables
			invoice.WithTables = *input.WithTables
		}
		if len(updates) > 0 {
			if err := o.invoices.Patch(ctx, invoice.ID, userID, updates); err != nil {
				return nil, false, err
			}
		}
		return invoice, false, nil
	}

	if input.Invoice == nil {
		return nil, false, fmt.Errorf("%w: invoice fields are required", ErrInvalidInput)
	}

	_, err := o.invoices.GetByNumber(ctx, input.Invoice.Number, input.Invoice.CustomerID, userID)
	switch {
	case err == nil:
		return nil, false, ErrInvoiceConflict
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	invoice := &model.Invoice{
		Number:     input.Invoice.Number,
		Reason:     input.Invoice.Reason,
		Tax1:       input.Invoice.Tax1,
		Tax2:       input.Invoice.Tax2,
		WithTaxes:  input.Invoice.WithTaxes,
		WithTables: input.Invoice.WithTables,
		CustomerID: input.Invoice.CustomerID,
		UserID:     userID,
	}
	if err := o.invoices.Create(ctx, invoice); err != nil {
		return nil, false, err
	}
	return invoice, true, nil
}

func (o *Orchestrator) run(
	ctx context.Context,
	sg *saga,
	log zerolog.Logger,
	requestID, userID uuid.UUID,
	invoice *model.Invoice,
	input GenerateInput,
) (*model.File, error) {
	file, err := o.resolveFile(ctx, sg, userID, invoice, input)
	if err != nil {
		return nil, err
	}
	log = log.With().Stringer("file_id", file.ID).Logger()

	if file.SpreadsheetKey != nil && input.Spreadsheet != nil {
		log.Info().Msg("publishing extraction event")
		err = o.bus.Publish(ctx, ExtractionRequested{
			RequestID:      requestID,
			UserID:         userID,
			InvoiceID:      invoice.ID,
			FileID:         file.ID,
			SpreadsheetKey: *file.SpreadsheetKey,
			SheetNames:     file.SheetNames,
			HourColumn:     o.cfg.HourColumn,
			Currency:       o.cfg.Currency,
		})
	} else {
		if err := o.persistManualItems(ctx, userID, invoice.ID, file.ID, input.Items); err != nil {
			return nil, err
		}
		log.Info().Int("items", len(input.Items)).Msg("publishing document build event")
		err = o.bus.Publish(ctx, DocumentBuildRequested{
			RequestID: requestID,
			UserID:    userID,
			InvoiceID: invoice.ID,
			FileID:    file.ID,
		})
	}
	if err != nil {
		return nil, err
	}

	return o.files.Get(ctx, file.ID, userID)
}

// resolveFile creates the artifact bundle for this request, uploading the
// spreadsheet first when one was supplied. An explicitly supplied existing
// file is reused instead, so new services append to it.
func (o *Orchestrator) resolveFile(
	ctx context.Context,
	sg *saga,
	userID uuid.UUID,
	invoice *model.Invoice,
	input GenerateInput,
) (*model.File, error) {
	if input.ExistingFileID != nil {
		return o.files.Get(ctx, *input.ExistingFileID, userID)
	}

	file := &model.File{
		InvoiceID: &invoice.ID,
		BillToID:  input.BillToID,
		UserID:    userID,
	}

	if input.Spreadsheet != nil {
		content, err := io.ReadAll(input.Spreadsheet)
		if err != nil {
			return nil, fmt.Errorf("read spreadsheet upload: %w", err)
		}
		key := objectKey("spreadsheets", "xlsx")
		_, err = o.store.Put(ctx, key, bytes.NewReader(content), storage.PutObjectOptions{
			Size:        int64(len(content)),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		})
		if err != nil {
			return nil, fmt.Errorf("upload spreadsheet: %w", err)
		}
		sg.push("delete spreadsheet object", func(ctx context.Context) error {
			return o.store.Delete(ctx, key)
		})
		file.SpreadsheetKey = &key
		file.SheetNames = input.SheetNames
	}

	if err := o.files.Create(ctx, file); err != nil {
		return nil, err
	}
	fileID := file.ID
	sg.push("delete file", func(ctx context.Context) error {
		return o.files.Delete(ctx, fileID, userID)
	})
	sg.push("delete services", func(ctx context.Context) error {
		return o.services.DeleteByFile(ctx, fileID, userID)
	})
	return file, nil
}

func (o *Orchestrator) persistManualItems(ctx context.Context, userID, invoiceID, fileID uuid.UUID, items []LineItem) error {
	for _, item := range items {
		service := &model.Service{
			Title:     item.Title,
			Amount:    item.Amount,
			Currency:  item.Currency,
			Hours:     item.Hours,
			PriceUnit: item.PriceUnit,
			FileID:    fileID,
			InvoiceID: invoiceID,
			UserID:    userID,
		}
		if err := o.services.Create(ctx, service); err != nil {
			return err
		}
	}
	return nil
}

func objectKey(prefix, extension string) string {
	return fmt.Sprintf("%s/%s-%s.%s", prefix, time.Now().UTC().Format("20060102150405"), uuid.New(), extension)
}
