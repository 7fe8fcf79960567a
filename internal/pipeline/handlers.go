package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aocampo/invoicer/internal/bus"
	"github.com/aocampo/invoicer/internal/extract"
	"github.com/aocampo/invoicer/internal/model"
	"github.com/aocampo/invoicer/internal/pdf"
	"github.com/aocampo/invoicer/internal/spreadsheet"
	"github.com/aocampo/invoicer/internal/storage"
)

// RegisterHandlers subscribes the stage handlers on the bus. Call once per
// orchestrator instance before the first Generate.
func (o *Orchestrator) RegisterHandlers() {
	o.bus.Register(EventExtractionRequested, o.handleExtraction)
	o.bus.Register(EventDocumentBuildRequested, o.handleDocumentBuild)
	o.bus.Register(EventFinalizeRequested, o.handleFinalize)
}

// stageContext bounds one pipeline stage; expiry aborts the stage and
// propagates to the publisher, which triggers the rollback.
func (o *Orchestrator) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := o.cfg.StageTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return context.WithTimeout(ctx, timeout)
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

func (o *Orchestrator) handleExtraction(ctx context.Context, e bus.Event) error {
	event, ok := e.(ExtractionRequested)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e, EventExtractionRequested)
	}
	ctx, cancel := o.stageContext(ctx)
	defer cancel()

	log := o.log.With().
		Stringer("request_id", event.RequestID).
		Stringer("invoice_id", event.InvoiceID).
		Stringer("file_id", event.FileID).
		Logger()
	log.Info().Msg("extracting spreadsheet data")

	reader, _, err := o.store.Get(ctx, event.SpreadsheetKey)
	if err != nil {
		return fmt.Errorf("download spreadsheet: %w", err)
	}
	defer reader.Close()

	workbook, err := spreadsheet.Open(reader)
	if err != nil {
		return err
	}
	defer workbook.Close()

	var latest time.Time
	hasDate := false
	blocks := 0

	for _, name := range workbook.SheetNames() {
		if !sheetSelected(name, event.SheetNames) {
			continue
		}
		sheet, err := workbook.Sheet(name)
		if err != nil {
			return err
		}
		for _, rng := range extract.FindRanges(sheet) {
			hourCol := extract.HourColumn(sheet, rng, event.HourColumn)
			block := extract.ReadBlock(sheet, rng, hourCol)
			derived, err := extract.Derive(block, event.Currency)
			if err != nil {
				return err
			}
			service := &model.Service{
				Title:     derived.Title,
				Amount:    derived.Amount,
				Currency:  derived.Currency,
				Hours:     derived.Hours,
				PriceUnit: derived.PriceUnit,
				FileID:    event.FileID,
				InvoiceID: event.InvoiceID,
				UserID:    event.UserID,
			}
			if err := o.services.Create(ctx, service); err != nil {
				return err
			}
			blocks++
			if block.HasDate && block.LastDate.After(latest) {
				latest = block.LastDate
				hasDate = true
			}
		}
	}
	log.Info().Int("blocks", blocks).Msg("extraction complete")

	if hasDate {
		updates := map[string]interface{}{"created_at": latest}
		if err := o.invoices.Patch(ctx, event.InvoiceID, event.UserID, updates); err != nil {
			return err
		}
	}

	return o.bus.Publish(ctx, DocumentBuildRequested{
		RequestID: event.RequestID,
		UserID:    event.UserID,
		InvoiceID: event.InvoiceID,
		FileID:    event.FileID,
	})
}

func (o *Orchestrator) handleDocumentBuild(ctx context.Context, e bus.Event) error {
	event, ok := e.(DocumentBuildRequested)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e, EventDocumentBuildRequested)
	}
	ctx, cancel := o.stageContext(ctx)
	defer cancel()

	invoice, err := o.invoices.Get(ctx, event.InvoiceID, event.UserID)
	if err != nil {
		return err
	}
	file, err := o.files.Get(ctx, event.FileID, event.UserID)
	if err != nil {
		return err
	}
	services, err := o.services.ListByFile(ctx, event.FileID, event.UserID)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		return ErrNoServices
	}
	billTo, err := o.billTos.Get(ctx, file.BillToID, event.UserID)
	if err != nil {
		return err
	}
	globals, err := o.globals.List(ctx, event.UserID)
	if err != nil {
		return err
	}

	var tables []extract.Table
	if invoice.WithTables && file.SpreadsheetKey != nil {
		tables, err = o.buildTables(ctx, *file.SpreadsheetKey, file.SheetNames)
		if err != nil {
			return err
		}
	}

	document := pdf.InvoiceDocument{
		Invoice:  *invoice,
		Sender:   model.SenderInfoFromGlobals(globals),
		BillTo:   *billTo,
		Services: services,
		Totals:   pdf.ComputeTotals(*invoice, services),
	}
	content, err := o.assembler.Render(document, tables)
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}

	return o.bus.Publish(ctx, FinalizeRequested{
		RequestID: event.RequestID,
		UserID:    event.UserID,
		InvoiceID: event.InvoiceID,
		FileID:    event.FileID,
		Document:  content,
	})
}

// buildTables re-reads the stored spreadsheet and snapshots every extracted
// range for the appendix, preserving sheet and block order.
func (o *Orchestrator) buildTables(ctx context.Context, key string, sheetNames []string) ([]extract.Table, error) {
	reader, _, err := o.store.Get(ctx, key)
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
			hourCol := extract.HourColumn(sheet, rng, o.cfg.HourColumn)
			block := extract.ReadBlock(sheet, rng, hourCol)
			tables = append(tables, extract.BuildTable(sheet, block, hourCol))
		}
	}
	return tables, nil
}

func (o *Orchestrator) handleFinalize(ctx context.Context, e bus.Event) error {
	event, ok := e.(FinalizeRequested)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e, EventFinalizeRequested)
	}
	ctx, cancel := o.stageContext(ctx)
	defer cancel()

	key := objectKey("invoices", "pdf")
	_, err := o.store.Put(ctx, key, bytes.NewReader(event.Document), storage.PutObjectOptions{
		Size:        int64(len(event.Document)),
		ContentType: "application/pdf",
	})
	if err != nil {
		return fmt.Errorf("upload document: %w", err)
	}

	if err := o.files.PatchDocumentKey(ctx, event.FileID, event.UserID, key); err != nil {
		return err
	}
	o.log.Info().
		Stringer("request_id", event.RequestID).
		Stringer("file_id", event.FileID).
		Str("document_key", key).
		Msg("invoice document finalized")
	return nil
}
