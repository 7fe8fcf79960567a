package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aocampo/invoicer/internal/model"
	"github.com/aocampo/invoicer/internal/storage"
)

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// InvoiceService owns invoice reads and the full delete cascade: services,
// files and their stored objects go with the invoice.
type InvoiceService struct {
	invoices InvoiceStore
	files    FileStore
	services ServiceStore
	store    storage.Storage
	log      zerolog.Logger
}

func NewInvoiceService(
	invoices InvoiceStore,
	files FileStore,
	services ServiceStore,
	store storage.Storage,
	log zerolog.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		files:    files,
		services: services,
		store:    store,
		log:      log,
	}
}

func (s *InvoiceService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoices.Get(ctx, id, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return invoice, nil
}

func (s *InvoiceService) List(ctx context.Context, userID uuid.UUID) ([]model.Invoice, error) {
	return s.invoices.List(ctx, userID)
}

func (s *InvoiceService) ListByCustomer(ctx context.Context, customerID, userID uuid.UUID) ([]model.Invoice, error) {
	return s.invoices.ListByCustomer(ctx, customerID, userID)
}

// InvoicePatch is the set of invoice fields a caller may change after
// creation.
type InvoicePatch struct {
	Reason     *string
	Tax1       *float64
	Tax2       *float64
	WithTaxes  *bool
	WithTables *bool
}

func (s *InvoiceService) Patch(ctx context.Context, id, userID uuid.UUID, patch InvoicePatch) (*model.Invoice, error) {
	updates := map[string]interface{}{}
	if patch.Reason != nil {
		updates["reason"] = *patch.Reason
	}
	if patch.Tax1 != nil {
		updates["tax_1"] = *patch.Tax1
	}
	if patch.Tax2 != nil {
		updates["tax_2"] = *patch.Tax2
	}
	if patch.WithTaxes != nil {
		updates["with_taxes"] = *patch.WithTaxes
	}
	if patch.WithTables != nil {
		updates["with_tables"] = *patch.WithTables
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: empty patch", ErrInvalidInput)
	}
	if err := s.invoices.Patch(ctx, id, userID, updates); err != nil {
		return nil, mapErr(err)
	}
	invoice, err := s.invoices.Get(ctx, id, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return invoice, nil
}

// Delete removes the invoice with everything hanging off it: per file the
// services, the file record and its stored spreadsheet and document objects.
func (s *InvoiceService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.invoices.Get(ctx, id, userID); err != nil {
		return mapErr(err)
	}

	files, err := s.files.ListByInvoice(ctx, id, userID)
	if err != nil {
		return err
	}

	var keys []string
	for _, file := range files {
		if err := s.services.DeleteByFile(ctx, file.ID, userID); err != nil {
			return err
		}
		keys = append(keys, objectKeys(file)...)
		if err := s.files.Delete(ctx, file.ID, userID); err != nil {
			return err
		}
	}
	if len(keys) > 0 {
		if err := s.store.Delete(ctx, keys...); err != nil {
			// The records are already gone; orphaned objects only get logged.
			s.log.Error().Err(err).Strs("keys", keys).Msg("delete stored objects")
		}
	}

	return mapErr(s.invoices.Delete(ctx, id, userID))
}

func objectKeys(file model.File) []string {
	var keys []string
	if file.SpreadsheetKey != nil {
		keys = append(keys, *file.SpreadsheetKey)
	}
	if file.DocumentKey != nil {
		keys = append(keys, *file.DocumentKey)
	}
	return keys
}
