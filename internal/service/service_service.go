package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aocampo/invoicer/internal/model"
)

// ServiceService owns the standalone line-item CRUD, for callers that manage
// services outside the generation pipeline.
type ServiceService struct {
	services ServiceStore
	files    FileStore
}

func NewServiceService(services ServiceStore, files FileStore) *ServiceService {
	return &ServiceService{services: services, files: files}
}

// ServiceInput are the caller-supplied fields of a line item.
type ServiceInput struct {
	Title     string
	Amount    float64
	Currency  string
	Hours     float64
	PriceUnit float64
	FileID    uuid.UUID
	InvoiceID uuid.UUID
}

func (s *ServiceService) Create(ctx context.Context, userID uuid.UUID, input ServiceInput) (*model.Service, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.FileID == uuid.Nil {
		return nil, fmt.Errorf("%w: file_id is required", ErrInvalidInput)
	}
	// The line item must attach to a file owned by the caller.
	file, err := s.files.Get(ctx, input.FileID, userID)
	if err != nil {
		return nil, mapErr(err)
	}

	invoiceID := input.InvoiceID
	if invoiceID == uuid.Nil && file.InvoiceID != nil {
		invoiceID = *file.InvoiceID
	}
	svc := &model.Service{
		Title:     strings.TrimSpace(input.Title),
		Amount:    input.Amount,
		Currency:  input.Currency,
		Hours:     input.Hours,
		PriceUnit: input.PriceUnit,
		FileID:    input.FileID,
		InvoiceID: invoiceID,
		UserID:    userID,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *ServiceService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Service, error) {
	svc, err := s.services.Get(ctx, id, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return svc, nil
}

// ServicePatch is the set of line-item fields a caller may change after
// creation.
type ServicePatch struct {
	Title     *string
	Amount    *float64
	Currency  *string
	Hours     *float64
	PriceUnit *float64
}

func (s *ServiceService) Patch(ctx context.Context, id, userID uuid.UUID, patch ServicePatch) (*model.Service, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be blank", ErrInvalidInput)
		}
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.Currency != nil {
		updates["currency"] = *patch.Currency
	}
	if patch.Hours != nil {
		updates["hours"] = *patch.Hours
	}
	if patch.PriceUnit != nil {
		updates["price_unit"] = *patch.PriceUnit
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: empty patch", ErrInvalidInput)
	}
	if _, err := s.services.Get(ctx, id, userID); err != nil {
		return nil, mapErr(err)
	}
	if err := s.services.Patch(ctx, id, userID, updates); err != nil {
		return nil, err
	}
	svc, err := s.services.Get(ctx, id, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return svc, nil
}

func (s *ServiceService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.services.Get(ctx, id, userID); err != nil {
		return mapErr(err)
	}
	return mapErr(s.services.Delete(ctx, id, userID))
}
