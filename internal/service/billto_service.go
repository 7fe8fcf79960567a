package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aocampo/invoicer/internal/model"
)

type BillToService struct {
	billTos BillToStore
}

func NewBillToService(billTos BillToStore) *BillToService {
	return &BillToService{billTos: billTos}
}

// BillToInput are the caller-supplied fields of a recipient.
type BillToInput struct {
	To      string
	Address string
	Phone   string
	Email   string
}

func (s *BillToService) Create(ctx context.Context, userID uuid.UUID, input BillToInput) (*model.BillTo, error) {
	if strings.TrimSpace(input.To) == "" {
		return nil, fmt.Errorf("%w: recipient name is required", ErrInvalidInput)
	}
	billTo := &model.BillTo{
		To:      strings.TrimSpace(input.To),
		Address: input.Address,
		Phone:   input.Phone,
		Email:   input.Email,
		UserID:  &userID,
	}
	if err := s.billTos.Create(ctx, billTo); err != nil {
		return nil, err
	}
	return billTo, nil
}

func (s *BillToService) Get(ctx context.Context, id, userID uuid.UUID) (*model.BillTo, error) {
	billTo, err := s.billTos.Get(ctx, id, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return billTo, nil
}

func (s *BillToService) List(ctx context.Context, userID uuid.UUID) ([]model.BillTo, error) {
	return s.billTos.List(ctx, userID)
}

func (s *BillToService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.billTos.Get(ctx, id, userID); err != nil {
		return mapErr(err)
	}
	return mapErr(s.billTos.Delete(ctx, id, userID))
}
