package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aocampo/invoicer/internal/model"
)

type CustomerService struct {
	customers CustomerStore
}

func NewCustomerService(customers CustomerStore) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) Create(ctx context.Context, userID uuid.UUID, name string) (*model.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	customer := &model.Customer{Name: name, UserID: userID}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Customer, error) {
	customer, err := s.customers.Get(ctx, id, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, userID uuid.UUID) ([]model.Customer, error) {
	return s.customers.List(ctx, userID)
}

func (s *CustomerService) Rename(ctx context.Context, id, userID uuid.UUID, name string) (*model.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if err := s.customers.Patch(ctx, id, userID, name); err != nil {
		return nil, mapErr(err)
	}
	customer, err := s.customers.Get(ctx, id, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.customers.Get(ctx, id, userID); err != nil {
		return mapErr(err)
	}
	return mapErr(s.customers.Delete(ctx, id, userID))
}
