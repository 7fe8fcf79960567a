package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aocampo/invoicer/internal/model"
)

// Record-store contracts of the CRUD use-cases. The repositories in
// internal/repository satisfy them; tests substitute fakes.

type InvoiceStore interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Invoice, error)
	ListByCustomer(ctx context.Context, customerID, userID uuid.UUID) ([]model.Invoice, error)
	ListByCustomerAndDateRange(ctx context.Context, customerID, userID uuid.UUID, start, end time.Time) ([]model.Invoice, error)
	Patch(ctx context.Context, id, userID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type FileStore interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*model.File, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.File, error)
	ListByInvoice(ctx context.Context, invoiceID, userID uuid.UUID) ([]model.File, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type ServiceStore interface {
	Create(ctx context.Context, service *model.Service) error
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Service, error)
	ListByFile(ctx context.Context, fileID, userID uuid.UUID) ([]model.Service, error)
	Patch(ctx context.Context, id, userID uuid.UUID, updates map[string]interface{}) error
	DeleteByFile(ctx context.Context, fileID, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type BillToStore interface {
	Create(ctx context.Context, billTo *model.BillTo) error
	Get(ctx context.Context, id, userID uuid.UUID) (*model.BillTo, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.BillTo, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type CustomerStore interface {
	Create(ctx context.Context, customer *model.Customer) error
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Customer, error)
	Patch(ctx context.Context, id, userID uuid.UUID, name string) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type GlobalStore interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.GlobalConfig, error)
	Upsert(ctx context.Context, global *model.GlobalConfig) error
}
