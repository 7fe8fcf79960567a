package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/aocampo/invoicer/internal/model"
)

// Storage contracts the pipeline depends on. The concrete repositories in
// internal/repository satisfy them; tests substitute mocks.

type InvoiceStore interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Invoice, error)
	GetByNumber(ctx context.Context, number int, customerID, userID uuid.UUID) (*model.Invoice, error)
	Patch(ctx context.Context, id, userID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type FileStore interface {
	Create(ctx context.Context, file *model.File) error
	Get(ctx context.Context, id, userID uuid.UUID) (*model.File, error)
	PatchDocumentKey(ctx context.Context, id, userID uuid.UUID, documentKey string) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type ServiceStore interface {
	Create(ctx context.Context, service *model.Service) error
	ListByFile(ctx context.Context, fileID, userID uuid.UUID) ([]model.Service, error)
	DeleteByFile(ctx context.Context, fileID, userID uuid.UUID) error
}

type BillToStore interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*model.BillTo, error)
}

type GlobalStore interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.GlobalConfig, error)
}
