package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aocampo/invoicer/internal/model"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	now := time.Now().UTC()
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = now
	}
	invoice.UpdatedAt = now

	return r.db.WithContext(ctx).Exec(`
		INSERT INTO invoices (id, number, reason, tax_1, tax_2, with_taxes, with_tables, customer_id, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, invoice.ID, invoice.Number, invoice.Reason, invoice.Tax1, invoice.Tax2,
		invoice.WithTaxes, invoice.WithTables, invoice.CustomerID, invoice.UserID,
		invoice.CreatedAt, invoice.UpdatedAt).Error
}

func (r *InvoiceRepository) Get(ctx context.Context, id, userID uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, number, reason, tax_1, tax_2, with_taxes, with_tables, customer_id, user_id, created_at, updated_at
		FROM invoices
		WHERE id = ? AND user_id = ?
		LIMIT 1
	`, id, userID).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &invoice, nil
}

// GetByNumber looks an invoice up by its human-assigned number within one
// customer and owner.
func (r *InvoiceRepository) GetByNumber(ctx context.Context, number int, customerID, userID uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, number, reason, tax_1, tax_2, with_taxes, with_tables, customer_id, user_id, created_at, updated_at
		FROM invoices
		WHERE number = ? AND customer_id = ? AND user_id = ?
		LIMIT 1
	`, number, customerID, userID).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &invoice, nil
}

func (r *InvoiceRepository) ListByCustomer(ctx context.Context, customerID, userID uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, number, reason, tax_1, tax_2, with_taxes, with_tables, customer_id, user_id, created_at, updated_at
		FROM invoices
		WHERE customer_id = ? AND user_id = ?
		ORDER BY number ASC
	`, customerID, userID).Scan(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) ListByCustomerAndDateRange(ctx context.Context, customerID, userID uuid.UUID, start, end time.Time) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, number, reason, tax_1, tax_2, with_taxes, with_tables, customer_id, user_id, created_at, updated_at
		FROM invoices
		WHERE customer_id = ? AND user_id = ? AND created_at >= ? AND created_at <= ?
		ORDER BY created_at ASC
	`, customerID, userID, start, end).Scan(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) List(ctx context.Context, userID uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, number, reason, tax_1, tax_2, with_taxes, with_tables, customer_id, user_id, created_at, updated_at
		FROM invoices
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID).Scan(&invoices).Error
	return invoices, err
}

// Patch updates only the provided columns. Allowed keys mirror the invoice
// table; unknown keys are ignored rather than interpolated.
func (r *InvoiceRepository) Patch(ctx context.Context, id, userID uuid.UUID, updates map[string]interface{}) error {
	allowed := map[string]struct{}{
		"number": {}, "reason": {}, "tax_1": {}, "tax_2": {},
		"with_taxes": {}, "with_tables": {}, "created_at": {},
	}
	filtered := make(map[string]interface{}, len(updates)+1)
	for key, value := range updates {
		if _, ok := allowed[key]; ok {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	filtered["updated_at"] = time.Now().UTC()

	return r.db.WithContext(ctx).
		Table("invoices").
		Where("id = ? AND user_id = ?", id, userID).
		Updates(filtered).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM invoices WHERE id = ? AND user_id = ?
	`, id, userID).Error
}
