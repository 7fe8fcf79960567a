package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aocampo/invoicer/internal/model"
)

type BillToRepository struct {
	db *gorm.DB
}

func NewBillToRepository(db *gorm.DB) *BillToRepository {
	return &BillToRepository{db: db}
}

func (r *BillToRepository) Create(ctx context.Context, billTo *model.BillTo) error {
	if billTo.ID == uuid.Nil {
		billTo.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO bill_tos (id, recipient, address, phone, email, invoice_id, file_id, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, billTo.ID, billTo.To, billTo.Address, billTo.Phone, billTo.Email,
		billTo.InvoiceID, billTo.FileID, billTo.UserID).Error
}

func (r *BillToRepository) Get(ctx context.Context, id, userID uuid.UUID) (*model.BillTo, error) {
	var billTo model.BillTo
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, recipient AS "to", address, phone, email, invoice_id, file_id, user_id
		FROM bill_tos
		WHERE id = ? AND (user_id = ? OR user_id IS NULL)
		LIMIT 1
	`, id, userID).Scan(&billTo).Error
	if err != nil {
		return nil, err
	}
	if billTo.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &billTo, nil
}

func (r *BillToRepository) List(ctx context.Context, userID uuid.UUID) ([]model.BillTo, error) {
	var billTos []model.BillTo
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, recipient AS "to", address, phone, email, invoice_id, file_id, user_id
		FROM bill_tos
		WHERE user_id = ? OR user_id IS NULL
		ORDER BY recipient ASC
	`, userID).Scan(&billTos).Error
	return billTos, err
}

func (r *BillToRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM bill_tos WHERE id = ? AND user_id = ?
	`, id, userID).Error
}
