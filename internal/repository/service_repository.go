package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aocampo/invoicer/internal/model"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, service *model.Service) error {
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO services (id, title, amount, currency, hours, price_unit, file_id, invoice_id, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, service.ID, service.Title, service.Amount, service.Currency, service.Hours,
		service.PriceUnit, service.FileID, service.InvoiceID, service.UserID).Error
}

func (r *ServiceRepository) Get(ctx context.Context, id, userID uuid.UUID) (*model.Service, error) {
	var service model.Service
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, title, amount, currency, hours, price_unit, file_id, invoice_id, user_id
		FROM services
		WHERE id = ? AND user_id = ?
		LIMIT 1
	`, id, userID).Scan(&service).Error
	if err != nil {
		return nil, err
	}
	if service.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &service, nil
}

func (r *ServiceRepository) ListByFile(ctx context.Context, fileID, userID uuid.UUID) ([]model.Service, error) {
	var services []model.Service
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, title, amount, currency, hours, price_unit, file_id, invoice_id, user_id
		FROM services
		WHERE file_id = ? AND user_id = ?
		ORDER BY title ASC
	`, fileID, userID).Scan(&services).Error
	return services, err
}

func (r *ServiceRepository) Patch(ctx context.Context, id, userID uuid.UUID, updates map[string]interface{}) error {
	allowed := map[string]struct{}{
		"title": {}, "amount": {}, "currency": {}, "hours": {}, "price_unit": {},
	}
	filtered := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		if _, ok := allowed[key]; ok {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Table("services").
		Where("id = ? AND user_id = ?", id, userID).
		Updates(filtered).Error
}

func (r *ServiceRepository) DeleteByFile(ctx context.Context, fileID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM services WHERE file_id = ? AND user_id = ?
	`, fileID, userID).Error
}

func (r *ServiceRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM services WHERE id = ? AND user_id = ?
	`, id, userID).Error
}
