package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aocampo/invoicer/internal/model"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO customers (id, name, user_id, created_at)
		VALUES (?, ?, ?, ?)
	`, customer.ID, customer.Name, customer.UserID, customer.CreatedAt).Error
}

func (r *CustomerRepository) Get(ctx context.Context, id, userID uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, user_id, created_at
		FROM customers
		WHERE id = ? AND user_id = ?
		LIMIT 1
	`, id, userID).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &customer, nil
}

func (r *CustomerRepository) List(ctx context.Context, userID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, user_id, created_at
		FROM customers
		WHERE user_id = ?
		ORDER BY name ASC
	`, userID).Scan(&customers).Error
	return customers, err
}

func (r *CustomerRepository) Patch(ctx context.Context, id, userID uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE customers SET name = ? WHERE id = ? AND user_id = ?
	`, name, id, userID).Error
}

func (r *CustomerRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM customers WHERE id = ? AND user_id = ?
	`, id, userID).Error
}
