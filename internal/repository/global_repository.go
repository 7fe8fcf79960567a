package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aocampo/invoicer/internal/model"
)

type GlobalRepository struct {
	db *gorm.DB
}

func NewGlobalRepository(db *gorm.DB) *GlobalRepository {
	return &GlobalRepository{db: db}
}

func (r *GlobalRepository) List(ctx context.Context, userID uuid.UUID) ([]model.GlobalConfig, error) {
	var globals []model.GlobalConfig
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, value, user_id
		FROM global_configs
		WHERE user_id = ?
		ORDER BY name ASC
	`, userID).Scan(&globals).Error
	return globals, err
}

// Upsert creates or replaces a named configuration value for the user.
func (r *GlobalRepository) Upsert(ctx context.Context, global *model.GlobalConfig) error {
	if global.ID == uuid.Nil {
		global.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO global_configs (id, name, value, user_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, name) DO UPDATE SET value = EXCLUDED.value
	`, global.ID, global.Name, global.Value, global.UserID).Error
}
