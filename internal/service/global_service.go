package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aocampo/invoicer/internal/model"
)

type GlobalService struct {
	globals GlobalStore
}

func NewGlobalService(globals GlobalStore) *GlobalService {
	return &GlobalService{globals: globals}
}

func (s *GlobalService) List(ctx context.Context, userID uuid.UUID) ([]model.GlobalConfig, error) {
	return s.globals.List(ctx, userID)
}

// Set upserts one named sender value, e.g. the from-name or address printed
// on every invoice.
func (s *GlobalService) Set(ctx context.Context, userID uuid.UUID, name, value string) (*model.GlobalConfig, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: global name is required", ErrInvalidInput)
	}
	global := &model.GlobalConfig{Name: name, Value: value, UserID: userID}
	if err := s.globals.Upsert(ctx, global); err != nil {
		return nil, err
	}
	return global, nil
}
