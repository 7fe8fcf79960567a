package pipeline

import (
	"context"

	"github.com/rs/zerolog"
)

type undoStep struct {
	name string
	fn   func(context.Context) error
}

// saga collects undo actions as creations succeed and executes them in
// reverse on failure. Undo failures are logged and skipped so the original
// pipeline error is never masked.
type saga struct {
	log   zerolog.Logger
	steps []undoStep
}

func newSaga(log zerolog.Logger) *saga {
	return &saga{log: log}
}

func (s *saga) push(name string, fn func(context.Context) error) {
	s.steps = append(s.steps, undoStep{name: name, fn: fn})
}

func (s *saga) rollback(ctx context.Context) {
	// The triggering context may already be cancelled or expired; rollback
	// still has to run.
	ctx = context.WithoutCancel(ctx)
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.fn(ctx); err != nil {
			s.log.Error().Err(err).Str("step", step.name).Msg("rollback step failed")
		}
	}
	s.steps = nil
}
