package memory

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/workflow"
)

// SaveRun stores a copy of r under r.ID, replacing any earlier version.
func (s *Store) SaveRun(_ context.Context, r *workflow.Run) error {
	if r.ID == "" {
		return fmt.Errorf("memory: save run: empty id")
	}

	c := r.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = c
	return nil
}

// GetRun returns a copy of the run stored under runID.
// Returns nil, nil if not found.
func (s *Store) GetRun(_ context.Context, runID string) (*workflow.Run, error) {
	s.mu.RLock()
	r, ok := s.runs[runID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	return r.Clone(), nil
}
