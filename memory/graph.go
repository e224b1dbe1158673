package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/meikuraledutech/workflow"
)

// SaveGraph stores a copy of g under g.ID.
func (s *Store) SaveGraph(_ context.Context, g *workflow.Graph) error {
	if g.ID == "" {
		return fmt.Errorf("memory: save graph: empty id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[g.ID] = g.Clone()
	return nil
}

// GetGraph returns a copy of the graph stored under graphID.
// Returns nil, nil if not found.
func (s *Store) GetGraph(_ context.Context, graphID string) (*workflow.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.graphs[graphID]
	if !ok {
		return nil, nil
	}
	return g.Clone(), nil
}

// ListGraphs returns copies of all stored graphs, ordered by id.
// Returns an empty slice (not nil) if none are stored.
func (s *Store) ListGraphs(_ context.Context) ([]*workflow.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	graphs := make([]*workflow.Graph, 0, len(s.graphs))
	for _, g := range s.graphs {
		graphs = append(graphs, g.Clone())
	}
	sort.Slice(graphs, func(i, j int) bool { return graphs[i].ID < graphs[j].ID })
	return graphs, nil
}
