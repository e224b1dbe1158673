package workflow

import (
	"context"
	"errors"
)

var (
	ErrInvalidGraph  = errors.New("workflow: invalid graph")
	ErrGraphNotFound = errors.New("workflow: graph not found")
	ErrRunNotFound   = errors.New("workflow: run not found")

	// Faults raised inside the step loop. They end the run as failed rather
	// than being returned to the caller.
	ErrNodeNotFound      = errors.New("workflow: node not found")
	ErrToolUnregistered  = errors.New("workflow: tool not registered")
	ErrMalformedOutput   = errors.New("workflow: tool must return a state mapping")
	ErrStepLimitExceeded = errors.New("workflow: max steps exceeded, possible infinite loop")
)

// Store defines the contract for keeping graphs and runs.
// Getters return nil, nil when the id is unknown.
type Store interface {
	// Graphs
	SaveGraph(ctx context.Context, g *Graph) error
	GetGraph(ctx context.Context, graphID string) (*Graph, error)
	ListGraphs(ctx context.Context) ([]*Graph, error)

	// Runs
	SaveRun(ctx context.Context, r *Run) error
	GetRun(ctx context.Context, runID string) (*Run, error)
}
