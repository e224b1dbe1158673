package memory

import (
	"sync"

	"github.com/meikuraledutech/workflow"
)

// Store implements workflow.Store in process memory.
// It is safe for concurrent use. Values are copied on the way in and out,
// so callers never share mutable data with the store.
type Store struct {
	mu     sync.RWMutex
	graphs map[string]*workflow.Graph
	runs   map[string]*workflow.Run
}

var _ workflow.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{
		graphs: make(map[string]*workflow.Graph),
		runs:   make(map[string]*workflow.Run),
	}
}
