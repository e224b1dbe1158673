package workflow

import (
	"sort"
	"sync"
)

// Registry maps tool names to capabilities.
// It is safe for concurrent use; registering a name again replaces the
// previous capability.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Capability
}

// NewRegistry creates a registry holding the given capabilities.
func NewRegistry(initial map[string]Capability) *Registry {
	tools := make(map[string]Capability, len(initial))
	for name, c := range initial {
		tools[name] = c
	}
	return &Registry{tools: tools}
}

// Register associates name with c.
func (r *Registry) Register(name string, c Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = c
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.tools[name]
	if !ok || c == nil {
		return nil, false
	}
	return c, true
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
