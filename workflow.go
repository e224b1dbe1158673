// Package workflow runs user-defined graphs of named steps. Each node invokes a
// registered capability that reads the run's shared state and returns the keys
// to merge back into it; edges are either static or chosen by a boolean read
// from the shared state, which makes bounded refinement loops possible.
package workflow

import "time"

// End is the successor value that terminates a run normally.
// An empty successor is treated the same way.
const End = "none"

// MaxSteps is the number of steps after which a run is aborted.
const MaxSteps = 1000

// Node represents a single step in a Graph.
// When ConditionKey is set, NextIfTrue / NextIfFalse are used instead of Next.
type Node struct {
	Name         string `json:"name" yaml:"name"`
	Tool         string `json:"tool" yaml:"tool"`
	Next         string `json:"next,omitempty" yaml:"next,omitempty"`
	ConditionKey string `json:"condition_key,omitempty" yaml:"condition_key,omitempty"`
	NextIfTrue   string `json:"next_if_true,omitempty" yaml:"next_if_true,omitempty"`
	NextIfFalse  string `json:"next_if_false,omitempty" yaml:"next_if_false,omitempty"`
}

// Graph is an immutable workflow definition.
// ID is assigned by the engine on creation; any value supplied by the caller is ignored.
type Graph struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	StartNode string `json:"start_node" yaml:"start_node"`
	Nodes     []Node `json:"nodes" yaml:"nodes"`
}

// Status is the lifecycle state of a Run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// StepLog records one executed node and a snapshot of the state right after it.
type StepLog struct {
	StepIndex int       `json:"step_index"`
	Node      string    `json:"node"`
	Timestamp time.Time `json:"timestamp"`
	State     State     `json:"state"`
}

// Run is one execution of a Graph.
// CurrentNode is empty once the run has completed.
type Run struct {
	ID          string    `json:"id"`
	GraphID     string    `json:"graph_id"`
	Status      Status    `json:"status"`
	CurrentNode string    `json:"current_node,omitempty"`
	State       State     `json:"state"`
	Log         []StepLog `json:"log"`
	Error       string    `json:"error,omitempty"`
}

// Clone returns a copy of the run that shares nothing mutable with r,
// including the state snapshot of every log entry.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	c := *r
	c.State = r.State.Clone()
	c.Log = make([]StepLog, len(r.Log))
	for i, entry := range r.Log {
		entry.State = entry.State.Clone()
		c.Log[i] = entry
	}
	return &c
}

// Clone returns a copy of the graph with its own node slice.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	c := *g
	c.Nodes = make([]Node, len(g.Nodes))
	copy(c.Nodes, g.Nodes)
	return &c
}

// Node looks up a node by name.
func (g *Graph) Node(name string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}

// successor picks the next node name after n has run against state.
func (n Node) successor(state State) string {
	if n.ConditionKey == "" {
		return n.Next
	}
	if Truthy(state[n.ConditionKey]) {
		return n.NextIfTrue
	}
	return n.NextIfFalse
}

// isEnd reports whether name terminates the run.
func isEnd(name string) bool {
	return name == "" || name == End
}
