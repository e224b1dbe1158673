package workflow

import "fmt"

// Validate checks the invariants a graph must satisfy before it is stored:
// every node has a name that is not reserved for End, node names are unique
// and the start node is one of them.
// Successor names are not checked here; an undefined target fails the run
// that reaches it.
func (g *Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if isEnd(n.Name) {
			return fmt.Errorf("%w: node name %q is reserved to end a run", ErrInvalidGraph, n.Name)
		}
		if _, dup := seen[n.Name]; dup {
			return fmt.Errorf("%w: node names must be unique, %q appears more than once", ErrInvalidGraph, n.Name)
		}
		seen[n.Name] = struct{}{}
	}
	if _, ok := seen[g.StartNode]; !ok {
		return fmt.Errorf("%w: start_node %q must be one of the nodes", ErrInvalidGraph, g.StartNode)
	}
	return nil
}
