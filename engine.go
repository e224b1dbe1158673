package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Options configures an Engine.
type Options struct {
	// Workers bounds how many blocking capabilities run at once.
	// Defaults to DefaultWorkers.
	Workers int

	// Logger receives run and step events. Defaults to a logger that
	// discards everything.
	Logger *slog.Logger

	// Now stamps step log entries. Defaults to time.Now in UTC.
	Now func() time.Time
}

// Engine validates and stores graphs and drives runs over them.
// It is safe for concurrent use; each run executes on its caller's goroutine.
type Engine struct {
	store    Store
	tools    *Registry
	dispatch *Dispatcher
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an Engine that keeps graphs and runs in store and resolves
// node tools in tools.
func New(store Store, tools *Registry, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Workers: DefaultWorkers,
		Logger:  slog.New(slog.DiscardHandler),
		Now:     func() time.Time { return time.Now().UTC() },
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		store:    store,
		tools:    tools,
		dispatch: NewDispatcher(opts.Workers),
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// CreateGraph validates def, stores a copy of it under a fresh id and
// returns that id. Invalid definitions return an error wrapping
// ErrInvalidGraph and are not stored.
func (e *Engine) CreateGraph(ctx context.Context, def Graph) (string, error) {
	g := def.Clone()
	g.ID = uuid.NewString()

	if err := g.Validate(); err != nil {
		return "", err
	}
	if err := e.store.SaveGraph(ctx, g); err != nil {
		return "", fmt.Errorf("workflow: save graph: %w", err)
	}

	e.logger.Info("graph created", "graph_id", g.ID, "start_node", g.StartNode, "nodes", len(g.Nodes))
	return g.ID, nil
}

// GetGraph returns the graph stored under graphID.
func (e *Engine) GetGraph(ctx context.Context, graphID string) (*Graph, error) {
	g, err := e.store.GetGraph(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("workflow: get graph: %w", err)
	}
	if g == nil {
		return nil, fmt.Errorf("%w: %q", ErrGraphNotFound, graphID)
	}
	return g, nil
}

// ListGraphs returns every stored graph ordered by id.
func (e *Engine) ListGraphs(ctx context.Context) ([]*Graph, error) {
	graphs, err := e.store.ListGraphs(ctx)
	if err != nil {
		return nil, fmt.Errorf("workflow: list graphs: %w", err)
	}
	return graphs, nil
}

// GetRun returns a copy of the run stored under runID.
func (e *Engine) GetRun(ctx context.Context, runID string) (*Run, error) {
	r, err := e.store.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("workflow: get run: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	return r, nil
}

// RunGraph executes the graph stored under graphID from its start node with
// a copy of initial as the shared state, and returns the finished run.
//
// Faults inside the step loop (undefined node, unregistered tool, tool
// error, malformed tool output, step limit) do not produce an error: they
// mark the returned run as failed and keep the state and log gathered so
// far. The error result is reserved for an unknown graph and store failures.
func (e *Engine) RunGraph(ctx context.Context, graphID string, initial State) (*Run, error) {
	g, err := e.GetGraph(ctx, graphID)
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:          uuid.NewString(),
		GraphID:     g.ID,
		Status:      StatusRunning,
		CurrentNode: g.StartNode,
		State:       initial.Clone(),
		Log:         []StepLog{},
	}
	if err := e.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("workflow: save run: %w", err)
	}

	logger := e.logger.With("run_id", run.ID, "graph_id", g.ID)
	logger.Info("run started", "start_node", g.StartNode)

	if err := e.drive(ctx, g, run, logger); err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
		logger.Warn("run failed", "node", run.CurrentNode, "steps", len(run.Log), "error", err)
	} else {
		run.Status = StatusCompleted
		run.CurrentNode = ""
		logger.Info("run completed", "steps", len(run.Log))
	}

	if err := e.store.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("workflow: save run: %w", err)
	}
	return run, nil
}

// drive executes steps until the run reaches End or a step faults.
func (e *Engine) drive(ctx context.Context, g *Graph, run *Run, logger *slog.Logger) error {
	for step := 0; !isEnd(run.CurrentNode); step++ {
		if step >= MaxSteps {
			return fmt.Errorf("%w: limit is %d", ErrStepLimitExceeded, MaxSteps)
		}

		node, ok := g.Node(run.CurrentNode)
		if !ok {
			return fmt.Errorf("%w: %q", ErrNodeNotFound, run.CurrentNode)
		}
		tool, ok := e.tools.Lookup(node.Tool)
		if !ok {
			return fmt.Errorf("%w: %q", ErrToolUnregistered, node.Tool)
		}

		out, err := e.dispatch.Call(ctx, tool, run.State)
		if err != nil {
			return fmt.Errorf("workflow: node %q: tool %q: %w", node.Name, node.Tool, err)
		}
		if out == nil {
			return fmt.Errorf("%w: tool %q returned nil", ErrMalformedOutput, node.Tool)
		}

		run.State.Merge(out)
		run.Log = append(run.Log, StepLog{
			StepIndex: step,
			Node:      node.Name,
			Timestamp: e.now(),
			State:     run.State.Clone(),
		})

		next := node.successor(run.State)
		logger.Debug("step completed", "step", step, "node", node.Name, "tool", node.Tool, "next", next)
		run.CurrentNode = next

		if err := e.store.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("workflow: save progress: %w", err)
		}
	}
	return nil
}
