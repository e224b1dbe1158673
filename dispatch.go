package workflow

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers is the default size of the blocking-capability worker pool.
const DefaultWorkers = 40

// Dispatcher invokes capabilities on behalf of the engine.
//
// Capabilities created with Blocking run on a bounded pool of worker
// goroutines while the calling run waits for the result; all other
// capabilities run on the caller's goroutine. Panics in either kind are
// recovered and returned as errors.
type Dispatcher struct {
	pool *semaphore.Weighted
}

// NewDispatcher creates a dispatcher whose pool runs at most workers blocking
// capabilities at a time. Values below 1 select DefaultWorkers.
func NewDispatcher(workers int) *Dispatcher {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Dispatcher{pool: semaphore.NewWeighted(int64(workers))}
}

type callResult struct {
	state State
	err   error
}

// Call invokes c with a private copy of state and waits for its result.
func (d *Dispatcher) Call(ctx context.Context, c Capability, state State) (State, error) {
	input := state.Clone()

	b, ok := c.(blockingCapability)
	if !ok {
		return invoke(ctx, c, input)
	}

	if err := d.pool.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("workflow: waiting for worker: %w", err)
	}

	done := make(chan callResult, 1)
	go func() {
		defer d.pool.Release(1)
		out, err := invoke(ctx, b, input)
		done <- callResult{state: out, err: err}
	}()

	select {
	case res := <-done:
		return res.state, res.err
	case <-ctx.Done():
		// The worker keeps its slot until fn returns.
		return nil, fmt.Errorf("workflow: waiting for blocking tool: %w", ctx.Err())
	}
}

func invoke(ctx context.Context, c Capability, state State) (out State, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("workflow: tool panicked: %v", r)
		}
	}()
	return c.Invoke(ctx, state)
}
