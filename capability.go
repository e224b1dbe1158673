package workflow

import "context"

// Capability is a unit of work a node invokes. It receives the run's current
// state and returns only the keys that should be merged back into it. The
// state it is handed must be treated as read-only.
type Capability interface {
	Invoke(ctx context.Context, state State) (State, error)
}

// Func adapts a context-aware function into a Capability. It is invoked
// directly on the run's goroutine and should return promptly once ctx is done.
type Func func(ctx context.Context, state State) (State, error)

// Invoke calls f.
func (f Func) Invoke(ctx context.Context, state State) (State, error) {
	return f(ctx, state)
}

// BlockingFunc is a capability implementation that may block for an
// unbounded amount of time and does not observe a context.
type BlockingFunc func(state State) (State, error)

// blockingCapability marks a BlockingFunc so the Dispatcher runs it on its
// worker pool instead of the calling goroutine.
type blockingCapability struct {
	fn BlockingFunc
}

// Blocking wraps fn as a Capability that is executed on the worker pool.
func Blocking(fn BlockingFunc) Capability {
	return blockingCapability{fn: fn}
}

// Invoke runs fn on the calling goroutine. The Dispatcher does not use this
// path; it is there so the value still satisfies Capability on its own.
func (b blockingCapability) Invoke(_ context.Context, state State) (State, error) {
	return b.fn(state)
}
