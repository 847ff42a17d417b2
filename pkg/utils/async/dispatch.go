package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle tracks a task started by Dispatch
type Handle[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// Dispatch executes a handler function asynchronously with panic recovery and
// returns a handle to await its result.
//
// Behavior:
//   - Executes handler in a new goroutine with ctx
//   - Recovers from panics, logs them with the stack and reports them as the task error
//   - The handle never blocks forever as long as handler returns
func Dispatch[T any](ctx context.Context, handler func(ctx context.Context) (T, error)) *Handle[T] {
	h := &Handle[T]{done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				logger := ctxlog.From(ctx)
				logger.Error("panic in async handler",
					"recover", r,
					"stack", string(stack))
				h.err = goerr.New("panic in async handler", goerr.V("recover", r))
			}
		}()

		h.result, h.err = handler(ctx)
	}()

	return h
}

// Done returns a channel closed when the task completes
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task completes and returns its result
func (h *Handle[T]) Wait() (T, error) {
	<-h.done
	return h.result, h.err
}

// WaitAll waits for every handle. Results and errors are in the order of handles.
func WaitAll[T any](handles []*Handle[T]) ([]T, []error) {
	results := make([]T, len(handles))
	errs := make([]error, len(handles))
	for i, h := range handles {
		results[i], errs[i] = h.Wait()
	}
	return results, errs
}
