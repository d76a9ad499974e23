package notify

import (
	"context"
	"sync"
	"time"

	"github.com/SaladDann/SIGECOB/pkg/logging"
)

const defaultTaskTimeout = 10 * time.Second

// Dispatcher runs best-effort work after the request has been answered.
// Tasks never report back to the caller; failures and panics are logged.
type Dispatcher struct {
	wg      sync.WaitGroup
	timeout time.Duration
}

func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}
	return &Dispatcher{timeout: timeout}
}

func (d *Dispatcher) Go(ctx context.Context, name string, fn func(ctx context.Context)) {
	taskCtx := logging.Detach(ctx)
	l := logging.FromContext(taskCtx).With("task", name)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				l.Error("task_panic", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(taskCtx, d.timeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until every dispatched task finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown waits for pending tasks or gives up when ctx is done.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
