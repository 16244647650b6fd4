package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eshop-micro/services/internal/logger"
)

type ErrorSink func(task string, err error)

// Dispatcher runs work on detached goroutines. A dispatched task gets its
// own context, so cancelling the request that scheduled it does not cancel
// the task. Failures go to the error sink, never back to the caller.
type Dispatcher struct {
	timeout time.Duration
	onError ErrorSink
	wg      sync.WaitGroup
}

func NewDispatcher(timeout time.Duration, sink ErrorSink) *Dispatcher {
	if sink == nil {
		sink = func(task string, err error) {
			logger.Warn("background task failed", "task", task, "err", err)
		}
	}
	return &Dispatcher{timeout: timeout, onError: sink}
}

func (d *Dispatcher) Dispatch(task string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.onError(task, fmt.Errorf("panic: %v", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			d.onError(task, err)
		}
	}()
}

// Wait blocks until in-flight tasks finish. Best effort on shutdown: a task
// still running when the process dies is lost, which keeps delivery
// at-most-once.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
