package channel

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/amp-labs/chanactor/logger"
)

var (
	// ErrTaskPanic is returned by Task.Wait when the spawned function panicked.
	ErrTaskPanic = errors.New("panic in task")
	// ErrSpawn is returned by Task.Wait when the substrate refused to schedule the task.
	ErrSpawn = errors.New("unable to spawn task")
)

// Completion is the Task implementation shared by substrate bindings. The first
// call to Finish wins; later calls are ignored.
type Completion struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewCompletion returns an unfinished Completion.
func NewCompletion() *Completion {
	return &Completion{
		done: make(chan struct{}),
	}
}

// Finish records the task outcome and releases waiters.
func (c *Completion) Finish(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Done is closed once Finish has been called.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until Finish has been called and returns the recorded error.
func (c *Completion) Wait() error {
	<-c.done

	return c.err
}

// RunTask calls fn and converts a panic into an error wrapping ErrTaskPanic.
// Bindings use it so that a misbehaving task finishes its Completion instead of
// taking the worker down with it.
func RunTask(ctx context.Context, substrate string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get(ctx).Error("task recovered from panic",
				"substrate", substrate,
				"error", r,
				"stack", string(debug.Stack()))

			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w on %s: %w", ErrTaskPanic, substrate, e)
			} else {
				err = fmt.Errorf("%w on %s: %v", ErrTaskPanic, substrate, r)
			}
		}
	}()

	return fn(ctx)
}
