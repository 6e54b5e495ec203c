// Package pondpool binds the channel contracts to a github.com/alitto/pond/v2 worker
// pool. Tasks are submitted to one process-wide pool; channels are mutex-guarded ring
// buffers from github.com/eapache/queue.
//
// A task spawned here holds a pool worker until it returns, so a long-lived consumer
// loop (such as an actor driver) permanently occupies one slot of POND_MAX_CONCURRENCY.
package pondpool

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/envutil"
	"github.com/amp-labs/chanactor/lazy"
	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/shutdown"
)

// Name is the substrate label used in logs and metrics.
const Name = "pond"

const defaultMaxConcurrency = 64

var errNonPositive = errors.New("must be positive")

var instruments = channel.InstrumentsFor(Name) //nolint:gochecknoglobals

// workerPool is created on the first Spawn and stopped by the shutdown hooks.
var workerPool = lazy.New[pond.Pool](func() pond.Pool { //nolint:gochecknoglobals
	size := envutil.Int("POND_MAX_CONCURRENCY",
		envutil.Default(defaultMaxConcurrency),
		envutil.Validate(func(n int) error {
			if n <= 0 {
				return errNonPositive
			}

			return nil
		})).ValueOrElse(defaultMaxConcurrency)

	logger.Get().Debug("Initializing pond worker pool", "size", size)

	pool := pond.NewPool(size)

	shutdown.BeforeShutdown(func() {
		logger.Get().Debug("Stopping pond worker pool")
		pool.StopAndWait()
	})

	return pool
})

// Substrate schedules tasks on the shared pond pool.
type Substrate struct{}

var _ channel.Substrate = Substrate{}

// Name returns "pond".
func (Substrate) Name() string {
	return Name
}

// Spawn submits fn to the pool. If the pool has been stopped the task finishes
// immediately with an error wrapping channel.ErrSpawn.
func (Substrate) Spawn(ctx context.Context, fn func(ctx context.Context) error) channel.Task { //nolint:ireturn
	done := channel.NewCompletion()

	err := workerPool.Get().Go(func() {
		done.Finish(channel.RunTask(ctx, Name, fn))
	})
	if err != nil {
		done.Finish(fmt.Errorf("%w on %s: %w", channel.ErrSpawn, Name, err))

		return done
	}

	instruments.Spawned.Inc()

	return done
}

// Family builds pond channels carrying T. The zero value is ready to use.
type Family[T any] struct{}

var _ channel.Family[struct{}] = Family[struct{}]{}

// Substrate returns the pond substrate.
func (Family[T]) Substrate() channel.Substrate { //nolint:ireturn
	return Substrate{}
}

// Unbounded returns a connected sender/receiver pair.
func (Family[T]) Unbounded() (channel.Sender[T], channel.Receiver[T]) { //nolint:ireturn
	mb := newMailbox[T]()

	instruments.Created.Inc()

	return &sender[T]{mailbox: mb}, &receiver[T]{mailbox: mb}
}
