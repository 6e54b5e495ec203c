// Package antspool binds the channel contracts to a github.com/panjf2000/ants/v2
// goroutine pool. Channels are lock-free multi-producer/single-consumer linked lists.
package antspool

import (
	"context"
	"errors"
	"fmt"

	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/envutil"
	"github.com/amp-labs/chanactor/lazy"
	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/shutdown"
	"github.com/panjf2000/ants/v2"
)

// Name is the substrate label used in logs and metrics.
const Name = "ants"

const defaultPoolSize = 1024

var errNonPositive = errors.New("must be positive")

var instruments = channel.InstrumentsFor(Name) //nolint:gochecknoglobals

// goroutinePool is built on the first Spawn. A failed construction is retried on the
// next Spawn.
var goroutinePool = lazy.NewErr(func() (*ants.Pool, error) { //nolint:gochecknoglobals
	size := envutil.Int("ANTS_POOL_SIZE",
		envutil.Default(defaultPoolSize),
		envutil.Validate(func(n int) error {
			if n <= 0 {
				return errNonPositive
			}

			return nil
		})).ValueOrElse(defaultPoolSize)

	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(r any) {
		// RunTask already recovers; this only fires for panics outside of it.
		logger.Get().Error("ants worker panic", "error", r)
	}))
	if err != nil {
		return nil, err
	}

	logger.Get().Debug("Initialized ants goroutine pool", "size", size)

	shutdown.BeforeShutdown(func() {
		logger.Get().Debug("Releasing ants goroutine pool")
		pool.Release()
	})

	return pool, nil
})

// Substrate schedules tasks on the shared ants pool.
type Substrate struct{}

var _ channel.Substrate = Substrate{}

// Name returns "ants".
func (Substrate) Name() string {
	return Name
}

// Spawn submits fn to the pool. Submission failures (pool closed, overloaded) finish
// the task immediately with an error wrapping channel.ErrSpawn.
func (Substrate) Spawn(ctx context.Context, fn func(ctx context.Context) error) channel.Task { //nolint:ireturn
	done := channel.NewCompletion()

	pool, err := goroutinePool.Get()
	if err != nil {
		done.Finish(fmt.Errorf("%w on %s: %w", channel.ErrSpawn, Name, err))

		return done
	}

	if err := pool.Submit(func() {
		done.Finish(channel.RunTask(ctx, Name, fn))
	}); err != nil {
		done.Finish(fmt.Errorf("%w on %s: %w", channel.ErrSpawn, Name, err))

		return done
	}

	instruments.Spawned.Inc()

	return done
}

// Family builds ants channels carrying T. The zero value is ready to use.
type Family[T any] struct{}

var _ channel.Family[struct{}] = Family[struct{}]{}

// Substrate returns the ants substrate.
func (Family[T]) Substrate() channel.Substrate { //nolint:ireturn
	return Substrate{}
}

// Unbounded returns a connected sender/receiver pair.
func (Family[T]) Unbounded() (channel.Sender[T], channel.Receiver[T]) { //nolint:ireturn
	q := newQueue[T]()

	instruments.Created.Inc()

	return &sender[T]{queue: q}, &receiver[T]{queue: q}
}
