// Package gochan binds the channel contracts to plain goroutines and Go channels.
// Each channel is a pair of unbuffered Go channels joined by a pump goroutine that
// buffers without limit, so Send never waits for the consumer.
package gochan

import (
	"context"

	"github.com/amp-labs/chanactor/channel"
)

// Name is the substrate label used in logs and metrics.
const Name = "gochan"

var instruments = channel.InstrumentsFor(Name) //nolint:gochecknoglobals

// Substrate schedules each task on its own goroutine.
type Substrate struct{}

var _ channel.Substrate = Substrate{}

// Name returns "gochan".
func (Substrate) Name() string {
	return Name
}

// Spawn runs fn on a new goroutine.
func (Substrate) Spawn(ctx context.Context, fn func(ctx context.Context) error) channel.Task { //nolint:ireturn
	done := channel.NewCompletion()

	instruments.Spawned.Inc()

	go func() {
		done.Finish(channel.RunTask(ctx, Name, fn))
	}()

	return done
}

// Family builds gochan channels carrying T. The zero value is ready to use.
type Family[T any] struct{}

var _ channel.Family[struct{}] = Family[struct{}]{}

// Substrate returns the gochan substrate.
func (Family[T]) Substrate() channel.Substrate { //nolint:ireturn
	return Substrate{}
}

// Unbounded returns a connected sender/receiver pair.
func (Family[T]) Unbounded() (channel.Sender[T], channel.Receiver[T]) { //nolint:ireturn
	q := newPump[T]()

	instruments.Created.Inc()

	return &sender[T]{pump: q}, &receiver[T]{pump: q}
}
