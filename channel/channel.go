// Package channel defines the contracts a concurrency substrate must satisfy so that
// message-driven code can be written once and run on any of them. A substrate binding
// exports a marker type implementing Substrate and a zero-size generic Family[T] type
// that builds connected, unbounded, first-in-first-out sender/receiver pairs for T.
//
// Substrate selection happens through type arguments at compile time; nothing in this
// package branches on which substrate is in use.
package channel

import (
	"context"
)

// Substrate identifies one concurrency runtime. Implementations are zero-size marker
// types that live for the whole process.
type Substrate interface {
	// Name is a short, stable identifier used in logs and metric labels.
	Name() string

	// Spawn runs fn as an independent task scheduled by this substrate.
	// The returned Task completes when fn returns.
	Spawn(ctx context.Context, fn func(ctx context.Context) error) Task
}

// Task is a handle on a function started with Substrate.Spawn.
type Task interface {
	// Done is closed once the task has finished.
	Done() <-chan struct{}

	// Wait blocks until the task has finished and returns its error.
	Wait() error
}

// Sender is the producing end of a channel. Clones share the same queue; the queue is
// considered sender-closed once every clone has been closed.
type Sender[T any] interface {
	// Send enqueues value. It fails with ErrChannelSend when the receiving end has
	// been closed or when this sender was already closed.
	Send(ctx context.Context, value T) error

	// Clone returns a new producer for the same queue. The clone must be closed
	// independently.
	Clone() Sender[T]

	// Close releases this producer. Calling it more than once is a no-op.
	Close() error
}

// Receiver is the consuming end of a channel. It is not safe for concurrent use.
type Receiver[T any] interface {
	// Recv waits for the next value in send order. It fails with
	// ErrChannelSenderClosed once every sender is closed and the queue is drained,
	// with ErrChannelRecv for substrate faults, or with ctx.Err() when ctx ends first.
	Recv(ctx context.Context) (T, error)

	// Close releases the consumer. Subsequent sends fail with ErrChannelSend and
	// anything still queued is passed to Discard.
	Close() error
}

// Family builds channels for payload type T on a single substrate. The zero value of
// an implementation must be a usable factory.
type Family[T any] interface {
	// Substrate returns the runtime this family belongs to.
	Substrate() Substrate

	// Unbounded returns a connected sender/receiver pair over an unbounded FIFO queue.
	Unbounded() (Sender[T], Receiver[T])
}

// Unbounded builds a channel for T from the family F without needing an instance of it.
func Unbounded[T any, F Family[T]]() (Sender[T], Receiver[T]) {
	var family F

	return family.Unbounded()
}

// SubstrateOf returns the substrate associated with the family F.
func SubstrateOf[T any, F Family[T]]() Substrate { //nolint:ireturn
	var family F

	return family.Substrate()
}
