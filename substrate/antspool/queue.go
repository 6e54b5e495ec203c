package antspool

import (
	"context"
	"sync"

	"github.com/amp-labs/chanactor/channel"
	"go.uber.org/atomic"
)

// queue is the channel state shared by every sender clone and the receiver.
// Pushes only take the read side of gate; receiver Close takes the write side so
// that no push can land after the final drain.
type queue[T any] struct {
	items    *mpsc[T]
	gate     sync.RWMutex
	rxClosed atomic.Bool
	senders  atomic.Int64
	notify   chan struct{}
}

func newQueue[T any]() *queue[T] {
	q := &queue[T]{
		items:  newMPSC[T](),
		notify: make(chan struct{}, 1),
	}

	q.senders.Store(1)

	return q
}

func (q *queue[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

type sender[T any] struct {
	queue  *queue[T]
	closed atomic.Bool
}

func (s *sender[T]) Send(_ context.Context, value T) error {
	if s.closed.Load() {
		return channel.SendError("sender already closed")
	}

	q := s.queue

	q.gate.RLock()

	if q.rxClosed.Load() {
		q.gate.RUnlock()

		return channel.SendError("receiving end closed")
	}

	q.items.push(value)
	q.gate.RUnlock()

	instruments.Sent.Inc()
	q.wake()

	return nil
}

func (s *sender[T]) Clone() channel.Sender[T] { //nolint:ireturn
	clone := &sender[T]{queue: s.queue}

	if s.closed.Load() {
		clone.closed.Store(true)

		return clone
	}

	s.queue.senders.Inc()

	return clone
}

func (s *sender[T]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if s.queue.senders.Dec() == 0 {
		s.queue.wake()
	}

	return nil
}

type receiver[T any] struct {
	queue *queue[T]
}

func (r *receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T

	q := r.queue

	for {
		if q.rxClosed.Load() {
			return zero, channel.RecvError("receiver already closed")
		}

		if v, ok := q.items.pop(); ok {
			instruments.Received.Inc()

			return v, nil
		}

		if q.senders.Load() == 0 {
			// Every push happened before its sender's Close, so one more pop
			// observes anything left.
			if v, ok := q.items.pop(); ok {
				instruments.Received.Inc()

				return v, nil
			}

			return zero, channel.ErrChannelSenderClosed
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.notify:
		}
	}
}

func (r *receiver[T]) Close() error {
	q := r.queue

	q.gate.Lock()
	alreadyClosed := q.rxClosed.Swap(true)
	q.gate.Unlock()

	if alreadyClosed {
		return nil
	}

	var pending []T

	for {
		v, ok := q.items.pop()
		if !ok {
			break
		}

		pending = append(pending, v)
	}

	instruments.Discarded.Add(float64(len(pending)))
	channel.Discard(pending...)

	return nil
}
