package pondpool

import (
	"context"
	"sync"

	"github.com/amp-labs/chanactor/channel"
	"github.com/eapache/queue"
)

// mailbox is the queue shared by every sender clone and the receiver of one channel.
type mailbox[T any] struct {
	mut      sync.Mutex
	items    *queue.Queue // protected by mut
	senders  int          // protected by mut
	rxClosed bool         // protected by mut

	// notify holds at most one pending wakeup for the receiver.
	notify chan struct{}
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{
		items:   queue.New(),
		senders: 1,
		notify:  make(chan struct{}, 1),
	}
}

func (m *mailbox[T]) wake() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

type sender[T any] struct {
	mailbox *mailbox[T]
	closed  bool // protected by mailbox.mut
}

func (s *sender[T]) Send(_ context.Context, value T) error {
	m := s.mailbox

	m.mut.Lock()

	if s.closed {
		m.mut.Unlock()

		return channel.SendError("sender already closed")
	}

	if m.rxClosed {
		m.mut.Unlock()

		return channel.SendError("receiving end closed")
	}

	m.items.Add(value)
	m.mut.Unlock()

	instruments.Sent.Inc()
	m.wake()

	return nil
}

func (s *sender[T]) Clone() channel.Sender[T] { //nolint:ireturn
	m := s.mailbox

	m.mut.Lock()
	defer m.mut.Unlock()

	if s.closed {
		return &sender[T]{mailbox: m, closed: true}
	}

	m.senders++

	return &sender[T]{mailbox: m}
}

func (s *sender[T]) Close() error {
	m := s.mailbox

	m.mut.Lock()

	if s.closed {
		m.mut.Unlock()

		return nil
	}

	s.closed = true
	m.senders--
	last := m.senders == 0
	m.mut.Unlock()

	if last {
		m.wake()
	}

	return nil
}

type receiver[T any] struct {
	mailbox *mailbox[T]
}

func (r *receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T

	m := r.mailbox

	for {
		m.mut.Lock()

		if m.rxClosed {
			m.mut.Unlock()

			return zero, channel.RecvError("receiver already closed")
		}

		if m.items.Length() > 0 {
			value, _ := m.items.Remove().(T)
			m.mut.Unlock()

			instruments.Received.Inc()

			return value, nil
		}

		if m.senders == 0 {
			m.mut.Unlock()

			return zero, channel.ErrChannelSenderClosed
		}

		m.mut.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-m.notify:
		}
	}
}

func (r *receiver[T]) Close() error {
	m := r.mailbox

	m.mut.Lock()

	if m.rxClosed {
		m.mut.Unlock()

		return nil
	}

	m.rxClosed = true

	pending := make([]T, 0, m.items.Length())
	for m.items.Length() > 0 {
		value, _ := m.items.Remove().(T)
		pending = append(pending, value)
	}

	m.mut.Unlock()

	instruments.Discarded.Add(float64(len(pending)))
	channel.Discard(pending...)

	return nil
}
