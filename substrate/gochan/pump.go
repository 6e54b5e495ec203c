package gochan

import (
	"context"
	"sync"

	"github.com/amp-labs/chanactor/channel"
	"go.uber.org/atomic"
)

// pump is the state shared by every sender clone and the receiver of one channel.
type pump[T any] struct {
	in      chan T
	out     chan T
	done    chan struct{} // closed when the receiver is closed
	stopped chan struct{} // closed when the pump goroutine has exited

	mut     sync.RWMutex
	senders int // protected by mut
}

func newPump[T any]() *pump[T] {
	p := &pump[T]{
		in:      make(chan T),
		out:     make(chan T),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		senders: 1,
	}

	go p.run()

	return p
}

// run moves values from in to out through an unbounded slice. It ends when every
// sender is closed and the buffer is drained, or when the receiver is closed.
func (p *pump[T]) run() {
	defer close(p.stopped)
	defer close(p.out)

	var buf []T

	in := p.in

	for in != nil || len(buf) > 0 {
		var (
			out  chan T
			next T
		)

		if len(buf) > 0 {
			out = p.out
			next = buf[0]
		}

		select {
		case v, ok := <-in:
			if !ok {
				in = nil

				continue
			}

			buf = append(buf, v)
		case out <- next:
			var zero T

			buf[0] = zero
			buf = buf[1:]
		case <-p.done:
			instruments.Discarded.Add(float64(len(buf)))
			channel.Discard(buf...)

			return
		}
	}
}

type sender[T any] struct {
	pump   *pump[T]
	closed atomic.Bool
}

func (s *sender[T]) Send(ctx context.Context, value T) error {
	s.pump.mut.RLock()
	defer s.pump.mut.RUnlock()

	if s.closed.Load() {
		return channel.SendError("sender already closed")
	}

	select {
	case <-s.pump.done:
		return channel.SendError("receiving end closed")
	case <-ctx.Done():
		return ctx.Err()
	case s.pump.in <- value:
		instruments.Sent.Inc()

		return nil
	}
}

func (s *sender[T]) Clone() channel.Sender[T] { //nolint:ireturn
	s.pump.mut.Lock()
	defer s.pump.mut.Unlock()

	clone := &sender[T]{pump: s.pump}

	if s.closed.Load() {
		clone.closed.Store(true)

		return clone
	}

	s.pump.senders++

	return clone
}

func (s *sender[T]) Close() error {
	s.pump.mut.Lock()
	defer s.pump.mut.Unlock()

	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.pump.senders--
	if s.pump.senders == 0 {
		close(s.pump.in)
	}

	return nil
}

type receiver[T any] struct {
	pump   *pump[T]
	closed atomic.Bool
}

func (r *receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T

	if r.closed.Load() {
		return zero, channel.RecvError("receiver already closed")
	}

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case v, ok := <-r.pump.out:
		if !ok {
			return zero, channel.ErrChannelSenderClosed
		}

		instruments.Received.Inc()

		return v, nil
	}
}

func (r *receiver[T]) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(r.pump.done)
	<-r.pump.stopped

	return nil
}
