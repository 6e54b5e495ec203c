// Package channeltest is a conformance suite for substrate bindings. A binding's tests
// call Run with its family instantiated for int and for *Probe.
package channeltest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amp-labs/chanactor/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

const waitFor = 2 * time.Second

var errBoom = errors.New("boom")

// Probe is a payload that records whether it was closed by channel.Discard.
type Probe struct {
	ID     int
	closed atomic.Bool
}

// Close marks the probe as closed.
func (p *Probe) Close() error {
	p.closed.Store(true)

	return nil
}

// Closed reports whether Close was called.
func (p *Probe) Closed() bool {
	return p.closed.Load()
}

// Run exercises the channel and substrate contracts against a binding.
func Run[FI channel.Family[int], FP channel.Family[*Probe]](t *testing.T) { //nolint:funlen,maintidx
	t.Helper()

	t.Run("substrate", func(t *testing.T) {
		t.Parallel()

		sub := channel.SubstrateOf[int, FI]()
		require.NotEmpty(t, sub.Name())
		assert.Equal(t, sub.Name(), channel.SubstrateOf[*Probe, FP]().Name())
	})

	t.Run("fifo single producer", func(t *testing.T) {
		t.Parallel()

		tx, rx := channel.Unbounded[int, FI]()
		defer rx.Close() //nolint:errcheck

		const n = 1000

		for i := range n {
			require.NoError(t, tx.Send(t.Context(), i))
		}

		require.NoError(t, tx.Close())

		for i := range n {
			v, err := rx.Recv(t.Context())
			require.NoError(t, err)
			require.Equal(t, i, v)
		}

		_, err := rx.Recv(t.Context())
		require.ErrorIs(t, err, channel.ErrChannelSenderClosed)
	})

	t.Run("per producer order across clones", func(t *testing.T) {
		t.Parallel()

		tx, rx := channel.Unbounded[int, FI]()
		defer rx.Close() //nolint:errcheck

		const (
			producers   = 8
			perProducer = 200
		)

		var group errgroup.Group

		for p := range producers {
			clone := tx.Clone()

			group.Go(func() error {
				defer clone.Close() //nolint:errcheck

				for i := range perProducer {
					if err := clone.Send(t.Context(), p*perProducer+i); err != nil {
						return err
					}
				}

				return nil
			})
		}

		require.NoError(t, tx.Close())
		require.NoError(t, group.Wait())

		last := make(map[int]int)

		for range producers * perProducer {
			v, err := rx.Recv(t.Context())
			require.NoError(t, err)

			p := v / perProducer
			if prev, ok := last[p]; ok {
				require.Greater(t, v, prev, "producer %d delivered out of order", p)
			}

			last[p] = v
		}

		_, err := rx.Recv(t.Context())
		require.ErrorIs(t, err, channel.ErrChannelSenderClosed)
	})

	t.Run("clone keeps channel open", func(t *testing.T) {
		t.Parallel()

		tx, rx := channel.Unbounded[int, FI]()
		defer rx.Close() //nolint:errcheck

		clone := tx.Clone()
		require.NoError(t, tx.Close())
		require.NoError(t, tx.Close(), "closing twice is a no-op")

		require.ErrorIs(t, tx.Send(t.Context(), 1), channel.ErrChannelSend)
		require.NoError(t, clone.Send(t.Context(), 2))

		v, err := rx.Recv(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 2, v)

		closedClone := tx.Clone()
		require.ErrorIs(t, closedClone.Send(t.Context(), 3), channel.ErrChannelSend)

		require.NoError(t, clone.Close())

		_, err = rx.Recv(t.Context())
		require.ErrorIs(t, err, channel.ErrChannelSenderClosed)
	})

	t.Run("recv waits for a value", func(t *testing.T) {
		t.Parallel()

		tx, rx := channel.Unbounded[int, FI]()
		defer rx.Close() //nolint:errcheck
		defer tx.Close() //nolint:errcheck

		go func() {
			time.Sleep(20 * time.Millisecond)

			_ = tx.Send(context.Background(), 42)
		}()

		ctx, cancel := context.WithTimeout(t.Context(), waitFor)
		defer cancel()

		v, err := rx.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("recv honors context", func(t *testing.T) {
		t.Parallel()

		tx, rx := channel.Unbounded[int, FI]()
		defer rx.Close() //nolint:errcheck
		defer tx.Close() //nolint:errcheck

		ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
		defer cancel()

		_, err := rx.Recv(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, tx.Send(t.Context(), 7))

		v, err := rx.Recv(t.Context())
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("send after receiver close", func(t *testing.T) {
		t.Parallel()

		tx, rx := channel.Unbounded[int, FI]()
		defer tx.Close() //nolint:errcheck

		require.NoError(t, rx.Close())
		require.NoError(t, rx.Close(), "closing twice is a no-op")

		err := tx.Send(t.Context(), 1)
		require.ErrorIs(t, err, channel.ErrChannelSend)
		assert.True(t, channel.IsChannelError(err))

		_, err = rx.Recv(t.Context())
		require.ErrorIs(t, err, channel.ErrChannelRecv)
	})

	t.Run("receiver close discards queued values", func(t *testing.T) {
		t.Parallel()

		tx, rx := channel.Unbounded[*Probe, FP]()
		defer tx.Close() //nolint:errcheck

		probes := []*Probe{{ID: 1}, {ID: 2}, {ID: 3}}

		for _, p := range probes {
			require.NoError(t, tx.Send(t.Context(), p))
		}

		first, err := rx.Recv(t.Context())
		require.NoError(t, err)
		require.Equal(t, 1, first.ID)

		require.NoError(t, rx.Close())

		assert.False(t, probes[0].Closed(), "received values belong to the receiver")
		assert.True(t, probes[1].Closed())
		assert.True(t, probes[2].Closed())
	})

	t.Run("spawn", func(t *testing.T) {
		t.Parallel()

		sub := channel.SubstrateOf[int, FI]()

		var ran atomic.Bool

		task := sub.Spawn(t.Context(), func(ctx context.Context) error {
			ran.Store(true)

			return errBoom
		})

		select {
		case <-task.Done():
		case <-time.After(waitFor):
			t.Fatal("spawned task did not finish")
		}

		require.ErrorIs(t, task.Wait(), errBoom)
		assert.True(t, ran.Load())
	})

	t.Run("spawn recovers panics", func(t *testing.T) {
		t.Parallel()

		sub := channel.SubstrateOf[int, FI]()

		task := sub.Spawn(t.Context(), func(ctx context.Context) error {
			panic("kaboom")
		})

		err := task.Wait()
		require.ErrorIs(t, err, channel.ErrTaskPanic)
		assert.ErrorContains(t, err, "kaboom")
	})

	t.Run("spawned consumer drains producers", func(t *testing.T) {
		t.Parallel()

		tx, rx := channel.Unbounded[int, FI]()
		sub := channel.SubstrateOf[int, FI]()

		var (
			mut sync.Mutex
			sum int
		)

		task := sub.Spawn(t.Context(), func(ctx context.Context) error {
			defer rx.Close() //nolint:errcheck

			for {
				v, err := rx.Recv(ctx)
				if err != nil {
					return err
				}

				mut.Lock()
				sum += v
				mut.Unlock()
			}
		})

		for i := 1; i <= 100; i++ {
			require.NoError(t, tx.Send(t.Context(), i))
		}

		require.NoError(t, tx.Close())
		require.ErrorIs(t, task.Wait(), channel.ErrChannelSenderClosed)

		mut.Lock()
		defer mut.Unlock()

		assert.Equal(t, 5050, sum)
	})
}
