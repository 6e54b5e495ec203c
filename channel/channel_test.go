package channel_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/channel/channeltest"
	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/substrate/gochan"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestErrors(t *testing.T) {
	t.Parallel()

	send := channel.SendError("receiver closed")
	require.ErrorIs(t, send, channel.ErrChannelSend)
	assert.Equal(t, "channel send error: receiver closed", send.Error())

	recv := channel.RecvError("use after close")
	require.ErrorIs(t, recv, channel.ErrChannelRecv)
	assert.Equal(t, "channel receive error: use after close", recv.Error())

	assert.True(t, channel.IsChannelError(send))
	assert.True(t, channel.IsChannelError(recv))
	assert.True(t, channel.IsChannelError(fmt.Errorf("actor: %w", channel.ErrChannelSenderClosed)))
	assert.False(t, channel.IsChannelError(errBoom))
	assert.False(t, channel.IsChannelError(nil))
}

func TestCompletion(t *testing.T) {
	t.Parallel()

	c := channel.NewCompletion()

	select {
	case <-c.Done():
		t.Fatal("completion finished early")
	default:
	}

	go c.Finish(errBoom)

	require.ErrorIs(t, c.Wait(), errBoom)

	c.Finish(nil)
	require.ErrorIs(t, c.Wait(), errBoom, "first Finish wins")

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed")
	}
}

func TestRunTask(t *testing.T) {
	t.Parallel()

	ctx := logger.WithLogger(t.Context(), slogt.New(t))

	err := channel.RunTask(ctx, "test", func(context.Context) error {
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	err = channel.RunTask(ctx, "test", func(context.Context) error {
		panic(errBoom)
	})
	require.ErrorIs(t, err, channel.ErrTaskPanic)
	require.ErrorIs(t, err, errBoom)

	err = channel.RunTask(ctx, "test", func(context.Context) error {
		panic("kaboom")
	})
	require.ErrorIs(t, err, channel.ErrTaskPanic)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Contains(t, err.Error(), "test")
}

type failingCloser struct{ closed bool }

func (f *failingCloser) Close() error {
	f.closed = true

	return errBoom
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	probes := []*channeltest.Probe{{ID: 1}, {ID: 2}}
	channel.Discard(probes...)

	for _, p := range probes {
		assert.True(t, p.Closed())
	}

	failing := &failingCloser{}
	channel.Discard[any](failing, 42, "not a closer")
	assert.True(t, failing.closed)
}

func TestFamilyFactories(t *testing.T) {
	t.Parallel()

	ctx := t.Context()

	assert.Equal(t, gochan.Name, channel.SubstrateOf[string, gochan.Family[string]]().Name())

	tx, rx := channel.Unbounded[string, gochan.Family[string]]()

	require.NoError(t, tx.Send(ctx, "one"))
	require.NoError(t, tx.Close())

	value, err := rx.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one", value)

	_, err = rx.Recv(ctx)
	require.ErrorIs(t, err, channel.ErrChannelSenderClosed)
	require.NoError(t, rx.Close())
}
