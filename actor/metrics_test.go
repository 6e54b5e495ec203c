package actor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/substrate/gochan"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{channel.SendError("receiver closed"), "send"},
		{fmt.Errorf("wrapped: %w", channel.ErrChannelSenderClosed), "sender_closed"},
		{channel.RecvError("receiver closed"), "recv"},
		{context.Canceled, "context"},
		{context.DeadlineExceeded, "context"},
		{fmt.Errorf("%w: command(7)", ErrUnknownCommand), "unknown_command"},
		{errors.New("boom"), "other"}, //nolint:err113
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, errorReason(tt.err), tt.err.Error())
	}
}

func TestRequestMetrics(t *testing.T) {
	t.Parallel()

	// Repeated runs in one process must not see each other's counts.
	for round := range 2 {
		t.Run(fmt.Sprintf("round %d", round), checkRequestMetrics)
	}
}

func checkRequestMetrics(t *testing.T) {
	t.Helper()

	const subsystem = "actor-metrics"

	// Metrics are process-wide; a fresh actor name gives this run its own series.
	name := "metrics-" + uuid.NewString()

	handle, driver := New[gochan.Family[Request], gochan.Family[CommandResult]]("x", WithName(name))
	ctx := logger.WithSubsystem(t.Context(), subsystem)
	task := driver.Start(ctx)

	for range 3 {
		_, err := handle.GetState(ctx)
		require.NoError(t, err)
	}

	_, err := handle.UpdateState(ctx, "y")
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(aliveDrivers.WithLabelValues(subsystem, name)), 0)

	_, err = handle.Terminate(ctx)
	require.NoError(t, err)
	require.NoError(t, task.Wait())

	_, err = handle.GetState(ctx)
	require.ErrorIs(t, err, channel.ErrChannelSend)

	assert.InDelta(t, 3, testutil.ToFloat64(processedRequests.WithLabelValues(subsystem, name, "get_state")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(processedRequests.WithLabelValues(subsystem, name, "update_state")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(processedRequests.WithLabelValues(subsystem, name, "terminate")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(submittedRequests.WithLabelValues(subsystem, name, "get_state")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(requestErrors.WithLabelValues(subsystem, name, "send")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(aliveDrivers.WithLabelValues(subsystem, name)), 0)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, defaultName, newOptions(nil).name)
	assert.Equal(t, defaultName, newOptions([]Option{WithName(""), nil}).name)
	assert.Equal(t, "counter", newOptions([]Option{WithName("counter")}).name)
}

func TestCommandKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "get_state", GetState.String())
	assert.Equal(t, "update_state", UpdateState.String())
	assert.Equal(t, "terminate", Terminate.String())
	assert.Equal(t, "command(9)", CommandKind(9).String())
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}

func TestCommandResultGet(t *testing.T) {
	t.Parallel()

	value, err := CommandResult{Value: "v"}.Get()
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	_, err = CommandResult{Value: "ignored", Err: ErrUnknownCommand}.Get()
	require.ErrorIs(t, err, ErrUnknownCommand)
}

func TestFireAndForgetRequest(t *testing.T) {
	t.Parallel()

	_, driver := New[gochan.Family[Request], gochan.Family[CommandResult]]("x")

	stop, err := driver.HandleRequest(t.Context(), Request{Cmd: UpdateStateCommand("y")})
	require.NoError(t, err)
	assert.False(t, stop)
	assert.Equal(t, "y", driver.state)
	require.NoError(t, Request{}.Close())
}
