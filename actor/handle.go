package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/spans"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrSubstrateMismatch is the panic value of New when the command and reply families
// belong to different substrates.
var ErrSubstrateMismatch = errors.New("command and reply families belong to different substrates")

// Handle is the client side of an actor. C is the channel family of the command
// queue and R the family used for reply channels; both must come from the same
// substrate binding. Handles are cheap to clone and safe for concurrent use.
type Handle[C channel.Family[Request], R channel.Family[CommandResult]] struct {
	commands channel.Sender[Request]
	name     string
}

// New creates an actor with the given initial state. The handle issues requests;
// the driver owns the state and must be run (see Driver.Run and Driver.Start).
// It panics with ErrSubstrateMismatch if C and R come from different substrates.
func New[C channel.Family[Request], R channel.Family[CommandResult]](
	initial string, opts ...Option,
) (*Handle[C, R], *Driver[C, R]) {
	commandSubstrate := channel.SubstrateOf[Request, C]().Name()
	replySubstrate := channel.SubstrateOf[CommandResult, R]().Name()

	if commandSubstrate != replySubstrate {
		panic(fmt.Errorf("%w: commands on %s, replies on %s",
			ErrSubstrateMismatch, commandSubstrate, replySubstrate))
	}

	o := newOptions(opts)

	tx, rx := channel.Unbounded[Request, C]()

	return &Handle[C, R]{
			commands: tx,
			name:     o.name,
		}, &Driver[C, R]{
			state:    initial,
			commands: rx,
			name:     o.name,
		}
}

// Name returns the actor's name.
func (h *Handle[C, R]) Name() string {
	return h.name
}

// Clone returns a new handle sharing the same actor. Each clone must be closed (or
// terminated) independently.
func (h *Handle[C, R]) Clone() *Handle[C, R] {
	return &Handle[C, R]{
		commands: h.commands.Clone(),
		name:     h.name,
	}
}

// Close releases this handle. Once every handle is closed without a Terminate, the
// driver's Run returns an error wrapping channel.ErrChannelSenderClosed.
func (h *Handle[C, R]) Close() error {
	return h.commands.Close()
}

// GetState returns the actor's current state.
func (h *Handle[C, R]) GetState(ctx context.Context) (string, error) {
	return h.command(ctx, GetStateCommand())
}

// UpdateState replaces the actor's state and returns the new value.
func (h *Handle[C, R]) UpdateState(ctx context.Context, value string) (string, error) {
	return h.command(ctx, UpdateStateCommand(value))
}

// Terminate stops the actor and returns its final state. The handle is closed
// afterwards whatever the outcome; requests on other clones fail with a channel error.
func (h *Handle[C, R]) Terminate(ctx context.Context) (string, error) {
	defer h.Close() //nolint:errcheck

	return h.command(ctx, TerminateCommand())
}

// command runs one correlated round trip inside a span.
func (h *Handle[C, R]) command(ctx context.Context, cmd Command) (string, error) {
	id := uuid.New()

	return spans.StartValErr[string](ctx, "actor."+cmd.Kind.String(),
		spans.WithSpanKind(trace.SpanKindClient),
		spans.WithAttribute("actor.name", attribute.StringValue(h.name)),
		spans.WithAttribute("actor.request_id", attribute.StringValue(id.String())),
	).Enter(func(ctx context.Context, _ trace.Span) (string, error) {
		subsystem := logger.GetSubsystem(ctx)
		kind := cmd.Kind.String()

		submittedRequests.WithLabelValues(subsystem, h.name, kind).Inc()

		start := time.Now()

		value, err := h.roundTrip(ctx, id, cmd)

		roundTripTime.WithLabelValues(subsystem, h.name, kind).Observe(time.Since(start).Seconds())

		if err != nil {
			requestErrors.WithLabelValues(subsystem, h.name, errorReason(err)).Inc()

			logger.Get(ctx).Debug("actor request failed",
				"actor", h.name,
				"command", kind,
				"request_id", id,
				"error", err)

			return "", err
		}

		return value, nil
	})
}

// roundTrip sends cmd with a fresh reply channel and waits for its single result.
func (h *Handle[C, R]) roundTrip(ctx context.Context, id uuid.UUID, cmd Command) (string, error) {
	replyTx, replyRx := channel.Unbounded[CommandResult, R]()
	defer replyRx.Close() //nolint:errcheck

	req := Request{
		ID:    id,
		Cmd:   cmd,
		Reply: replyTx.Clone(),
	}

	// Only the request's copy keeps the reply channel open, so a driver that drops
	// the request without answering surfaces as ErrChannelSenderClosed here.
	_ = replyTx.Close()

	if err := h.commands.Send(ctx, req); err != nil {
		_ = req.Close()

		return "", err
	}

	result, err := replyRx.Recv(ctx)
	if err != nil {
		return "", err
	}

	return result.Get()
}
