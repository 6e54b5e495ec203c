package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/spans"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

// ErrDriverStarted is returned by Run when the driver has already been run, and by
// HandleRequest once Run owns the driver.
var ErrDriverStarted = errors.New("actor driver already started")

// Phase is the lifecycle position of a Driver.
type Phase int32

const (
	// Created drivers have not entered Run yet.
	Created Phase = iota
	// Running drivers own the command receiver and are processing requests.
	Running
	// Terminating drivers have answered a Terminate request.
	Terminating
	// Stopped drivers have left their consumption loop.
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Created:
		return "created"
	case Running:
		return "running"
	case Terminating:
		return "terminating"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Driver owns the actor state and the receiving end of the command queue. It is the
// only component that reads or writes the state, and it answers each request fully
// before taking the next one, so no lock is needed.
type Driver[C channel.Family[Request], R channel.Family[CommandResult]] struct {
	state    string
	commands channel.Receiver[Request]
	name     string
	phase    atomic.Int32
	started  atomic.Bool
}

// Name returns the actor's name.
func (d *Driver[C, R]) Name() string {
	return d.name
}

// Phase reports where the driver is in its lifecycle. Safe to call from any goroutine.
func (d *Driver[C, R]) Phase() Phase {
	return Phase(d.phase.Load())
}

// Start runs the driver as a task on the substrate of its command family.
func (d *Driver[C, R]) Start(ctx context.Context) channel.Task { //nolint:ireturn
	return channel.SubstrateOf[Request, C]().Spawn(ctx, d.Run)
}

// Run consumes requests in receipt order until a Terminate request has been answered,
// in which case it returns nil. Otherwise it returns the error that ended the loop:
// a wrapped channel.ErrChannelSenderClosed once every handle is closed, ctx.Err() on
// cancellation, or the failure to deliver a reply. On return the command receiver is
// closed, so later requests fail with a channel error.
func (d *Driver[C, R]) Run(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return ErrDriverStarted
	}

	subsystem := logger.GetSubsystem(ctx)
	log := logger.Get(ctx).With("actor", d.name)

	d.phase.Store(int32(Running))
	driversStarted.Inc()
	aliveDrivers.WithLabelValues(subsystem, d.name).Inc()

	log.Debug("actor driver started")

	defer func() {
		_ = d.commands.Close()

		d.phase.Store(int32(Stopped))
		aliveDrivers.WithLabelValues(subsystem, d.name).Dec()
		driversStopped.Inc()
	}()

	for {
		req, err := d.commands.Recv(ctx)
		if err != nil {
			if errors.Is(err, channel.ErrChannelSenderClosed) {
				log.Debug("actor driver stopping, all handles closed")
			} else {
				log.Warn("actor driver stopping on receive error", "error", err)
			}

			return fmt.Errorf("actor %s: receiving request: %w", d.name, err)
		}

		stop, err := d.dispatch(ctx, req)
		if err != nil {
			log.Error("actor driver stopping on reply error", "request_id", req.ID, "error", err)

			return err
		}

		if stop {
			log.Debug("actor driver terminated", "request_id", req.ID)

			return nil
		}
	}
}

// dispatch wraps handleRequest with tracing and metrics.
func (d *Driver[C, R]) dispatch(ctx context.Context, req Request) (bool, error) {
	var stop bool

	err := spans.StartErr(ctx, "actor.dispatch",
		spans.WithSpanKind(trace.SpanKindServer),
		spans.WithAttribute("actor.name", attribute.StringValue(d.name)),
		spans.WithAttribute("actor.command", attribute.StringValue(req.Cmd.Kind.String())),
		spans.WithAttribute("actor.request_id", attribute.StringValue(req.ID.String())),
	).Enter(func(ctx context.Context, _ trace.Span) error {
		subsystem := logger.GetSubsystem(ctx)
		kind := req.Cmd.Kind.String()
		start := time.Now()

		var err error

		stop, err = d.handleRequest(ctx, req)

		processingTime.WithLabelValues(subsystem, d.name, kind).Observe(time.Since(start).Seconds())
		processedRequests.WithLabelValues(subsystem, d.name, kind).Inc()

		return err
	})

	return stop, err
}

// HandleRequest applies one request to the state and sends exactly one reply. It
// reports stop=true for Terminate. The request's reply sender is closed before it
// returns. A reply that cannot be delivered is returned as an error and is not retried.
//
// HandleRequest is for driving the state by hand, without Run. Once Run has been
// called it rejects the request with ErrDriverStarted (closing its reply sender), so
// the state keeps a single writer. It is not safe for concurrent use.
func (d *Driver[C, R]) HandleRequest(ctx context.Context, req Request) (bool, error) {
	if d.started.Load() {
		_ = req.Close()

		return false, ErrDriverStarted
	}

	return d.handleRequest(ctx, req)
}

func (d *Driver[C, R]) handleRequest(ctx context.Context, req Request) (bool, error) {
	defer req.Close() //nolint:errcheck

	switch req.Cmd.Kind {
	case GetState:
		return false, d.reply(ctx, req, CommandResult{Value: d.state})
	case UpdateState:
		d.state = req.Cmd.Value

		return false, d.reply(ctx, req, CommandResult{Value: d.state})
	case Terminate:
		d.phase.Store(int32(Terminating))

		return true, d.reply(ctx, req, CommandResult{Value: d.state})
	default:
		return false, d.reply(ctx, req, CommandResult{
			Err: fmt.Errorf("%w: %s", ErrUnknownCommand, req.Cmd.Kind),
		})
	}
}

func (d *Driver[C, R]) reply(ctx context.Context, req Request, result CommandResult) error {
	if req.Reply == nil {
		return nil
	}

	if err := req.Reply.Send(ctx, result); err != nil {
		return fmt.Errorf("actor %s: replying to %s request %s: %w", d.name, req.Cmd.Kind, req.ID, err)
	}

	return nil
}
