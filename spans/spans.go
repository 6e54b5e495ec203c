// Package spans wraps functions in OpenTelemetry spans when a tracer has been placed in
// the context, and runs them untouched otherwise.
package spans

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type runner struct {
	name  string
	kind  trace.SpanKind
	attrs []attribute.KeyValue
}

func newRunner(name string, opts []Option) *runner {
	r := &runner{
		name: name,
		kind: trace.SpanKindInternal,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

func (r *runner) start(ctx context.Context) (context.Context, trace.Span, bool) { //nolint:ireturn
	tracer, ok := TracerFromContext(ctx)
	if !ok {
		return ctx, nil, false
	}

	ctx, span := tracer.Start(ctx, r.name,
		trace.WithSpanKind(r.kind),
		trace.WithAttributes(r.attrs...))

	return ctx, span, true
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// ErrOrchestrator runs a function that can fail.
type ErrOrchestrator struct {
	ctx    context.Context //nolint:containedctx
	runner *runner
}

// StartErr prepares a span named name around a function returning an error.
func StartErr(ctx context.Context, name string, opts ...Option) *ErrOrchestrator {
	return &ErrOrchestrator{ctx: ctx, runner: newRunner(name, opts)}
}

// Enter calls f inside the span. The span gets an error status when f fails.
func (o *ErrOrchestrator) Enter(f func(ctx context.Context, span trace.Span) error) error {
	ctx, span, traced := o.runner.start(o.ctx)
	if !traced {
		return f(ctx, trace.SpanFromContext(ctx))
	}

	err := f(ctx, span)
	finish(span, err)

	return err
}

// ValErrOrchestrator runs a function producing a value or an error.
type ValErrOrchestrator[T any] struct {
	ctx    context.Context //nolint:containedctx
	runner *runner
}

// StartValErr prepares a span named name around a function returning (T, error).
func StartValErr[T any](ctx context.Context, name string, opts ...Option) *ValErrOrchestrator[T] {
	return &ValErrOrchestrator[T]{ctx: ctx, runner: newRunner(name, opts)}
}

// Enter calls f inside the span. The span gets an error status when f fails.
func (o *ValErrOrchestrator[T]) Enter(f func(ctx context.Context, span trace.Span) (T, error)) (T, error) {
	ctx, span, traced := o.runner.start(o.ctx)
	if !traced {
		return f(ctx, trace.SpanFromContext(ctx))
	}

	val, err := f(ctx, span)
	finish(span, err)

	return val, err
}
