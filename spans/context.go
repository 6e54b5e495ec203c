package spans

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type contextKey string

// TracerKey is the context key used to store the OpenTelemetry tracer.
const TracerKey contextKey = "tracer"

// WithTracer stores tracer in ctx. Orchestrators started from ctx create spans with it;
// without one they run the wrapped function untraced.
//
//	ctx = spans.WithTracer(ctx, otel.Tracer("chanactor"))
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	return context.WithValue(ctx, TracerKey, tracer)
}

// TracerFromContext returns the tracer stored by WithTracer.
func TracerFromContext(ctx context.Context) (trace.Tracer, bool) { //nolint:ireturn
	if ctx == nil {
		return nil, false
	}

	tracer, ok := ctx.Value(TracerKey).(trace.Tracer)

	return tracer, ok && tracer != nil
}
