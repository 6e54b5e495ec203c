package spans

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a span created by an orchestrator.
type Option func(*runner)

// WithAttribute adds an attribute to the span when it starts.
func WithAttribute(key attribute.Key, value attribute.Value) Option {
	return func(r *runner) {
		r.attrs = append(r.attrs, attribute.KeyValue{Key: key, Value: value})
	}
}

// WithSpanKind sets the span kind. The default is SpanKindInternal.
func WithSpanKind(kind trace.SpanKind) Option {
	return func(r *runner) {
		r.kind = kind
	}
}
