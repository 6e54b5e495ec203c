package spans

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

var errBoom = errors.New("boom")

func tracedContext(t *testing.T) (context.Context, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})

	return WithTracer(t.Context(), provider.Tracer("spans-test")), exporter
}

func TestUntracedRunsFunction(t *testing.T) {
	t.Parallel()

	_, ok := TracerFromContext(t.Context())
	assert.False(t, ok)

	called := false

	err := StartErr(t.Context(), "noop").Enter(func(_ context.Context, span trace.Span) error {
		called = true

		assert.False(t, span.IsRecording())

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.True(t, called)

	val, err := StartValErr[int](t.Context(), "noop").Enter(func(context.Context, trace.Span) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, val)
}

func TestStartErrRecordsSpan(t *testing.T) {
	t.Parallel()

	ctx, exporter := tracedContext(t)

	err := StartErr(ctx, "outer",
		WithSpanKind(trace.SpanKindServer),
		WithAttribute("component", attribute.StringValue("test")),
	).Enter(func(ctx context.Context, span trace.Span) error {
		assert.True(t, span.IsRecording())

		return StartErr(ctx, "inner").Enter(func(context.Context, trace.Span) error {
			return errBoom
		})
	})
	require.ErrorIs(t, err, errBoom)

	stubs := exporter.GetSpans()
	require.Len(t, stubs, 2)

	inner, outer := stubs[0], stubs[1]

	assert.Equal(t, "inner", inner.Name)
	assert.Equal(t, trace.SpanKindInternal, inner.SpanKind)
	assert.Equal(t, outer.SpanContext.SpanID(), inner.Parent.SpanID())
	assert.Equal(t, codes.Error, inner.Status.Code)

	assert.Equal(t, "outer", outer.Name)
	assert.Equal(t, trace.SpanKindServer, outer.SpanKind)
	assert.Contains(t, outer.Attributes, attribute.String("component", "test"))
	assert.Equal(t, codes.Error, outer.Status.Code)
}

func TestStartValErrRecordsSpan(t *testing.T) {
	t.Parallel()

	ctx, exporter := tracedContext(t)

	val, err := StartValErr[string](ctx, "value").Enter(func(context.Context, trace.Span) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)

	stubs := exporter.GetSpans()
	require.Len(t, stubs, 1)
	assert.Equal(t, codes.Ok, stubs[0].Status.Code)
}
