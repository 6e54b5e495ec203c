package telemetry

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/spans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	unsetAll(t)

	ctx := logger.WithSubsystem(t.Context(), "actordemo")

	config, err := LoadConfigFromEnv(ctx, "test")
	require.NoError(t, err)

	assert.False(t, config.Enabled)
	assert.Equal(t, "actordemo", config.ServiceName)
	assert.Equal(t, defaultServiceVersion, config.ServiceVersion)
	assert.Equal(t, "test", config.Environment)
	assert.Empty(t, config.Endpoint)
	assert.Equal(t, defaultTimeout, config.Timeout)
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "counter")
	t.Setenv("OTEL_SERVICE_VERSION", "2.1.0")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "http://collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "250ms")

	config, err := LoadConfigFromEnv(t.Context(), "prod")
	require.NoError(t, err)

	assert.Equal(t, &Config{
		ServiceName:    "counter",
		ServiceVersion: "2.1.0",
		Environment:    "prod",
		Endpoint:       "http://collector:4318",
		Enabled:        true,
		Timeout:        250 * time.Millisecond,
	}, config)
}

func TestLoadConfigFromEnvErrors(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "sometimes")

	_, err := LoadConfigFromEnv(t.Context(), "test")
	require.Error(t, err)

	unsetAll(t)
	t.Setenv("OTEL_ENABLED", "true")

	_, err = LoadConfigFromEnv(context.Background(), "test")
	require.ErrorIs(t, err, ErrNoServiceName)
}

func TestInitializeDisabled(t *testing.T) {
	ctx, err := Initialize(t.Context(), &Config{Enabled: false})
	require.NoError(t, err)

	_, traced := spans.TracerFromContext(ctx)
	assert.False(t, traced)

	ctx, err = Initialize(t.Context(), &Config{Enabled: true, ServiceName: "x"})
	require.NoError(t, err)

	_, traced = spans.TracerFromContext(ctx)
	assert.False(t, traced)

	require.NoError(t, Shutdown(t.Context()))
}

func TestInitializeInstallsTracer(t *testing.T) {
	ctx, err := Initialize(t.Context(), &Config{
		Enabled:        true,
		ServiceName:    "actordemo",
		ServiceVersion: defaultServiceVersion,
		Environment:    "test",
		Endpoint:       "http://127.0.0.1:1",
		Timeout:        10 * time.Millisecond,
	})
	require.NoError(t, err)

	_, traced := spans.TracerFromContext(ctx)
	assert.True(t, traced)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Nothing was exported, so the flush has no work and the endpoint is never dialed.
	require.NoError(t, Shutdown(shutdownCtx))
	require.NoError(t, Shutdown(shutdownCtx))
}

// unsetAll removes the telemetry variables for the duration of the test.
func unsetAll(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"OTEL_ENABLED",
		"OTEL_SERVICE_NAME",
		"OTEL_SERVICE_VERSION",
		"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
		"OTEL_EXPORTER_OTLP_TRACES_TIMEOUT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
