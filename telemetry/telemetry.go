// Package telemetry installs an OTLP/HTTP trace pipeline for chanactor programs and
// hands its tracer to the spans package, so actor round trips show up as spans.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amp-labs/chanactor/envutil"
	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/spans"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	defaultServiceVersion = "1.0.0"
	defaultTimeout        = 5 * time.Second
	instrumentationName   = "github.com/amp-labs/chanactor"
)

// ErrNoServiceName is returned by LoadConfigFromEnv when neither OTEL_SERVICE_NAME nor
// the logging subsystem names the service.
var ErrNoServiceName = errors.New("telemetry service name not configured")

var (
	providerMutex  sync.Mutex              //nolint:gochecknoglobals
	tracerProvider *sdktrace.TracerProvider //nolint:gochecknoglobals
)

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Enabled        bool
	Timeout        time.Duration
}

// LoadConfigFromEnv reads OTEL_ENABLED, OTEL_SERVICE_NAME, OTEL_SERVICE_VERSION,
// OTEL_EXPORTER_OTLP_TRACES_ENDPOINT and OTEL_EXPORTER_OTLP_TRACES_TIMEOUT. The
// service name defaults to the logging subsystem of ctx.
func LoadConfigFromEnv(ctx context.Context, runningEnv string) (*Config, error) {
	enabled, err := envutil.Bool("OTEL_ENABLED", envutil.Default(false)).Value()
	if err != nil {
		return nil, err
	}

	svcName, err := envutil.String("OTEL_SERVICE_NAME",
		envutil.Default(logger.GetSubsystem(ctx))).
		Value()
	if err != nil {
		return nil, err
	}

	if enabled && svcName == "" {
		return nil, ErrNoServiceName
	}

	svcVersion, err := envutil.String("OTEL_SERVICE_VERSION",
		envutil.Default(defaultServiceVersion)).
		Value()
	if err != nil {
		return nil, err
	}

	endpoint, err := envutil.String("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
		envutil.Default("")).
		Value()
	if err != nil {
		return nil, err
	}

	timeout, err := envutil.Duration("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT",
		envutil.Default(defaultTimeout)).
		Value()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServiceName:    svcName,
		ServiceVersion: svcVersion,
		Environment:    runningEnv,
		Endpoint:       endpoint,
		Enabled:        enabled,
		Timeout:        timeout,
	}, nil
}

// Initialize installs the global tracer provider and returns ctx carrying its tracer
// (see spans.WithTracer). When tracing is disabled or has no endpoint, ctx is
// returned unchanged and spans are skipped.
func Initialize(ctx context.Context, config *Config) (context.Context, error) {
	log := logger.Get(ctx)

	if !config.Enabled {
		log.Debug("OpenTelemetry tracing is disabled")

		return ctx, nil
	}

	if config.Endpoint == "" {
		log.Warn("OpenTelemetry endpoint not configured, tracing will be disabled")

		return ctx, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return ctx, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.Endpoint),
		otlptracehttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return ctx, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	providerMutex.Lock()
	tracerProvider = provider
	providerMutex.Unlock()

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("OpenTelemetry tracing initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"environment", config.Environment,
		"endpoint", config.Endpoint,
	)

	return spans.WithTracer(ctx, provider.Tracer(instrumentationName)), nil
}

// Shutdown flushes and stops the tracer provider installed by Initialize, if any.
func Shutdown(ctx context.Context) error {
	providerMutex.Lock()
	provider := tracerProvider
	tracerProvider = nil
	providerMutex.Unlock()

	if provider == nil {
		return nil
	}

	logger.Get(ctx).Debug("Shutting down OpenTelemetry tracer provider")

	return provider.Shutdown(ctx)
}
