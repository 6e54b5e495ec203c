// Package logger configures log/slog for the process and hands out loggers decorated
// with values carried in a context (subsystem, correlation values, an injected logger).
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/amp-labs/chanactor/envutil"
)

// Default subsystem name, set by ConfigureLogging.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex serializes changes to the global slog/log defaults.
var configMutex sync.Mutex //nolint:gochecknoglobals

type contextKey string

const (
	subsystemKey contextKey = "subsystem"
	valuesKey    contextKey = "loggerValues"
	muteKey      contextKey = "mute"
	loggerKey    contextKey = "logger"
)

// Options is used to configure logging.
type Options struct {
	Subsystem   string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer
}

// ConfigureLoggingWithOptions installs a text or JSON handler as the slog default,
// redirects the legacy log package into it and returns the logger.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	var handler slog.Handler

	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{Level: opts.MinLevel})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{Level: opts.MinLevel})
	}

	logger := slog.New(handler)

	slog.SetDefault(logger)

	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)

	return logger
}

// Option is a functional option for ConfigureLogging.
type Option func(*Options)

// WithOutput overrides the destination chosen from LOG_OUTPUT.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// ErrInvalidLogOutput is returned when LOG_OUTPUT names an unknown destination.
var ErrInvalidLogOutput = errors.New("invalid log output")

// ConfigureLogging configures logging from LOG_JSON, LOG_LEVEL, LEGACY_LOG_LEVEL and
// LOG_OUTPUT, then applies opts.
func ConfigureLogging(app string, opts ...Option) (*slog.Logger, error) {
	logJSON, err := envutil.Bool("LOG_JSON", envutil.Default(false)).Value()
	if err != nil {
		return nil, err
	}

	minLevel, err := envutil.SlogLevel("LOG_LEVEL", envutil.Default(slog.LevelInfo)).Value()
	if err != nil {
		return nil, err
	}

	legacyLevel, err := envutil.SlogLevel("LEGACY_LOG_LEVEL", envutil.Default(slog.LevelInfo)).Value()
	if err != nil {
		return nil, err
	}

	output, err := envutil.Map(envutil.String("LOG_OUTPUT", envutil.Default("stdout")),
		func(name string) (io.Writer, error) {
			switch name {
			case "stdout":
				return os.Stdout, nil
			case "stderr":
				return os.Stderr, nil
			default:
				return nil, fmt.Errorf("%w: %q", ErrInvalidLogOutput, name)
			}
		}).Value()
	if err != nil {
		return nil, err
	}

	options := Options{
		Subsystem:   app,
		JSON:        logJSON,
		MinLevel:    minLevel,
		LegacyLevel: legacyLevel,
		Output:      output,
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options), nil
}

// WithSubsystem overrides the subsystem for loggers obtained from ctx.
func WithSubsystem(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, subsystemKey, name)
}

// GetSubsystem returns the subsystem from ctx, falling back to the configured default.
func GetSubsystem(ctx context.Context) string { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	if val, ok := ctx.Value(subsystemKey).(string); ok {
		return val
	}

	if val, ok := subsystem.Load().(string); ok {
		return val
	}

	return ""
}

// WithMuted suppresses all output from loggers obtained from ctx.
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, muteKey, muted)
}

func isMuted(ctx context.Context) bool {
	muted, ok := ctx.Value(muteKey).(bool)

	return ok && muted
}

// WithLogger makes Get return l (plus context values) instead of slog.Default.
// Tests use it to route output through testing.T.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, loggerKey, l)
}

// With returns a context whose loggers carry the given key-value pairs.
func With(ctx context.Context, values ...any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	if len(values) == 0 {
		return ctx
	}

	existing := getValues(ctx)
	vals := make([]any, 0, len(existing)+len(values))
	vals = append(vals, existing...)
	vals = append(vals, values...)

	return context.WithValue(ctx, valuesKey, vals)
}

func getValues(ctx context.Context) []any {
	vals, _ := ctx.Value(valuesKey).([]any)

	return vals
}

type nullHandler struct{}

func (n *nullHandler) Enabled(_ context.Context, _ slog.Level) bool { return false }

func (n *nullHandler) Handle(_ context.Context, _ slog.Record) error { return nil }

func (n *nullHandler) WithAttrs(_ []slog.Attr) slog.Handler { return n }

func (n *nullHandler) WithGroup(_ string) slog.Handler { return n }

var nullLogger = slog.New(&nullHandler{}) //nolint:gochecknoglobals

// Get returns a logger for the first non-nil context given (or the background
// context), tagged with the subsystem and any values added with With.
func Get(ctx ...context.Context) *slog.Logger {
	var realCtx context.Context

	for _, c := range ctx {
		if c != nil {
			realCtx = c

			break
		}
	}

	if realCtx == nil {
		realCtx = context.Background()
	}

	if isMuted(realCtx) {
		return nullLogger
	}

	base, ok := realCtx.Value(loggerKey).(*slog.Logger)
	if !ok || base == nil {
		base = slog.Default()
	}

	base = base.With("subsystem", GetSubsystem(realCtx))

	if vals := getValues(realCtx); len(vals) > 0 {
		base = base.With(vals...)
	}

	return base
}
