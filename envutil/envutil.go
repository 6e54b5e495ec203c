// Package envutil reads typed configuration from environment variables.
// Every reader returns a Reader, which carries the parsed value together with
// whether the variable was present and any parse error.
package envutil

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// get returns a Reader for the given environment variable key.
func get(key string) Reader[string] {
	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String returns a Reader for the given environment variable key.
func String(key string, opts ...Option[string]) Reader[string] {
	return apply(get(key), opts)
}

// Bool returns a Reader that parses the variable with strconv.ParseBool.
func Bool(key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(key), func(s string) (bool, error) {
		return strconv.ParseBool(strings.TrimSpace(s))
	}), opts)
}

// Int returns a Reader that parses the variable as a base-10 integer.
func Int(key string, opts ...Option[int]) Reader[int] {
	return apply(Map(get(key), func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	}), opts)
}

// Duration returns a Reader that parses the variable with time.ParseDuration.
func Duration(key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(get(key), func(s string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(s))
	}), opts)
}

// SlogLevel returns a Reader that parses debug, info, warn or error (case-insensitive).
func SlogLevel(key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(get(key), func(s string) (slog.Level, error) {
		var level slog.Level

		if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
			return level, fmt.Errorf("invalid log level %q: %w", s, err)
		}

		return level, nil
	}), opts)
}
