//nolint:ireturn
package envutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

var (
	ErrBadEnvVar     = errors.New("error parsing environment variable")
	ErrEnvVarMissing = errors.New("missing environment variable")
)

// Reader is a value read from an environment variable. It remembers whether the
// variable was set and whether parsing it failed, so callers decide how strict to be.
type Reader[A any] struct {
	key     string
	present bool
	err     error

	value A
}

// Key returns the key of the environment variable.
func (e Reader[A]) Key() string {
	return e.key
}

// Present reports whether a value (read or defaulted) is available.
func (e Reader[A]) Present() bool {
	return e.present
}

// Value returns the value, or an error if it is missing or failed to parse.
func (e Reader[A]) Value() (A, error) {
	if e.err != nil {
		return e.value, fmt.Errorf("%w %s: %w", ErrBadEnvVar, e.key, e.err)
	}

	if !e.present {
		return e.value, fmt.Errorf("%w %s", ErrEnvVarMissing, e.key)
	}

	return e.value, nil
}

// ValueOrElse returns the value, or dfl if it is missing or invalid.
func (e Reader[A]) ValueOrElse(dfl A) A {
	if e.present && e.err == nil {
		return e.value
	}

	return dfl
}

// ValueOrFatal returns the value, or exits the program if it is missing or invalid.
func (e Reader[A]) ValueOrFatal() A {
	value, err := e.Value()
	if err != nil {
		slog.Error("error reading environment variable", "key", e.key, "error", err)
		os.Exit(1)
	}

	return value
}

// WithDefault fills in dfl when the variable is not set. A variable that is set
// but fails to parse keeps its error.
func (e Reader[A]) WithDefault(dfl A) Reader[A] {
	if e.present {
		return e
	}

	return Reader[A]{
		key:     e.key,
		present: true,
		value:   dfl,
	}
}

// Map transforms the value of a present, valid Reader.
func Map[A, B any](rdr Reader[A], f func(A) (B, error)) Reader[B] {
	out := Reader[B]{
		key:     rdr.key,
		present: rdr.present,
		err:     rdr.err,
	}

	if !rdr.present || rdr.err != nil {
		return out
	}

	out.value, out.err = f(rdr.value)

	return out
}
