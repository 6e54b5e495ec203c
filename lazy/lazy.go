// Package lazy holds values that are built on first use, such as process-wide
// worker pools that should not exist until a substrate actually spawns a task.
package lazy

import (
	"sync"
)

// Of is a value that is initialized at most once.
type Of[T any] struct {
	once   sync.Once
	create func() T
	value  T
}

// New creates a lazy value. f is called on the first Get.
func New[T any](f func() T) *Of[T] {
	return &Of[T]{create: f}
}

// Get returns the value, initializing it if necessary.
func (t *Of[T]) Get() T { //nolint:ireturn
	t.once.Do(func() {
		t.value = t.create()
		t.create = nil
	})

	return t.value
}

// OfErr is a value whose construction can fail. A failed construction is not
// cached; the next Get tries again.
type OfErr[T any] struct {
	mut         sync.Mutex
	create      func() (T, error)
	value       T
	initialized bool
}

// NewErr creates a lazy value from a constructor that can fail.
func NewErr[T any](f func() (T, error)) *OfErr[T] {
	return &OfErr[T]{create: f}
}

// Get returns the value, constructing it if no earlier call succeeded.
func (t *OfErr[T]) Get() (T, error) { //nolint:ireturn
	t.mut.Lock()
	defer t.mut.Unlock()

	if t.initialized {
		return t.value, nil
	}

	value, err := t.create()
	if err != nil {
		var zero T

		return zero, err
	}

	t.value = value
	t.initialized = true

	return value, nil
}

// Initialized reports whether a Get has succeeded. Intended for tests.
func (t *OfErr[T]) Initialized() bool {
	t.mut.Lock()
	defer t.mut.Unlock()

	return t.initialized
}
