// Package shutdown runs registered cleanup hooks when the process is asked to stop,
// either by SIGINT/SIGTERM or programmatically.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mut     sync.Mutex     //nolint:gochecknoglobals
	hooks   []func()       //nolint:gochecknoglobals
	channel chan os.Signal //nolint:gochecknoglobals
)

// BeforeShutdown registers h to run before the top-level context is canceled.
// Hooks run in reverse registration order.
func BeforeShutdown(h func()) {
	mut.Lock()
	defer mut.Unlock()

	hooks = append(hooks, h)
}

// Shutdown triggers the shutdown process as if a signal had been received.
// Without a handler installed it runs the hooks directly.
func Shutdown() {
	mut.Lock()
	ch := channel
	mut.Unlock()

	if ch != nil {
		ch <- os.Interrupt

		return
	}

	Cleanup()
}

// SetupHandler installs a SIGINT/SIGTERM handler and returns a context that is
// canceled once the hooks have run.
func SetupHandler() context.Context {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	mut.Lock()
	channel = ch
	mut.Unlock()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sig := <-ch

		slog.Warn("Received " + sig.String() + ", shutting down...")

		signal.Stop(ch)

		mut.Lock()
		channel = nil
		mut.Unlock()

		Cleanup()
		cancel()
	}()

	return ctx
}

// Cleanup runs and clears the registered hooks.
func Cleanup() {
	mut.Lock()
	pending := hooks
	hooks = nil
	mut.Unlock()

	for i := len(pending) - 1; i >= 0; i-- {
		pending[i]()
	}
}
