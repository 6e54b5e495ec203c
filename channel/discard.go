package channel

import (
	"io"

	"github.com/amp-labs/chanactor/logger"
)

// Discard releases values that were queued but will never be received. Values that
// implement io.Closer are closed, which lets a message carrying its own reply sender
// tell the waiting caller that no answer is coming.
func Discard[T any](values ...T) {
	for _, value := range values {
		closer, ok := any(value).(io.Closer)
		if !ok {
			continue
		}

		if err := closer.Close(); err != nil {
			logger.Get().Debug("error closing discarded value", "error", err)
		}
	}
}
