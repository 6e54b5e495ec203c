package channel

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelSend is returned when a value cannot be enqueued because the
	// receiving end is gone.
	ErrChannelSend = errors.New("channel send error")
	// ErrChannelRecv is returned for substrate-specific receive failures.
	ErrChannelRecv = errors.New("channel receive error")
	// ErrChannelSenderClosed is returned by Recv once every sender has been closed
	// and the queue is empty. It is the normal end-of-stream signal.
	ErrChannelSenderClosed = errors.New("sending end of channel closed")
)

// SendError wraps ErrChannelSend with a diagnostic from the substrate.
func SendError(diagnostic string) error {
	return fmt.Errorf("%w: %s", ErrChannelSend, diagnostic)
}

// RecvError wraps ErrChannelRecv with a diagnostic from the substrate.
func RecvError(diagnostic string) error {
	return fmt.Errorf("%w: %s", ErrChannelRecv, diagnostic)
}

// IsChannelError reports whether err is any of the channel failures.
func IsChannelError(err error) bool {
	return errors.Is(err, ErrChannelSend) ||
		errors.Is(err, ErrChannelRecv) ||
		errors.Is(err, ErrChannelSenderClosed)
}
