package actor

import (
	"github.com/amp-labs/chanactor/channel"
	"github.com/google/uuid"
)

// Request pairs a Command with the single-use channel its result goes back on.
// A reply channel is never shared between requests.
type Request struct {
	// ID correlates the request across handle and driver logs and spans.
	ID uuid.UUID
	// Cmd is the operation to perform.
	Cmd Command
	// Reply receives exactly one CommandResult. A nil Reply makes the request
	// fire-and-forget.
	Reply channel.Sender[CommandResult]
}

// Close releases the reply sender. The driver calls it after replying; a channel that
// discards an unprocessed request calls it too, which tells the waiting caller that
// no answer is coming.
func (r Request) Close() error {
	if r.Reply == nil {
		return nil
	}

	return r.Reply.Close()
}
