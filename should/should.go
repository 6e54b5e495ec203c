// Package should holds cleanup helpers for calls that should succeed but whose
// failure is only worth a log line, such as closes in defer statements.
package should

import (
	"context"
	"io"

	"github.com/amp-labs/chanactor/logger"
)

// Close closes closer and logs a failure at warn level through the logger in ctx.
//
//	defer should.Close(ctx, handle, "closing actor handle")
func Close(ctx context.Context, closer io.Closer, msg string) {
	if err := closer.Close(); err != nil {
		logger.Get(ctx).Warn(msg, "error", err)
	}
}

// CloseAll closes every closer in order, logging each failure.
func CloseAll(ctx context.Context, msg string, closers ...io.Closer) {
	for _, closer := range closers {
		Close(ctx, closer, msg)
	}
}
