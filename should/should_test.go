package should_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/should"
	"github.com/stretchr/testify/assert"
)

var errCloseFailed = errors.New("close failed")

type mockCloser struct {
	closeErr error
	closed   bool
}

func (m *mockCloser) Close() error {
	m.closed = true

	return m.closeErr
}

func capture(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	log := slog.New(slog.NewTextHandler(&buf, nil))

	return logger.WithLogger(t.Context(), log), &buf
}

func TestClose(t *testing.T) {
	t.Parallel()

	ctx, buf := capture(t)

	ok := &mockCloser{}
	should.Close(ctx, ok, "closing ok")
	assert.True(t, ok.closed)
	assert.Empty(t, buf.String())

	failing := &mockCloser{closeErr: errCloseFailed}
	should.Close(ctx, failing, "closing failing")
	assert.True(t, failing.closed)
	assert.Contains(t, buf.String(), "closing failing")
	assert.Contains(t, buf.String(), "close failed")
}

func TestCloseAll(t *testing.T) {
	t.Parallel()

	ctx, buf := capture(t)

	first := &mockCloser{closeErr: errCloseFailed}
	second := &mockCloser{}

	should.CloseAll(ctx, "closing handles", first, second)

	assert.True(t, first.closed)
	assert.True(t, second.closed)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("closing handles")))
}
