package gochan_test

import (
	"testing"

	"github.com/amp-labs/chanactor/channel/channeltest"
	"github.com/amp-labs/chanactor/substrate/gochan"
)

func TestConformance(t *testing.T) {
	t.Parallel()

	channeltest.Run[gochan.Family[int], gochan.Family[*channeltest.Probe]](t)
}
