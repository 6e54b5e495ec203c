package pondpool_test

import (
	"testing"

	"github.com/amp-labs/chanactor/channel/channeltest"
	"github.com/amp-labs/chanactor/substrate/pondpool"
)

func TestConformance(t *testing.T) {
	t.Parallel()

	channeltest.Run[pondpool.Family[int], pondpool.Family[*channeltest.Probe]](t)
}
