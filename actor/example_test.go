package actor_test

import (
	"context"
	"fmt"

	"github.com/amp-labs/chanactor/actor"
	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/substrate/gochan"
)

func Example() {
	ctx := context.Background()

	handle, driver := actor.New[gochan.Family[actor.Request], gochan.Family[actor.CommandResult]]("Hello")
	task := driver.Start(ctx)

	state, _ := handle.GetState(ctx)
	fmt.Println(state)

	state, _ = handle.UpdateState(ctx, "World")
	fmt.Println(state)

	other := handle.Clone()

	state, _ = handle.Terminate(ctx)
	fmt.Println(state)

	fmt.Println(task.Wait())

	_, err := other.GetState(ctx)
	fmt.Println(channel.IsChannelError(err))

	// Output:
	// Hello
	// World
	// World
	// <nil>
	// true
}
