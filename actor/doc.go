// Package actor implements a single-writer string-state actor on top of the channel
// contracts, so the same handle and driver code runs on any substrate binding.
//
// A Handle turns each method call into a Request carrying its own single-use reply
// channel, sends it on the shared command queue and waits for the one CommandResult
// the Driver sends back. The Driver owns the state, consumes requests strictly in
// arrival order and stops after answering Terminate.
//
// The substrate is chosen with type arguments:
//
//	h, d := actor.New[gochan.Family[actor.Request], gochan.Family[actor.CommandResult]]("Hello")
//	task := d.Start(ctx)
//	state, err := h.GetState(ctx)
package actor
