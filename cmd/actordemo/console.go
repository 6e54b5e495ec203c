package main

import (
	"context"
	"errors"
	"io"

	"github.com/amp-labs/chanactor/actor"
	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/cli"
	"github.com/amp-labs/chanactor/logger"
	"github.com/manifoldco/promptui"
)

const opQuit = "quit"

// prompter is the part of cli.Console the interactive loop needs.
type prompter interface {
	Select(label string, choices ...string) (string, error)
	PromptStringEmptyOk(label string) (string, error)
}

var _ prompter = cli.Console{}

// runConsole lets the user drive an actor by hand until they quit, interrupt, or
// terminate it.
func runConsole[C channel.Family[actor.Request], R channel.Family[actor.CommandResult]](
	ctx context.Context, initial string, console prompter, out io.Writer,
) error {
	handle, driver := actor.New[C, R](initial, actor.WithName(appName))
	task := driver.Start(ctx)

	return finish(handle, task, converse(ctx, handle, console, out))
}

func converse[C channel.Family[actor.Request], R channel.Family[actor.CommandResult]](
	ctx context.Context, root *actor.Handle[C, R], console prompter, out io.Writer,
) error {
	for ctx.Err() == nil {
		choice, err := console.Select("Command",
			string(OpGet), string(OpUpdate), string(OpTerminate), opQuit)
		if err != nil {
			return promptError(err)
		}

		if choice == opQuit {
			return nil
		}

		step := Step{Op: Op(choice)}

		if step.Op == OpUpdate {
			step.Value, err = console.PromptStringEmptyOk("New state")
			if err != nil {
				return promptError(err)
			}
		}

		value, err := call(ctx, root, step)
		report(out, step, value, err)

		if err != nil {
			logger.Get(ctx).Debug("console call failed", "op", step.Op, "error", err)
		}

		if step.Op == OpTerminate && err == nil {
			return nil
		}
	}

	return ctx.Err()
}

// promptError treats Ctrl-C and Ctrl-D as quitting.
func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return nil
	}

	return err
}
