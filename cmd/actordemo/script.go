package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/amp-labs/chanactor/actor"
	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/should"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownOp   = errors.New("unknown script op")
	ErrEmptyScript = errors.New("script has no steps")
	ErrExpectation = errors.New("script expectation failed")
)

// Op names an actor call in a script.
type Op string

const (
	OpGet       Op = "get"
	OpUpdate    Op = "update"
	OpTerminate Op = "terminate"
)

// Step is one call against the actor. Expect checks the returned state; ExpectError
// requires the call to fail with a channel error.
type Step struct {
	Op          Op      `yaml:"op"`
	Value       string  `yaml:"value,omitempty"`
	Expect      *string `yaml:"expect,omitempty"`
	ExpectError bool    `yaml:"expect_error,omitempty"`
}

// Script is a scenario: an optional initial state and the steps to run in order.
type Script struct {
	Initial *string `yaml:"initial,omitempty"`
	Steps   []Step  `yaml:"steps"`
}

func expect(s string) *string {
	return &s
}

// DefaultScript is the Hello/World walk-through, ending with a call on a terminated
// actor.
func DefaultScript() Script {
	return Script{
		Initial: expect("Hello"),
		Steps: []Step{
			{Op: OpGet, Expect: expect("Hello")},
			{Op: OpUpdate, Value: "World", Expect: expect("World")},
			{Op: OpGet, Expect: expect("World")},
			{Op: OpTerminate, Expect: expect("World")},
			{Op: OpGet, ExpectError: true},
		},
	}
}

// LoadScript decodes and validates a YAML script. Unknown fields are rejected.
func LoadScript(r io.Reader) (Script, error) {
	var script Script

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&script); err != nil {
		return Script{}, fmt.Errorf("decoding script: %w", err)
	}

	if len(script.Steps) == 0 {
		return Script{}, ErrEmptyScript
	}

	for i, step := range script.Steps {
		switch step.Op {
		case OpGet, OpUpdate, OpTerminate:
		default:
			return Script{}, fmt.Errorf("step %d: %w %q", i+1, ErrUnknownOp, step.Op)
		}
	}

	return script, nil
}

// call runs one step on a fresh clone of root, so a terminate only consumes the clone.
func call[C channel.Family[actor.Request], R channel.Family[actor.CommandResult]](
	ctx context.Context, root *actor.Handle[C, R], step Step,
) (string, error) {
	handle := root.Clone()

	switch step.Op {
	case OpGet:
		defer should.Close(ctx, handle, "closing actor handle")

		return handle.GetState(ctx)
	case OpUpdate:
		defer should.Close(ctx, handle, "closing actor handle")

		return handle.UpdateState(ctx, step.Value)
	case OpTerminate:
		return handle.Terminate(ctx)
	default:
		should.Close(ctx, handle, "closing actor handle")

		return "", fmt.Errorf("%w %q", ErrUnknownOp, step.Op)
	}
}

func describe(step Step) string {
	if step.Op == OpUpdate {
		return fmt.Sprintf("%s(%q)", step.Op, step.Value)
	}

	return string(step.Op)
}

// report prints the outcome of a step.
func report(out io.Writer, step Step, value string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(out, "%s -> error: %v\n", describe(step), err)

		return
	}

	_, _ = fmt.Fprintf(out, "%s -> %q\n", describe(step), value)
}

// check compares a step outcome with its expectations.
func check(step Step, value string, err error) error {
	if step.ExpectError {
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s succeeded with %q, expected a channel error", ErrExpectation, describe(step), value)
		case !channel.IsChannelError(err):
			return fmt.Errorf("%w: %s failed with %w, expected a channel error", ErrExpectation, describe(step), err)
		default:
			return nil
		}
	}

	if err != nil {
		return fmt.Errorf("%s: %w", describe(step), err)
	}

	if step.Expect != nil && *step.Expect != value {
		return fmt.Errorf("%w: %s returned %q, expected %q", ErrExpectation, describe(step), value, *step.Expect)
	}

	return nil
}

// play runs the steps in order and stops at the first unmet expectation.
func play[C channel.Family[actor.Request], R channel.Family[actor.CommandResult]](
	ctx context.Context, root *actor.Handle[C, R], steps []Step, out io.Writer,
) error {
	for i, step := range steps {
		value, err := call(ctx, root, step)
		report(out, step, value, err)

		if err := check(step, value, err); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return nil
}

// runScript starts an actor on the C/R substrate, plays the script against it and
// waits for the driver to stop.
func runScript[C channel.Family[actor.Request], R channel.Family[actor.CommandResult]](
	ctx context.Context, script Script, initial string, out io.Writer,
) error {
	if script.Initial != nil {
		initial = *script.Initial
	}

	handle, driver := actor.New[C, R](initial, actor.WithName(appName))
	task := driver.Start(ctx)

	playErr := play(ctx, handle, script.Steps, out)

	return finish(handle, task, playErr)
}

// finish releases the root handle and collects the driver's result. A driver stopped
// because every handle was closed is the normal end of a script without terminate.
func finish[C channel.Family[actor.Request], R channel.Family[actor.CommandResult]](
	root *actor.Handle[C, R], task channel.Task, err error,
) error {
	_ = root.Close()

	runErr := task.Wait()
	if errors.Is(runErr, channel.ErrChannelSenderClosed) {
		runErr = nil
	}

	return errors.Join(err, runErr)
}
