package actor

import (
	"errors"
	"strconv"
)

// ErrUnknownCommand is returned to a caller whose request carried an unrecognized kind.
var ErrUnknownCommand = errors.New("unknown command")

// CommandKind tags the variant of a Command.
type CommandKind int

const (
	// GetState asks for the current state.
	GetState CommandKind = iota
	// UpdateState replaces the state with Command.Value.
	UpdateState
	// Terminate asks the driver to reply with the current state and stop.
	Terminate
)

func (k CommandKind) String() string {
	switch k {
	case GetState:
		return "get_state"
	case UpdateState:
		return "update_state"
	case Terminate:
		return "terminate"
	default:
		return "command(" + strconv.Itoa(int(k)) + ")"
	}
}

// Command is a tagged union over the operations an actor understands. Value is only
// meaningful for UpdateState.
type Command struct {
	Kind  CommandKind
	Value string
}

// GetStateCommand builds a GetState command.
func GetStateCommand() Command {
	return Command{Kind: GetState}
}

// UpdateStateCommand builds an UpdateState command carrying value.
func UpdateStateCommand(value string) Command {
	return Command{Kind: UpdateState, Value: value}
}

// TerminateCommand builds a Terminate command.
func TerminateCommand() Command {
	return Command{Kind: Terminate}
}

// CommandResult is the outcome of exactly one Command.
type CommandResult struct {
	Value string
	Err   error
}

// Get unwraps the result.
func (r CommandResult) Get() (string, error) {
	if r.Err != nil {
		return "", r.Err
	}

	return r.Value, nil
}
