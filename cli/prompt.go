package cli

import (
	"errors"
	"io"
	"os"

	"github.com/manifoldco/promptui"
)

var errEmptyInput = errors.New("you must enter something")

// Console reads answers from In and draws prompts on Out.
type Console struct {
	In  io.ReadCloser
	Out io.WriteCloser
}

// Stdio is a Console on the process's standard streams.
func Stdio() Console {
	return Console{In: os.Stdin, Out: os.Stdout}
}

// PromptString asks for a non-empty line.
func (c Console) PromptString(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if len(s) == 0 {
				return errEmptyInput
			}

			return nil
		},
		Stdin:  c.In,
		Stdout: c.Out,
	}

	return prompt.Run()
}

// PromptStringEmptyOk asks for a line that may be empty.
func (c Console) PromptStringEmptyOk(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:  label,
		Stdin:  c.In,
		Stdout: c.Out,
	}

	return prompt.Run()
}

// PromptConfirm asks a yes/no question. A "no" answer is not an error.
func (c Console) PromptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     c.In,
		Stdout:    c.Out,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
