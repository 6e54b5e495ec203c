package cli

import (
	"strings"

	"github.com/manifoldco/promptui"
)

// Select lets the user pick one of choices, filtering by prefix when they type.
func (c Console) Select(label string, choices ...string) (string, error) {
	sel := &promptui.Select{
		Label: label,
		Items: choices,
		Searcher: func(input string, index int) bool {
			if input == "" {
				return false
			}

			return strings.HasPrefix(choices[index], input)
		},
		Stdin:  c.In,
		Stdout: c.Out,
	}

	_, value, err := sel.Run()

	return value, err
}
