package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RatePrompt builds the interactive form asking for a target rate. parse
// validates the text the same way the dashboard does; the returned pointer
// holds the raw input after the form completes.
func RatePrompt(current int, parse func(string) (int, error)) (*huh.Form, *string) {
	value := strconv.Itoa(current)

	input := huh.NewInput().
		Title("Target rate").
		Description("Logs per second the generator should emit").
		Placeholder(strconv.Itoa(current)).
		CharLimit(5).
		Value(&value).
		Validate(func(s string) error {
			_, err := parse(strings.TrimSpace(s))
			return err
		})

	return huh.NewForm(huh.NewGroup(input)), &value
}

// PromptRate runs the rate form and returns the parsed value.
func PromptRate(current int, parse func(string) (int, error)) (int, error) {
	form, value := RatePrompt(current, parse)
	if err := form.Run(); err != nil {
		return 0, err
	}
	return parse(strings.TrimSpace(*value))
}
