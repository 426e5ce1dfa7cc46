package cli

import (
	stderrors "errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/logpulse/internal/errors"
	"github.com/rileyhilliard/logpulse/pkg/api"
)

// outputFlags holds the --json flag shared by the read commands.
type outputFlags struct {
	JSON bool
}

// addOutputFlags registers --json on a command.
func addOutputFlags(cmd *cobra.Command, flags *outputFlags) {
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "print a JSON envelope instead of text")
}

// apiError turns a client error into a structured error naming the action
// that failed and where the generator was expected.
func apiError(err error, action, baseURL string) error {
	var se *api.StatusError
	if stderrors.As(err, &se) {
		suggestion := "The generator had a problem; check its logs."
		if se.ClientError() {
			suggestion = fmt.Sprintf("Rates must be whole numbers between %d and %d.", api.MinRate, api.MaxRate)
		}
		msg := fmt.Sprintf("Generator rejected %s", action)
		if se.Message != "" {
			msg += ": " + se.Message
		}
		return errors.WrapWithCode(err, errors.ErrAPI, msg, suggestion)
	}

	return errors.WrapWithCode(err, errors.ErrTransport,
		fmt.Sprintf("Couldn't %s: generator at %s didn't answer", action, hostOf(baseURL)),
		"Is the generator running? Point logpulse at it with --url or LOGPULSE_API_URL.")
}

// hostOf returns host:port of a base URL for messages, or the URL itself
// when it does not parse.
func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}
