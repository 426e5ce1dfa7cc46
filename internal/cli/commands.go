package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/logpulse/internal/errors"
	"github.com/rileyhilliard/logpulse/internal/monitor"
	"github.com/rileyhilliard/logpulse/internal/ui"
	"github.com/rileyhilliard/logpulse/pkg/api"
)

func (a *app) startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the log generator",
		Long: `Start emitting logs at the generator's current target rate.

Starting a generator that is already running is reported and skipped.

Examples:
  logpulse start
  logpulse --url http://gen.internal:8080 start`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.toggle(cmd, true)
		},
	}
}

func (a *app) stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the log generator",
		Long: `Stop emitting logs. The total log counter is kept.

Examples:
  logpulse stop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.toggle(cmd, false)
		},
	}
}

// toggle starts or stops the generator, skipping the call when the generator
// already reports the requested state.
func (a *app) toggle(cmd *cobra.Command, start bool) error {
	loaded, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	client := a.client(loaded.Config)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	label, action, already := "Stopping generator", "stop the generator", "already stopped"
	if start {
		label, action, already = "Starting generator", "start the generator", "already running"
	}

	s := ui.NewSpinner(cmd.OutOrStdout(), label, a.interactive())
	s.Start()

	if st, err := client.Status(ctx); err == nil && st.IsRunning == start {
		detail := already
		if start {
			detail += " at " + ui.FormatRate(st.RatePerSecond)
		}
		s.Skip(detail)
		return nil
	}

	var resp api.MessageResponse
	if start {
		resp, err = client.Start(ctx)
	} else {
		resp, err = client.Stop(ctx)
	}
	if err != nil {
		s.Fail("")
		return apiError(err, action, loaded.API.URL)
	}
	s.Success(resp.Message)
	return nil
}

func (a *app) rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate [logs-per-second]",
		Short: "Change the target emission rate",
		Long: fmt.Sprintf(`Set how many logs per second the generator emits (%d-%d).

Without an argument logpulse prompts for the rate on a terminal, prefilled
with the generator's current rate.

Examples:
  logpulse rate 5000
  logpulse rate`, api.MinRate, api.MaxRate),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.updateRate(cmd, args)
		},
	}
}

func (a *app) updateRate(cmd *cobra.Command, args []string) error {
	// Validate an explicit rate before touching config or the network.
	var rate int
	if len(args) == 1 {
		r, err := monitor.ParseRate(args[0])
		if err != nil {
			return err
		}
		rate = r
	}

	loaded, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	client := a.client(loaded.Config)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if rate == 0 {
		if !a.interactive() {
			return errors.New(errors.ErrValidation,
				"No rate given",
				"Pass the rate as an argument, e.g. 'logpulse rate 2000'.")
		}
		current := loaded.Rate.Default
		if st, err := client.Status(ctx); err == nil && st.RatePerSecond > 0 {
			current = st.RatePerSecond
		}
		r, err := ui.PromptRate(current, monitor.ParseRate)
		if err != nil {
			return err
		}
		rate = r
	}

	return ui.RunWithSpinner(cmd.OutOrStdout(), "Setting rate to "+ui.FormatRate(rate), a.interactive(),
		func() (string, error) {
			resp, err := client.UpdateRate(ctx, rate)
			if err != nil {
				return "", apiError(err, "the rate change", loaded.API.URL)
			}
			applied := resp.RatePerSecond
			if applied == 0 {
				applied = rate
			}
			return "now " + ui.FormatRate(applied), nil
		})
}

// statusData is the --json payload of 'logpulse status'.
type statusData struct {
	Endpoint      string `json:"endpoint"`
	IsRunning     bool   `json:"is_running"`
	TotalLogs     int64  `json:"total_logs"`
	RatePerSecond int    `json:"rate_per_second"`
	Health        string `json:"health"`
}

func (a *app) statusCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the generator is running and how much it has emitted",
		Long: `Read the generator's status and health once.

Examples:
  logpulse status
  logpulse status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.readStatus(cmd)
			if out.JSON {
				return writeJSONResult(cmd, data, err)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderGeneratorSummary(ui.GeneratorSummary{
				Endpoint:  data.Endpoint,
				Running:   data.IsRunning,
				Rate:      data.RatePerSecond,
				TotalLogs: data.TotalLogs,
				Health:    data.Health,
			}))
			return nil
		},
	}
	addOutputFlags(cmd, &out)
	return cmd
}

func (a *app) readStatus(cmd *cobra.Command) (*statusData, error) {
	loaded, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	client := a.client(loaded.Config)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := client.Status(ctx)
	if err != nil {
		return nil, apiError(err, "read status", loaded.API.URL)
	}

	health := monitor.HealthOffline.String()
	if h, err := client.Health(ctx); err == nil && h.Online() {
		health = monitor.HealthOnline.String()
	}

	return &statusData{
		Endpoint:      loaded.API.URL,
		IsRunning:     st.IsRunning,
		TotalLogs:     st.TotalLogs,
		RatePerSecond: st.RatePerSecond,
		Health:        health,
	}, nil
}

// healthData is the --json payload of 'logpulse health'.
type healthData struct {
	Endpoint string `json:"endpoint"`
	Status   string `json:"status"`
	Online   bool   `json:"online"`
}

func (a *app) healthCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check whether the generator is reachable and healthy",
		Long: `Call the generator's health endpoint once. Exits 1 when it is offline.

Examples:
  logpulse health
  logpulse health --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := a.loadConfig(cmd)
			if err != nil {
				if out.JSON {
					return writeJSONResult(cmd, nil, err)
				}
				return err
			}
			client := a.client(loaded.Config)
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			h, err := client.Health(ctx)
			if err != nil {
				err = apiError(err, "check health", loaded.API.URL)
				if out.JSON {
					return writeJSONResult(cmd, nil, err)
				}
				return err
			}

			data := healthData{Endpoint: loaded.API.URL, Status: h.Status, Online: h.Online()}
			if out.JSON {
				if err := WriteJSONSuccess(cmd.OutOrStdout(), data); err != nil {
					return err
				}
			} else {
				w := cmd.OutOrStdout()
				if data.Online {
					fmt.Fprintf(w, "%s %s is online\n", ui.SuccessStyle().Render(ui.SymbolSuccess), data.Endpoint)
				} else {
					fmt.Fprintf(w, "%s %s reports %q\n", ui.ErrorStyle().Render(ui.SymbolFail), data.Endpoint, data.Status)
				}
			}
			if !data.Online {
				return errors.NewExitError(1)
			}
			return nil
		},
	}
	addOutputFlags(cmd, &out)
	return cmd
}

// writeJSONResult writes data or err as an envelope. Failures become exit
// code 1 without a second human-readable message.
func writeJSONResult(cmd *cobra.Command, data interface{}, err error) error {
	w := cmd.OutOrStdout()
	if err != nil {
		if werr := WriteJSONFromError(w, err); werr != nil {
			return werr
		}
		return errors.NewExitError(1)
	}
	return WriteJSONSuccess(w, data)
}

func completionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion scripts for logpulse.

Examples:
  # Bash
  logpulse completion bash > /etc/bash_completion.d/logpulse

  # Zsh
  logpulse completion zsh > "${fpath[1]}/_logpulse"

  # Fish
  logpulse completion fish > ~/.config/fish/completions/logpulse.fish`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(w)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletion(w)
			}
		},
	}
}
