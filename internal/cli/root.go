package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/logpulse/internal/config"
	"github.com/rileyhilliard/logpulse/internal/errors"
	"github.com/rileyhilliard/logpulse/internal/logger"
	"github.com/rileyhilliard/logpulse/internal/ui"
	"github.com/rileyhilliard/logpulse/pkg/api"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	ConfigPath string
	URL        string
	Timeout    time.Duration
	NoColor    bool
}

// app carries state shared by the command tree.
type app struct {
	flags globalFlags

	// newClient builds the generator client; tests swap it for a fake.
	newClient func(cfg api.Config) api.GeneratorClient

	// interactive reports whether prompts and animation are allowed.
	interactive func() bool
}

func newApp() *app {
	return &app{
		newClient: func(cfg api.Config) api.GeneratorClient {
			return api.New(cfg)
		},
		interactive: ui.IsInteractive,
	}
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "logpulse",
		Short: "Control and watch a remote log generator",
		Long: `logpulse starts, stops and re-rates a remote log generator, and shows a
live dashboard of its throughput.

Examples:
  logpulse monitor
  logpulse start
  logpulse rate 5000
  logpulse status --json
  logpulse --url http://gen.internal:8080 health`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.flags.NoColor || os.Getenv("NO_COLOR") != "" {
				ui.DisableColors()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", "", "config file (default: ./.logpulse.yaml, then ~/.config/logpulse/config.yaml)")
	pf.StringVar(&a.flags.URL, "url", "", "generator API base URL (overrides api.url)")
	pf.DurationVar(&a.flags.Timeout, "timeout", 0, "request timeout, e.g. 5s (overrides api.timeout)")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.monitorCmd(),
		a.startCmd(),
		a.stopCmd(),
		a.rateCmd(),
		a.statusCmd(),
		a.healthCmd(),
		a.configCmd(),
		versionCmd(),
		completionCmd(root),
	)
	return root
}

// loadConfig resolves the config file, environment and flag overrides, then
// validates the result.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Loaded, error) {
	loaded, err := config.LoadAuto(a.flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		loaded.API.URL = strings.TrimRight(a.flags.URL, "/")
		loaded.MarkOverride("api.url")
	}
	if flags.Changed("timeout") {
		loaded.API.Timeout = a.flags.Timeout
		loaded.MarkOverride("api.timeout")
	}
	if flags.Lookup("interval") != nil && flags.Changed("interval") {
		loaded.Poll.StatusInterval, _ = flags.GetDuration("interval")
		loaded.MarkOverride("poll.status_interval")
	}
	if flags.Lookup("health-interval") != nil && flags.Changed("health-interval") {
		loaded.Poll.HealthInterval, _ = flags.GetDuration("health-interval")
		loaded.MarkOverride("poll.health_interval")
	}
	if flags.Lookup("metrics-addr") != nil && flags.Changed("metrics-addr") {
		loaded.Metrics.Addr, _ = flags.GetString("metrics-addr")
		loaded.MarkOverride("metrics.addr")
	}

	if err := config.Validate(loaded.Config); err != nil {
		return nil, err
	}
	return loaded, nil
}

// client builds a generator client for one-shot commands.
func (a *app) client(cfg *config.Config) api.GeneratorClient {
	return a.newClient(api.Config{
		BaseURL: cfg.API.URL,
		Timeout: cfg.API.Timeout,
		Logger:  logger.NewEnvLogger("[api]"),
	})
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

// run executes root with args and returns the process exit code. Errors are
// printed to stderr exactly once.
func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}

	if code, ok := errors.GetExitCode(err); ok {
		return code
	}

	if isUnknownCommandError(err) {
		msg := err.Error()
		if name := extractUnknownCommand(err); name != "" {
			msg = fmt.Sprintf("'%s' isn't a logpulse command", name)
		}
		fmt.Fprintln(stderr, ui.ErrorStyle().Render(ui.SymbolFail+" "+msg))
		fmt.Fprintln(stderr, ui.MutedStyle().Render("  Run 'logpulse --help' to see available commands."))
		return 1
	}

	fmt.Fprint(stderr, formatError(err))
	return 1
}

// formatError renders structured errors as-is and prefixes anything else.
func formatError(err error) string {
	msg := err.Error()
	if !strings.HasPrefix(msg, ui.SymbolFail) {
		msg = ui.SymbolFail + " " + msg
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return msg
}

func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "logpulse"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.IndexByte(msg, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(msg[start+1:], '"')
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
