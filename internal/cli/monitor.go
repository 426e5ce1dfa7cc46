package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/logpulse/internal/config"
	"github.com/rileyhilliard/logpulse/internal/errors"
	"github.com/rileyhilliard/logpulse/internal/logger"
	"github.com/rileyhilliard/logpulse/internal/metrics"
	"github.com/rileyhilliard/logpulse/internal/monitor"
	"github.com/rileyhilliard/logpulse/internal/ui"
	"github.com/rileyhilliard/logpulse/pkg/api"
)

const metricsShutdownTimeout = 2 * time.Second

func (a *app) monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Live dashboard of generator throughput",
		Long: `Open an interactive dashboard that polls the generator, charts logs per
second and lets you start, stop and re-rate it.

Keyboard shortcuts:
  s           Start the generator
  x           Stop the generator
  e           Edit the target rate (enter applies, esc cancels)
  r           Refresh now
  ?           Show help
  q / Ctrl+C  Quit

Examples:
  logpulse monitor
  logpulse monitor --interval 1s
  logpulse monitor --metrics-addr :9464`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if !a.interactive() {
				return errors.New(errors.ErrConfig,
					"The dashboard needs a terminal",
					"Use 'logpulse status --json' from scripts.")
			}
			return a.runMonitor(loaded.Config)
		},
	}
	cmd.Flags().Duration("interval", config.DefaultConfig().Poll.StatusInterval, "status poll interval (overrides poll.status_interval)")
	cmd.Flags().Duration("health-interval", config.DefaultConfig().Poll.HealthInterval, "health poll interval (overrides poll.health_interval)")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
	return cmd
}

// runMonitor owns the terminal until the user quits. Logging goes to the
// rotating file for the duration.
func (a *app) runMonitor(cfg *config.Config) error {
	if cfg.Log.File != "" {
		restore, err := logger.RouteToFile(logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
		if err != nil {
			ui.PrintWarning("Logging to stderr: " + err.Error())
		} else {
			defer restore()
		}
	}

	log := logger.NewEnvLogger("[monitor]")

	if cfg.Metrics.Addr != "" {
		stop, err := serveMetrics(cfg.Metrics.Addr, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	client := a.newClient(api.Config{
		BaseURL: cfg.API.URL,
		Timeout: cfg.EffectiveTimeout(),
		Logger:  logger.NewEnvLogger("[api]"),
	})

	model := monitor.NewModel(client, monitorOptions(cfg, log))
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if m, ok := final.(monitor.Model); ok {
		m.Stop()
	} else {
		model.Stop()
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Dashboard exited with an error", "")
	}
	return nil
}

func monitorOptions(cfg *config.Config, log logger.Logger) monitor.Options {
	opts := monitor.DefaultOptions()
	opts.StatusInterval = cfg.Poll.StatusInterval
	opts.HealthInterval = cfg.Poll.HealthInterval
	opts.DefaultRate = cfg.Rate.Default
	opts.Endpoint = cfg.API.URL
	opts.Logger = log
	opts.Poller.RetryDelay = cfg.Poll.RetryDelay
	opts.Poller.Logger = logger.NewEnvLogger("[poller]")
	return opts
}

// serveMetrics registers the collectors and serves /metrics on addr until
// the returned stop func is called.
func serveMetrics(addr string, log logger.Logger) (stop func(), err error) {
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Couldn't register metrics", "")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	// Surface an immediate bind failure instead of a silent dead endpoint.
	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't serve metrics on "+addr,
				"Pick a free address with --metrics-addr or metrics.addr.")
		}
	case <-time.After(100 * time.Millisecond):
	}
	log.Info("serving metrics on %s/metrics", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			log.Warn("metrics shutdown: %v", err)
		}
	}, nil
}
