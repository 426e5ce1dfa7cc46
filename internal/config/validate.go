package config

import (
	"fmt"
	"net"
	"net/url"

	"github.com/rileyhilliard/logpulse/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but logpulse only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade logpulse or lower the version field.")
	}

	if err := validateAPI(cfg.API); err != nil {
		return err
	}
	if err := validatePoll(cfg.Poll); err != nil {
		return err
	}

	if cfg.Rate.Default < MinRate || cfg.Rate.Default > MaxRate {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("rate.default is %d, outside %d-%d", cfg.Rate.Default, MinRate, MaxRate),
			"Pick a default the generator accepts, like 2000.")
	}

	if cfg.Log.MaxSizeMB < 0 || cfg.Log.MaxBackups < 0 || cfg.Log.MaxAgeDays < 0 {
		return errors.New(errors.ErrConfig,
			"Log rotation settings can't be negative",
			"Use 0 for the built-in defaults.")
	}

	if cfg.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Metrics.Addr); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("metrics.addr '%s' isn't a listen address", cfg.Metrics.Addr),
				"Use host:port or :port, e.g. :9464.")
		}
	}

	return nil
}

func validateAPI(api APIConfig) error {
	u, err := url.Parse(api.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("api.url '%s' isn't an http(s) URL", api.URL),
			"Use something like http://localhost:8080.")
	}
	if api.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"api.timeout must be positive",
			"Try 10s.")
	}
	return nil
}

func validatePoll(p PollConfig) error {
	if p.StatusInterval < MinPollInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("poll.status_interval %s is too short", p.StatusInterval),
			fmt.Sprintf("Minimum interval is %s to avoid overwhelming the generator.", MinPollInterval))
	}
	if p.HealthInterval < MinPollInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("poll.health_interval %s is too short", p.HealthInterval),
			fmt.Sprintf("Minimum interval is %s.", MinPollInterval))
	}
	if p.RetryDelay < 0 {
		return errors.New(errors.ErrConfig,
			"poll.retry_delay can't be negative",
			"Use 0 to disable the early retry.")
	}
	if p.RetryDelay >= p.StatusInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("poll.retry_delay %s must be shorter than poll.status_interval %s", p.RetryDelay, p.StatusInterval),
			"Use 0 to disable the early retry, or pick something like 500ms.")
	}
	return nil
}
