package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .logpulse.yaml configuration file.
type Config struct {
	Version int           `yaml:"version" mapstructure:"version"`
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Poll    PollConfig    `yaml:"poll" mapstructure:"poll"`
	Rate    RateConfig    `yaml:"rate" mapstructure:"rate"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// APIConfig locates the generator service.
type APIConfig struct {
	// URL is the base URL of the generator API.
	URL string `yaml:"url" mapstructure:"url"`

	// Timeout bounds a single request. The monitor raises it to the
	// largest poll interval when shorter.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PollConfig controls the dashboard pollers.
type PollConfig struct {
	StatusInterval time.Duration `yaml:"status_interval" mapstructure:"status_interval"`
	HealthInterval time.Duration `yaml:"health_interval" mapstructure:"health_interval"`

	// RetryDelay is the delay of the single early retry after a failed
	// status fetch. Zero disables the retry.
	RetryDelay time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
}

// RateConfig holds rate defaults.
type RateConfig struct {
	// Default pre-fills the rate input before the generator reports a rate.
	Default int `yaml:"default" mapstructure:"default"`
}

// LogConfig controls the rotating log file used while the dashboard owns
// the terminal.
type LogConfig struct {
	// File is the log path; empty disables file logging. ~ is expanded.
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics (e.g. ":9464"); empty disables it.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Rate bounds accepted by the generator.
const (
	MinRate = 1
	MaxRate = 10000
)

// MinPollInterval is the shortest poll interval accepted.
const MinPollInterval = 500 * time.Millisecond

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			URL:     "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		Poll: PollConfig{
			StatusInterval: 2 * time.Second,
			HealthInterval: 10 * time.Second,
			RetryDelay:     500 * time.Millisecond,
		},
		Rate: RateConfig{
			Default: 2000,
		},
		Log: LogConfig{
			File:       "~/.cache/logpulse/logpulse.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// EffectiveTimeout returns the request timeout, raised so that no request
// times out sooner than the slowest poll cadence.
func (c *Config) EffectiveTimeout() time.Duration {
	t := c.API.Timeout
	for _, iv := range []time.Duration{c.Poll.StatusInterval, c.Poll.HealthInterval} {
		if iv > t {
			t = iv
		}
	}
	return t
}
