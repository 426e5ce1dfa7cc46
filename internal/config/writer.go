package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/logpulse/internal/errors"
)

// fileConfig is the on-disk shape: durations as strings so the file stays
// hand-editable.
type fileConfig struct {
	Version int `yaml:"version"`
	API     struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Poll struct {
		StatusInterval string `yaml:"status_interval"`
		HealthInterval string `yaml:"health_interval"`
		RetryDelay     string `yaml:"retry_delay"`
	} `yaml:"poll"`
	Rate    RateConfig    `yaml:"rate"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

const fileHeader = `# logpulse configuration
# Every key can be overridden with LOGPULSE_<SECTION>_<KEY>, e.g. LOGPULSE_API_URL.
`

// Marshal renders cfg as commented YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var fc fileConfig
	fc.Version = cfg.Version
	fc.API.URL = cfg.API.URL
	fc.API.Timeout = cfg.API.Timeout.String()
	fc.Poll.StatusInterval = cfg.Poll.StatusInterval.String()
	fc.Poll.HealthInterval = cfg.Poll.HealthInterval.String()
	fc.Poll.RetryDelay = cfg.Poll.RetryDelay.String()
	fc.Rate = cfg.Rate
	fc.Log = cfg.Log
	fc.Metrics = cfg.Metrics

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes cfg to path. An existing file is only replaced when force
// is set.
func WriteFile(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			"Config already exists: "+path,
			"Use --force to overwrite it.")
	}

	data, err := Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't render config", "")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't create config directory: "+dir,
				"Check directory permissions")
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write config: "+path,
			"Check file permissions")
	}
	return nil
}
