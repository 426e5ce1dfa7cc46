package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/logpulse/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".logpulse.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/logpulse"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes every environment override (LOGPULSE_API_URL, ...).
	EnvPrefix = "LOGPULSE"
)

// Source says where an effective setting came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Keys lists every setting in display order.
var Keys = []string{
	"api.url",
	"api.timeout",
	"poll.status_interval",
	"poll.health_interval",
	"poll.retry_delay",
	"rate.default",
	"log.file",
	"log.max_size_mb",
	"log.max_backups",
	"log.max_age_days",
	"log.compress",
	"metrics.addr",
}

// Loaded is a parsed config together with where it came from.
type Loaded struct {
	*Config

	// Path is the config file read, or "" when running on defaults.
	Path string

	v         *viper.Viper
	overrides map[string]bool
}

// Source reports where the effective value of key came from.
func (l *Loaded) Source(key string) Source {
	if l.overrides[key] {
		return SourceFlag
	}
	if _, ok := os.LookupEnv(EnvKey(key)); ok {
		return SourceEnv
	}
	if l.v != nil && l.v.InConfig(key) {
		return SourceFile
	}
	return SourceDefault
}

// MarkOverride records that key was set from a command-line flag.
func (l *Loaded) MarkOverride(key string) {
	if l.overrides == nil {
		l.overrides = make(map[string]bool)
	}
	l.overrides[key] = true
}

// Setting is one effective key/value pair with its origin.
type Setting struct {
	Key    string
	Value  string
	Source Source
}

// Settings returns every effective setting in Keys order.
func (l *Loaded) Settings() []Setting {
	c := l.Config
	values := map[string]string{
		"api.url":              c.API.URL,
		"api.timeout":          c.API.Timeout.String(),
		"poll.status_interval": c.Poll.StatusInterval.String(),
		"poll.health_interval": c.Poll.HealthInterval.String(),
		"poll.retry_delay":     c.Poll.RetryDelay.String(),
		"rate.default":         strconv.Itoa(c.Rate.Default),
		"log.file":             c.Log.File,
		"log.max_size_mb":      strconv.Itoa(c.Log.MaxSizeMB),
		"log.max_backups":      strconv.Itoa(c.Log.MaxBackups),
		"log.max_age_days":     strconv.Itoa(c.Log.MaxAgeDays),
		"log.compress":         strconv.FormatBool(c.Log.Compress),
		"metrics.addr":         c.Metrics.Addr,
	}

	out := make([]Setting, 0, len(Keys))
	for _, k := range Keys {
		out = append(out, Setting{Key: k, Value: values[k], Source: l.Source(k)})
	}
	return out
}

// EnvKey returns the environment variable overriding key.
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads config from the specified path, applying defaults and
// environment overrides. An empty path loads defaults plus environment.
func Load(path string) (*Loaded, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found: "+path,
					"Run 'logpulse config init' to create one, or drop the --config flag")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file is valid YAML: "+path)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Durations look like 2s or 500ms; rates are whole numbers")
	}
	cfg.Log.File = ExpandTilde(cfg.Log.File)

	return &Loaded{Config: cfg, Path: path, v: v}, nil
}

// LoadAuto finds the config file (see Find) and loads it.
func LoadAuto(explicit string) (*Loaded, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .logpulse.yaml in current directory
// 3. ~/.config/logpulse/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if global := GlobalConfigPath(); global != "" {
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// GlobalConfigPath returns ~/.config/logpulse/config.yaml, or "" when the
// home directory is unknown.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

// setDefaults registers every default with viper so env overrides apply to
// keys missing from the file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("api.url", d.API.URL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("poll.status_interval", d.Poll.StatusInterval)
	v.SetDefault("poll.health_interval", d.Poll.HealthInterval)
	v.SetDefault("poll.retry_delay", d.Poll.RetryDelay)
	v.SetDefault("rate.default", d.Rate.Default)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}
