package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/logpulse/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	loaded, err := Load("")
	require.NoError(t, err)

	d := DefaultConfig()
	assert.Equal(t, d.API.URL, loaded.API.URL)
	assert.Equal(t, d.Poll, loaded.Poll)
	assert.Equal(t, 2000, loaded.Rate.Default)
	assert.Empty(t, loaded.Path)
	assert.Equal(t, SourceDefault, loaded.Source("api.url"))
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
version: 1
api:
  url: http://generator:9000
  timeout: 3s
poll:
  status_interval: 1s
rate:
  default: 500
`)

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://generator:9000", loaded.API.URL)
	assert.Equal(t, 3*time.Second, loaded.API.Timeout)
	assert.Equal(t, time.Second, loaded.Poll.StatusInterval)
	// Keys missing from the file keep their defaults.
	assert.Equal(t, 10*time.Second, loaded.Poll.HealthInterval)
	assert.Equal(t, 500, loaded.Rate.Default)
	assert.Equal(t, path, loaded.Path)

	assert.Equal(t, SourceFile, loaded.Source("api.url"))
	assert.Equal(t, SourceDefault, loaded.Source("poll.health_interval"))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "api:\n  url: http://from-file:1\n")
	t.Setenv("LOGPULSE_API_URL", "http://from-env:2")
	t.Setenv("LOGPULSE_RATE_DEFAULT", "750")

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:2", loaded.API.URL)
	assert.Equal(t, 750, loaded.Rate.Default)
	assert.Equal(t, SourceEnv, loaded.Source("api.url"))
	assert.Equal(t, SourceEnv, loaded.Source("rate.default"))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "api: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "poll:\n  status_interval: soon\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid config format")
}

func TestLoaded_MarkOverride(t *testing.T) {
	t.Setenv("LOGPULSE_API_URL", "http://from-env:2")
	loaded, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourceEnv, loaded.Source("api.url"))
	loaded.MarkOverride("api.url")
	assert.Equal(t, SourceFlag, loaded.Source("api.url"))
}

func TestLoaded_Settings(t *testing.T) {
	loaded, err := Load("")
	require.NoError(t, err)

	settings := loaded.Settings()
	require.Len(t, settings, len(Keys))
	for i, s := range settings {
		assert.Equal(t, Keys[i], s.Key)
	}
	assert.Equal(t, Setting{Key: "api.url", Value: "http://localhost:8080", Source: SourceDefault}, settings[0])
	assert.Equal(t, "2s", settings[2].Value)
	assert.Equal(t, "2000", settings[5].Value)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "LOGPULSE_API_URL", EnvKey("api.url"))
	assert.Equal(t, "LOGPULSE_POLL_STATUS_INTERVAL", EnvKey("poll.status_interval"))
}

func TestFind(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "version: 1\n")
		got, err := Find(path)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
		assert.Contains(t, err.Error(), "Specified config file not found")
	})

	t.Run("current directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "version: 1\n")
		chdir(t, dir)
		t.Setenv("HOME", t.TempDir())

		got, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, ConfigFileName, filepath.Base(got))
	})

	t.Run("global config", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		chdir(t, t.TempDir())

		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		require.NoError(t, os.MkdirAll(filepath.Dir(global), 0o755))
		require.NoError(t, os.WriteFile(global, []byte("version: 1\n"), 0o644))

		got, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, global, got)
	})

	t.Run("nothing found", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		chdir(t, t.TempDir())

		got, err := Find("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestLoadAuto_FallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	loaded, err := LoadAuto("")
	require.NoError(t, err)
	assert.Empty(t, loaded.Path)
	assert.Equal(t, DefaultConfig().API.URL, loaded.API.URL)
}
