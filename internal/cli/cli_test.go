package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/logpulse/internal/config"
	apitesting "github.com/rileyhilliard/logpulse/pkg/api/testing"
)

// harness runs the full command tree against an in-memory generator with an
// isolated HOME and working directory.
type harness struct {
	t      *testing.T
	srv    *apitesting.FakeServer
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := apitesting.NewFakeServer()
	t.Cleanup(srv.Close)

	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("LOGPULSE_API_URL", srv.URL)

	return &harness{t: t, srv: srv}
}

func (h *harness) run(args ...string) int {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	a := newApp()
	a.interactive = func() bool { return false }
	root := a.rootCmd()
	root.SetOut(&h.stdout)
	root.SetErr(&h.stderr)
	return run(root, args, &h.stderr)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *JSONError      `json:"error"`
}

func (h *harness) envelope() envelope {
	h.t.Helper()
	var env envelope
	require.NoError(h.t, json.Unmarshal(h.stdout.Bytes(), &env), h.stdout.String())
	return env
}

func TestStart(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("start"), h.stderr.String())
	assert.True(t, h.srv.Running())
	assert.Contains(t, h.stdout.String(), "Starting generator: log generation started")
}

func TestStart_AlreadyRunningSkips(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("start"))

	require.Equal(t, 0, h.run("start"))
	assert.Contains(t, h.stdout.String(), "already running at 2,000 logs/s")
	assert.Equal(t, 1, h.srv.Requests("POST", "/logs/start"))
}

func TestStop(t *testing.T) {
	h := newHarness(t)

	t.Run("when stopped is skipped", func(t *testing.T) {
		require.Equal(t, 0, h.run("stop"))
		assert.Contains(t, h.stdout.String(), "already stopped")
		assert.Equal(t, 0, h.srv.Requests("POST", "/logs/stop"))
	})

	t.Run("when running", func(t *testing.T) {
		require.Equal(t, 0, h.run("start"))
		require.Equal(t, 0, h.run("stop"))
		assert.False(t, h.srv.Running())
		assert.Contains(t, h.stdout.String(), "log generation stopped")
	})
}

func TestStart_Unreachable(t *testing.T) {
	h := newHarness(t)

	code := h.run("--url", "http://127.0.0.1:1", "start")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "generator at 127.0.0.1:1 didn't answer")
	assert.Contains(t, h.stderr.String(), "--url or LOGPULSE_API_URL")
}

func TestRate(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
		wantErr  string
		wantRate int
	}{
		{
			name:     "valid rate",
			args:     []string{"rate", "5000"},
			wantOut:  "now 5,000 logs/s",
			wantRate: 5000,
		},
		{
			name:     "boundary max",
			args:     []string{"rate", "10000"},
			wantOut:  "now 10,000 logs/s",
			wantRate: 10000,
		},
		{
			name:     "zero",
			args:     []string{"rate", "0"},
			wantCode: 1,
			wantErr:  "rate 0 is out of range",
			wantRate: 2000,
		},
		{
			name:     "too high",
			args:     []string{"rate", "10001"},
			wantCode: 1,
			wantErr:  "out of range",
			wantRate: 2000,
		},
		{
			name:     "not a number",
			args:     []string{"rate", "fast"},
			wantCode: 1,
			wantErr:  "not a whole number",
			wantRate: 2000,
		},
		{
			name:     "missing without a terminal",
			args:     []string{"rate"},
			wantCode: 1,
			wantErr:  "No rate given",
			wantRate: 2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			assert.Equal(t, tt.wantCode, h.run(tt.args...))
			if tt.wantOut != "" {
				assert.Contains(t, h.stdout.String(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, h.stderr.String(), tt.wantErr)
				assert.Equal(t, 0, h.srv.Requests("PUT", "/logs/rate"), "invalid input must not reach the generator")
			}
			assert.Equal(t, tt.wantRate, h.srv.Rate())
		})
	}
}

func TestStatus(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("start"))
	h.srv.Advance(12345)

	require.Equal(t, 0, h.run("status"), h.stderr.String())
	out := h.stdout.String()
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "2,000 logs/s")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "online")
	assert.Contains(t, out, h.srv.URL)
}

func TestStatus_JSON(t *testing.T) {
	h := newHarness(t)
	h.srv.Envelope(true)
	h.srv.SetHealthy(false)

	require.Equal(t, 0, h.run("status", "--json"))
	env := h.envelope()
	require.True(t, env.Success)

	var data statusData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, statusData{
		Endpoint:      h.srv.URL,
		IsRunning:     false,
		TotalLogs:     0,
		RatePerSecond: 2000,
		Health:        "offline",
	}, data)
}

func TestStatus_JSONUnreachable(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 1, h.run("--url", "http://127.0.0.1:1", "status", "--json"))
	env := h.envelope()
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeUnreachable, env.Error.Code)
	assert.Empty(t, h.stderr.String(), "failures are reported once, in the envelope")
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("health"))
	assert.Contains(t, h.stdout.String(), "is online")

	h.srv.SetHealthy(false)
	assert.Equal(t, 1, h.run("health"))
	assert.Contains(t, h.stdout.String(), `reports "degraded"`)

	assert.Equal(t, 1, h.run("health", "--json"))
	env := h.envelope()
	assert.True(t, env.Success, "the call itself worked")
	var data healthData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.False(t, data.Online)
	assert.Equal(t, "degraded", data.Status)
}

func TestInvalidConfigFromEnv(t *testing.T) {
	h := newHarness(t)
	t.Setenv("LOGPULSE_POLL_STATUS_INTERVAL", "10ms")

	assert.Equal(t, 1, h.run("status"))
	assert.Contains(t, h.stderr.String(), "poll.status_interval 10ms is too short")
	assert.Equal(t, 0, h.srv.Requests("GET", "/logs/status"))
}

func TestConfigInit(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("config", "init"), h.stderr.String())
	assert.Contains(t, h.stdout.String(), "Wrote")
	_, err := os.Stat(config.ConfigFileName)
	require.NoError(t, err)

	assert.Equal(t, 1, h.run("config", "init"))
	assert.Contains(t, h.stderr.String(), "--force")

	require.Equal(t, 0, h.run("config", "init", "--force"))
}

func TestConfigInit_Global(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("config", "init", "--global", "--url", "http://gen.internal:9000"))

	loaded, err := config.Load(config.GlobalConfigPath())
	require.NoError(t, err)
	// The harness env still overrides the file on load.
	assert.Equal(t, h.srv.URL, loaded.API.URL)

	data, err := os.ReadFile(filepath.Clean(config.GlobalConfigPath()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "http://gen.internal:9000")
}

func TestConfigShow(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("config", "show", "--timeout", "3s", "--json"))
	env := h.envelope()
	require.True(t, env.Success)

	var data struct {
		Path     string       `json:"path"`
		Settings []settingRow `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Path)

	bySource := map[string]settingRow{}
	for _, s := range data.Settings {
		bySource[s.Key] = s
	}
	assert.Equal(t, settingRow{Key: "api.url", Value: h.srv.URL, Source: "env"}, bySource["api.url"])
	assert.Equal(t, settingRow{Key: "api.timeout", Value: "3s", Source: "flag"}, bySource["api.timeout"])
	assert.Equal(t, "default", bySource["rate.default"].Source)
}

func TestConfigShow_Table(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("config", "init"))

	require.Equal(t, 0, h.run("config", "show"))
	out := h.stdout.String()
	assert.Contains(t, out, config.ConfigFileName)
	assert.Contains(t, out, "poll.status_interval")
	assert.Contains(t, out, "file")
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 1, h.run("bogus"))
	assert.Contains(t, h.stderr.String(), "'bogus' isn't a logpulse command")
	assert.Contains(t, h.stderr.String(), "logpulse --help")
}

func TestMonitor_RequiresTerminal(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 1, h.run("monitor"))
	assert.Contains(t, h.stderr.String(), "needs a terminal")
	assert.Equal(t, 0, h.srv.Requests("GET", "/logs/status"))
}

func TestCompletion(t *testing.T) {
	h := newHarness(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			require.Equal(t, 0, h.run("completion", shell))
			assert.Contains(t, h.stdout.String(), "logpulse")
		})
	}

	assert.Equal(t, 1, h.run("completion", "tcsh"))
}
