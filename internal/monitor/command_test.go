package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/logpulse/internal/errors"
	"github.com/rileyhilliard/logpulse/pkg/api"
	apitest "github.com/rileyhilliard/logpulse/pkg/api/testing"
)

type countingRefresher struct {
	calls int
}

func (r *countingRefresher) ForceRefresh() tea.Cmd {
	r.calls++
	return nil
}

func newTestCoordinator() (*CommandCoordinator, *apitest.FakeClient, *countingRefresher) {
	client := apitest.NewFakeClient()
	ref := &countingRefresher{}
	return NewCommandCoordinator(client, ref, nil), client, ref
}

// resolve runs a command and applies its result.
func resolve(c *CommandCoordinator, cmd tea.Cmd) tea.Cmd {
	return c.Update(single(cmd))
}

func TestValidateRate(t *testing.T) {
	tests := []struct {
		rate    int
		wantErr bool
	}{
		{-1, true},
		{0, true},
		{1, false},
		{2000, false},
		{10000, false},
		{10001, true},
	}

	for _, tt := range tests {
		err := ValidateRate(tt.rate)
		if tt.wantErr {
			assert.True(t, errors.IsCode(err, errors.ErrValidation), "rate %d", tt.rate)
		} else {
			assert.NoError(t, err, "rate %d", tt.rate)
		}
	}
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"plain", "5000", 5000, false},
		{"whitespace", "  250 ", 250, false},
		{"empty", "", 0, true},
		{"letters", "fast", 0, true},
		{"decimal", "12.5", 0, true},
		{"zero", "0", 0, true},
		{"too high", "10001", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandCoordinator_UpdateRateValidationMakesNoCalls(t *testing.T) {
	for _, rate := range []int{0, 10001} {
		c, client, ref := newTestCoordinator()

		cmd := c.IssueUpdateRate(rate)

		assert.Nil(t, cmd, "rate %d", rate)
		assert.Equal(t, 0, client.TotalCalls(), "rate %d", rate)
		assert.Equal(t, 0, ref.calls)
		out := c.Outcome(CommandUpdateRate)
		assert.Equal(t, OutcomeFailed, out.State())
		assert.True(t, errors.IsCode(out.Err, errors.ErrValidation))
		assert.Equal(t, out.Err, c.LastError())
	}
}

func TestCommandCoordinator_UpdateRateInputNonNumeric(t *testing.T) {
	c, client, _ := newTestCoordinator()

	assert.Nil(t, c.IssueUpdateRateInput("lots"))
	assert.Equal(t, 0, client.TotalCalls())
	assert.Error(t, c.LastError())
}

func TestCommandCoordinator_UpdateRateSuccessRefreshesOnce(t *testing.T) {
	c, client, ref := newTestCoordinator()

	cmd := c.IssueUpdateRate(5000)
	require.NotNil(t, cmd)
	assert.Equal(t, OutcomePending, c.Outcome(CommandUpdateRate).State())
	assert.True(t, c.Busy())

	resolve(c, cmd)

	assert.Equal(t, 1, ref.calls)
	assert.Equal(t, 1, client.CallCount("UpdateRate"))
	assert.Equal(t, 5000, client.Calls[0].Rate)
	assert.Equal(t, 5000, c.AppliedRate())
	out := c.Outcome(CommandUpdateRate)
	assert.Equal(t, OutcomeSucceeded, out.State())
	assert.Equal(t, "rate updated", out.Message)
	assert.NoError(t, c.LastError())
	assert.False(t, c.Busy())
}

func TestCommandCoordinator_StartStop(t *testing.T) {
	c, client, ref := newTestCoordinator()

	resolve(c, c.IssueStart())
	assert.True(t, client.StatusResp.IsRunning)
	assert.Equal(t, OutcomeSucceeded, c.Outcome(CommandStart).State())

	resolve(c, c.IssueStop())
	assert.False(t, client.StatusResp.IsRunning)
	assert.Equal(t, OutcomeSucceeded, c.Outcome(CommandStop).State())

	assert.Equal(t, 2, ref.calls)
	kind, ok := c.LastCommand()
	require.True(t, ok)
	assert.Equal(t, CommandStop, kind)
}

func TestCommandCoordinator_FailureRetainsErrorWithoutRefresh(t *testing.T) {
	c, client, ref := newTestCoordinator()
	client.StartErr = &api.StatusError{StatusCode: 500, Message: "generator crashed"}

	next := resolve(c, c.IssueStart())

	assert.Nil(t, next)
	assert.Equal(t, 0, ref.calls)
	assert.Equal(t, 1, client.CallCount("Start"), "no automatic retry")
	out := c.Outcome(CommandStart)
	assert.Equal(t, OutcomeFailed, out.State())
	assert.ErrorContains(t, out.Err, "generator crashed")
	assert.Equal(t, out.Err, c.LastError())

	// A user resubmission clears the retained error while pending.
	client.StartErr = nil
	cmd := c.IssueStart()
	assert.NoError(t, c.Outcome(CommandStart).Err)
	resolve(c, cmd)
	assert.Equal(t, 1, ref.calls)
}

func TestCommandCoordinator_ConcurrentCommandsIndependent(t *testing.T) {
	c, client, ref := newTestCoordinator()

	start := c.IssueStart()
	stop := c.IssueStop()
	assert.Equal(t, OutcomePending, c.Outcome(CommandStart).State())
	assert.Equal(t, OutcomePending, c.Outcome(CommandStop).State())

	// Responses land in the opposite order to issuance.
	resolve(c, stop)
	resolve(c, start)

	assert.Equal(t, 1, client.CallCount("Start"))
	assert.Equal(t, 1, client.CallCount("Stop"))
	assert.Equal(t, 2, ref.calls)
	assert.False(t, c.Busy())
}

func TestCommandCoordinator_RefreshesStatusPoller(t *testing.T) {
	client := apitest.NewFakeClient()
	clock := newFakeClock()
	poller := NewStatusPoller(client, PollerOptions{Clock: clock})
	c := NewCommandCoordinator(client, poller, nil)
	deliver(poller, poller.Start(2*time.Second))
	latest, _ := poller.Latest()
	require.False(t, latest.IsRunning)

	clock.Advance(300 * time.Millisecond)
	refresh := resolve(c, c.IssueStart())
	require.NotNil(t, refresh, "success returns the forced refresh")
	applied := deliver(poller, refresh)

	require.Len(t, applied, 1)
	assert.True(t, applied[0].IsRunning)
	assert.Equal(t, 2, client.CallCount("Status"))
}

func TestCommandCoordinator_IgnoresForeignMessages(t *testing.T) {
	c, _, ref := newTestCoordinator()
	other, _, _ := newTestCoordinator()

	assert.Nil(t, c.Update(single(other.IssueStart())))
	assert.Nil(t, c.Update(tea.KeyMsg{}))
	assert.Equal(t, 0, ref.calls)
	_, ok := c.LastCommand()
	assert.False(t, ok)
}

func TestCommandCoordinator_DismissError(t *testing.T) {
	c, _, _ := newTestCoordinator()
	c.IssueUpdateRate(0)
	require.Error(t, c.LastError())

	c.DismissError()
	assert.NoError(t, c.LastError())
}

func TestCommandKind_String(t *testing.T) {
	assert.Equal(t, "start", CommandStart.String())
	assert.Equal(t, "stop", CommandStop.String())
	assert.Equal(t, "rate", CommandUpdateRate.String())
	assert.Equal(t, "pending", OutcomePending.String())
	assert.Equal(t, "idle", Outcome{}.State().String())
}
