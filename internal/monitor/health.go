package monitor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/logpulse/pkg/api"
)

// HealthPoller tracks service liveness at a coarser cadence than status.
// Any failed fetch flips it to offline straight away.
type HealthPoller struct {
	core *poller[api.HealthResponse]

	state       HealthState
	lastStatus  string
	lastErr     error
	lastChecked time.Time
}

// NewHealthPoller creates a health poller for client.
func NewHealthPoller(client api.GeneratorClient, opts PollerOptions) *HealthPoller {
	return &HealthPoller{
		core: newPoller("health", client.Health, opts),
	}
}

// Start begins polling every interval, fetching once immediately.
func (p *HealthPoller) Start(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	return p.core.start(interval)
}

// Stop cancels polling; an in-flight check is discarded.
func (p *HealthPoller) Stop() {
	p.core.stop()
}

// Running reports whether the poller is active.
func (p *HealthPoller) Running() bool {
	return p.core.running
}

// Latest returns the current tri-state.
func (p *HealthPoller) Latest() HealthState {
	return p.state
}

// LastError returns the error behind an offline state, if any.
func (p *HealthPoller) LastError() error {
	return p.lastErr
}

// LastStatus returns the raw status string of the last successful check.
func (p *HealthPoller) LastStatus() string {
	return p.lastStatus
}

// LastChecked returns when the last check resolved.
func (p *HealthPoller) LastChecked() time.Time {
	return p.lastChecked
}

// Update routes a message to the poller and reports whether the health state
// was refreshed by it.
func (p *HealthPoller) Update(msg tea.Msg) (tea.Cmd, bool) {
	cmd, res := p.core.update(msg)
	if res == nil {
		return cmd, false
	}

	p.lastChecked = res.observedAt
	if res.err != nil {
		p.state = HealthOffline
		p.lastErr = res.err
		return cmd, true
	}

	p.lastStatus = res.value.Status
	p.lastErr = nil
	if res.value.Online() {
		p.state = HealthOnline
	} else {
		p.state = HealthOffline
	}
	return cmd, true
}
