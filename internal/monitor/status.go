package monitor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/logpulse/internal/metrics"
	"github.com/rileyhilliard/logpulse/pkg/api"
)

// StatusPoller periodically fetches the generator status and keeps the most
// recent snapshot. Failed fetches leave the snapshot in place and mark it
// stale until the next success.
type StatusPoller struct {
	core *poller[api.StatusResponse]

	latest    StatusSnapshot
	hasLatest bool
	stale     bool
	lastErr   error
}

// NewStatusPoller creates a status poller for client.
func NewStatusPoller(client api.GeneratorClient, opts PollerOptions) *StatusPoller {
	return &StatusPoller{
		core: newPoller("status", client.Status, opts),
	}
}

// Start begins polling every interval, fetching once immediately.
func (p *StatusPoller) Start(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = DefaultStatusInterval
	}
	return p.core.start(interval)
}

// Stop cancels polling. A fetch already in flight is discarded when it lands.
func (p *StatusPoller) Stop() {
	p.core.stop()
}

// Running reports whether the poller has been started and not stopped.
func (p *StatusPoller) Running() bool {
	return p.core.running
}

// InFlight reports whether a fetch is outstanding.
func (p *StatusPoller) InFlight() bool {
	return p.core.inFlight
}

// ForceRefresh fetches immediately without disturbing the regular schedule.
func (p *StatusPoller) ForceRefresh() tea.Cmd {
	return p.core.forceRefresh()
}

// Latest returns the newest snapshot, or false if none has arrived yet.
func (p *StatusPoller) Latest() (StatusSnapshot, bool) {
	return p.latest, p.hasLatest
}

// Stale reports whether the most recent fetch failed.
func (p *StatusPoller) Stale() bool {
	return p.stale
}

// LastError returns the error of the most recent failed fetch, or nil after a
// success.
func (p *StatusPoller) LastError() error {
	return p.lastErr
}

// Update routes a message to the poller. When the message is a result that
// produced a new snapshot, the snapshot is returned for the sampler.
func (p *StatusPoller) Update(msg tea.Msg) (tea.Cmd, *StatusSnapshot) {
	cmd, res := p.core.update(msg)
	if res == nil {
		return cmd, nil
	}

	if res.err != nil {
		p.markFailed(res.err)
		return cmd, nil
	}

	snap, err := snapshotFromResponse(res.value, res.observedAt)
	if err != nil {
		p.core.log.Warn("discarding status payload: %v", err)
		p.markFailed(err)
		return cmd, nil
	}

	if p.hasLatest && snap.ObservedAt.Before(p.latest.ObservedAt) {
		metrics.IncPoll(p.core.name, metrics.OutcomeDropped)
		return cmd, nil
	}

	p.latest = snap
	p.hasLatest = true
	p.stale = false
	p.lastErr = nil
	return cmd, &snap
}

func (p *StatusPoller) markFailed(err error) {
	p.stale = true
	p.lastErr = err
}

// FetchStatus performs one status read outside the poll loop, for one-shot
// CLI commands.
func FetchStatus(ctx context.Context, client api.GeneratorClient, now func() time.Time) (StatusSnapshot, error) {
	resp, err := client.Status(ctx)
	if err != nil {
		return StatusSnapshot{}, err
	}
	return snapshotFromResponse(resp, now())
}
