package monitor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/logpulse/internal/logger"
	"github.com/rileyhilliard/logpulse/internal/metrics"
)

// Default poll settings.
const (
	DefaultStatusInterval = 2 * time.Second
	DefaultHealthInterval = 10 * time.Second
	DefaultRetryDelay     = 500 * time.Millisecond
)

// PollerOptions carries the injected dependencies shared by both pollers.
type PollerOptions struct {
	Clock Clock // nil uses RealClock

	// RetryDelay is the pause before the single retry that follows a failed
	// fetch. Zero or negative disables the retry, as does a delay that is not
	// shorter than the poll interval.
	RetryDelay time.Duration

	Logger logger.Logger // nil discards
}

// DefaultPollerOptions returns options for production use.
func DefaultPollerOptions() PollerOptions {
	return PollerOptions{
		Clock:      RealClock(),
		RetryDelay: DefaultRetryDelay,
		Logger:     logger.NewEnvLogger("[poller]"),
	}
}

func (o PollerOptions) normalized() PollerOptions {
	if o.Clock == nil {
		o.Clock = RealClock()
	}
	if o.Logger == nil {
		o.Logger = logger.Noop()
	}
	return o
}

// pollTickMsg fires when a poller's timer elapses.
type pollTickMsg struct {
	owner any
	gen   uint64
	retry bool
}

// pollResultMsg carries the outcome of one fetch back to the update loop.
type pollResultMsg[T any] struct {
	owner      *poller[T]
	gen        uint64
	seq        uint64
	value      T
	err        error
	observedAt time.Time
	took       time.Duration
}

// poller is the scheduling core shared by StatusPoller and HealthPoller.
// It is driven entirely from the Bubble Tea update loop: it only mutates
// itself inside start, stop, forceRefresh and update, and the commands it
// returns never touch its fields.
//
// At most one fetch is outstanding. Each start or stop bumps gen, so ticks
// and results belonging to an earlier run are recognised and discarded.
type poller[T any] struct {
	name       string
	fetch      func(ctx context.Context) (T, error)
	clock      Clock
	retryDelay time.Duration
	log        logger.Logger

	interval       time.Duration
	running        bool
	gen            uint64
	seq            uint64
	inFlight       bool
	inFlightRetry  bool
	cancel         context.CancelFunc
	pendingRefresh bool
	retryScheduled bool
}

func newPoller[T any](name string, fetch func(ctx context.Context) (T, error), opts PollerOptions) *poller[T] {
	opts = opts.normalized()
	return &poller[T]{
		name:       name,
		fetch:      fetch,
		clock:      opts.Clock,
		retryDelay: opts.RetryDelay,
		log:        opts.Logger,
	}
}

// start begins a fresh run: one immediate fetch plus the recurring timer.
// Starting a running poller restarts it.
func (p *poller[T]) start(interval time.Duration) tea.Cmd {
	p.halt()
	p.running = true
	p.interval = interval
	p.log.Debug("%s poller started (every %s)", p.name, interval)
	return tea.Batch(p.dispatch(), p.schedule(interval, false))
}

func (p *poller[T]) stop() {
	if p.running {
		p.log.Debug("%s poller stopped", p.name)
	}
	p.halt()
}

func (p *poller[T]) halt() {
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.running = false
	p.inFlight = false
	p.inFlightRetry = false
	p.pendingRefresh = false
	p.retryScheduled = false
}

// forceRefresh fetches now without touching the regular schedule. If a fetch
// is already outstanding the refresh is deferred until it resolves.
func (p *poller[T]) forceRefresh() tea.Cmd {
	if !p.running {
		return nil
	}
	if p.inFlight {
		p.pendingRefresh = true
		return nil
	}
	return p.dispatch()
}

func (p *poller[T]) retryEnabled() bool {
	return p.retryDelay > 0 && p.retryDelay < p.interval
}

func (p *poller[T]) schedule(d time.Duration, retry bool) tea.Cmd {
	return p.clock.After(d, pollTickMsg{owner: p, gen: p.gen, retry: retry})
}

func (p *poller[T]) dispatch() tea.Cmd {
	p.seq++
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.inFlight = true

	owner, gen, seq := p, p.gen, p.seq
	fetch, clock := p.fetch, p.clock

	return func() tea.Msg {
		defer cancel()
		began := clock.Now()
		v, err := fetch(ctx)
		arrived := clock.Now()
		return pollResultMsg[T]{
			owner:      owner,
			gen:        gen,
			seq:        seq,
			value:      v,
			err:        err,
			observedAt: arrived,
			took:       arrived.Sub(began),
		}
	}
}

// update handles the poller's own messages. It returns the follow-up command
// and, for a result from the current run, the result itself.
func (p *poller[T]) update(msg tea.Msg) (tea.Cmd, *pollResultMsg[T]) {
	switch msg := msg.(type) {
	case pollTickMsg:
		if msg.owner != any(p) {
			return nil, nil
		}
		return p.onTick(msg), nil

	case pollResultMsg[T]:
		if msg.owner != p {
			return nil, nil
		}
		return p.onResult(msg)
	}
	return nil, nil
}

func (p *poller[T]) onTick(msg pollTickMsg) tea.Cmd {
	if msg.gen != p.gen || !p.running {
		return nil
	}

	if msg.retry {
		p.retryScheduled = false
		if p.inFlight {
			return nil
		}
		p.log.Debug("%s poller retrying after failure", p.name)
		cmd := p.dispatch()
		p.inFlightRetry = true
		return cmd
	}

	next := p.schedule(p.interval, false)
	if p.inFlight {
		metrics.IncPoll(p.name, metrics.OutcomeSkipped)
		p.log.Debug("%s poll skipped, previous fetch still in flight", p.name)
		return next
	}
	return tea.Batch(next, p.dispatch())
}

func (p *poller[T]) onResult(msg pollResultMsg[T]) (tea.Cmd, *pollResultMsg[T]) {
	if msg.gen != p.gen || msg.seq != p.seq {
		metrics.IncPoll(p.name, metrics.OutcomeDropped)
		return nil, nil
	}

	wasRetry := p.inFlightRetry
	p.inFlight = false
	p.inFlightRetry = false
	p.cancel = nil
	metrics.ObservePollDuration(p.name, msg.took.Seconds())

	var cmds []tea.Cmd
	if msg.err != nil {
		metrics.IncPoll(p.name, metrics.OutcomeError)
		p.log.Debug("%s poll failed: %v", p.name, msg.err)
		if !wasRetry && !p.retryScheduled && p.retryEnabled() {
			p.retryScheduled = true
			cmds = append(cmds, p.schedule(p.retryDelay, true))
		}
	} else {
		metrics.IncPoll(p.name, metrics.OutcomeOK)
	}

	if p.pendingRefresh {
		p.pendingRefresh = false
		cmds = append(cmds, p.dispatch())
	}

	return tea.Batch(cmds...), &msg
}
