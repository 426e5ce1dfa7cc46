package monitor

import (
	"math"
	"time"

	"github.com/rileyhilliard/logpulse/internal/logger"
	"github.com/rileyhilliard/logpulse/internal/metrics"
)

// MinSampleInterval is the minimum time between a baseline and the snapshot
// that produces the next sample. Closer snapshots accumulate into one delta.
const MinSampleInterval = time.Second

// StepResult describes what a snapshot did to the sampler state.
type StepResult int

const (
	// StepIgnored: generator not running and nothing to clear.
	StepIgnored StepResult = iota
	// StepDropped: snapshot older than one already processed.
	StepDropped
	// StepBaselineSet: first running snapshot, no sample yet.
	StepBaselineSet
	// StepAccumulating: less than MinSampleInterval since the baseline.
	StepAccumulating
	// StepSampled: a new sample was appended to the window.
	StepSampled
	// StepCleared: running -> stopped, window and baseline reset.
	StepCleared
)

// String returns a short label for logs.
func (r StepResult) String() string {
	switch r {
	case StepIgnored:
		return "ignored"
	case StepDropped:
		return "dropped"
	case StepBaselineSet:
		return "baseline"
	case StepAccumulating:
		return "accumulating"
	case StepSampled:
		return "sampled"
	case StepCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// SamplerState is everything the rate derivation depends on. The zero value
// is a valid empty state with the default window size.
type SamplerState struct {
	Window      SampleWindow
	Baseline    Baseline
	HasBaseline bool
	WasRunning  bool

	// LastObservedAt is the arrival time of the newest processed snapshot.
	// Anything older is dropped.
	LastObservedAt time.Time
}

// NewSamplerState returns an empty state whose window holds capacity samples.
func NewSamplerState(capacity int) SamplerState {
	return SamplerState{Window: NewSampleWindow(capacity)}
}

// StepSampler is the pure transition (previous state, snapshot) -> next state.
// prev is never modified.
//
// Negative counter deltas (generator restarted or reset its counter) produce a
// zero-rate sample flagged as a Discontinuity rather than an error.
func StepSampler(prev SamplerState, snap StatusSnapshot) (SamplerState, StepResult) {
	if !prev.LastObservedAt.IsZero() && snap.ObservedAt.Before(prev.LastObservedAt) {
		return prev, StepDropped
	}

	next := prev
	next.LastObservedAt = snap.ObservedAt

	if !snap.IsRunning {
		next.WasRunning = false
		next.Window = prev.Window.Cleared()
		next.Baseline = Baseline{}
		next.HasBaseline = false
		if prev.WasRunning {
			return next, StepCleared
		}
		return next, StepIgnored
	}

	next.WasRunning = true

	if !prev.HasBaseline {
		next.Baseline = Baseline{TotalLogs: snap.TotalLogs, ObservedAt: snap.ObservedAt}
		next.HasBaseline = true
		return next, StepBaselineSet
	}

	elapsed := snap.ObservedAt.Sub(prev.Baseline.ObservedAt)
	if elapsed < MinSampleInterval {
		return next, StepAccumulating
	}

	delta := snap.TotalLogs - prev.Baseline.TotalLogs
	rate := int(math.Round(float64(delta) / elapsed.Seconds()))
	if rate < 0 {
		rate = 0
	}

	next.Window = prev.Window.Push(RateSample{
		ObservedAt:        snap.ObservedAt,
		InstantaneousRate: rate,
		TotalLogs:         snap.TotalLogs,
		Discontinuity:     delta < 0,
	})
	next.Baseline = Baseline{TotalLogs: snap.TotalLogs, ObservedAt: snap.ObservedAt}
	return next, StepSampled
}

// RateSampler owns a SamplerState and is its only mutator. It is driven from
// the dashboard's update loop and needs no locking.
type RateSampler struct {
	state SamplerState
	log   logger.Logger
}

// NewRateSampler creates a sampler with a window of the given capacity.
func NewRateSampler(capacity int, log logger.Logger) *RateSampler {
	if log == nil {
		log = logger.Noop()
	}
	return &RateSampler{state: NewSamplerState(capacity), log: log}
}

// OnSnapshot folds a new snapshot into the state.
func (s *RateSampler) OnSnapshot(snap StatusSnapshot) StepResult {
	next, result := StepSampler(s.state, snap)
	s.state = next

	switch result {
	case StepDropped:
		s.log.Debug("dropped out-of-order snapshot observed at %s", snap.ObservedAt.Format(time.RFC3339Nano))
	case StepCleared:
		s.log.Debug("generator stopped, sample window cleared")
	case StepSampled:
		latest, _ := next.Window.Latest()
		metrics.SetObservedRate(latest.InstantaneousRate)
		if latest.Discontinuity {
			metrics.IncDiscontinuity()
			s.log.Info("total log counter went backwards (%d), generator likely restarted", latest.TotalLogs)
		}
	}

	return result
}

// Window returns a copy of the current samples, oldest first.
func (s *RateSampler) Window() []RateSample {
	return s.state.Window.Samples()
}

// SampleWindow returns the current window value.
func (s *RateSampler) SampleWindow() SampleWindow {
	return s.state.Window
}

// Baseline returns the current baseline, if set.
func (s *RateSampler) Baseline() (Baseline, bool) {
	return s.state.Baseline, s.state.HasBaseline
}

// State returns a copy of the full sampler state.
func (s *RateSampler) State() SamplerState {
	return s.state
}
