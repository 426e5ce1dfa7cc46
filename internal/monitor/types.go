package monitor

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/logpulse/pkg/api"
)

// StatusSnapshot is one successfully parsed read of the generator status.
// Snapshots are never mutated; each fetch produces a new one.
type StatusSnapshot struct {
	IsRunning     bool
	TotalLogs     int64
	RatePerSecond int
	ObservedAt    time.Time // stamped when the response arrived
}

// snapshotFromResponse converts a status payload, rejecting impossible counters.
func snapshotFromResponse(resp api.StatusResponse, observedAt time.Time) (StatusSnapshot, error) {
	if resp.TotalLogs < 0 {
		return StatusSnapshot{}, fmt.Errorf("status payload has negative total_logs %d", resp.TotalLogs)
	}
	return StatusSnapshot{
		IsRunning:     resp.IsRunning,
		TotalLogs:     resp.TotalLogs,
		RatePerSecond: resp.RatePerSecond,
		ObservedAt:    observedAt,
	}, nil
}

// RateSample is an instantaneous throughput value derived from two snapshots.
type RateSample struct {
	ObservedAt        time.Time
	InstantaneousRate int // logs per second, never negative
	TotalLogs         int64

	// Discontinuity marks a sample where the counter went backwards (generator
	// restart or reset). The rate is reported as 0 for such samples.
	Discontinuity bool
}

// Baseline is the reference point for the next delta computation.
type Baseline struct {
	TotalLogs  int64
	ObservedAt time.Time
}

// HealthState is the tri-state liveness of the generator service.
type HealthState int

const (
	HealthUnknown HealthState = iota
	HealthOnline
	HealthOffline
)

// String returns a human-readable health label.
func (h HealthState) String() string {
	switch h {
	case HealthOnline:
		return "online"
	case HealthOffline:
		return "offline"
	default:
		return "unknown"
	}
}
