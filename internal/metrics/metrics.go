// Package metrics exposes Prometheus counters for the monitor's polling and
// command activity. Collectors are package-level and recorded through small
// helpers that no-op until Register has succeeded.
package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Poll outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
	OutcomeDropped = "dropped"
)

var (
	regOK atomic.Bool

	polls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "logpulse",
			Subsystem: "poller",
			Name:      "polls_total",
			Help:      "Poll attempts by poller and outcome.",
		}, []string{"poller", "outcome"},
	)
	pollDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "logpulse",
			Subsystem: "poller",
			Name:      "poll_duration_seconds",
			Help:      "Round-trip time of completed polls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"poller"},
	)
	commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "logpulse",
			Subsystem: "command",
			Name:      "issued_total",
			Help:      "Commands by kind and result (success, failure, invalid).",
		}, []string{"command", "result"},
	)
	observedRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "logpulse",
			Subsystem: "sampler",
			Name:      "observed_rate",
			Help:      "Most recent derived logs-per-second sample.",
		},
	)
	discontinuities = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "logpulse",
			Subsystem: "sampler",
			Name:      "discontinuities_total",
			Help:      "Samples where the total log counter went backwards.",
		},
	)
)

// Register registers all collectors with r. Calling it again after success is a no-op.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{polls, pollDuration, commands, observedRate, discontinuities}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler serves the default gatherer. The caller wires the route.
func Handler() http.Handler { return promhttp.Handler() }

func IncPoll(poller, outcome string) {
	if regOK.Load() {
		polls.WithLabelValues(poller, outcome).Inc()
	}
}

func ObservePollDuration(poller string, seconds float64) {
	if regOK.Load() {
		pollDuration.WithLabelValues(poller).Observe(seconds)
	}
}

func IncCommand(command, result string) {
	if regOK.Load() {
		commands.WithLabelValues(command, result).Inc()
	}
}

func SetObservedRate(rate int) {
	if regOK.Load() {
		observedRate.Set(float64(rate))
	}
}

func IncDiscontinuity() {
	if regOK.Load() {
		discontinuities.Inc()
	}
}
