package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Check outcomes used as label values
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeBlocked    = "blocked"
	OutcomeTimeout    = "timeout"
	OutcomeLaunch     = "launch_error"
	OutcomeError      = "error"
)

var (
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dvsacheck",
		Name:      "checks_total",
		Help:      "Slot checks by outcome.",
	}, []string{"outcome"})
	checkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dvsacheck",
		Name:      "check_duration_seconds",
		Help:      "Wall time of one check, browser launch to dispose.",
		Buckets:   []float64{1, 5, 10, 20, 30, 45, 60, 90, 120, 180},
	}, []string{"outcome"})
	slotsFound = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "dvsacheck",
		Name:      "slots_found",
		Help:      "Slots returned by successful checks.",
		Buckets:   prometheus.LinearBuckets(0, 5, 10),
	})
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dvsacheck",
		Name:      "browser_sessions_active",
		Help:      "Browser sessions currently open.",
	})
	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dvsacheck",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})
	watchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dvsacheck",
		Name:      "watch_runs_total",
		Help:      "Scheduled watch runs by job and outcome.",
	}, []string{"job", "outcome"})
)

// ObserveCheck records one finished check
func ObserveCheck(outcome string, d time.Duration, slots int) {
	checksTotal.WithLabelValues(outcome).Inc()
	checkDuration.WithLabelValues(outcome).Observe(d.Seconds())
	if outcome == OutcomeSuccess {
		slotsFound.Observe(float64(slots))
	}
}

// SessionOpened increments the active browser gauge
func SessionOpened() { activeSessions.Inc() }

// SessionClosed decrements the active browser gauge
func SessionClosed() { activeSessions.Dec() }

// RateLimited counts one rejected request
func RateLimited() { rateLimited.Inc() }

// ObserveWatchRun records a scheduled run
func ObserveWatchRun(job, outcome string) {
	watchRuns.WithLabelValues(job, outcome).Inc()
}
