package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the practice service.
// Every recording method is safe to call on a nil *Metrics.
type Metrics struct {
	// Practice metrics
	AttemptsTotal   *prometheus.CounterVec
	AttemptScore    *prometheus.HistogramVec
	StagesCommitted *prometheus.CounterVec
	StarsAwarded    *prometheus.CounterVec
	LevelUps        prometheus.Counter

	// Dialogue metrics
	DialogueRequests *prometheus.CounterVec
	DialogueLatency  *prometheus.HistogramVec
	ActiveContexts   prometheus.Gauge
	ContextsSwept    prometheus.Counter

	// System metrics
	PersistenceFailures *prometheus.CounterVec
	BotUpdates          *prometheus.CounterVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *Metrics
)

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &Metrics{
			AttemptsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "kidspeak_attempts_total",
					Help: "Total number of evaluated attempts",
				},
				[]string{"mode", "exact"},
			),
			AttemptScore: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "kidspeak_attempt_score",
					Help:    "Similarity score of evaluated attempts (0-100)",
					Buckets: prometheus.LinearBuckets(0, 10, 11),
				},
				[]string{"mode"},
			),
			StagesCommitted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "kidspeak_stages_committed_total",
					Help: "Total number of stage results committed to learners",
				},
				[]string{"mode"},
			),
			StarsAwarded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "kidspeak_stars_awarded_total",
					Help: "Total number of stars committed to learners",
				},
				[]string{"mode"},
			),
			LevelUps: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "kidspeak_level_ups_total",
					Help: "Total number of learner level-ups",
				},
			),

			DialogueRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "kidspeak_dialogue_requests_total",
					Help: "Total number of dialogue collaborator requests",
				},
				[]string{"context", "success"},
			),
			DialogueLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "kidspeak_dialogue_request_duration_seconds",
					Help:    "Dialogue collaborator request duration in seconds",
					Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to 51s
				},
				[]string{"context"},
			),
			ActiveContexts: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "kidspeak_active_contexts",
					Help: "Number of learners with a live conversation context",
				},
			),
			ContextsSwept: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "kidspeak_contexts_swept_total",
					Help: "Total number of idle conversation contexts cleared",
				},
			),

			PersistenceFailures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "kidspeak_persistence_failures_total",
					Help: "Total number of failed writes to the durable store",
				},
				[]string{"store"},
			),
			BotUpdates: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "kidspeak_bot_updates_total",
					Help: "Total number of bot updates handled",
				},
				[]string{"command"},
			),
		}
	})

	return sharedMetrics
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAttempt records an evaluated attempt
func (m *Metrics) RecordAttempt(mode string, exact bool, score int) {
	if m == nil {
		return
	}
	exactStr := "false"
	if exact {
		exactStr = "true"
	}
	m.AttemptsTotal.WithLabelValues(mode, exactStr).Inc()
	m.AttemptScore.WithLabelValues(mode).Observe(float64(score))
}

// StageCommitted records stars committed for a finished stage
func (m *Metrics) StageCommitted(mode string, stars int) {
	if m == nil {
		return
	}
	m.StagesCommitted.WithLabelValues(mode).Inc()
	if stars > 0 {
		m.StarsAwarded.WithLabelValues(mode).Add(float64(stars))
	}
}

// LevelUp records a learner crossing a level threshold
func (m *Metrics) LevelUp() {
	if m == nil {
		return
	}
	m.LevelUps.Inc()
}

// RecordDialogue records a dialogue collaborator call
func (m *Metrics) RecordDialogue(context string, success bool, latency time.Duration) {
	if m == nil {
		return
	}
	successStr := "false"
	if success {
		successStr = "true"
	}
	m.DialogueRequests.WithLabelValues(context, successStr).Inc()
	m.DialogueLatency.WithLabelValues(context).Observe(latency.Seconds())
}

// SetActiveContexts sets the live context gauge
func (m *Metrics) SetActiveContexts(n int) {
	if m == nil {
		return
	}
	m.ActiveContexts.Set(float64(n))
}

// ContextsCleared records contexts removed by the idle sweep
func (m *Metrics) ContextsCleared(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ContextsSwept.Add(float64(n))
}

// PersistenceFailure records a failed durable write
func (m *Metrics) PersistenceFailure(store string) {
	if m == nil {
		return
	}
	m.PersistenceFailures.WithLabelValues(store).Inc()
}

// RecordBotUpdate records a handled bot command
func (m *Metrics) RecordBotUpdate(command string) {
	if m == nil {
		return
	}
	m.BotUpdates.WithLabelValues(command).Inc()
}
