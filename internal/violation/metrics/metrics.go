package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the violation module.
type Metrics struct {
	// Violations recorded, by source (camera, report)
	Created *prometheus.CounterVec

	// Review decisions, by resulting status (processed, rejected)
	Decisions *prometheus.CounterVec

	// Code generation retries after a uniqueness collision
	CodeCollisions prometheus.Counter

	// Latency of list/statistics queries
	QueryLatency *prometheus.HistogramVec
}

// New creates a new Metrics instance with all violation module metrics registered.
func New() *Metrics {
	return &Metrics{
		Created: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trafficwatch_violations_created_total",
			Help: "Total violations recorded by source",
		}, []string{"source"}),

		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trafficwatch_violation_decisions_total",
			Help: "Total review decisions by resulting status",
		}, []string{"status"}),

		CodeCollisions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trafficwatch_violation_code_collisions_total",
			Help: "Total violation code generation retries after a uniqueness collision",
		}),

		QueryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trafficwatch_violation_query_duration_seconds",
			Help:    "Duration of violation queries by kind",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
	}
}

// IncrementCreated records a new violation by source.
func (m *Metrics) IncrementCreated(source string) {
	if m != nil {
		m.Created.WithLabelValues(source).Inc()
	}
}

// IncrementDecision records a review decision by resulting status.
func (m *Metrics) IncrementDecision(status string) {
	if m != nil {
		m.Decisions.WithLabelValues(status).Inc()
	}
}

// IncrementCodeCollision records a retried code generation.
func (m *Metrics) IncrementCodeCollision() {
	if m != nil {
		m.CodeCollisions.Inc()
	}
}

// ObserveQueryLatency records the duration of one query kind.
func (m *Metrics) ObserveQueryLatency(kind string, d time.Duration) {
	if m != nil {
		m.QueryLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}
