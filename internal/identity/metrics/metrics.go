// Package metrics exposes Prometheus counters for the identity service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the identity service counters. A nil *Metrics is a no-op so
// callers can leave instrumentation unset in tests.
type Metrics struct {
	UsersCreated *prometheus.CounterVec
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
}

// New creates and registers the identity metrics.
func New() *Metrics {
	return &Metrics{
		UsersCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "trafficwatch_users_created_total",
			Help: "Total number of user accounts created, by role.",
		}, []string{"role"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trafficwatch_identity_cache_hits_total",
			Help: "Total number of identity resolutions served from cache.",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trafficwatch_identity_cache_misses_total",
			Help: "Total number of identity resolutions that fell through to the store.",
		}),
	}
}

// IncrementUserCreated increments the created counter for a role.
func (m *Metrics) IncrementUserCreated(role string) {
	if m != nil {
		m.UsersCreated.WithLabelValues(role).Inc()
	}
}

// IncrementCacheHit increments the cache hit counter.
func (m *Metrics) IncrementCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// IncrementCacheMiss increments the cache miss counter.
func (m *Metrics) IncrementCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}
