// Package metrics holds the Prometheus collectors exported on /metrics
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wex"

// Metrics groups every collector the service records. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RateCacheLookupsTotal *prometheus.CounterVec

	TreasuryRequestsTotal   *prometheus.CounterVec
	TreasuryRequestDuration prometheus.Histogram

	CacheWarmWritesTotal       *prometheus.CounterVec
	CacheWarmTasksDroppedTotal prometheus.Counter
}

// NewMetrics registers all collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		RateCacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_cache_lookups_total",
				Help:      "Exchange rate cache lookups by result (hit, miss)",
			},
			[]string{"result"},
		),

		TreasuryRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "treasury_requests_total",
				Help:      "Treasury rates of exchange queries by outcome (success, empty, error)",
			},
			[]string{"outcome"},
		),

		TreasuryRequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "treasury_request_duration_seconds",
				Help:      "Treasury rates of exchange query latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		CacheWarmWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_warm_writes_total",
				Help:      "Backfill cache writes by result (stored, skipped, error)",
			},
			[]string{"result"},
		),

		CacheWarmTasksDroppedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_warm_tasks_dropped_total",
				Help:      "Backfill tasks dropped because the warm queue was full or closed",
			},
		),
	}
}

// ObserveHTTPRequest records one served request
func (m *Metrics) ObserveHTTPRequest(path, method, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(path, method, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// CacheLookup records a rate cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.RateCacheLookupsTotal.WithLabelValues(result).Inc()
}

// TreasuryRequest records the outcome and latency of one Treasury query
func (m *Metrics) TreasuryRequest(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.TreasuryRequestsTotal.WithLabelValues(outcome).Inc()
	m.TreasuryRequestDuration.Observe(duration.Seconds())
}

// CacheWarmWrite records the result of one backfill write
func (m *Metrics) CacheWarmWrite(result string) {
	if m == nil {
		return
	}
	m.CacheWarmWritesTotal.WithLabelValues(result).Inc()
}

// CacheWarmTaskDropped records a backfill task that never reached a worker
func (m *Metrics) CacheWarmTaskDropped() {
	if m == nil {
		return
	}
	m.CacheWarmTasksDroppedTotal.Inc()
}
