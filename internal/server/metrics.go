package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	sessions    prometheus.Gauge
	projections *prometheus.CounterVec
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	evicted     prometheus.Counter
}

// newMetrics registers the service collectors on reg. Each Service gets its
// own registry so tests can build many services in one process.
func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "lifesim",
			Name:      "sessions_active",
			Help:      "Number of live projection sessions.",
		}),
		projections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifesim",
			Name:      "projections_total",
			Help:      "Balance projections answered, by how the value was obtained.",
		}, []string{"source"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifesim",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lifesim",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		evicted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "lifesim",
			Name:      "sessions_evicted_total",
			Help:      "Sessions removed for being idle.",
		}),
	}
}
