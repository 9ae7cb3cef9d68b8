// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reviewsense"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ScoringMetrics covers the review scoring path.
type ScoringMetrics struct {
	ReviewsScored   *prometheus.CounterVec
	ScoringErrors   *prometheus.CounterVec
	ScoringDuration prometheus.Histogram
	AspectRequests  *prometheus.CounterVec
	CacheRequests   *prometheus.CounterVec
}

// NewScoringMetrics creates and registers scoring metrics on the given registry.
func NewScoringMetrics(reg prometheus.Registerer) *ScoringMetrics {
	m := &ScoringMetrics{
		ReviewsScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_scored_total",
			Help:      "Total number of reviews scored, by sentiment label.",
		}, []string{"label"}),
		ScoringErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_errors_total",
			Help:      "Total number of failed scoring calls, by error kind.",
		}, []string{"kind"}),
		ScoringDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_duration_seconds",
			Help:      "Duration of the sentiment pipeline in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		AspectRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aspect_requests_total",
			Help:      "Total number of aspect tagging calls, by result.",
		}, []string{"result"}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Total number of score cache lookups, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.ReviewsScored, m.ScoringErrors, m.ScoringDuration, m.AspectRequests, m.CacheRequests)
	return m
}
