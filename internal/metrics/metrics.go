// Package metrics exposes Prometheus instrumentation for analyses and rewrites.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
	OutcomeRewrite  = "rewritten"
	OutcomeCached   = "cached"
	OutcomeFallback = "fallback"
)

// Metrics holds the collectors for one registry. A nil *Metrics records nothing.
type Metrics struct {
	registry prometheus.Gatherer

	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	StageScore       *prometheus.HistogramVec
	RewritesTotal    *prometheus.CounterVec
}

// New registers the funnel collectors with reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		AnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funnel_analyses_total",
				Help: "Total number of analyses by outcome",
			},
			[]string{"outcome"},
		),
		AnalysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "funnel_analysis_duration_seconds",
				Help:    "Duration of a full analysis in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		StageScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "funnel_stage_score",
				Help:    "Distribution of per-stage scores",
				Buckets: prometheus.LinearBuckets(10, 10, 9),
			},
			[]string{"stage"},
		),
		RewritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funnel_rewrites_total",
				Help: "Total number of explanation rewrites by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// NewDefault registers the collectors on a fresh registry that also carries Go and process collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return New(reg)
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(elapsed.Seconds())
}

// ObserveStageScore records a stage score.
func (m *Metrics) ObserveStageScore(stage string, score float64) {
	if m == nil {
		return
	}
	m.StageScore.WithLabelValues(stage).Observe(score)
}

// ObserveRewrite records one rewrite attempt.
func (m *Metrics) ObserveRewrite(outcome string) {
	if m == nil {
		return
	}
	m.RewritesTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
