// Package metrics provides Prometheus instrumentation for the scoring
// toolkit: findings scored by severity, risk score distribution, fetch
// outcomes, and end-to-end analysis duration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vulndetective/vulndetective/pkg/cvss"
)

const namespace = "vulndetective"

// Metrics holds the toolkit's Prometheus collectors. Construct with New;
// all methods are safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	findingsScored *prometheus.CounterVec
	riskScore      prometheus.Histogram
	baseScore      prometheus.Histogram
	fetchesTotal   *prometheus.CounterVec
	scanDuration   prometheus.Histogram
}

// Options configures metrics construction.
type Options struct {
	// Registry is the Prometheus registry to use (nil = new registry with
	// standard Go and process collectors).
	Registry *prometheus.Registry
}

// New creates and registers the toolkit metrics.
func New(opts *Options) *Metrics {
	if opts == nil {
		opts = &Options{}
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	m := &Metrics{
		registry: registry,
		findingsScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "findings_scored_total",
			Help:      "Total number of findings scored, by severity band",
		}, []string{"severity"}),
		riskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_score",
			Help:      "Distribution of aggregate risk scores",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
		baseScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "base_score",
			Help:      "Distribution of CVSS base scores",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
		fetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Total number of remote source fetches, by source and status",
		}, []string{"source", "status"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of a full score-and-report run",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
	}

	registry.MustRegister(m.findingsScored, m.riskScore, m.baseScore, m.fetchesTotal, m.scanDuration)
	return m
}

// ObserveScore records one scored finding.
func (m *Metrics) ObserveScore(score cvss.Score, riskScore float64) {
	m.findingsScored.WithLabelValues(score.Severity.String()).Inc()
	m.baseScore.Observe(score.BaseScore)
	m.riskScore.Observe(riskScore)
}

// ObserveFetch records a fetch attempt. Status is "ok" or "error".
func (m *Metrics) ObserveFetch(source string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.fetchesTotal.WithLabelValues(source, status).Inc()
}

// ObserveScanDuration records a full run's duration in seconds.
func (m *Metrics) ObserveScanDuration(seconds float64) {
	m.scanDuration.Observe(seconds)
}

// Handler returns an HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
