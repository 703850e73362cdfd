package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec
	UpstreamErrors   *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
}

// NewMetrics registers the analyzer collectors on reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_analyses_total",
				Help: "Total number of resume analyses by outcome",
			},
			[]string{"status"},
		),
		UpstreamErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_upstream_errors_total",
				Help: "Total number of failed analyses by error kind",
			},
			[]string{"kind"},
		),
		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resume_upstream_request_duration_seconds",
				Help:    "Duration of generation provider calls in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 20, 30, 45, 60},
			},
			[]string{"provider"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.AnalysesTotal, m.UpstreamErrors, m.UpstreamDuration)
	}

	return m
}

// RecordFailure counts an analysis that ended with an error of the given kind.
func (m *Metrics) RecordFailure(kind ErrorKind) {
	m.AnalysesTotal.WithLabelValues("error").Inc()
	m.UpstreamErrors.WithLabelValues(string(kind)).Inc()
}
