package compliance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for enforcement runs. Construct one
// per process; collectors register against the default registerer.
type Metrics struct {
	evaluations *prometheus.CounterVec
	subjects    prometheus.Counter
	findings    *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with Prometheus collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meridian_compliance_evaluations_total",
				Help: "Total number of enforcement runs by outcome",
			},
			[]string{"status"},
		),

		subjects: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "meridian_compliance_subjects_total",
				Help: "Total number of subjects evaluated",
			},
		),

		findings: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meridian_compliance_findings_total",
				Help: "Total number of findings by rule and severity",
			},
			[]string{"rule", "severity"},
		),

		duration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "meridian_compliance_evaluation_duration_seconds",
				Help:    "Duration of enforcement runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 12), // 1µs to ~4s
			},
		),
	}
}

// RecordEvaluation records the outcome of one enforcement run.
func (m *Metrics) RecordEvaluation(report *Report, seconds float64) {
	m.evaluations.WithLabelValues(string(report.Status)).Inc()
	m.subjects.Add(float64(report.Subjects))
	for _, f := range report.Findings {
		m.findings.WithLabelValues(f.Rule, string(f.Severity)).Inc()
	}
	m.duration.Observe(seconds)
}
