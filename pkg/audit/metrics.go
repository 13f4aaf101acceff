package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"barton-hq/meridian/pkg/compliance"
)

// Metrics contains Prometheus metrics for audit runs. Construct one per
// process; collectors register against the default registerer.
type Metrics struct {
	runs       *prometheus.CounterVec
	lastStatus prometheus.Gauge
	duration   prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with Prometheus collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		runs: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meridian_audit_runs_total",
				Help: "Total number of audit runs by outcome",
			},
			[]string{"status"},
		),

		lastStatus: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "meridian_audit_last_run_passed",
				Help: "Whether the most recent audit run passed (1) or failed (0)",
			},
		),

		duration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "meridian_audit_run_duration_seconds",
				Help:    "Duration of audit runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
		),
	}
}

// RecordRun records the outcome of one audit run.
func (m *Metrics) RecordRun(record *RunRecord) {
	m.runs.WithLabelValues(string(record.Report.Status)).Inc()
	if record.Report.Status == compliance.StatusPass {
		m.lastStatus.Set(1)
	} else {
		m.lastStatus.Set(0)
	}
	m.duration.Observe(record.Duration.Seconds())
}
