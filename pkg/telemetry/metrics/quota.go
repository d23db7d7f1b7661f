package metrics

import (
	"subagentic-hq/saturn/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// QuotaMetrics tracks resource quota enforcement.
//
// Metrics:
//   - saturn_governance_quota_records_total: enforcement records by category, tier
//   - saturn_governance_quota_usage_ratio: observed usage over ceiling by category
//   - saturn_governance_terminations_total: workload terminations by category
//   - saturn_governance_workloads: registered workloads by status
type QuotaMetrics struct {
	recordsTotal      *prometheus.CounterVec
	usageRatio        *prometheus.HistogramVec
	terminationsTotal *prometheus.CounterVec
	workloads         *prometheus.GaugeVec
}

// NewQuotaMetrics creates and registers quota metrics.
func NewQuotaMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *QuotaMetrics {
	qm := &QuotaMetrics{
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "quota_records_total",
				Help:      "Quota enforcement records by category and tier",
			},
			[]string{"category", "tier"},
		),

		usageRatio: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "quota_usage_ratio",
				Help:      "Observed usage over ceiling at enforcement time",
				Buckets:   []float64{0.9, 0.95, 1.0, 1.1, 1.25, 1.5, 2.0},
			},
			[]string{"category"},
		),

		terminationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "terminations_total",
				Help:      "Workload terminations by triggering category",
			},
			[]string{"category"},
		),

		workloads: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "workloads",
				Help:      "Registered workloads by lifecycle status",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		qm.recordsTotal,
		qm.usageRatio,
		qm.terminationsTotal,
		qm.workloads,
	)

	return qm
}

// RecordRecord records one quota enforcement record.
func (qm *QuotaMetrics) RecordRecord(category, tier string, observedRatio float64, terminated bool) {
	qm.recordsTotal.WithLabelValues(category, tier).Inc()
	qm.usageRatio.WithLabelValues(category).Observe(observedRatio)
	if terminated {
		qm.terminationsTotal.WithLabelValues(category).Inc()
	}
}

// RecordWorkloadCount sets the workload gauge for one lifecycle status.
func (qm *QuotaMetrics) RecordWorkloadCount(status string, count int) {
	qm.workloads.WithLabelValues(status).Set(float64(count))
}
