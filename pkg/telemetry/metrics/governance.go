package metrics

import (
	"time"

	"subagentic-hq/saturn/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GovernanceMetrics tracks trust consensus evaluation.
//
// Metrics:
//   - saturn_governance_decisions_total: decisions by outcome and reason
//   - saturn_governance_evaluation_duration_seconds: full evaluation latency
//   - saturn_governance_brokers_queried: brokers queried per evaluation
//   - saturn_governance_broker_query_duration_seconds: per-broker latency
//   - saturn_governance_broker_failures_total: broker errors and timeouts
//   - saturn_governance_agreement_failures_total: failed axes by name
type GovernanceMetrics struct {
	decisionsTotal     *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	brokersQueried     prometheus.Histogram
	brokerDuration     *prometheus.HistogramVec
	brokerFailures     *prometheus.CounterVec
	agreementFailures  *prometheus.CounterVec
}

// NewGovernanceMetrics creates and registers governance metrics.
func NewGovernanceMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GovernanceMetrics {
	gm := &GovernanceMetrics{
		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Trust consensus decisions by outcome and reason",
			},
			[]string{"outcome", "reason"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of full consensus evaluations",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
		),

		brokersQueried: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "brokers_queried",
				Help:      "Number of brokers queried per evaluation",
				Buckets:   []float64{1, 2, 3, 5, 8, 13},
			},
		),

		brokerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "broker_query_duration_seconds",
				Help:      "Duration of individual broker queries",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"broker"},
		),

		brokerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "broker_failures_total",
				Help:      "Broker queries that returned an error or timed out",
			},
			[]string{"broker"},
		),

		agreementFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "agreement_failures_total",
				Help:      "Tolerance agreement failures by axis",
			},
			[]string{"axis"},
		),
	}

	registry.MustRegister(
		gm.decisionsTotal,
		gm.evaluationDuration,
		gm.brokersQueried,
		gm.brokerDuration,
		gm.brokerFailures,
		gm.agreementFailures,
	)

	return gm
}

// RecordDecision records a completed evaluation.
func (gm *GovernanceMetrics) RecordDecision(outcome, reason string, brokers int, duration time.Duration) {
	gm.decisionsTotal.WithLabelValues(outcome, reason).Inc()
	gm.evaluationDuration.Observe(duration.Seconds())
	gm.brokersQueried.Observe(float64(brokers))
}

// RecordBrokerQuery records one broker query, counting failures separately.
func (gm *GovernanceMetrics) RecordBrokerQuery(broker string, duration time.Duration, err error) {
	gm.brokerDuration.WithLabelValues(broker).Observe(duration.Seconds())
	if err != nil {
		gm.brokerFailures.WithLabelValues(broker).Inc()
	}
}

// RecordAgreementFailure records an axis that failed agreement.
func (gm *GovernanceMetrics) RecordAgreementFailure(axis string) {
	gm.agreementFailures.WithLabelValues(axis).Inc()
}
