package metrics

import (
	"time"

	"subagentic-hq/saturn/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns metric registration and provides the recording interface
// used by the orchestrator and the two enforcement engines.
//
// Every Record method checks the enabled flag first, so callers can hold a
// collector unconditionally and leave the decision to configuration.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	governance *GovernanceMetrics
	quota      *QuotaMetrics
}

// NewCollector creates a metrics collector backed by the given registry.
// If registry is nil a fresh private registry is created, which keeps the
// default Go runtime collectors out of the exposition.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "saturn"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "governance"
	}

	return &Collector{
		config:     cfg,
		registry:   registry,
		governance: NewGovernanceMetrics(cfg, registry),
		quota:      NewQuotaMetrics(cfg, registry),
	}
}

// Registry returns the underlying Prometheus registry, for callers that
// mount their own exposition handler or register extra collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordDecision records a completed trust evaluation.
//
// outcome is "admitted" or "rejected", reason the decision reason code
// ("admitted", "vetoed", "no_agreement", ...), brokers the number of
// brokers queried, and duration the wall time of the whole evaluation.
func (c *Collector) RecordDecision(outcome, reason string, brokers int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.governance.RecordDecision(outcome, reason, brokers, duration)
}

// RecordBrokerQuery records a single trust broker query.
func (c *Collector) RecordBrokerQuery(broker string, duration time.Duration, err error) {
	if !c.config.Enabled {
		return
	}
	c.governance.RecordBrokerQuery(broker, duration, err)
}

// RecordAgreementFailure records an axis that failed tolerance agreement.
// axis is "sender" or "content".
func (c *Collector) RecordAgreementFailure(axis string) {
	if !c.config.Enabled {
		return
	}
	c.governance.RecordAgreementFailure(axis)
}

// RecordQuotaRecord records one quota enforcement record.
func (c *Collector) RecordQuotaRecord(category, tier string, observedRatio float64, terminated bool) {
	if !c.config.Enabled {
		return
	}
	c.quota.RecordRecord(category, tier, observedRatio, terminated)
}

// RecordWorkloadCount updates the gauge of registered workloads per status.
func (c *Collector) RecordWorkloadCount(status string, count int) {
	if !c.config.Enabled {
		return
	}
	c.quota.RecordWorkloadCount(status, count)
}
