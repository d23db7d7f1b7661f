// Package metrics provides Prometheus metrics for Saturn's governance core.
//
// # Overview
//
// The collector tracks the two enforcement surfaces:
//
//   - Governance metrics: trust decisions by outcome and reason, broker
//     query latency and failures, and per-axis agreement failures
//   - Quota metrics: enforcement records by category and tier, workload
//     terminations, and observed usage ratios
//
// Labels are bounded by the closed reason, category, and tier vocabularies,
// so cardinality stays small. Workload identifiers never appear as labels.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordDecision("rejected", "vetoed", 3, 42*time.Millisecond)
//	collector.RecordQuotaRecord("compute", "hard", 1.25, true)
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// # Thread Safety
//
// All Record methods are safe for concurrent use.
package metrics
