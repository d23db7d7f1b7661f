// Package evidence defines the append-only audit trail for governance
// decisions and enforcement actions.
//
// # Overview
//
// Every invocation of the consensus evaluator and every enforcement record
// emitted by the quota monitor produces exactly one evidence record. The
// engines only ever append; nothing in the governance core reads evidence
// back to make decisions. Records are timestamped, scoped to a workload or
// evaluation, and immutable once written.
//
// Three record kinds exist:
//
//   - decision: outcome of one trust-consensus evaluation, including every
//     broker's raw verdict and the per-axis agreement result
//   - enforcement: one quota enforcement record (soft or hard tier)
//   - lifecycle: workload provisioning, retirement, and manual termination
//
// # Components
//
//   - Storage: pluggable persistence (in-memory for tests, SQLite for
//     production)
//   - recorder: async single-writer that serializes concurrent emitters
//   - export: JSON and CSV exporters
//   - retention: age- and count-based pruning with cron scheduling
//
// # Thread Safety
//
// Storage implementations are safe for concurrent use. Serialization of
// concurrent writers happens at the recorder boundary, not in the decision
// engines.
package evidence
