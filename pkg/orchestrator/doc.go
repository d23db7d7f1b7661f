// Package orchestrator implements the Front Line Agent (FLA), the
// authoritative control plane for SubAgent workloads.
//
// # Overview
//
// The FLA owns the workload registry and is the only component that
// mutates workload lifecycle state. It wires the two governance engines
// together:
//
//   - Inbound messages pass through the trust consensus evaluator via
//     ValidateInbound, using the policy bound to the receiving workload
//     at provisioning time.
//   - Usage snapshots pass through the quota monitor via
//     MonitorAndEnforce; a Hard record terminates the workload exactly
//     once, and snapshots for terminated workloads are dropped.
//
// Workload-to-workload communication is always FLA-mediated: a message
// flows only when a standing Authorization covers the pair and the
// receiver's trust validation admits the payload.
//
// Lifecycle events, admission decisions, and enforcement records are
// all appended to the audit sink. An optional store persists workload
// bookkeeping across restarts.
//
// # Thread Safety
//
// The registry is guarded by a read-write mutex. Enforcement for a
// single workload is additionally serialized through a per-workload
// lock so that concurrent snapshots cannot race the at-most-once
// termination rule.
package orchestrator
