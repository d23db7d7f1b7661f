// Package store persists workload bookkeeping so the orchestrator can
// rebuild its registry across restarts.
//
// # Overview
//
// Two backends implement the Store interface:
//
//   - MemoryStore: non-durable, for tests and ephemeral deployments.
//   - SQLiteStore: durable single-file storage using WAL mode, for
//     single-instance deployments.
//
// The store records lifecycle state only. It is not the audit trail;
// decision and enforcement history lives in the evidence subsystem.
//
// # Thread Safety
//
// Both backends are safe for concurrent use.
package store
