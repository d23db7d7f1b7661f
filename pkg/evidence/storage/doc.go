// Package storage provides evidence storage backends.
//
// # Backends
//
//   - MemoryStorage: in-memory map, intended for testing only
//   - SQLiteStorage: durable single-file store with WAL mode, schema
//     versioning, and indexes for the common audit queries
//
// # Thread Safety
//
// Both backends are safe for concurrent use. SQLiteStorage relies on WAL
// mode and a busy timeout to tolerate concurrent readers alongside the
// single recorder worker that performs all writes.
package storage
