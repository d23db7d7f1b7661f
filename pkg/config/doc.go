// Package config defines the configuration model for Saturn and the
// machinery to load, default, validate, and watch it.
//
// # Overview
//
// Configuration is a single YAML document with one section per
// subsystem: governance (trust policy and brokers), quota (default
// resource profile), evidence (audit storage and retention),
// orchestrator (identity and workload store), and telemetry (logging,
// metrics, health).
//
// The loading sequence is:
//
//  1. Read and parse the YAML file.
//  2. Apply defaults for unset fields.
//  3. Apply SATURN_* environment variable overrides.
//  4. Validate the final configuration.
//
// Environment variables follow the naming convention
// SATURN_SECTION_FIELD (e.g. SATURN_EVIDENCE_SQLITE_PATH) and always
// take precedence over file values.
//
// A Watcher built on fsnotify can observe the config file and trigger
// debounced reloads for long-running processes.
//
// # Thread Safety
//
// Config values are plain data and safe for concurrent reads once
// loaded. Reloading produces a new Config; callers swap atomically.
package config
