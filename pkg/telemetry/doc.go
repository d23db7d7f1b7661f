// Package telemetry groups the observability subsystems of Saturn.
//
// The subpackages are independent and individually optional:
//
//   - logging: structured slog setup and content redaction
//   - metrics: Prometheus metrics for governance decisions and quota enforcement
//   - health: liveness and readiness probes
//
// Each subpackage is configured through the corresponding section of
// config.TelemetryConfig.
package telemetry
