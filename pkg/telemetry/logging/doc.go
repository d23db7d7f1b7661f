// Package logging configures structured logging for Saturn.
//
// # Overview
//
// All components log through log/slog with a shared handler built from
// config.LoggingConfig. Components attach themselves with a "component"
// attribute so log lines can be filtered per subsystem:
//
//	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
//	if err != nil {
//		return err
//	}
//	flaLog := logging.Component(logger, "orchestrator")
//
// # Content Redaction
//
// Inbound communication payloads pass through governance evaluation and may
// contain sensitive data. When redact_content is enabled, the Redactor
// replaces payload text in log fields with a length and digest placeholder
// so log output never carries raw content.
package logging
