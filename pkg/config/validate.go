package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g. "governance.policy.tolerance_band").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and returned together.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any rule fails. It returns nil if the
// configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateGovernance(&cfg.Governance)...)
	errs = append(errs, validateQuota(&cfg.Quota)...)
	errs = append(errs, validateEvidence(&cfg.Evidence)...)
	errs = append(errs, validateOrchestrator(&cfg.Orchestrator)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateGovernance(cfg *GovernanceConfig) []FieldError {
	var errs []FieldError

	if cfg.BrokerTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "governance.broker_timeout",
			Message: "must be positive",
		})
	}
	if cfg.Policy.SenderThreshold < 0 || cfg.Policy.SenderThreshold > 1 {
		errs = append(errs, FieldError{
			Field:   "governance.policy.sender_threshold",
			Message: "must be in [0, 1]",
		})
	}
	if cfg.Policy.ContentThreshold < 0 || cfg.Policy.ContentThreshold > 1 {
		errs = append(errs, FieldError{
			Field:   "governance.policy.content_threshold",
			Message: "must be in [0, 1]",
		})
	}
	if cfg.Policy.MinimumAgreeingBrokers < 2 {
		errs = append(errs, FieldError{
			Field:   "governance.policy.minimum_agreeing_brokers",
			Message: "must be at least 2",
		})
	}
	if cfg.Policy.ToleranceBand < 0 || cfg.Policy.ToleranceBand > 1 {
		errs = append(errs, FieldError{
			Field:   "governance.policy.tolerance_band",
			Message: "must be in [0, 1]",
		})
	}

	seen := make(map[string]bool)
	for i, broker := range cfg.Brokers {
		field := fmt.Sprintf("governance.brokers[%d]", i)
		if broker.Name == "" {
			errs = append(errs, FieldError{
				Field:   field + ".name",
				Message: "name is required",
			})
		} else if seen[broker.Name] {
			errs = append(errs, FieldError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate broker name %q", broker.Name),
			})
		}
		seen[broker.Name] = true

		if broker.Baseline < 0 || broker.Baseline > 1 {
			errs = append(errs, FieldError{
				Field:   field + ".baseline",
				Message: "must be in [0, 1]",
			})
		}
	}

	// Too few brokers can never reach consensus; flag it at load time
	// rather than failing every evaluation closed.
	if len(cfg.Brokers) > 0 && len(cfg.Brokers) < cfg.Policy.MinimumAgreeingBrokers {
		errs = append(errs, FieldError{
			Field: "governance.brokers",
			Message: fmt.Sprintf("%d brokers configured but policy requires %d agreeing",
				len(cfg.Brokers), cfg.Policy.MinimumAgreeingBrokers),
		})
	}

	return errs
}

func validateQuota(cfg *QuotaConfig) []FieldError {
	var errs []FieldError

	if err := cfg.DefaultProfile.ToProfile().Validate(); err != nil {
		errs = append(errs, FieldError{
			Field:   "quota.default_profile",
			Message: err.Error(),
		})
	}
	return errs
}

func validateEvidence(cfg *EvidenceConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "evidence.backend",
			Message: fmt.Sprintf("unknown backend %q (valid: memory, sqlite)", cfg.Backend),
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "evidence.sqlite.path",
			Message: "path is required for the sqlite backend",
		})
	}
	if cfg.Recorder.AsyncBuffer < 0 {
		errs = append(errs, FieldError{
			Field:   "evidence.recorder.async_buffer",
			Message: "must not be negative",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "evidence.retention.days",
			Message: "must not be negative",
		})
	}
	if cfg.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "evidence.retention.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}
	if cfg.Retention.ArchiveBeforeDelete && cfg.Retention.ArchivePath == "" {
		errs = append(errs, FieldError{
			Field:   "evidence.retention.archive_path",
			Message: "archive path is required when archiving is enabled",
		})
	}

	return errs
}

func validateOrchestrator(cfg *OrchestratorConfig) []FieldError {
	var errs []FieldError

	if cfg.ID == "" {
		errs = append(errs, FieldError{
			Field:   "orchestrator.id",
			Message: "id is required",
		})
	}
	switch cfg.Store.Backend {
	case "none", "memory", "sqlite":
	default:
		errs = append(errs, FieldError{
			Field:   "orchestrator.store.backend",
			Message: fmt.Sprintf("unknown backend %q (valid: none, memory, sqlite)", cfg.Store.Backend),
		})
	}
	if cfg.Store.Backend == "sqlite" && cfg.Store.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "orchestrator.store.sqlite.path",
			Message: "path is required for the sqlite backend",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (valid: debug, info, warn, error)", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (valid: json, text)", cfg.Logging.Format),
		})
	}
	if cfg.Metrics.Enabled {
		if cfg.Metrics.ListenAddress == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: "listen address is required when metrics are enabled",
			})
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "path must start with /",
			})
		}
	}

	return errs
}
