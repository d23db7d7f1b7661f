package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. The file is unmarshaled over a fully defaulted configuration,
// so unset fields keep their defaults. The result is validated before
// being returned. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention SATURN_SECTION_FIELD (e.g.
// SATURN_EVIDENCE_SQLITE_PATH) and always take precedence over file
// values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	// Governance overrides
	if val := os.Getenv("SATURN_GOVERNANCE_BROKER_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Governance.BrokerTimeout = d
		}
	}
	if val := os.Getenv("SATURN_GOVERNANCE_SENDER_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Governance.Policy.SenderThreshold = f
		}
	}
	if val := os.Getenv("SATURN_GOVERNANCE_CONTENT_THRESHOLD"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Governance.Policy.ContentThreshold = f
		}
	}
	if val := os.Getenv("SATURN_GOVERNANCE_MINIMUM_AGREEING_BROKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Governance.Policy.MinimumAgreeingBrokers = i
		}
	}
	if val := os.Getenv("SATURN_GOVERNANCE_TOLERANCE_BAND"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Governance.Policy.ToleranceBand = f
		}
	}

	// Evidence overrides
	if val := os.Getenv("SATURN_EVIDENCE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Evidence.Enabled = b
		}
	}
	if val := os.Getenv("SATURN_EVIDENCE_BACKEND"); val != "" {
		cfg.Evidence.Backend = val
	}
	if val := os.Getenv("SATURN_EVIDENCE_SQLITE_PATH"); val != "" {
		cfg.Evidence.SQLite.Path = val
	}
	if val := os.Getenv("SATURN_EVIDENCE_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Evidence.Retention.Days = i
		}
	}
	if val := os.Getenv("SATURN_EVIDENCE_RETENTION_SCHEDULE"); val != "" {
		cfg.Evidence.Retention.Schedule = val
	}

	// Orchestrator overrides
	if val := os.Getenv("SATURN_ORCHESTRATOR_ID"); val != "" {
		cfg.Orchestrator.ID = val
	}
	if val := os.Getenv("SATURN_ORCHESTRATOR_STORE_BACKEND"); val != "" {
		cfg.Orchestrator.Store.Backend = val
	}
	if val := os.Getenv("SATURN_ORCHESTRATOR_STORE_SQLITE_PATH"); val != "" {
		cfg.Orchestrator.Store.SQLite.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("SATURN_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SATURN_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("SATURN_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("SATURN_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("SATURN_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
