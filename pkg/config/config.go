package config

import (
	"time"

	"subagentic-hq/saturn/pkg/quota"
	"subagentic-hq/saturn/pkg/trust"
)

// Config is the root configuration structure for Saturn. It contains
// all configuration sections for the governance engines, quota
// enforcement, evidence storage, orchestration, and telemetry.
type Config struct {
	// Governance contains trust consensus configuration: the default
	// agreement policy and the broker roster.
	Governance GovernanceConfig `yaml:"governance"`

	// Quota contains the default resource profile applied to workloads
	// provisioned without an explicit profile.
	Quota QuotaConfig `yaml:"quota"`

	// Evidence contains audit trail configuration including backend
	// selection, recorder buffering, and retention.
	Evidence EvidenceConfig `yaml:"evidence"`

	// Orchestrator contains FLA identity and workload store settings.
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`

	// Telemetry contains observability configuration for logging,
	// metrics, and health endpoints.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GovernanceConfig configures the trust consensus engine.
type GovernanceConfig struct {
	// BrokerTimeout is the per-broker query timeout. A broker that does
	// not answer within this window fails the evaluation closed.
	// Default: 5s
	BrokerTimeout time.Duration `yaml:"broker_timeout"`

	// Policy is the default agreement policy bound to workloads
	// provisioned without an explicit policy.
	Policy PolicyConfig `yaml:"policy"`

	// Brokers is the roster of trust brokers consulted on every
	// inbound validation.
	Brokers []BrokerConfig `yaml:"brokers"`
}

// PolicyConfig configures a trust agreement policy.
type PolicyConfig struct {
	// SenderThreshold is the minimum aggregate sender trust, in [0,1].
	// Default: 0.6
	SenderThreshold float64 `yaml:"sender_threshold"`

	// ContentThreshold is the minimum aggregate content trust, in [0,1].
	// Default: 0.6
	ContentThreshold float64 `yaml:"content_threshold"`

	// MinimumAgreeingBrokers is the consensus floor. Values below 2 are
	// raised to 2.
	// Default: 2
	MinimumAgreeingBrokers int `yaml:"minimum_agreeing_brokers"`

	// ToleranceBand is the maximum distance from the per-axis mean for
	// a broker to count as agreeing, in [0,1].
	// Default: 0.15
	ToleranceBand float64 `yaml:"tolerance_band"`
}

// ToPolicy converts the section to the engine's policy type.
func (p PolicyConfig) ToPolicy() trust.AgreementPolicy {
	return trust.NewAgreementPolicy(
		trust.NewScore(p.SenderThreshold, p.ContentThreshold),
		p.MinimumAgreeingBrokers,
		p.ToleranceBand,
	)
}

// BrokerConfig configures one trust broker.
type BrokerConfig struct {
	// Name identifies the broker in logs and evidence records.
	Name string `yaml:"name"`

	// Baseline is the trust score assigned to unknown senders, in [0,1].
	// Default: 0.5
	Baseline float64 `yaml:"baseline"`
}

// QuotaConfig configures quota enforcement.
type QuotaConfig struct {
	// DefaultProfile is the resource profile for workloads provisioned
	// without an explicit profile.
	DefaultProfile ProfileConfig `yaml:"default_profile"`
}

// ProfileConfig mirrors quota.Profile with YAML bindings.
type ProfileConfig struct {
	// MaxCPUCores is the compute ceiling in fractional cores.
	// Default: 1.0
	MaxCPUCores float64 `yaml:"max_cpu_cores"`

	// MaxGPUAllocation is the GPU ceiling in fractional devices.
	// Default: 0.0
	MaxGPUAllocation float64 `yaml:"max_gpu_allocation"`

	// MaxExecutionTime is the wall-clock ceiling per invocation.
	// Default: 5m
	MaxExecutionTime time.Duration `yaml:"max_execution_time"`

	// LifetimeComputeBudget is the total lifetime compute budget.
	// Default: 100.0
	LifetimeComputeBudget float64 `yaml:"lifetime_compute_budget"`

	// MaxMemoryBytes is the resident memory ceiling.
	// Default: 536870912 (512MB)
	MaxMemoryBytes int64 `yaml:"max_memory_bytes"`

	// MaxMessageCount is the ceiling on inter-agent messages.
	// Default: 1000
	MaxMessageCount int64 `yaml:"max_message_count"`

	// MaxStateSizeBytes is the persisted state ceiling.
	// Default: 104857600 (100MB)
	MaxStateSizeBytes int64 `yaml:"max_state_size_bytes"`

	// MaxLogSizeBytes is the log output ceiling.
	// Default: 52428800 (50MB)
	MaxLogSizeBytes int64 `yaml:"max_log_size_bytes"`

	// MaxBrokerQueries is the ceiling on trust broker evaluations.
	// Default: 100
	MaxBrokerQueries int64 `yaml:"max_broker_queries"`

	// MaxMissionCost is the cost ceiling in USD.
	// Default: 10.0
	MaxMissionCost float64 `yaml:"max_mission_cost"`

	// HardBudgetEnforcement controls whether cost overruns terminate.
	// Default: true
	HardBudgetEnforcement bool `yaml:"hard_budget_enforcement"`
}

// ToProfile converts the section to the engine's profile type.
func (p ProfileConfig) ToProfile() quota.Profile {
	return quota.Profile{
		MaxCPUCores:           p.MaxCPUCores,
		MaxGPUAllocation:      p.MaxGPUAllocation,
		MaxExecutionTime:      p.MaxExecutionTime,
		LifetimeComputeBudget: p.LifetimeComputeBudget,
		MaxMemoryBytes:        p.MaxMemoryBytes,
		MaxMessageCount:       p.MaxMessageCount,
		MaxStateSizeBytes:     p.MaxStateSizeBytes,
		MaxLogSizeBytes:       p.MaxLogSizeBytes,
		MaxBrokerQueries:      p.MaxBrokerQueries,
		MaxMissionCost:        p.MaxMissionCost,
		HardBudgetEnforcement: p.HardBudgetEnforcement,
	}
}

// EvidenceConfig configures the audit trail.
type EvidenceConfig struct {
	// Enabled controls whether evidence records are written at all.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder configures the async recorder.
	Recorder RecorderConfig `yaml:"recorder"`

	// Retention configures pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig configures a sqlite database file.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "saturn-evidence.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RecorderConfig configures the async evidence recorder.
type RecorderConfig struct {
	// AsyncBuffer is the recorder channel capacity. Records beyond a
	// full buffer are dropped and counted.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds each storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RetentionConfig configures evidence retention.
type RetentionConfig struct {
	// Days is how long records are kept. Zero disables age pruning.
	// Default: 90
	Days int `yaml:"days"`

	// Schedule is the cron expression for prune runs.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`

	// MaxRecords caps total stored records. Zero disables count pruning.
	// Default: 0
	MaxRecords int `yaml:"max_records"`

	// ArchiveBeforeDelete exports pruned records to JSON first.
	// Default: false
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the directory for archive files.
	ArchivePath string `yaml:"archive_path"`
}

// OrchestratorConfig configures the Front Line Agent.
type OrchestratorConfig struct {
	// ID identifies this FLA instance in logs and evidence.
	// Default: "fla-1"
	ID string `yaml:"id"`

	// Store configures workload state persistence.
	Store StoreConfig `yaml:"store"`
}

// StoreConfig configures the workload state store.
type StoreConfig struct {
	// Backend selects the store backend: "none", "memory", or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`

	// Health configures the health endpoints.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// RedactContent controls whether inbound message payloads are
	// redacted from log fields. Evidence records keep content hashes
	// either way.
	// Default: true
	RedactContent bool `yaml:"redact_content"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the metrics/health HTTP server.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "saturn"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name subsystem segment.
	// Default: "governance"
	Subsystem string `yaml:"subsystem"`
}

// HealthConfig configures health endpoints.
type HealthConfig struct {
	// Enabled controls whether /healthz and /readyz are served.
	// Default: true
	Enabled bool `yaml:"enabled"`
}
