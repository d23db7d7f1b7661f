package config

import "time"

// Default values for configuration fields.
const (
	// Governance defaults
	DefaultBrokerTimeout          = 5 * time.Second
	DefaultSenderThreshold        = 0.6
	DefaultContentThreshold       = 0.6
	DefaultMinimumAgreeingBrokers = 2
	DefaultToleranceBand          = 0.15
	DefaultBrokerBaseline         = 0.5

	// Quota profile defaults
	DefaultMaxCPUCores           = 1.0
	DefaultMaxExecutionTime      = 5 * time.Minute
	DefaultLifetimeComputeBudget = 100.0
	DefaultMaxMemoryBytes        = int64(512 * 1024 * 1024)
	DefaultMaxMessageCount       = int64(1000)
	DefaultMaxStateSizeBytes     = int64(100 * 1024 * 1024)
	DefaultMaxLogSizeBytes       = int64(50 * 1024 * 1024)
	DefaultMaxBrokerQueries      = int64(100)
	DefaultMaxMissionCost        = 10.0

	// Evidence defaults
	DefaultEvidenceEnabled              = true
	DefaultEvidenceBackend              = "sqlite"
	DefaultEvidenceSQLitePath           = "saturn-evidence.db"
	DefaultEvidenceSQLiteBusyTimeout    = 5 * time.Second
	DefaultEvidenceRecorderAsyncBuffer  = 1000
	DefaultEvidenceRecorderWriteTimeout = 5 * time.Second
	DefaultEvidenceRetentionDays        = 90
	DefaultEvidenceRetentionSchedule    = "0 3 * * *"

	// Orchestrator defaults
	DefaultOrchestratorID  = "fla-1"
	DefaultStoreBackend    = "memory"
	DefaultStoreSQLitePath = "saturn-workloads.db"

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "saturn"
	DefaultMetricsSubsystem     = "governance"
	DefaultHealthEnabled        = true
)

// DefaultConfig returns a fully populated configuration. LoadConfig
// unmarshals the YAML file over this value, so fields absent from the
// file keep their defaults, including booleans that default to true.
func DefaultConfig() *Config {
	return &Config{
		Governance: GovernanceConfig{
			BrokerTimeout: DefaultBrokerTimeout,
			Policy: PolicyConfig{
				SenderThreshold:        DefaultSenderThreshold,
				ContentThreshold:       DefaultContentThreshold,
				MinimumAgreeingBrokers: DefaultMinimumAgreeingBrokers,
				ToleranceBand:          DefaultToleranceBand,
			},
		},
		Quota: QuotaConfig{
			DefaultProfile: ProfileConfig{
				MaxCPUCores:           DefaultMaxCPUCores,
				MaxExecutionTime:      DefaultMaxExecutionTime,
				LifetimeComputeBudget: DefaultLifetimeComputeBudget,
				MaxMemoryBytes:        DefaultMaxMemoryBytes,
				MaxMessageCount:       DefaultMaxMessageCount,
				MaxStateSizeBytes:     DefaultMaxStateSizeBytes,
				MaxLogSizeBytes:       DefaultMaxLogSizeBytes,
				MaxBrokerQueries:      DefaultMaxBrokerQueries,
				MaxMissionCost:        DefaultMaxMissionCost,
				HardBudgetEnforcement: true,
			},
		},
		Evidence: EvidenceConfig{
			Enabled: DefaultEvidenceEnabled,
			Backend: DefaultEvidenceBackend,
			SQLite: SQLiteConfig{
				Path:        DefaultEvidenceSQLitePath,
				BusyTimeout: DefaultEvidenceSQLiteBusyTimeout,
			},
			Recorder: RecorderConfig{
				AsyncBuffer:  DefaultEvidenceRecorderAsyncBuffer,
				WriteTimeout: DefaultEvidenceRecorderWriteTimeout,
			},
			Retention: RetentionConfig{
				Days:     DefaultEvidenceRetentionDays,
				Schedule: DefaultEvidenceRetentionSchedule,
			},
		},
		Orchestrator: OrchestratorConfig{
			ID: DefaultOrchestratorID,
			Store: StoreConfig{
				Backend: DefaultStoreBackend,
				SQLite: SQLiteConfig{
					Path:        DefaultStoreSQLitePath,
					BusyTimeout: DefaultEvidenceSQLiteBusyTimeout,
				},
			},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:         DefaultLoggingLevel,
				Format:        DefaultLoggingFormat,
				RedactContent: true,
			},
			Metrics: MetricsConfig{
				Enabled:       DefaultMetricsEnabled,
				ListenAddress: DefaultMetricsListenAddress,
				Path:          DefaultMetricsPath,
				Namespace:     DefaultMetricsNamespace,
				Subsystem:     DefaultMetricsSubsystem,
			},
			Health: HealthConfig{
				Enabled: DefaultHealthEnabled,
			},
		},
	}
}

// ApplyDefaults fills zero-valued fields in a Config. It is idempotent
// and used when a Config was built in code rather than loaded from a
// file.
func ApplyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Governance.BrokerTimeout == 0 {
		cfg.Governance.BrokerTimeout = defaults.Governance.BrokerTimeout
	}
	if cfg.Governance.Policy.SenderThreshold == 0 {
		cfg.Governance.Policy.SenderThreshold = defaults.Governance.Policy.SenderThreshold
	}
	if cfg.Governance.Policy.ContentThreshold == 0 {
		cfg.Governance.Policy.ContentThreshold = defaults.Governance.Policy.ContentThreshold
	}
	if cfg.Governance.Policy.MinimumAgreeingBrokers == 0 {
		cfg.Governance.Policy.MinimumAgreeingBrokers = defaults.Governance.Policy.MinimumAgreeingBrokers
	}
	if cfg.Governance.Policy.ToleranceBand == 0 {
		cfg.Governance.Policy.ToleranceBand = defaults.Governance.Policy.ToleranceBand
	}
	for i := range cfg.Governance.Brokers {
		if cfg.Governance.Brokers[i].Baseline == 0 {
			cfg.Governance.Brokers[i].Baseline = DefaultBrokerBaseline
		}
	}

	if cfg.Quota.DefaultProfile == (ProfileConfig{}) {
		cfg.Quota.DefaultProfile = defaults.Quota.DefaultProfile
	}

	if cfg.Evidence.Backend == "" {
		cfg.Evidence.Backend = defaults.Evidence.Backend
	}
	if cfg.Evidence.SQLite.Path == "" {
		cfg.Evidence.SQLite.Path = defaults.Evidence.SQLite.Path
	}
	if cfg.Evidence.SQLite.BusyTimeout == 0 {
		cfg.Evidence.SQLite.BusyTimeout = defaults.Evidence.SQLite.BusyTimeout
	}
	if cfg.Evidence.Recorder.AsyncBuffer == 0 {
		cfg.Evidence.Recorder.AsyncBuffer = defaults.Evidence.Recorder.AsyncBuffer
	}
	if cfg.Evidence.Recorder.WriteTimeout == 0 {
		cfg.Evidence.Recorder.WriteTimeout = defaults.Evidence.Recorder.WriteTimeout
	}
	if cfg.Evidence.Retention.Schedule == "" {
		cfg.Evidence.Retention.Schedule = defaults.Evidence.Retention.Schedule
	}

	if cfg.Orchestrator.ID == "" {
		cfg.Orchestrator.ID = defaults.Orchestrator.ID
	}
	if cfg.Orchestrator.Store.Backend == "" {
		cfg.Orchestrator.Store.Backend = defaults.Orchestrator.Store.Backend
	}
	if cfg.Orchestrator.Store.SQLite.Path == "" {
		cfg.Orchestrator.Store.SQLite.Path = defaults.Orchestrator.Store.SQLite.Path
	}
	if cfg.Orchestrator.Store.SQLite.BusyTimeout == 0 {
		cfg.Orchestrator.Store.SQLite.BusyTimeout = defaults.Orchestrator.Store.SQLite.BusyTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = defaults.Telemetry.Logging.Level
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = defaults.Telemetry.Logging.Format
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = defaults.Telemetry.Metrics.ListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = defaults.Telemetry.Metrics.Path
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = defaults.Telemetry.Metrics.Namespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = defaults.Telemetry.Metrics.Subsystem
	}
}
