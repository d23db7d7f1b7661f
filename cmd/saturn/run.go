package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"subagentic-hq/saturn/pkg/cli"
	"subagentic-hq/saturn/pkg/config"
	"subagentic-hq/saturn/pkg/evidence"
	"subagentic-hq/saturn/pkg/evidence/recorder"
	"subagentic-hq/saturn/pkg/evidence/retention"
	"subagentic-hq/saturn/pkg/evidence/storage"
	"subagentic-hq/saturn/pkg/orchestrator"
	"subagentic-hq/saturn/pkg/orchestrator/store"
	"subagentic-hq/saturn/pkg/telemetry/health"
	"subagentic-hq/saturn/pkg/telemetry/logging"
	"subagentic-hq/saturn/pkg/telemetry/metrics"
	"subagentic-hq/saturn/pkg/trust/broker"
)

var runFlags struct {
	logLevel string
	dryRun   bool
	watch    bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Saturn governance core",
	Long: `Start the governance core with the specified configuration.

The core provisions the Front-Line Agent orchestrator, the trust broker
set, evidence recording, quota retention, and the telemetry endpoints,
then waits for shutdown.

Examples:
  # Start with default config
  saturn run

  # Start with custom config
  saturn run --config /etc/saturn/config.yaml

  # Validate config without starting
  saturn run --dry-run

  # Reload governance defaults when the config file changes
  saturn run --watch`,
	RunE: runCore,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "reload governance defaults on config changes")
}

func runCore(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx := cli.SetupSignalHandler()

	// Evidence pipeline
	var sink evidence.Sink
	var evidenceStorage evidence.Storage
	if cfg.Evidence.Enabled {
		evidenceStorage, err = openEvidenceStorage(cfg)
		if err != nil {
			return fmt.Errorf("failed to open evidence storage: %w", err)
		}
		defer evidenceStorage.Close()

		rec := recorder.NewRecorder(evidenceStorage, &recorder.Config{
			Enabled:      true,
			AsyncBuffer:  cfg.Evidence.Recorder.AsyncBuffer,
			WriteTimeout: cfg.Evidence.Recorder.WriteTimeout,
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := rec.Shutdown(shutdownCtx); err != nil {
				slog.Warn("evidence recorder shutdown", "error", err)
			}
		}()
		sink = rec

		fmt.Printf("✓ Evidence recording enabled (%s)\n", cfg.Evidence.Backend)
	}

	// Trust broker set
	brokers := make([]broker.Broker, 0, len(cfg.Governance.Brokers))
	for i, brokerCfg := range cfg.Governance.Brokers {
		id := fmt.Sprintf("broker-%d", i+1)
		brokers = append(brokers, broker.NewSimpleBroker(id, brokerCfg.Name, brokerCfg.Baseline))
	}
	fmt.Printf("✓ Trust brokers initialized (%d brokers)\n", len(brokers))

	// Workload store
	workloadStore, err := openWorkloadStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open workload store: %w", err)
	}
	if workloadStore != nil {
		defer workloadStore.Close()
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	fla, err := orchestrator.New(orchestrator.Config{
		ID:             cfg.Orchestrator.ID,
		Brokers:        brokers,
		DefaultPolicy:  cfg.Governance.Policy.ToPolicy(),
		DefaultProfile: cfg.Quota.DefaultProfile.ToProfile(),
		BrokerTimeout:  cfg.Governance.BrokerTimeout,
		Sink:           sink,
		Store:          workloadStore,
		Metrics:        collector,
		Redactor:       logging.NewRedactor(cfg.Telemetry.Logging.RedactContent),
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	fmt.Printf("✓ Orchestrator %s ready\n", cfg.Orchestrator.ID)

	// Evidence retention
	if cfg.Evidence.Enabled && cfg.Evidence.Retention.Schedule != "" {
		pruner := retention.NewPruner(evidenceStorage, &retention.Config{
			RetentionDays:       cfg.Evidence.Retention.Days,
			PruneSchedule:       cfg.Evidence.Retention.Schedule,
			MaxRecords:          int64(cfg.Evidence.Retention.MaxRecords),
			ArchiveBeforeDelete: cfg.Evidence.Retention.ArchiveBeforeDelete,
			ArchivePath:         cfg.Evidence.Retention.ArchivePath,
		})
		scheduler := retention.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start retention scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	// Telemetry endpoints
	if server := telemetryServer(cfg, collector, evidenceStorage, workloadStore); server != nil {
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("telemetry server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		fmt.Printf("✓ Telemetry listening on %s\n", cfg.Telemetry.Metrics.ListenAddress)
	}

	// Config hot-reload for governance defaults
	if runFlags.watch {
		watcher, err := config.NewWatcher(cfgFile, 0, logging.Component(logger, "config.watcher"))
		if err != nil {
			return fmt.Errorf("failed to watch config: %w", err)
		}
		go func() {
			_ = watcher.Watch(ctx, func() error {
				reloaded, err := config.LoadConfigWithEnvOverrides(cfgFile)
				if err != nil {
					return err
				}
				return fla.SetDefaults(reloaded.Quota.DefaultProfile.ToProfile(), reloaded.Governance.Policy.ToPolicy())
			})
		}()
	}

	slog.Info("saturn started",
		"orchestrator_id", cfg.Orchestrator.ID,
		"brokers", len(brokers),
		"evidence", cfg.Evidence.Enabled,
	)

	<-ctx.Done()
	slog.Info("shutdown signal received")
	return nil
}

func openEvidenceStorage(cfg *config.Config) (evidence.Storage, error) {
	switch cfg.Evidence.Backend {
	case "sqlite":
		return storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:        cfg.Evidence.SQLite.Path,
			WALMode:     true,
			BusyTimeout: cfg.Evidence.SQLite.BusyTimeout,
		})
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported evidence backend: %s", cfg.Evidence.Backend)
	}
}

func openWorkloadStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Orchestrator.Store.Backend {
	case "none", "":
		return nil, nil
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		return store.NewSQLiteStore(cfg.Orchestrator.Store.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported workload store backend: %s", cfg.Orchestrator.Store.Backend)
	}
}

// telemetryServer builds the HTTP server exposing metrics and health
// probes. Returns nil when both are disabled.
func telemetryServer(cfg *config.Config, collector *metrics.Collector, evidenceStorage evidence.Storage, workloadStore store.Store) *http.Server {
	if !cfg.Telemetry.Metrics.Enabled && !cfg.Telemetry.Health.Enabled {
		return nil
	}

	mux := http.NewServeMux()

	if cfg.Telemetry.Metrics.Enabled {
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
	}

	if cfg.Telemetry.Health.Enabled {
		checker := health.New(0)
		if evidenceStorage != nil {
			checker.RegisterCheck("evidence", func(ctx context.Context) error {
				_, err := evidenceStorage.Count(ctx, &evidence.Query{Limit: 1})
				return err
			})
		}
		if workloadStore != nil {
			checker.RegisterCheck("workload_store", func(ctx context.Context) error {
				_, err := workloadStore.List(ctx)
				return err
			})
		}
		mux.Handle("/healthz", checker.LivenessHandler())
		mux.Handle("/readyz", checker.ReadinessHandler())
	}

	return &http.Server{
		Addr:              cfg.Telemetry.Metrics.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
