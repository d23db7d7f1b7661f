package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"subagentic-hq/saturn/pkg/cli"
	"subagentic-hq/saturn/pkg/config"
	"subagentic-hq/saturn/pkg/evidence"
	"subagentic-hq/saturn/pkg/evidence/export"
	"subagentic-hq/saturn/pkg/evidence/retention"
	"subagentic-hq/saturn/pkg/evidence/storage"
)

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Query and manage the evidence trail",
	Long:  `Query, export, and prune governance evidence records.`,
}

var queryFlags struct {
	workloadID string
	senderID   string
	kind       string
	reason     string
	category   string
	tier       string
	limit      int
	format     string
}

var evidenceQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query evidence records",
	Long: `Query evidence records with filters.

Examples:
  # All records for one workload
  saturn evidence query --workload SA-General-abc

  # Rejected admission decisions
  saturn evidence query --kind decision --reason vetoed

  # Hard quota enforcement records
  saturn evidence query --kind enforcement --tier hard --format json`,
	RunE: queryEvidence,
}

var exportFlags struct {
	workloadID string
	kind       string
	format     string
	output     string
}

var evidenceExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export evidence records",
	Long: `Export evidence records to JSON or CSV for offline audit.

Examples:
  # Export everything as JSON to stdout
  saturn evidence export

  # Export one workload's records as CSV
  saturn evidence export --workload SA-General-abc --format csv --output audit.csv`,
	RunE: exportEvidence,
}

var pruneFlags struct {
	days       int
	maxRecords int64
}

var evidencePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune old evidence records",
	Long: `Delete evidence records past the retention period.

Flags override the configured retention policy for this run.

Examples:
  # Prune with the configured retention policy
  saturn evidence prune

  # Keep only the last 30 days
  saturn evidence prune --days 30`,
	RunE: pruneEvidence,
}

func init() {
	rootCmd.AddCommand(evidenceCmd)
	evidenceCmd.AddCommand(evidenceQueryCmd)
	evidenceCmd.AddCommand(evidenceExportCmd)
	evidenceCmd.AddCommand(evidencePruneCmd)

	evidenceQueryCmd.Flags().StringVar(&queryFlags.workloadID, "workload", "", "filter by workload ID")
	evidenceQueryCmd.Flags().StringVar(&queryFlags.senderID, "sender", "", "filter by sender ID")
	evidenceQueryCmd.Flags().StringVar(&queryFlags.kind, "kind", "", "filter by kind: decision, enforcement, lifecycle")
	evidenceQueryCmd.Flags().StringVar(&queryFlags.reason, "reason", "", "filter by reason code")
	evidenceQueryCmd.Flags().StringVar(&queryFlags.category, "category", "", "filter by quota category")
	evidenceQueryCmd.Flags().StringVar(&queryFlags.tier, "tier", "", "filter by enforcement tier: soft, hard")
	evidenceQueryCmd.Flags().IntVar(&queryFlags.limit, "limit", 50, "maximum records to return")
	evidenceQueryCmd.Flags().StringVar(&queryFlags.format, "format", "text", "output format: text, json")

	evidenceExportCmd.Flags().StringVar(&exportFlags.workloadID, "workload", "", "filter by workload ID")
	evidenceExportCmd.Flags().StringVar(&exportFlags.kind, "kind", "", "filter by kind")
	evidenceExportCmd.Flags().StringVar(&exportFlags.format, "format", "json", "export format: json, csv")
	evidenceExportCmd.Flags().StringVar(&exportFlags.output, "output", "", "output file (default stdout)")

	evidencePruneCmd.Flags().IntVar(&pruneFlags.days, "days", 0, "override retention days")
	evidencePruneCmd.Flags().Int64Var(&pruneFlags.maxRecords, "max-records", 0, "override maximum record count")
}

// openConfiguredStorage opens the evidence backend named in the config.
// CLI access requires a durable backend.
func openConfiguredStorage() (evidence.Storage, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	if cfg.Evidence.Backend != "sqlite" {
		return nil, fmt.Errorf("evidence backend %q is not queryable offline; only sqlite is", cfg.Evidence.Backend)
	}
	return storage.NewSQLiteStorage(&storage.SQLiteConfig{
		Path:        cfg.Evidence.SQLite.Path,
		WALMode:     true,
		BusyTimeout: cfg.Evidence.SQLite.BusyTimeout,
	})
}

func queryEvidence(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	query := &evidence.Query{
		Kind:       evidence.Kind(queryFlags.kind),
		WorkloadID: queryFlags.workloadID,
		SenderID:   queryFlags.senderID,
		Reason:     queryFlags.reason,
		Category:   queryFlags.category,
		Tier:       queryFlags.tier,
		Limit:      queryFlags.limit,
		SortOrder:  "desc",
	}

	records, err := store.Query(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("evidence query", err)
	}

	if queryFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println("no records matched")
		return nil
	}
	for _, r := range records {
		printRecord(r)
	}
	fmt.Printf("\n%d records\n", len(records))
	return nil
}

func printRecord(r *evidence.Record) {
	switch r.Kind {
	case evidence.KindDecision:
		fmt.Printf("%s  %-11s %s  sender=%s admitted=%v reason=%s\n",
			r.ObservedTime.Format(time.RFC3339), r.Kind, r.WorkloadID, r.SenderID, r.Admitted, r.Reason)
	case evidence.KindEnforcement:
		fmt.Printf("%s  %-11s %s  category=%s tier=%s ratio=%.2f terminated=%v\n",
			r.ObservedTime.Format(time.RFC3339), r.Kind, r.WorkloadID, r.Category, r.Tier, r.ObservedRatio, r.Terminated)
	default:
		fmt.Printf("%s  %-11s %s  %s\n",
			r.ObservedTime.Format(time.RFC3339), r.Kind, r.WorkloadID, r.Detail)
	}
}

func exportEvidence(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Query(cmd.Context(), &evidence.Query{
		Kind:       evidence.Kind(exportFlags.kind),
		WorkloadID: exportFlags.workloadID,
	})
	if err != nil {
		return cli.NewCommandError("evidence export", err)
	}

	var exporter evidence.Exporter
	switch exportFlags.format {
	case "json":
		exporter = export.NewJSONExporter(true)
	case "csv":
		exporter = export.NewCSVExporter(true)
	default:
		return fmt.Errorf("unsupported export format: %s", exportFlags.format)
	}

	var out io.Writer = os.Stdout
	if exportFlags.output != "" {
		f, err := os.Create(exportFlags.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := exporter.Export(cmd.Context(), records, out); err != nil {
		return cli.NewCommandError("evidence export", err)
	}
	if exportFlags.output != "" {
		fmt.Printf("✓ Exported %d records to %s\n", len(records), exportFlags.output)
	}
	return nil
}

func pruneEvidence(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	store, err := openConfiguredStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	retentionCfg := &retention.Config{
		RetentionDays:       cfg.Evidence.Retention.Days,
		MaxRecords:          int64(cfg.Evidence.Retention.MaxRecords),
		ArchiveBeforeDelete: cfg.Evidence.Retention.ArchiveBeforeDelete,
		ArchivePath:         cfg.Evidence.Retention.ArchivePath,
	}
	if pruneFlags.days > 0 {
		retentionCfg.RetentionDays = pruneFlags.days
	}
	if pruneFlags.maxRecords > 0 {
		retentionCfg.MaxRecords = pruneFlags.maxRecords
	}

	deleted, err := retention.NewPruner(store, retentionCfg).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("evidence prune", err)
	}
	fmt.Printf("✓ Pruned %d records\n", deleted)
	return nil
}
