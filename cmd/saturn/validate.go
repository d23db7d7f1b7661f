package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"subagentic-hq/saturn/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate a Saturn configuration file without starting the core.

All validation errors are reported at once, with the offending field path.

Examples:
  # Validate the default config file
  saturn validate

  # Validate a specific file
  saturn validate --config /etc/saturn/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ %s is invalid:\n", cfgFile)
			for _, fieldErr := range verr.Errors {
				fmt.Printf("  - %s: %s\n", fieldErr.Field, fieldErr.Message)
			}
			return fmt.Errorf("%d validation errors", len(verr.Errors))
		}
		return err
	}

	fmt.Printf("✓ %s is valid\n", cfgFile)
	if verbose {
		fmt.Printf("  orchestrator: %s\n", cfg.Orchestrator.ID)
		fmt.Printf("  brokers: %d\n", len(cfg.Governance.Brokers))
		fmt.Printf("  evidence backend: %s (enabled=%v)\n", cfg.Evidence.Backend, cfg.Evidence.Enabled)
		fmt.Printf("  workload store: %s\n", cfg.Orchestrator.Store.Backend)
	}
	return nil
}
