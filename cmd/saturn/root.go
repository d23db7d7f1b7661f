package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "saturn",
	Short: "Saturn - governance enforcement core for SubAgent workloads",
	Long: `Saturn is a governance enforcement core for autonomous SubAgent workloads.

A Front-Line Agent (FLA) orchestrator provisions SubAgent workloads and
governs them with two engines:
  - Trust consensus: multi-evaluator admission control for inbound
    communication, with veto dominance and tolerance-band agreement
  - Quota enforcement: tiered resource monitoring with irreversible
    termination when a hard ceiling is breached

Every admission decision, enforcement record, and lifecycle event is
written to a queryable evidence trail.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
