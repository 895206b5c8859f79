// Package main provides the entry point for the hiring-funnel analyzer CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	jsonLogs   bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "funnel_agent",
		Short: "Hiring funnel analyzer",
		Long: `Estimates how a résumé fares against a job description through the ATS, recruiter and interview stages,
then explains the result with prioritized recommendations.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML or JSON config file (FUNNEL_* env vars override it)")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonLogs, "json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newServeCmd(opts),
		newCalibrationCmd(),
		newValidateCmd(),
	)
	return rootCmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
