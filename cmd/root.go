// Package cmd defines the command-line interface for satveg.
package cmd

import (
	"log/slog"

	"github.com/couchcryptid/satveg-series/internal/config"
	"github.com/couchcryptid/satveg-series/internal/observability"
	"github.com/couchcryptid/satveg-series/satveg"
	"github.com/spf13/cobra"
)

// Set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cfg and logger are populated by setupConfig before a subcommand runs.
var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "satveg",
	Short: "Fetch and aggregate SATVeg vegetation-index time series",
	Long: `satveg talks to Embrapa's SATVeg service to retrieve NDVI and EVI time
series for WGS-84 coordinates, one point at a time or as labeled batches
merged into a single table.

Configuration comes from environment variables (SATVEG_TOKEN,
SATVEG_PROFILE, SATVEG_SATELLITE, ...) or a .env file; flags cover
per-invocation knobs. Run satveg mock to work without a real token.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupConfig loads the environment configuration and builds the logger.
// Subcommands that need either run it as their PreRunE.
func setupConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	logger = observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	return nil
}

// newClient builds the SATVeg client from the loaded configuration.
func newClient() (*satveg.Client, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	return satveg.NewClient(cfg.Token, cfg.ClientOptions(logger)...)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
