// Package main provides the wager-analyst command line entry point.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/wager-analyst/internal/config"
	"github.com/yourusername/wager-analyst/internal/logger"
	"github.com/yourusername/wager-analyst/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	outputFormat string
	sourceFile   string
	logLevel     string
	cfg          *config.Config
	log          *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "analyst",
	Short: "Analyse historical wagers into rankings, risk tiers and patterns",
	Long: `Loads historical bet records, ranks teams by composite score, attaches
confidence intervals and Monte Carlo risk tiers to recommendations, mines
success and failure patterns and stores a daily prediction snapshot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(cmd); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table or json")
	rootCmd.PersistentFlags().StringVar(&sourceFile, "file", "", "Read records from this JSON or CSV export instead of the configured source")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		rankCmd,
		recommendCmd,
		patternsCmd,
		riskCmd,
		queryCmd,
		fieldsCmd,
		snapshotCmd,
		importCmd,
		dbCmd,
		serveCmd,
		versionCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.LoadWithDefaults(configFile)
	}
	if err != nil {
		return err
	}

	if sourceFile != "" {
		cfg.Source.Type = "file"
		cfg.Source.Path = sourceFile
		cfg.Source.Format = ""
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}

	if err := config.LoadSecretsFromAWS(cmd.Context(), cfg); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return err
	}

	log = logger.New(os.Stderr, cfg.App.LogLevel, cfg.App.Environment)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "analyst %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}
