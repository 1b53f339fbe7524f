package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/internal/config"
)

var (
	// Global flags
	configPath   string
	logLevel     string
	rendererName string
	sessionID    string

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "formstate",
	Short: "Run time input scripts and replay interactions against them",
	Long: `formstate declares time input widgets from YAML scripts or OpenAPI
operations, runs them against a session and prints the records each run
produces.

Sessions live in memory by default. Configure session.store: sqlite to keep
widget state between invocations and resume a session with --session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if flags.Changed("renderer") {
			loaded.Renderer = rendererName
		}
		if flags.Changed("session") {
			loaded.Session.ID = sessionID
		}
		level, err := loaded.Level()
		if err != nil {
			return err
		}

		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(level)
		built, err := zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg, logger = loaded, built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "formstate.yaml", "Config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&rendererName, "renderer", "r", "", "Record renderer (text, json)")
	rootCmd.PersistentFlags().StringVar(&sessionID, "session", "", "Resume the session with this id")

	openapiCmd.Flags().StringVarP(&operationID, "operation", "o", "", "Operation id (required)")
	_ = openapiCmd.MarkFlagRequired("operation")

	interactCmd.Flags().BoolVar(&showRecords, "show-records", false, "Print every run's records before the menu")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(interactCmd)
	rootCmd.AddCommand(openapiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
