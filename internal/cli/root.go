package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"heartbeat/internal/config"
	"heartbeat/internal/coordinator"
	"heartbeat/internal/logger"
)

// current holds the configuration loaded for the running command.
var current *config.Config

var rootCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "heartbeat - periodic log emitter with graceful shutdown",
	Long: `heartbeat runs a set of periodic routines that log at different severities
until the process receives a termination signal (SIGINT/SIGTERM, or Ctrl-C,
Ctrl-Break, console close and shutdown on Windows), then exits cleanly.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(cmd.OutOrStdout(), current.Level())
		return coordinator.New(current, log).Run(cmd.Context())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global configuration flags
	rootCmd.PersistentFlags().StringVar(&config.ConfigFile, "config", "", "config file path (default: ./heartbeat.toml or ~/.heartbeat/heartbeat.toml)")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "", "minimum log level: trace, debug, info, warn, error")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if config.LogLevel != "" {
		cfg.LogLevel = config.LogLevel
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	current = cfg
	return nil
}
