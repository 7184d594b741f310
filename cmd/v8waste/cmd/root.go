// Package cmd implements the v8waste command-line interface, following the
// teacher's cobra root/subcommand layout.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/v8waste/pkg/config"
	"github.com/v8waste/pkg/telemetry"
	"github.com/v8waste/pkg/utils"
)

var (
	verbose    bool
	configPath string

	logger utils.Logger
	cfg    *config.Config

	telemetryShutdown telemetry.ShutdownFunc = func(context.Context) error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "v8waste",
	Short: "Analyze a V8 heap snapshot for duplicate-object and hidden-class waste",
	Long: `v8waste reads a V8 JSON heap snapshot and reports:
  - duplicate objects/strings that could be interned or deduplicated
  - hidden-class (shape) groups, flagging shape thrash
  - retention paths explaining why the top offenders are still alive`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		if cfg.Telemetry.Enabled {
			applyTelemetryEnv(cfg)
			shutdown, err := telemetry.Init(cmd.Context())
			if err != nil {
				logger.Warn("failed to initialize telemetry: %v", err)
			} else {
				telemetryShutdown = shutdown
			}
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return telemetryShutdown(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (defaults to ./config.yaml)")
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}

// applyTelemetryEnv maps the yaml-configured telemetry section onto the
// environment variables pkg/telemetry.Init actually reads.
func applyTelemetryEnv(c *config.Config) {
	os.Setenv("OTEL_ENABLED", "true")
	if c.Telemetry.ServiceName != "" {
		os.Setenv("OTEL_SERVICE_NAME", c.Telemetry.ServiceName)
	}
	if c.Telemetry.Endpoint != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.Endpoint)
	}
	if c.Telemetry.Insecure {
		os.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	}
}
