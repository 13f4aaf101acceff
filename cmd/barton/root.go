package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"barton-hq/meridian/pkg/cli"
	"barton-hq/meridian/pkg/config"
	"barton-hq/meridian/pkg/registry"
	"barton-hq/meridian/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// appLogger is the process logger loadConfig installs. Commands that
	// log with context fields use it directly; everything else goes
	// through slog.Default.
	appLogger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "barton",
	Short: "Barton Meridian - doctrine numbering and payload compliance engine",
	Long: `Barton Meridian validates doctrine identifiers, formats payload envelopes,
and gates doctrine corpora through a rule-based compliance enforcer.

It provides:
  - Barton and UDNS identifier grammar validation
  - Registry-driven scope, section, and altitude checks
  - Payload envelope formatting for staging, vault, and warehouse backends
  - Corpus compliance gating with PASS/FAIL exit codes for CI
  - Scheduled audit runs with exportable run records

For more information, visit: https://github.com/barton-hq/meridian`,
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
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Disable default completion command (we'll add our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = false
}

// loadConfig initializes the global configuration and the process logger.
// A missing config file falls back to defaults unless --config named it
// explicitly.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config

	if _, err := os.Stat(cfgFile); err != nil {
		if rootCmd.PersistentFlags().Changed("config") {
			return nil, cli.NewConfigError("config", fmt.Sprintf("config file not found: %s", cfgFile))
		}
		cfg = config.DefaultConfig()
		config.SetConfig(cfg)
	} else {
		if err := config.Initialize(cfgFile); err != nil {
			return nil, cli.NewConfigError("config", fmt.Sprintf("failed to load config: %v", err))
		}
		cfg = config.GetConfig()
	}

	logger, err := logging.Setup(cfg.Logging, verbose)
	if err != nil {
		return nil, cli.NewConfigError("logging", err.Error())
	}
	appLogger = logger

	return cfg, nil
}

// resolveRegistry picks the registry for a command: explicit flag first,
// then the configured path, then the built-in catalog.
func resolveRegistry(flagPath string, cfg *config.Config) (*registry.Registry, error) {
	path := flagPath
	if path == "" && cfg != nil {
		path = cfg.Registry.Path
	}
	if path == "" {
		return registry.Default(), nil
	}
	return registry.Load(path)
}
