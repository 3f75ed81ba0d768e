// Package main provides the forecourt CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/forecourt/internal/logging"
	"github.com/mesh-intelligence/forecourt/pkg/sqlite"
	"github.com/mesh-intelligence/forecourt/pkg/types"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// logLevel is set by the --log-level flag.
	logLevel string

	// store is the attached Store instance, initialized on startup.
	store types.Store

	// logger is shared by all subcommands.
	logger *zap.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "forecourt",
	Short: "Forecourt is a vehicle listing aggregator",
	Long: `Forecourt aggregates vehicle listings from multiple data sources,
tracks the provenance and confidence of every attribute, and lets you
search the result with composable, saveable filters.`,
	PersistentPreRunE: initStore,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: .forecourt.yaml or ~/.forecourt/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(filterCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the listing store",
	Long:  `Initialize the listing store backend using configuration from file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Store is already attached by PersistentPreRunE; seed a config
		// file so later runs pick up the same settings.
		if configFile == "" {
			if err := writeDefaultConfig(".forecourt.yaml"); err != nil {
				return err
			}
		}
		fmt.Println("Forecourt store initialized successfully")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("forecourt v0.1.0")
	},
}

// initStore loads config and attaches the Store.
func initStore(cmd *cobra.Command, args []string) error {
	// Version needs neither config nor storage.
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	logger, err = logging.New(logLevel, false)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return fmt.Errorf("attach store: %w", err)
	}

	store = backend
	return nil
}

// closeStore detaches the Store and releases resources.
func closeStore() error {
	if logger != nil {
		logger.Sync()
	}
	if store != nil {
		return store.Detach()
	}
	return nil
}
