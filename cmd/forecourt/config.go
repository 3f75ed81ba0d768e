// Config loading for the forecourt CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/forecourt/pkg/types"
)

const (
	cfgKeyBackend = "backend"
	cfgKeyDataDir = "data_dir"

	defaultDataDir = ".forecourt"
)

// defaultConfigYAML is written to the config path on first run.
const defaultConfigYAML = `# Forecourt CLI configuration

# Backend selection
backend: sqlite

# Data directory for listing and filter storage
data_dir: .forecourt
`

// loadConfig reads configuration with Viper. An explicit --config path wins;
// otherwise .forecourt.yaml in the working directory and
// ~/.forecourt/config.yaml are searched. A missing config file falls back to
// defaults rather than failing.
func loadConfig(path string) (types.Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDataDir, defaultDataDir)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".forecourt")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.SetConfigName("config")
			v.AddConfigPath(filepath.Join(home, ".forecourt"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if path != "" || !os.IsNotExist(err) {
				return types.Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: v.GetString(cfgKeyDataDir),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// writeDefaultConfig creates a default config file if none exists at path.
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
