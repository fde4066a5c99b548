// Config loading for the primetime CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend              = "backend"
	cfgKeyDataDir              = "data_dir"
	cfgKeyLookbackDays         = "engine.lookback_days"
	cfgKeyBestTimesLookback    = "engine.best_times_lookback_days"
	cfgKeyHorizonDays          = "engine.horizon_days"
	cfgKeyAutoReschedule       = "engine.auto_reschedule"
	cfgKeyPerformanceThreshold = "engine.performance_threshold"
	cfgKeyReconcileSpec        = "engine.reconcile_spec"
	cfgKeyABCheckSpec          = "engine.ab_check_spec"

	defaultBackend = "sqlite"
)

// engineCfg holds the engine tuning loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var engineCfg types.EngineConfig

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Primetime CLI configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

engine:
  # Engagement history window for optimal-time recomputes (days)
  lookback_days: 90
  # History window for best-times queries (days)
  best_times_lookback_days: 60
  # How far ahead the recommender searches (days)
  horizon_days: 7
  # Clone poor performers to a new slot automatically
  auto_reschedule: true
  # Score below which a poor-rated item is rescheduled
  performance_threshold: 50
  # Cron spec for the reconcile job (watch mode)
  reconcile_spec: "0 * * * *"
  # Cron spec for the A/B expiry check (watch mode)
  ab_check_spec: "*/5 * * * *"
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLookbackDays, types.DefaultLookbackDays)
	v.SetDefault(cfgKeyBestTimesLookback, types.DefaultBestTimesLookbackDays)
	v.SetDefault(cfgKeyHorizonDays, types.DefaultHorizonDays)
	v.SetDefault(cfgKeyAutoReschedule, true)
	v.SetDefault(cfgKeyPerformanceThreshold, types.DefaultPerformanceThreshold)
	v.SetDefault(cfgKeyReconcileSpec, types.DefaultReconcileSpec)
	v.SetDefault(cfgKeyABCheckSpec, types.DefaultABCheckSpec)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// engineConfigFromViper maps the loaded config onto the engine tuning.
func engineConfigFromViper(v *viper.Viper) types.EngineConfig {
	return types.EngineConfig{
		LookbackDays:          v.GetInt(cfgKeyLookbackDays),
		BestTimesLookbackDays: v.GetInt(cfgKeyBestTimesLookback),
		HorizonDays:           v.GetInt(cfgKeyHorizonDays),
		AutoReschedule:        v.GetBool(cfgKeyAutoReschedule),
		PerformanceThreshold:  v.GetFloat64(cfgKeyPerformanceThreshold),
		ReconcileSpec:         v.GetString(cfgKeyReconcileSpec),
		ABCheckSpec:           v.GetString(cfgKeyABCheckSpec),
	}
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
