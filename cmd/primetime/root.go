// Root command for the primetime CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/primetime/internal/paths"
	"github.com/mesh-intelligence/primetime/pkg/primetime"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

var rootCmd = &cobra.Command{
	Use:     "primetime",
	Short:   "Primetime schedules content for engagement-optimal publish times",
	Version: primetime.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		engineCfg = engineConfigFromViper(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.primetime)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.primetime-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(engageCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(bestTimesCmd)
	rootCmd.AddCommand(optimalTimesCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(noticesCmd)
	rootCmd.AddCommand(abtestCmd)
	rootCmd.AddCommand(watchCmd)
}

// resolveDataDir returns the data directory path by precedence:
// --data-dir flag > config.yaml data_dir > PRIMETIME_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory by precedence:
// --config-dir flag > PRIMETIME_CONFIG_DIR env > default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
