// ABOUTME: CLI commands for reading and changing the config file.
// ABOUTME: Supports show, path and set for every config key.
package main

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/harperreed/healthlife/internal/config"
	"github.com/harperreed/healthlife/internal/logging"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Show or change ~/.config/healthlife/config.json.

KEYS:

  backend           sqlite, postgres, badger, charm or memory
  data_dir          data directory
  database_url      postgres connection URL
  timezone          IANA timezone, e.g. Europe/Berlin
  locale            locale for decimal numbers, e.g. de-DE
  max_cups_per_day  upper bound for cups on one day
  daily_goal_cups   cups that count as goal met
  cup_size_ml       default cup size in ml
  log_level         debug, info, warn or error`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := cfg.HydrationSettings()
		if err != nil {
			return err
		}
		view := map[string]any{
			"config_path":      config.GetConfigPath(),
			"backend":          cfg.GetBackend(),
			"data_dir":         cfg.GetDataDir(),
			"timezone":         cfg.Timezone,
			"locale":           cfg.Locale,
			"max_cups_per_day": settings.MaxCupsPerDay,
			"daily_goal_cups":  settings.DailyGoalCups,
			"cup_size_ml":      settings.DefaultCupSizeMl,
			"log_level":        cfg.LogLevel,
		}
		if cfg.GetBackend() == config.BackendPostgres {
			view["database_url"] = cfg.GetDatabaseURL()
		}
		data, err := yaml.Marshal(view)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one config key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Flags must not leak into the saved file.
		stored, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := setConfigKey(stored, args[0], args[1]); err != nil {
			return err
		}
		if _, err := stored.Calendar(); err != nil {
			return err
		}
		if _, err := stored.LocaleTag(); err != nil {
			return err
		}
		if _, err := stored.HydrationSettings(); err != nil {
			return err
		}
		if _, err := logging.ParseLevel(stored.LogLevel); err != nil {
			return err
		}
		if err := stored.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		success(cmd, "Set %s = %s", args[0], args[1])
		return nil
	},
}

func setConfigKey(c *config.Config, key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number: %w", key, err)
		}
		return n, nil
	}

	switch key {
	case "backend":
		if !slices.Contains(config.Backends, value) {
			return fmt.Errorf("unknown backend %q (one of %v)", value, config.Backends)
		}
		c.Backend = value
	case "data_dir":
		c.DataDir = value
	case "database_url":
		c.DatabaseURL = value
	case "timezone":
		c.Timezone = value
	case "locale":
		c.Locale = value
	case "log_level":
		c.LogLevel = value
	case "max_cups_per_day":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.MaxCupsPerDay = n
	case "daily_goal_cups":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.DailyGoalCups = n
	case "cup_size_ml":
		n, err := atoi()
		if err != nil {
			return err
		}
		c.CupSizeMl = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
