// ABOUTME: Root Cobra command for healthlife CLI.
// ABOUTME: Opens the configured backend and builds the tracker via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"log/slog"

	"github.com/harperreed/healthlife/internal/config"
	"github.com/harperreed/healthlife/internal/logging"
	"github.com/harperreed/healthlife/internal/metrics"
	"github.com/harperreed/healthlife/internal/notify"
	"github.com/harperreed/healthlife/internal/storage"
	"github.com/harperreed/healthlife/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	backend   storage.Backend
	app       *tracker.Tracker
	scheduler *notify.FileScheduler
	registry  *prometheus.Registry
	collector *metrics.Collector
	logger    *slog.Logger
)

var (
	flagBackend  string
	flagDataDir  string
	flagDBURL    string
	flagTimezone string
	flagLocale   string
	flagLogLevel string
)

// Commands that never touch the data store.
var offlineCommands = map[string]bool{
	"help":       true,
	"completion": true,
	"config":     true,
	"sync":       true,
}

var rootCmd = &cobra.Command{
	Use:   "healthlife",
	Short: "Daily water, gym and body measurement tracker",
	Long: `Healthlife tracks three things, one record per calendar day:

  Water          cups drunk today, against a daily goal
  Gym            which muscle groups you trained
  Measurements   chest, belly, arms, legs (cm) and weight (kg)

QUICK START:

  $ healthlife water add                 # One more cup today
  $ healthlife water                     # Today's progress
  $ healthlife gym toggle chest back     # Mark muscle groups as trained
  $ healthlife measure save --chest 100 --belly 85 --left-arm 35 \
      --right-arm 35 --left-leg 58 --right-leg 58 --weight 82.5
  $ healthlife water history             # Past days, latest first

Every command accepts --date YYYY-MM-DD to work on another day.

STORAGE:

  --backend selects where records live: sqlite (default), postgres,
  badger, charm or memory. Defaults come from
  ~/.config/healthlife/config.json.

MCP INTEGRATION:

  Run 'healthlife mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "healthlife": { "command": "healthlife", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		if skipStorage(cmd) {
			return nil
		}
		return openTracker()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeTracker()
	},
}

// Execute runs the root command. The backend is closed even when the
// command fails, since cobra skips PersistentPostRunE on error.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeTracker(); err == nil {
		err = cerr
	}
	return err
}

func skipStorage(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if offlineCommands[c.Name()] {
			return true
		}
	}
	return false
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		loaded.Backend = flagBackend
	}
	if flags.Changed("data-dir") {
		loaded.DataDir = flagDataDir
	}
	if flags.Changed("database-url") {
		loaded.DatabaseURL = flagDBURL
	}
	if flags.Changed("timezone") {
		loaded.Timezone = flagTimezone
	}
	if flags.Changed("locale") {
		loaded.Locale = flagLocale
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = flagLogLevel
	}
	cfg = loaded

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = logging.SetupDefault(cmd.ErrOrStderr(), level)
	return nil
}

func openTracker() error {
	cal, err := cfg.Calendar()
	if err != nil {
		return err
	}
	tag, err := cfg.LocaleTag()
	if err != nil {
		return err
	}
	settings, err := cfg.HydrationSettings()
	if err != nil {
		return err
	}

	backend, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}

	registry = prometheus.NewRegistry()
	collector = metrics.NewCollector(registry)
	scheduler = notify.NewFileScheduler(cfg.RemindersPath())

	app = tracker.New(backend, cal, tracker.Options{
		Hydration: settings,
		Locale:    tag,
		Scheduler: scheduler,
		Logger:    logger,
		Recorder:  collector,
	})
	logger.Debug("storage opened", "backend", cfg.GetBackend(), "timezone", cal.Location().String())
	return nil
}

func closeTracker() error {
	app = nil
	if backend == nil {
		return nil
	}
	err := backend.Close()
	backend = nil
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBackend, "backend", "", "storage backend: sqlite, postgres, badger, charm or memory")
	pf.StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/healthlife)")
	pf.StringVar(&flagDBURL, "database-url", "", "postgres connection URL")
	pf.StringVar(&flagTimezone, "timezone", "", "IANA timezone that decides day boundaries (default local)")
	pf.StringVar(&flagLocale, "locale", "", "locale for decimal numbers, e.g. en-US or de-DE")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
}
