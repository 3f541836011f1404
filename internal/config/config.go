// ABOUTME: Healthlife configuration management with backend selection.
// ABOUTME: Handles settings, preferences, and storage backend factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/healthlife/internal/calendar"
	"github.com/harperreed/healthlife/internal/charm"
	"github.com/harperreed/healthlife/internal/storage"
	"github.com/harperreed/healthlife/internal/tracker"
	"github.com/harperreed/healthlife/internal/validate"
	"golang.org/x/text/language"
)

// Backend names accepted in config and on the command line.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
	BackendCharm    = "charm"
	BackendMemory   = "memory"
)

// Backends lists every supported backend name.
var Backends = []string{BackendSQLite, BackendPostgres, BackendBadger, BackendCharm, BackendMemory}

// Config stores healthlife configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "postgres",
	// "badger", "charm" or "memory".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts healthlife.db here, badger uses the badger/ folder.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/healthlife.
	DataDir string `json:"data_dir,omitempty"`

	// DatabaseURL is the Postgres connection string.
	DatabaseURL string `json:"database_url,omitempty"`

	// Timezone is an IANA zone name used to decide day boundaries.
	Timezone string `json:"timezone,omitempty"`

	// Locale is a BCP 47 tag for decimal input and output.
	Locale string `json:"locale,omitempty"`

	MaxCupsPerDay int `json:"max_cups_per_day,omitempty"`
	DailyGoalCups int `json:"daily_goal_cups,omitempty"`
	CupSizeMl     int `json:"cup_size_ml,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDatabaseURL returns the Postgres URL, falling back to HEALTHLIFE_DATABASE_URL.
func (c *Config) GetDatabaseURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return os.Getenv("HEALTHLIFE_DATABASE_URL")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Backend implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Backend, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		db, err := storage.Open(filepath.Join(dataDir, "healthlife.db"))
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendPostgres:
		url := c.GetDatabaseURL()
		if url == "" {
			return nil, fmt.Errorf("postgres backend needs database_url or HEALTHLIFE_DATABASE_URL")
		}
		db, err := storage.OpenPostgres(url)
		if err != nil {
			return nil, err
		}
		return db, nil
	case BackendBadger:
		bucket, err := storage.OpenBadger(filepath.Join(dataDir, "badger"))
		if err != nil {
			return nil, err
		}
		return storage.NewKVBackend(bucket), nil
	case BackendCharm:
		kv, err := charm.OpenBackend()
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendMemory:
		return storage.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// Calendar returns the calendar for the configured timezone.
func (c *Config) Calendar() (*calendar.Calendar, error) {
	return calendar.Load(c.Timezone)
}

// LocaleTag parses the configured locale, defaulting to English.
func (c *Config) LocaleTag() (language.Tag, error) {
	tag, err := validate.ParseTag(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// HydrationSettings merges configured limits over the defaults.
func (c *Config) HydrationSettings() (tracker.HydrationSettings, error) {
	s := tracker.DefaultHydrationSettings()
	if c.MaxCupsPerDay != 0 {
		s.MaxCupsPerDay = c.MaxCupsPerDay
	}
	if c.DailyGoalCups != 0 {
		s.DailyGoalCups = c.DailyGoalCups
	}
	if c.CupSizeMl != 0 {
		s.DefaultCupSizeMl = c.CupSizeMl
	}
	switch {
	case s.MaxCupsPerDay < 0:
		return s, fmt.Errorf("max_cups_per_day must not be negative: %d", s.MaxCupsPerDay)
	case s.DailyGoalCups < 0:
		return s, fmt.Errorf("daily_goal_cups must not be negative: %d", s.DailyGoalCups)
	case s.DefaultCupSizeMl <= 0:
		return s, fmt.Errorf("cup_size_ml must be positive: %d", s.DefaultCupSizeMl)
	}
	return s, nil
}

// RemindersPath is where pending reminders are kept.
func (c *Config) RemindersPath() string {
	return filepath.Join(c.GetDataDir(), "reminders.json")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthlife", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
