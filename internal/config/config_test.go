// ABOUTME: Tests for healthlife configuration management.
// ABOUTME: Covers load, save, defaults, backend selection, and path expansion.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/healthlife/internal/storage"
	"github.com/harperreed/healthlife/internal/tracker"
	"golang.org/x/text/language"
)

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "badger"}
	if got := cfg.GetBackend(); got != "badger" {
		t.Errorf("GetBackend() = %q, want %q", got, "badger")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	// GetDataDir with empty DataDir should return storage.DataDir()
	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/health-test"}
	if got := cfg.GetDataDir(); got != "/tmp/health-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/health-test")
	}
}

func TestExpandPathEmpty(t *testing.T) {
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q, want %q", got, "")
	}
}

func TestExpandPathAbsolute(t *testing.T) {
	if got := ExpandPath("/tmp/foo"); got != "/tmp/foo" {
		t.Errorf("ExpandPath(\"/tmp/foo\") = %q, want %q", got, "/tmp/foo")
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~")
	if got != home {
		t.Errorf("ExpandPath(\"~\") = %q, want %q", got, home)
	}
}

func TestExpandPathTildeSlash(t *testing.T) {
	home, _ := os.UserHomeDir()

	got := ExpandPath("~/data/health")
	want := filepath.Join(home, "data/health")
	if got != want {
		t.Errorf("ExpandPath(\"~/data/health\") = %q, want %q", got, want)
	}
}

func TestExpandPathRelative(t *testing.T) {
	if got := ExpandPath("data/health"); got != "data/health" {
		t.Errorf("ExpandPath(\"data/health\") = %q, want %q", got, "data/health")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/health-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "health-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	// Set XDG_CONFIG_HOME to a temp dir with no config file
	tmpDir, err := os.MkdirTemp("", "healthlife-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Should return defaults
	if cfg.Backend != "" {
		t.Errorf("Expected empty Backend, got %q", cfg.Backend)
	}
	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "healthlife-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	// Save config
	cfg := &Config{
		Backend:  "badger",
		DataDir:  "/tmp/health-data",
		Timezone: "Europe/Berlin",
		Locale:   "de-DE",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// Load config
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if loaded.Backend != "badger" {
		t.Errorf("Backend mismatch: got %q, want %q", loaded.Backend, "badger")
	}
	if loaded.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone mismatch: got %q", loaded.Timezone)
	}
	if loaded.Locale != "de-DE" {
		t.Errorf("Locale mismatch: got %q", loaded.Locale)
	}
	if loaded.DataDir != "/tmp/health-data" {
		t.Errorf("DataDir mismatch: got %q, want %q", loaded.DataDir, "/tmp/health-data")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "healthlife-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Point to a non-existent subdirectory
	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	cfg := &Config{Backend: "sqlite"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	// Verify directory was created
	configDir := filepath.Join(tmpDir, "nonexistent", "healthlife")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "healthlife-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	// Write invalid JSON
	configDir := filepath.Join(tmpDir, "healthlife")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600)

	_, err = Load()
	if err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "healthlife-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	originalXDG := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", tmpDir)
	defer os.Setenv("XDG_CONFIG_HOME", originalXDG)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "healthlife", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "healthlife-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := &Config{
		Backend: "sqlite",
		DataDir: tmpDir,
	}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer repo.Close()

	if repo == nil {
		t.Error("Expected non-nil repository")
	}

	// Verify database file was created
	dbPath := filepath.Join(tmpDir, "healthlife.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected healthlife.db to be created")
	}
}

func TestOpenStorageBadger(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "healthlife-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := &Config{
		Backend: "badger",
		DataDir: tmpDir,
	}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for badger failed: %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "badger")); os.IsNotExist(err) {
		t.Error("Expected badger directory to be created")
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{
		Backend: "invalid",
		DataDir: "/tmp",
	}

	_, err := cfg.OpenStorage()
	if err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestConfigJSONSerialization(t *testing.T) {
	cfg := &Config{
		Backend: "sqlite",
		DataDir: "~/health-data",
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if loaded.Backend != cfg.Backend {
		t.Errorf("Backend mismatch: got %q, want %q", loaded.Backend, cfg.Backend)
	}
	if loaded.DataDir != cfg.DataDir {
		t.Errorf("DataDir mismatch: got %q, want %q", loaded.DataDir, cfg.DataDir)
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	cfg := &Config{}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Empty config should result in "{}" since fields have omitempty
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}

func TestOpenStorageDefaultBackend(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "healthlife-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// Empty config should use sqlite backend by default
	cfg := &Config{
		DataDir: tmpDir,
	}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() with default backend failed: %v", err)
	}
	defer repo.Close()

	if repo == nil {
		t.Error("Expected non-nil repository")
	}
}

func TestOpenStorageMemory(t *testing.T) {
	cfg := &Config{Backend: BackendMemory}

	repo, err := cfg.OpenStorage()
	if err != nil {
		t.Fatalf("OpenStorage() for memory failed: %v", err)
	}
	defer repo.Close()

	recs, err := repo.Hydration().Fetch(storage.Query{})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Expected empty store, got %d records", len(recs))
	}
}

func TestOpenStoragePostgresRequiresURL(t *testing.T) {
	t.Setenv("HEALTHLIFE_DATABASE_URL", "")

	cfg := &Config{Backend: BackendPostgres}
	if _, err := cfg.OpenStorage(); err == nil {
		t.Error("Expected error for postgres without a database URL")
	}
}

func TestGetDatabaseURLFallsBackToEnv(t *testing.T) {
	t.Setenv("HEALTHLIFE_DATABASE_URL", "postgres://env/healthlife")

	cfg := &Config{}
	if got := cfg.GetDatabaseURL(); got != "postgres://env/healthlife" {
		t.Errorf("GetDatabaseURL() = %q", got)
	}

	cfg.DatabaseURL = "postgres://config/healthlife"
	if got := cfg.GetDatabaseURL(); got != "postgres://config/healthlife" {
		t.Errorf("GetDatabaseURL() = %q, want configured value", got)
	}
}

func TestCalendarUsesTimezone(t *testing.T) {
	cfg := &Config{Timezone: "America/New_York"}
	cal, err := cfg.Calendar()
	if err != nil {
		t.Fatalf("Calendar() failed: %v", err)
	}
	if got := cal.Location().String(); got != "America/New_York" {
		t.Errorf("Location = %q, want America/New_York", got)
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Calendar(); err == nil {
		t.Error("Expected error for unknown timezone")
	}
}

func TestLocaleTag(t *testing.T) {
	cfg := &Config{}
	tag, err := cfg.LocaleTag()
	if err != nil {
		t.Fatalf("LocaleTag() failed: %v", err)
	}
	if tag != language.English {
		t.Errorf("default locale = %v, want en", tag)
	}

	cfg.Locale = "de-DE"
	tag, err = cfg.LocaleTag()
	if err != nil {
		t.Fatalf("LocaleTag() failed: %v", err)
	}
	if base, _ := tag.Base(); base.String() != "de" {
		t.Errorf("locale base = %v, want de", base)
	}

	cfg.Locale = "!!"
	if _, err := cfg.LocaleTag(); err == nil {
		t.Error("Expected error for malformed locale")
	}
}

func TestHydrationSettingsDefaults(t *testing.T) {
	cfg := &Config{}
	s, err := cfg.HydrationSettings()
	if err != nil {
		t.Fatalf("HydrationSettings() failed: %v", err)
	}
	if s != tracker.DefaultHydrationSettings() {
		t.Errorf("settings = %+v, want defaults", s)
	}
}

func TestHydrationSettingsOverrides(t *testing.T) {
	cfg := &Config{MaxCupsPerDay: 8, DailyGoalCups: 6, CupSizeMl: 250}
	s, err := cfg.HydrationSettings()
	if err != nil {
		t.Fatalf("HydrationSettings() failed: %v", err)
	}
	if s.MaxCupsPerDay != 8 || s.DailyGoalCups != 6 || s.DefaultCupSizeMl != 250 {
		t.Errorf("settings = %+v", s)
	}

	cfg = &Config{CupSizeMl: -5}
	if _, err := cfg.HydrationSettings(); err == nil {
		t.Error("Expected error for negative cup size")
	}
}

func TestRemindersPath(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/healthlife-data"}
	want := filepath.Join("/tmp/healthlife-data", "reminders.json")
	if got := cfg.RemindersPath(); got != want {
		t.Errorf("RemindersPath() = %q, want %q", got, want)
	}
}
