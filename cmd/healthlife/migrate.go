// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Moves every record from the configured backend to another one.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/healthlife/internal/config"
	"github.com/harperreed/healthlife/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo      string
	migrateDataDir string
	migrateDBURL   string
	migrateForce   bool
	migrateDryRun  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all data to another storage backend",
	Long: `Copy every hydration, gym, measurement and account record from the
current backend to another one. Records keep their IDs and dates.

The destination must be empty unless --force is given.

EXAMPLES:

  healthlife migrate --to badger --dry-run
  healthlife migrate --to postgres --to-database-url postgres://localhost/healthlife
  healthlife --backend badger migrate --to sqlite --to-data-dir ~/backup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo == "" {
			return fmt.Errorf("--to is required (one of %v)", config.Backends)
		}

		dst := *cfg
		dst.Backend = migrateTo
		if migrateDataDir != "" {
			dst.DataDir = migrateDataDir
		}
		if migrateDBURL != "" {
			dst.DatabaseURL = migrateDBURL
		}
		if sameStore(cfg, &dst) {
			return fmt.Errorf("source and destination are the same %s store", dst.GetBackend())
		}

		out := cmd.OutOrStdout()
		if migrateDryRun {
			data, err := storage.GetAllData(backend)
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			fmt.Fprintf(out, "Would copy from %s to %s:\n", cfg.GetBackend(), dst.GetBackend())
			fmt.Fprintf(out, "  Hydration days:   %d\n", len(data.Hydration))
			fmt.Fprintf(out, "  Gym days:         %d\n", len(data.Gym))
			fmt.Fprintf(out, "  Measurement days: %d\n", len(data.Measurements))
			return nil
		}

		if !migrateForce {
			occupied, err := destinationOccupied(&dst)
			if err != nil {
				return err
			}
			if occupied {
				return fmt.Errorf("destination %s already holds data; use --force to copy anyway", dst.GetBackend())
			}
		}

		target, err := dst.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer target.Close()

		summary, err := storage.MigrateData(backend, target)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		success(cmd, "Migrated %s → %s", cfg.GetBackend(), dst.GetBackend())
		fmt.Fprintf(out, "  Hydration days:   %d\n", summary.Hydration)
		fmt.Fprintf(out, "  Gym days:         %d\n", summary.Gym)
		fmt.Fprintf(out, "  Measurement days: %d\n", summary.Measurements)
		fmt.Fprintf(out, "  Accounts:         %d\n", summary.Credentials)
		return nil
	},
}

func sameStore(a, b *config.Config) bool {
	if a.GetBackend() != b.GetBackend() {
		return false
	}
	switch a.GetBackend() {
	case config.BackendPostgres:
		return a.GetDatabaseURL() == b.GetDatabaseURL()
	case config.BackendMemory:
		return false
	case config.BackendCharm:
		return true
	default:
		return filepath.Clean(a.GetDataDir()) == filepath.Clean(b.GetDataDir())
	}
}

// destinationOccupied reports whether a file-based destination already has data.
func destinationOccupied(dst *config.Config) (bool, error) {
	switch dst.GetBackend() {
	case config.BackendSQLite:
		_, err := os.Stat(filepath.Join(dst.GetDataDir(), "healthlife.db"))
		if os.IsNotExist(err) {
			return false, nil
		}
		return err == nil, err
	case config.BackendBadger:
		return storage.IsDirNonEmpty(filepath.Join(dst.GetDataDir(), "badger"))
	}
	return false, nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend")
	migrateCmd.Flags().StringVar(&migrateDataDir, "to-data-dir", "", "destination data directory")
	migrateCmd.Flags().StringVar(&migrateDBURL, "to-database-url", "", "destination postgres URL")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "copy even if the destination has data")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "show what would be copied")
	rootCmd.AddCommand(migrateCmd)
}
