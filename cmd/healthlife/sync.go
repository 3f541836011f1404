// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, unlink, status, now, repair, reset, and wipe operations.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/healthlife/internal/charm"
	"github.com/harperreed/healthlife/internal/storage"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync healthlife data across devices",
	Long: `Sync healthlife data across devices using Charm Cloud.

Sync applies to the charm backend (--backend charm). Your data is E2E
encrypted with your SSH key before upload.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     healthlife sync link

  2. Use the charm backend by default:
     healthlife config set backend charm

  3. Check sync status:
     healthlife sync status

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and record counts
  now         Pull and push changes immediately
  repair      Repair database corruption (checkpoints WAL, removes SHM, vacuums)
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)

Data syncs automatically after each write on the charm backend.`,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		success(cmd, "Device linked to Charm")

		c, err := charm.InitClient()
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("⚠ Initial sync skipped: %v", err))
			return nil
		}
		if err := c.Sync(); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("⚠ Initial sync failed: %v", err))
			return nil
		}
		success(cmd, "Initial sync complete")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local healthlife data.
You can link again later with 'healthlife sync link'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		success(cmd, "Device unlinked from Charm")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		c, err := charm.InitClient()
		if err != nil {
			fmt.Fprintln(out, color.YellowString("Charm client not initialized: %v", err))
			fmt.Fprintln(out, "\nRun 'healthlife sync link' to connect to Charm.")
			return nil
		}

		id, err := c.ID()
		if err != nil {
			fmt.Fprintln(out, color.YellowString("Not linked to Charm"))
			fmt.Fprintln(out, "\nRun 'healthlife sync link' to connect to Charm.")
			return nil
		}

		fmt.Fprintln(out, "Charm ID:", id)
		fmt.Fprintln(out, "Server:  ", charmServer())
		if c.IsReadOnly() {
			fmt.Fprintln(out, color.YellowString("Read-only: another process holds the database lock"))
		}
		fmt.Fprintln(out)

		data, err := storage.GetAllData(storage.NewKVBackend(c))
		if err != nil {
			return fmt.Errorf("failed to count records: %w", err)
		}
		success(cmd, "Connected to Charm")
		fmt.Fprintf(out, "  Hydration days:   %d\n", len(data.Hydration))
		fmt.Fprintf(out, "  Gym days:         %d\n", len(data.Gym))
		fmt.Fprintf(out, "  Measurement days: %d\n", len(data.Measurements))
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync immediately",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to open charm kv: %w", err)
		}
		if c.IsReadOnly() {
			return charm.ErrReadOnly
		}
		if err := c.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		success(cmd, "Synced")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local data",
	Long: `Delete all cloud backups and local data of the charm backend.

This is a DESTRUCTIVE operation. ALL data will be permanently deleted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "This will PERMANENTLY DELETE all cloud backups and local healthlife data.")
		fmt.Fprint(out, "Type 'wipe' to confirm: ")
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.TrimSpace(line) != "wipe" {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		success(cmd, "Data wiped successfully")
		fmt.Fprintf(out, "  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Fprintf(out, "  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption",
	Long: `Repair database corruption by checkpointing WAL, removing SHM files, checking integrity, and vacuuming.

Use this when you encounter database lock errors or corruption.
Run with --force to attempt recovery even if integrity checks fail.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Repairing healthlife database...")
		result, err := kv.Repair(charm.DBName, force)

		if result.WalCheckpointed {
			fmt.Fprintln(out, color.GreenString("  ✓ WAL checkpointed"))
		}
		if result.ShmRemoved {
			fmt.Fprintln(out, color.GreenString("  ✓ SHM file removed"))
		}
		if result.IntegrityOK {
			fmt.Fprintln(out, color.GreenString("  ✓ Integrity check passed"))
		} else {
			fmt.Fprintln(out, color.RedString("  ✗ Integrity check failed"))
		}
		if result.Vacuumed {
			fmt.Fprintln(out, color.GreenString("  ✓ Database vacuumed"))
		}

		if err != nil {
			if !force {
				fmt.Fprintln(out, color.YellowString("\nRun with --force to attempt recovery."))
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		success(cmd, "Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Delete all local charm data and restore from Charm Cloud.

This is a destructive operation. All local data will be lost and restored from cloud.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !confirm(cmd, yes, "This will DELETE all local healthlife data and restore from cloud. Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}

		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		success(cmd, "Local data reset and restored from cloud")
		return nil
	},
}

func runCharm(arg string) error {
	c := exec.Command("charm", arg)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func charmServer() string {
	if host := os.Getenv("CHARM_HOST"); host != "" {
		return host
	}
	return "charm.2389.dev"
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")
	syncResetCmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	rootCmd.AddCommand(syncCmd)
}
