// ABOUTME: CLI commands for hydration tracking.
// ABOUTME: Add and remove cups, set counts and cup size, browse and edit history.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/healthlife/internal/models"
	"github.com/spf13/cobra"
)

var (
	waterDate    string
	waterLimit   int
	waterCups    int
	waterSize    int
	waterConfirm bool
)

var waterCmd = &cobra.Command{
	Use:     "water",
	Aliases: []string{"w"},
	Short:   "Track cups of water",
	Long: `Track how many cups of water you drink each day.

Each day has at most one record. Adding stops at the daily maximum,
removing stops at zero.

EXAMPLES:

  healthlife water                       # Today's progress
  healthlife water add                   # One more cup
  healthlife water remove                # One cup less
  healthlife water set 6 --date 2024-01-05
  healthlife water size 330              # Cup size in ml for today
  healthlife water history -n 7`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDay(waterDate)
		if err != nil {
			return err
		}
		rec, _, err := app.Hydration.ForDay(day)
		if err != nil {
			return fmt.Errorf("failed to load hydration: %w", err)
		}
		printHydration(cmd, day, rec)
		return nil
	},
}

var waterAddCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"+"},
	Short:   "Drink one more cup",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDay(waterDate)
		if err != nil {
			return err
		}
		rec, err := app.Hydration.AddCup(day)
		if err != nil {
			return fmt.Errorf("failed to add cup: %w", err)
		}
		printHydration(cmd, day, rec)
		return nil
	},
}

var waterRemoveCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"sub"},
	Short:   "Remove one cup",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDay(waterDate)
		if err != nil {
			return err
		}
		rec, err := app.Hydration.RemoveCup(day)
		if err != nil {
			return fmt.Errorf("failed to remove cup: %w", err)
		}
		printHydration(cmd, day, rec)
		return nil
	},
}

var waterSetCmd = &cobra.Command{
	Use:   "set <cups>",
	Short: "Set the number of cups for a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cups, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid cup count: %s", args[0])
		}
		day, err := resolveDay(waterDate)
		if err != nil {
			return err
		}
		rec, err := app.Hydration.SetCups(day, cups)
		if err != nil {
			return fmt.Errorf("failed to set cups: %w", err)
		}
		printHydration(cmd, day, rec)
		return nil
	},
}

var waterSizeCmd = &cobra.Command{
	Use:   "size <ml>",
	Short: "Set the cup size in milliliters for a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ml, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid cup size: %s", args[0])
		}
		day, err := resolveDay(waterDate)
		if err != nil {
			return err
		}
		rec, err := app.Hydration.SetCupSize(day, ml)
		if err != nil {
			return fmt.Errorf("failed to set cup size: %w", err)
		}
		printHydration(cmd, day, rec)
		return nil
	},
}

var waterHistoryCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls", "list"},
	Short:   "List past days, latest first",
	Long: `List recorded days, latest first.

Each line shows: ID  DATE  CUPS  VOLUME
The ID is an 8-character prefix you can pass to edit and delete.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recs, err := app.Hydration.History()
		if err != nil {
			return fmt.Errorf("failed to list hydration: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No water logged yet.")
			return nil
		}
		goal := app.Hydration.Settings().DailyGoalCups
		for _, r := range firstN(recs, waterLimit) {
			fmt.Fprintf(out, "%s %s %s %d ml\n",
				faint.Sprint(models.ShortID(r.ID)),
				formatDay(r.Date),
				padRight(fmt.Sprintf("%d/%d cups", r.CupsDrunk, goal), 12),
				r.TotalMl())
		}
		return nil
	},
}

var waterEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a past day by ID or ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := app.Hydration.Find(args[0])
		if err != nil {
			return fmt.Errorf("record not found: %w", err)
		}
		cups, size := rec.CupsDrunk, rec.CupSizeMl
		if cmd.Flags().Changed("cups") {
			cups = waterCups
		}
		if cmd.Flags().Changed("size") {
			size = waterSize
		}
		if err := app.Hydration.Edit(rec, cups, size); err != nil {
			return fmt.Errorf("failed to edit record: %w", err)
		}
		success(cmd, "Updated %s", formatDay(rec.Date))
		printHydration(cmd, rec.Date, rec)
		return nil
	},
}

var waterDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del"},
	Short:   "Delete a day by ID or ID prefix",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := app.Hydration.Find(args[0])
		if err != nil {
			return fmt.Errorf("record not found: %w", err)
		}
		if err := app.Hydration.Delete(rec); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		removed(cmd, "Deleted water for %s", formatDay(rec.Date))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %d cups\n", faint.Sprint(models.ShortID(rec.ID)), rec.CupsDrunk)
		return nil
	},
}

var waterClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every hydration record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, waterConfirm, "Delete ALL water history?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}
		n, err := app.Hydration.DeleteAll()
		if err != nil {
			return fmt.Errorf("cleared %d records before failing: %w", n, err)
		}
		removed(cmd, "Deleted %d hydration records", n)
		return nil
	},
}

func printHydration(cmd *cobra.Command, day time.Time, rec *models.HydrationRecord) {
	settings := app.Hydration.Settings()
	cups, size := 0, settings.DefaultCupSizeMl
	if rec != nil {
		cups, size = rec.CupsDrunk, rec.CupSizeMl
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s %d/%d cups  %d ml (%d ml cups)\n",
		formatDay(day),
		progressBar(cups, settings.DailyGoalCups),
		cups, settings.DailyGoalCups, cups*size, size)
	if app.Hydration.GoalMet(rec) {
		success(cmd, "Daily goal reached")
	}
}

func init() {
	addDateFlag(waterCmd, &waterDate)
	waterHistoryCmd.Flags().IntVarP(&waterLimit, "limit", "n", 30, "max number of days")
	waterEditCmd.Flags().IntVar(&waterCups, "cups", 0, "cups drunk")
	waterEditCmd.Flags().IntVar(&waterSize, "size", 0, "cup size in ml")
	waterClearCmd.Flags().BoolVarP(&waterConfirm, "yes", "y", false, "skip confirmation")

	waterCmd.AddCommand(waterAddCmd)
	waterCmd.AddCommand(waterRemoveCmd)
	waterCmd.AddCommand(waterSetCmd)
	waterCmd.AddCommand(waterSizeCmd)
	waterCmd.AddCommand(waterHistoryCmd)
	waterCmd.AddCommand(waterEditCmd)
	waterCmd.AddCommand(waterDeleteCmd)
	waterCmd.AddCommand(waterClearCmd)
	rootCmd.AddCommand(waterCmd)
}
