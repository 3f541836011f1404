// ABOUTME: CLI commands for gym tracking.
// ABOUTME: Toggle trained muscle groups per day and manage gym history.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthlife/internal/models"
	"github.com/harperreed/healthlife/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	gymDate    string
	gymLimit   int
	gymConfirm bool
)

func muscleNames() string {
	names := make([]string, len(models.AllMuscles))
	for i, m := range models.AllMuscles {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

var gymCmd = &cobra.Command{
	Use:     "gym",
	Aliases: []string{"g"},
	Short:   "Track trained muscle groups",
	Long: `Track which muscle groups you trained each day.

MUSCLE GROUPS:

  ` + muscleNames() + `

EXAMPLES:

  healthlife gym                         # Today's muscle groups
  healthlife gym toggle chest triceps    # Flip chest and triceps for today
  healthlife gym set legs calves --date 2024-01-05
  healthlife gym set --date 2024-01-05   # Clear a day
  healthlife gym history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDay(gymDate)
		if err != nil {
			return err
		}
		rec, _, err := app.Gym.ForDay(day)
		if err != nil {
			return fmt.Errorf("failed to load gym day: %w", err)
		}
		printGym(cmd, day, rec)
		return nil
	},
}

var gymToggleCmd = &cobra.Command{
	Use:     "toggle <muscle>...",
	Aliases: []string{"t"},
	Short:   "Toggle one or more muscle groups",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		muscles, err := tracker.ParseMuscles(args)
		if err != nil {
			return err
		}
		day, err := resolveDay(gymDate)
		if err != nil {
			return err
		}
		var rec *models.GymRecord
		for _, m := range muscles {
			if rec, err = app.Gym.Toggle(day, m); err != nil {
				return fmt.Errorf("failed to toggle %s: %w", m, err)
			}
		}
		printGym(cmd, day, rec)
		return nil
	},
}

var gymSetCmd = &cobra.Command{
	Use:   "set [muscle...]",
	Short: "Replace the muscle groups for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		muscles, err := tracker.ParseMuscles(args)
		if err != nil {
			return err
		}
		day, err := resolveDay(gymDate)
		if err != nil {
			return err
		}
		rec, err := app.Gym.Set(day, muscles)
		if err != nil {
			return fmt.Errorf("failed to set muscles: %w", err)
		}
		printGym(cmd, day, rec)
		return nil
	},
}

var gymHistoryCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls", "list"},
	Short:   "List past gym days, latest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recs, err := app.Gym.History()
		if err != nil {
			return fmt.Errorf("failed to list gym days: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No gym days logged yet.")
			return nil
		}
		for _, r := range firstN(recs, gymLimit) {
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(models.ShortID(r.ID)),
				formatDay(r.Date),
				muscleList(r.Muscles))
		}
		return nil
	},
}

var gymEditCmd = &cobra.Command{
	Use:   "edit <id> [muscle...]",
	Short: "Replace the muscle groups of a past day by ID or ID prefix",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		muscles, err := tracker.ParseMuscles(args[1:])
		if err != nil {
			return err
		}
		rec, err := app.Gym.Find(args[0])
		if err != nil {
			return fmt.Errorf("record not found: %w", err)
		}
		if err := app.Gym.Edit(rec, muscles); err != nil {
			return fmt.Errorf("failed to edit record: %w", err)
		}
		success(cmd, "Updated %s", formatDay(rec.Date))
		printGym(cmd, rec.Date, rec)
		return nil
	},
}

var gymDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a gym day by ID or ID prefix",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := app.Gym.Find(args[0])
		if err != nil {
			return fmt.Errorf("record not found: %w", err)
		}
		if err := app.Gym.Delete(rec); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		removed(cmd, "Deleted gym day %s", formatDay(rec.Date))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", faint.Sprint(models.ShortID(rec.ID)), muscleList(rec.Muscles))
		return nil
	},
}

var gymClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every gym record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, gymConfirm, "Delete ALL gym history?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}
		n, err := app.Gym.DeleteAll()
		if err != nil {
			return fmt.Errorf("cleared %d records before failing: %w", n, err)
		}
		removed(cmd, "Deleted %d gym records", n)
		return nil
	},
}

func muscleList(muscles []models.Muscle) string {
	if len(muscles) == 0 {
		return faint.Sprint("rest day")
	}
	labels := make([]string, len(muscles))
	for i, m := range muscles {
		labels[i] = m.Label()
	}
	return strings.Join(labels, ", ")
}

func printGym(cmd *cobra.Command, day time.Time, rec *models.GymRecord) {
	var muscles []models.Muscle
	if rec != nil {
		muscles = rec.Muscles
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", formatDay(day), muscleList(muscles))
}

func init() {
	addDateFlag(gymCmd, &gymDate)
	gymHistoryCmd.Flags().IntVarP(&gymLimit, "limit", "n", 30, "max number of days")
	gymClearCmd.Flags().BoolVarP(&gymConfirm, "yes", "y", false, "skip confirmation")

	gymCmd.AddCommand(gymToggleCmd)
	gymCmd.AddCommand(gymSetCmd)
	gymCmd.AddCommand(gymHistoryCmd)
	gymCmd.AddCommand(gymEditCmd)
	gymCmd.AddCommand(gymDeleteCmd)
	gymCmd.AddCommand(gymClearCmd)
	rootCmd.AddCommand(gymCmd)
}
