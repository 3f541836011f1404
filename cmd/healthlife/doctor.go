// ABOUTME: CLI command that scans for days holding more than one record.
// ABOUTME: With --fix it keeps the most recent record of each day and deletes the rest.
package main

import (
	"fmt"

	"github.com/harperreed/healthlife/internal/daybucket"
	"github.com/harperreed/healthlife/internal/models"
	"github.com/spf13/cobra"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Find days with duplicate records",
	Long: `Scan every tracker for calendar days that hold more than one record.

Lookups always use the most recent record of a day. Duplicates appear
when two processes write the same day at once or after importing
overlapping exports.

Use --fix to delete every record except the most recent one per day.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hydration, err := app.Hydration.Duplicates()
		if err != nil {
			return err
		}
		gym, err := app.Gym.Duplicates()
		if err != nil {
			return err
		}
		measurements, err := app.Measurements.Duplicates()
		if err != nil {
			return err
		}

		total := 0
		n, err := reportDuplicates(cmd, "hydration", hydration, app.Hydration.Delete)
		if err != nil {
			return err
		}
		total += n
		n, err = reportDuplicates(cmd, "gym", gym, app.Gym.Delete)
		if err != nil {
			return err
		}
		total += n
		n, err = reportDuplicates(cmd, "measurements", measurements, app.Measurements.Delete)
		if err != nil {
			return err
		}
		total += n

		if total == 0 {
			success(cmd, "No duplicate days")
		}
		return nil
	},
}

// reportDuplicates prints groups and, with --fix, deletes all but the first record of each.
func reportDuplicates[T models.Record](cmd *cobra.Command, domain string, groups []daybucket.DayGroup[T], del func(T) error) (int, error) {
	out := cmd.OutOrStdout()
	for _, g := range groups {
		fmt.Fprintf(out, "%s %s: %d records\n", padRight(domain, 12), formatDay(g.Day), len(g.Records))
		for i, rec := range g.Records {
			mark := "keep"
			if i > 0 {
				mark = "extra"
			}
			fmt.Fprintf(out, "  %s %s\n", faint.Sprint(models.ShortID(rec.RecordID())), mark)
		}
		if !doctorFix {
			continue
		}
		for _, rec := range g.Records[1:] {
			if err := del(rec); err != nil {
				return 0, fmt.Errorf("failed to delete %s: %w", rec.RecordID(), err)
			}
		}
		removed(cmd, "Removed %d extra %s record(s) on %s", len(g.Records)-1, domain, formatDay(g.Day))
	}
	return len(groups), nil
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "delete all but the most recent record of each day")
	rootCmd.AddCommand(doctorCmd)
}
