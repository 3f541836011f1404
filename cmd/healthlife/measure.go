// ABOUTME: CLI commands for body measurements.
// ABOUTME: Saves all seven values at once and schedules the follow-up reminder.
package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/healthlife/internal/models"
	"github.com/harperreed/healthlife/internal/tracker"
	"github.com/harperreed/healthlife/internal/validate"
	"github.com/spf13/cobra"
)

var (
	measureDate    string
	measureLimit   int
	measureConfirm bool
	measureForm    tracker.MeasurementForm
)

func flagName(f models.MeasurementField) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

var measureCmd = &cobra.Command{
	Use:     "measure",
	Aliases: []string{"m", "body"},
	Short:   "Track body measurements",
	Long: `Track chest, belly, arm and leg circumferences (cm) and weight (kg).

All seven values are required when saving. Decimals follow --locale,
so "82,5" works with --locale de-DE and "82.5" is accepted everywhere.
Saving schedules a reminder to measure again in 30 days.

EXAMPLES:

  healthlife measure                     # Today's measurements
  healthlife measure save --chest 100 --belly 85 --left-arm 35 \
      --right-arm 35 --left-leg 58 --right-leg 58 --weight 82.5
  healthlife measure edit abc12345 --weight 81.9
  healthlife measure history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDay(measureDate)
		if err != nil {
			return err
		}
		rec, _, err := app.Measurements.ForDay(day)
		if err != nil {
			return fmt.Errorf("failed to load measurements: %w", err)
		}
		printMeasurement(cmd, day, rec)
		return nil
	},
}

var measureSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save all measurements for a day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDay(measureDate)
		if err != nil {
			return err
		}
		rec, err := app.Measurements.Save(day, measureForm)
		if err != nil {
			return describeValidation(err)
		}
		success(cmd, "Saved measurements for %s", formatDay(day))
		printMeasurement(cmd, day, rec)
		return nil
	},
}

var measureHistoryCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls", "list"},
	Short:   "List past measurements, latest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recs, err := app.Measurements.History()
		if err != nil {
			return fmt.Errorf("failed to list measurements: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No measurements logged yet.")
			return nil
		}
		tag := app.Measurements.Locale()
		for _, r := range firstN(recs, measureLimit) {
			weight := "-"
			if r.Weight != nil {
				weight = validate.FormatDecimal(*r.Weight, tag) + " kg"
			}
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(models.ShortID(r.ID)),
				formatDay(r.Date),
				weight)
		}
		return nil
	},
}

var measureEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change measurements of a past day by ID or ID prefix",
	Long: `Change measurements of a past day. Values not given on the command
line keep their stored value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := app.Measurements.Find(args[0])
		if err != nil {
			return fmt.Errorf("record not found: %w", err)
		}
		form := tracker.FormFromRecord(rec, app.Measurements.Locale())
		for _, f := range models.AllMeasurementFields {
			if cmd.Flags().Changed(flagName(f)) {
				form.Set(f, measureForm.Get(f))
			}
		}
		if err := app.Measurements.Edit(rec, form); err != nil {
			return describeValidation(err)
		}
		success(cmd, "Updated measurements for %s", formatDay(rec.Date))
		printMeasurement(cmd, rec.Date, rec)
		return nil
	},
}

var measureDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a measurement day by ID or ID prefix",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := app.Measurements.Find(args[0])
		if err != nil {
			return fmt.Errorf("record not found: %w", err)
		}
		if err := app.Measurements.Delete(rec); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		removed(cmd, "Deleted measurements for %s", formatDay(rec.Date))
		return nil
	},
}

var measureClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every measurement record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, measureConfirm, "Delete ALL measurement history?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
			return nil
		}
		n, err := app.Measurements.DeleteAll()
		if err != nil {
			return fmt.Errorf("cleared %d records before failing: %w", n, err)
		}
		removed(cmd, "Deleted %d measurement records", n)
		return nil
	},
}

// describeValidation lists every rejected field on its own line.
func describeValidation(err error) error {
	var errs validate.Errors
	if !errors.As(err, &errs) {
		return fmt.Errorf("failed to save measurements: %w", err)
	}
	lines := make([]string, 0, len(errs))
	for _, fe := range errs {
		label := fe.Field
		if f, perr := models.ParseMeasurementField(fe.Field); perr == nil {
			label = f.Label()
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", label, fe.Reason))
	}
	return fmt.Errorf("%w:\n%s", validate.ErrValidation, strings.Join(lines, "\n"))
}

func printMeasurement(cmd *cobra.Command, day time.Time, rec *models.BodyMeasurementRecord) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatDay(day))
	if rec == nil {
		fmt.Fprintln(out, faint.Sprint("  No measurements"))
		return
	}
	for _, line := range strings.Split(app.Measurements.Summary(rec), "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
}

func init() {
	addDateFlag(measureCmd, &measureDate)
	for _, c := range []*cobra.Command{measureSaveCmd, measureEditCmd} {
		for _, f := range models.AllMeasurementFields {
			usage := fmt.Sprintf("%s in %s", strings.ToLower(f.Label()), models.MeasurementUnits[f])
			c.Flags().StringVar(measureFormField(f), flagName(f), "", usage)
		}
	}
	measureHistoryCmd.Flags().IntVarP(&measureLimit, "limit", "n", 30, "max number of days")
	measureClearCmd.Flags().BoolVarP(&measureConfirm, "yes", "y", false, "skip confirmation")

	measureCmd.AddCommand(measureSaveCmd)
	measureCmd.AddCommand(measureHistoryCmd)
	measureCmd.AddCommand(measureEditCmd)
	measureCmd.AddCommand(measureDeleteCmd)
	measureCmd.AddCommand(measureClearCmd)
	rootCmd.AddCommand(measureCmd)
}

func measureFormField(f models.MeasurementField) *string {
	switch f {
	case models.FieldChest:
		return &measureForm.Chest
	case models.FieldBelly:
		return &measureForm.Belly
	case models.FieldLeftArm:
		return &measureForm.LeftArm
	case models.FieldRightArm:
		return &measureForm.RightArm
	case models.FieldLeftLeg:
		return &measureForm.LeftLeg
	case models.FieldRightLeg:
		return &measureForm.RightLeg
	default:
		return &measureForm.Weight
	}
}
