// ABOUTME: CLI commands for pending reminders.
// ABOUTME: Lists, checks and cancels reminders scheduled by measurement saves.
package main

import (
	"fmt"
	"time"

	"github.com/harperreed/healthlife/internal/notify"
	"github.com/spf13/cobra"
)

var remindersCmd = &cobra.Command{
	Use:     "reminders",
	Aliases: []string{"remind"},
	Short:   "Show pending reminders",
	Long: `Show reminders scheduled by healthlife.

Saving body measurements schedules a reminder to measure again in 30
days. Only one measurement reminder is pending at a time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pending, err := scheduler.Pending()
		if err != nil {
			return fmt.Errorf("failed to read reminders: %w", err)
		}
		printReminders(cmd, pending, "No pending reminders.")
		return nil
	},
}

var remindersDueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show reminders whose time has come",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		due, err := scheduler.Due(app.Calendar.Now())
		if err != nil {
			return fmt.Errorf("failed to read reminders: %w", err)
		}
		printReminders(cmd, due, "Nothing due.")
		return nil
	},
}

var remindersCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a pending reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := scheduler.Cancel(args[0]); err != nil {
			return fmt.Errorf("failed to cancel reminder: %w", err)
		}
		removed(cmd, "Canceled %s", args[0])
		return nil
	},
}

func printReminders(cmd *cobra.Command, reminders []notify.Reminder, empty string) {
	out := cmd.OutOrStdout()
	if len(reminders) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	loc := app.Calendar.Location()
	for _, r := range reminders {
		fmt.Fprintf(out, "%s %s\n  %s\n",
			faint.Sprint(r.FireAt.In(loc).Format(time.DateTime)),
			r.Title,
			r.Body)
	}
}

func init() {
	remindersCmd.AddCommand(remindersDueCmd)
	remindersCmd.AddCommand(remindersCancelCmd)
	rootCmd.AddCommand(remindersCmd)
}
