// ABOUTME: Shared helpers for healthlife commands.
// ABOUTME: Day resolution, confirmation prompts and column formatting.
package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var faint = color.New(color.Faint)

// addDateFlag registers --date on cmd and its subcommands, bound to target.
func addDateFlag(cmd *cobra.Command, target *string) {
	cmd.PersistentFlags().StringVarP(target, "date", "d", "", "day to work on (YYYY-MM-DD, default today)")
}

// resolveDay turns a --date value into a day; empty means now.
func resolveDay(date string) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return app.Calendar.Now(), nil
	}
	return app.Calendar.ParseDay(date)
}

func formatDay(t time.Time) string {
	return app.Calendar.FormatDay(t)
}

// confirm asks a yes/no question on cmd's input unless skip is set.
func confirm(cmd *cobra.Command, skip bool, prompt string) bool {
	if skip {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// firstN returns at most n leading elements; n <= 0 means all.
func firstN[T any](s []T, n int) []T {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[:n]
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// progressBar renders filled/total as a fixed-width bar.
func progressBar(filled, total int) string {
	if total <= 0 {
		return ""
	}
	filled = min(max(filled, 0), total)
	return strings.Repeat("●", filled) + strings.Repeat("○", total-filled)
}

func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ "+format, args...))
}

func removed(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ "+format, args...))
}
