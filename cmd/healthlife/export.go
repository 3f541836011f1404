// ABOUTME: CLI commands for exporting and importing healthlife data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats and JSON import.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/harperreed/healthlife/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export healthlife data",
	Long: `Export every hydration, gym and measurement record.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, dates as YYYY-MM-DD)
  markdown   Markdown tables (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include days since this date (markdown only)

EXAMPLES:

  healthlife export json -o backup.json
  healthlife export yaml
  healthlife export markdown --since 2024-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := app.Calendar.Location()

		var (
			data []byte
			err  error
		)
		switch args[0] {
		case "json":
			data, err = storage.ExportJSON(backend)
		case "yaml":
			data, err = storage.ExportYAML(backend, loc)
		case "markdown", "md":
			var since *time.Time
			if exportSince != "" {
				t, perr := app.Calendar.ParseDay(exportSince)
				if perr != nil {
					return perr
				}
				since = &t
			}
			var md string
			md, err = storage.ExportMarkdown(backend, since, loc)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			success(cmd, "Exported to %s", exportOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import healthlife data from JSON",
	Long: `Import records from a JSON file written by 'healthlife export json'.

Each record becomes the record of its calendar day. Dates are moved to
local midnight and cup counts are clamped to the daily maximum. The import
is rejected, with nothing written, when a record has an invalid cup size,
an unknown muscle group or a negative measurement, or when one of its days
already holds a record.

EXAMPLES:

  healthlife import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		doc, err := storage.ParseExportJSON(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		sum, err := app.Import(doc)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		success(cmd, "Imported %d records from %s (%d hydration, %d gym, %d measurements)",
			sum.Total(), args[0], sum.Hydration, sum.Gym, sum.Measurements)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include days since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
