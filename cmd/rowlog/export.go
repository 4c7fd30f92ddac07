// ABOUTME: CLI command exporting training data.
// ABOUTME: Supports JSON and CSV export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export training data",
	Long: `Export training data in various formats.

FORMATS:

  json   Full JSON export (suitable for backup)
  csv    CSV with a header row (for spreadsheets)

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  rowlog export json                 # Export all data as JSON
  rowlog export json -o backup.json  # Save to file
  rowlog export csv                  # Export as CSV`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "csv"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error

		switch args[0] {
		case "json":
			data, err = store.ExportJSON(cmd.Context())
		case "csv":
			data, err = store.ExportCSV(cmd.Context())
		default:
			return fmt.Errorf("unknown format: %q (use json or csv)", args[0])
		}
		if err != nil {
			return err
		}

		if exportOutput == "" {
			_, err = os.Stdout.Write(data)
			return err
		}

		if err := os.WriteFile(exportOutput, data, 0600); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		color.Green("✓ Exported to %s", exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}
