// ABOUTME: CLI command running one sync pass from the terminal.
// ABOUTME: Prints a colored report of appended partitions.
package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/rowlog/internal/sheets"
	"github.com/harperreed/rowlog/internal/syncer"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload unsynced records to the spreadsheet",
	Long: `Upload all unsynced records to the configured Google Sheets workbook.

Records are grouped into one tab per calendar month (MM/YYYY); missing
tabs are created. Each session block is appended after the existing
content with a blank spacer row and a header. Records are marked as
uploaded only after every tab's append succeeded, so a failed run can
simply be retried.

Example:
  rowlog upload`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet id not configured (set SPREADSHEET_ID)")
		}

		sink, err := sheets.NewClient(cmd.Context(), cfg.CredentialsFile)
		if err != nil {
			return err
		}

		engine := syncer.NewEngine(store, sink, cfg.SpreadsheetID, newLogger())
		report, err := engine.Sync(cmd.Context())
		if errors.Is(err, syncer.ErrNothingToSync) {
			color.Yellow("No new data to upload.")
			return nil
		}
		if err != nil {
			return err
		}

		color.Green("✓ Uploaded %d records", report.Records)
		for _, p := range report.Partitions {
			if slices.Contains(report.Created, p) {
				fmt.Printf("  %s (new sheet)\n", p)
			} else {
				fmt.Printf("  %s\n", p)
			}
		}
		return nil
	},
}
