// ABOUTME: CLI command resetting the uploaded flags.
// ABOUTME: Administrative escape hatch; the next upload re-appends everything.
package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Mark all uploaded records as unsynced again",
	Long: `Mark every uploaded record as unsynced.

The next upload will append all of them to the spreadsheet again, in
addition to whatever is already there. Useful after wiping or replacing
the destination workbook.

Example:
  rowlog reset`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := store.ResetSynced(cmd.Context())
		if err != nil {
			return err
		}
		if n == 0 {
			color.Yellow("No uploaded records to reset.")
			return nil
		}
		color.Green("✓ Reset uploaded status on %d records", n)
		return nil
	},
}
