// ABOUTME: CLI command listing recorded training data.
// ABOUTME: Prints records chronologically with their upload status.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listUnsyncedOnly bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded training data",
	Long: `List training records in chronological order.

OPTIONS:

  --unsynced   Only show records not yet uploaded

Example:
  rowlog list
  rowlog list --unsynced`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := store.ListRecords(cmd.Context())
		if err != nil {
			return err
		}

		if listUnsyncedOnly {
			filtered := records[:0]
			for _, r := range records {
				if !r.Uploaded {
					filtered = append(filtered, r)
				}
			}
			records = filtered
		}

		if len(records) == 0 {
			color.Yellow("No records found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		bold := color.New(color.Bold)
		_, _ = bold.Fprintln(w, "DATE\tDISTANCE\tTIME\tPAIRS\tSTROKES\tRATE\tREMARKS\tUPLOADED")
		for _, r := range records {
			uploaded := ""
			if r.Uploaded {
				uploaded = "✓"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
				r.Date, r.Distance, r.Time, r.Pairs, r.StrokeCount, r.StrokeRate, r.Remarks, uploaded)
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().BoolVar(&listUnsyncedOnly, "unsynced", false, "Only show records not yet uploaded")
}
