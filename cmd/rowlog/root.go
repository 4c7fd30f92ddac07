// ABOUTME: Root Cobra command for rowlog CLI.
// ABOUTME: Loads configuration and manages storage lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/rowlog/internal/config"
	"github.com/harperreed/rowlog/internal/storage"
)

var (
	cfg   *config.Config
	store *storage.DB

	dbPathFlag string
)

var rootCmd = &cobra.Command{
	Use:   "rowlog",
	Short: "Rowing training log with spreadsheet upload",
	Long: `Rowlog records rowing training sessions through a Telegram bot and
uploads them to Google Sheets, one tab per calendar month.

HOW A SESSION WORKS (in the chat):

  /start                          Begin a session; the bot asks for a date
  25/12/2024                      Record the training date
  1000, 4:00, 10, 260, 72, down   Add an interval (remark optional)
  /close                          Save all intervals to the local database
  /upload                         Push everything unsynced to the spreadsheet

OTHER CHAT COMMANDS:

  /reset_upload   Mark all uploaded records as unsynced again
  /reorder        Re-read records in chronological order

RUNNING THE BOT:

  $ rowlog serve      # Long-polling mode
  $ rowlog webhook    # Webhook mode (needs a public URL)

FROM THE TERMINAL:

  $ rowlog upload     # Run one sync pass without the bot
  $ rowlog list       # Show recorded sessions
  $ rowlog export json > backup.json

CONFIGURATION:

  Config lives at ~/.config/rowlog/config.json. Environment variables
  (also read from a .env file) override it: TELEGRAM_TOKEN,
  SPREADSHEET_ID, GOOGLE_CREDENTIALS_FILE, ROWLOG_DATA_DIR, ROWLOG_ADDR,
  WEBHOOK_URL.

DATA STORAGE:

  Records are stored in SQLite at ~/.local/share/rowlog/rowlog.db.
  Uploaded rows are flagged, never deleted; /upload only ever appends.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't touch storage
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		dbPath := cfg.DBPath()
		if dbPathFlag != "" {
			dbPath = dbPathFlag
		}
		store, err = storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			return store.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database file path (default: XDG data dir)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webhookCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
}
