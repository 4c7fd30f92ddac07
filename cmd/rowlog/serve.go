// ABOUTME: CLI command running the Telegram bot in long-polling mode.
// ABOUTME: Builds the full stack: storage, sheets sink, sync engine, session manager.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/harperreed/rowlog/internal/bot"
	"github.com/harperreed/rowlog/internal/session"
	"github.com/harperreed/rowlog/internal/sheets"
	"github.com/harperreed/rowlog/internal/syncer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot (long polling)",
	Long: `Run the Telegram bot in long-polling mode.

Requires TELEGRAM_TOKEN, SPREADSHEET_ID, and GOOGLE_CREDENTIALS_FILE
(or the equivalent config file entries). Stops cleanly on SIGINT/SIGTERM;
in-progress chat sessions are volatile and do not survive a restart.

Example:
  rowlog serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		b, api, err := buildBot(cmd.Context(), logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := b.Run(ctx, api); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("shut down")
		return nil
	},
}

// newLogger builds the logger used by the long-running bot modes.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rowlog",
	})
}

// buildBot assembles the bot with its session manager and sync engine.
func buildBot(ctx context.Context, logger *log.Logger) (*bot.Bot, *tgbotapi.BotAPI, error) {
	if cfg.TelegramToken == "" {
		return nil, nil, fmt.Errorf("telegram token not configured (set TELEGRAM_TOKEN)")
	}
	if cfg.SpreadsheetID == "" {
		return nil, nil, fmt.Errorf("spreadsheet id not configured (set SPREADSHEET_ID)")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to telegram: %w", err)
	}

	sink, err := sheets.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}

	engine := syncer.NewEngine(store, sink, cfg.SpreadsheetID, logger)
	manager := session.NewManager(store)

	return bot.New(api, manager, engine, store, logger), api, nil
}
