// ABOUTME: CLI command running the Telegram bot behind an HTTP webhook.
// ABOUTME: Registers the webhook with Telegram and serves with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/rowlog/internal/bot"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Run the Telegram bot behind an HTTP webhook",
	Long: `Run the Telegram bot in webhook mode.

The bot serves Telegram callbacks on a random secret path under
ROWLOG_ADDR (default :8080). When WEBHOOK_URL is set, the webhook is
registered with Telegram on startup; otherwise register it yourself
against the logged path.

Example:
  WEBHOOK_URL=https://rowlog.example.com rowlog webhook`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		b, api, err := buildBot(cmd.Context(), logger)
		if err != nil {
			return err
		}

		secret := bot.NewSecret()
		if cfg.WebhookURL != "" {
			if err := bot.RegisterWebhook(api, cfg.WebhookURL, secret); err != nil {
				return err
			}
			logger.Info("webhook registered", "url", cfg.WebhookURL)
		} else {
			logger.Warn("WEBHOOK_URL not set; register the webhook manually", "path", "/"+secret)
		}

		srv := &http.Server{
			Addr:    cfg.GetListenAddr(),
			Handler: b.WebhookHandler(secret),
		}

		go func() {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server failed", "error", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}
