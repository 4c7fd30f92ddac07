// ABOUTME: Webhook front end: HTTP handler decoding Telegram update callbacks.
// ABOUTME: Serves a secret path so only Telegram's callbacks reach the bot.
package bot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// NewSecret returns a random path segment for the webhook route.
func NewSecret() string {
	return uuid.NewString()
}

// WebhookHandler returns an http.Handler accepting Telegram callbacks at
// POST /<secret>. Anything else is a 404, so the token in the path is the
// only thing guarding the endpoint - keep it out of logs.
func (b *Bot) WebhookHandler(secret string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /"+secret, func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			b.logger.Error("decode update", "error", err)
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}

		b.HandleUpdate(r.Context(), update)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// RegisterWebhook points the Telegram bot at baseURL/secret.
func RegisterWebhook(api *tgbotapi.BotAPI, baseURL, secret string) error {
	wh, err := tgbotapi.NewWebhook(strings.TrimRight(baseURL, "/") + "/" + secret)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}
