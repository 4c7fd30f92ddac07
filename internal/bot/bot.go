// ABOUTME: Telegram transport for the training log: command dispatch and replies.
// ABOUTME: Routes free text through the session manager, commands to core services.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/harperreed/rowlog/internal/protocol"
	"github.com/harperreed/rowlog/internal/session"
	"github.com/harperreed/rowlog/internal/storage"
	"github.com/harperreed/rowlog/internal/syncer"
)

// Sender is the outbound side of the chat transport. *tgbotapi.BotAPI
// satisfies it; tests substitute a fake.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot wires Telegram updates to the session manager and sync engine.
type Bot struct {
	api      Sender
	sessions *session.Manager
	engine   *syncer.Engine
	store    storage.Store
	logger   *log.Logger
}

// New creates a Bot. The store is used directly only for the reset and
// reorder commands; everything else goes through the manager and engine.
func New(api Sender, sessions *session.Manager, engine *syncer.Engine, store storage.Store, logger *log.Logger) *Bot {
	return &Bot{
		api:      api,
		sessions: sessions,
		engine:   engine,
		store:    store,
		logger:   logger,
	}
}

// HandleUpdate processes one inbound update and sends the reply, if any.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}

	reply := b.respond(ctx, msg.From.ID, msg.Text)
	if reply == "" {
		return
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		b.logger.Error("send reply", "chat", msg.Chat.ID, "error", err)
	}
}

// respond maps one inbound text to a user-facing reply.
func (b *Bot) respond(ctx context.Context, userID int64, text string) string {
	if cmd, ok := command(text); ok {
		switch cmd {
		case "start":
			return b.sessions.Begin(userID).Text
		case "close":
			return b.closeSession(ctx, userID)
		case "upload":
			return b.upload(ctx)
		case "reset_upload":
			return b.resetUpload(ctx)
		case "reorder":
			return b.reorder(ctx)
		default:
			return fmt.Sprintf("Unknown command /%s.", cmd)
		}
	}
	return b.sessions.Advance(userID, text).Text
}

// command extracts a lowercase command name from "/name[@botname] ..." text.
func command(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.Fields(text)[0][1:]
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}

func (b *Bot) closeSession(ctx context.Context, userID int64) string {
	n, err := b.sessions.Close(ctx, userID)
	if errors.Is(err, session.ErrNoSession) {
		return protocol.MsgNoSessionToClose
	}
	if err != nil {
		b.logger.Error("close session", "user", userID, "error", err)
		return fmt.Sprintf("Could not save the session: %v.\nNothing was lost - try /close again.", err)
	}
	return fmt.Sprintf("Session closed and %d entries saved. REMEMBER TO /upload to upload to the spreadsheet.", n)
}

func (b *Bot) upload(ctx context.Context) string {
	report, err := b.engine.Sync(ctx)
	if errors.Is(err, syncer.ErrNothingToSync) {
		return "No new data to upload."
	}
	if err != nil {
		b.logger.Error("upload", "error", err)
		return fmt.Sprintf("Upload failed: %v.\nNo records were marked as uploaded - try /upload again.", err)
	}
	return fmt.Sprintf("Uploaded %d records across %d sheets.", report.Records, len(report.Partitions))
}

func (b *Bot) resetUpload(ctx context.Context) string {
	n, err := b.store.ResetSynced(ctx)
	if err != nil {
		b.logger.Error("reset upload", "error", err)
		return fmt.Sprintf("Could not reset the uploaded status: %v.", err)
	}
	return fmt.Sprintf("Uploaded status has been reset (%d records).", n)
}

func (b *Bot) reorder(ctx context.Context) string {
	records, err := b.store.ListRecords(ctx)
	if err != nil {
		b.logger.Error("reorder", "error", err)
		return fmt.Sprintf("Could not read the records: %v.", err)
	}
	if len(records) == 0 {
		return "No data found to re-order."
	}
	return "Data re-ordered."
}
