package notify

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskmaster/internal/model"
)

// Telegram delivers due-soon alerts through a Telegram bot. Creating it
// doubles as the startup permission probe: an invalid token fails here,
// and the caller falls back to console alerts.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is empty")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("telegram notifier authorized", "account", api.Self.UserName)

	return &Telegram{api: api, chatID: chatID}, nil
}

// DueSoon sends the alert message: task title plus formatted due time.
func (t *Telegram) DueSoon(ctx context.Context, userName string, task model.Task, due time.Time) error {
	text := fmt.Sprintf("⏰ <b>%s</b>, «%s» is due at %s",
		html.EscapeString(userName),
		html.EscapeString(task.Title),
		due.In(time.Local).Format("15:04"),
	)
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}
