package notify

import (
	"context"
	"fmt"

	"github.com/example/rinkwatch/internal/session"
	"github.com/go-telegram/bot"
)

// Telegram delivers notifications to a bot chat.
type Telegram struct {
	Token  string
	ChatID string
}

func (t *Telegram) Notify(ctx context.Context, sessions []session.Session, reopenedCount int) error {
	if t.Token == "" || t.ChatID == "" {
		return fmt.Errorf("telegram notifier: TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set")
	}

	b, err := bot.New(t.Token)
	if err != nil {
		return fmt.Errorf("telegram notifier: %w", err)
	}
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.ChatID,
		Text:   formatMessage(sessions, reopenedCount),
	})
	if err != nil {
		return fmt.Errorf("telegram notifier: %w", err)
	}
	return nil
}
