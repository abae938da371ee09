package notify

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/example/rinkwatch/internal/config"
	"github.com/example/rinkwatch/internal/session"
	"go.uber.org/zap"
)

// Notifier delivers a batch of notification-worthy sessions. The first
// reopenedCount sessions were previously sold out; the rest are brand new.
type Notifier interface {
	Notify(ctx context.Context, sessions []session.Session, reopenedCount int) error
}

// New returns the notifier for the configured method. Non-console methods
// are wrapped so a delivery failure degrades to console output instead of
// failing the cycle.
func New(cfg config.Config, logger *zap.Logger) Notifier {
	console := &Console{Out: os.Stdout}

	var delegate Notifier
	switch cfg.NotificationMethod {
	case "", "console":
		return console
	case "email":
		delegate = &Email{
			Server:   cfg.SMTPServer,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPFrom,
			Password: cfg.SMTPPassword,
			To:       cfg.NotificationEmail,
		}
	case "telegram":
		delegate = &Telegram{Token: cfg.TelegramBotToken, ChatID: cfg.TelegramChatID}
	case "sms":
		delegate = NewSMS(cfg)
	default:
		logger.Warn("unknown notification method, using console",
			zap.String("method", cfg.NotificationMethod))
		return console
	}
	return &fallback{delegate: delegate, console: console, logger: logger}
}

type fallback struct {
	delegate Notifier
	console  *Console
	logger   *zap.Logger
}

func (f *fallback) Notify(ctx context.Context, sessions []session.Session, reopenedCount int) error {
	if err := f.delegate.Notify(ctx, sessions, reopenedCount); err != nil {
		f.logger.Error("notification delivery failed, falling back to console", zap.Error(err))
		return f.console.Notify(ctx, sessions, reopenedCount)
	}
	return nil
}

// formatMessage renders the plain-text body shared by the text channels.
func formatMessage(sessions []session.Session, reopenedCount int) string {
	reopened := sessions[:reopenedCount]
	fresh := sessions[reopenedCount:]

	var b strings.Builder
	b.WriteString("Sessions available!\n")
	if len(reopened) > 0 {
		fmt.Fprintf(&b, "\n%d previously sold-out session(s) reopened:\n", len(reopened))
		for _, s := range reopened {
			fmt.Fprintf(&b, "- %s\n  %s\n", s.Type, s.DateTime)
		}
	}
	if len(fresh) > 0 {
		fmt.Fprintf(&b, "\n%d new session(s):\n", len(fresh))
		for _, s := range fresh {
			fmt.Fprintf(&b, "- %s\n  %s\n", s.Type, s.DateTime)
		}
	}
	if len(sessions) > 0 {
		fmt.Fprintf(&b, "\n%s\n", sessions[0].URL)
	}
	return b.String()
}

func subject(sessions []session.Session, reopenedCount int) string {
	if reopenedCount > 0 {
		return fmt.Sprintf("%d session(s) reopened", reopenedCount)
	}
	return fmt.Sprintf("%d new session(s) available", len(sessions))
}
