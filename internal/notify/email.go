package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/example/rinkwatch/internal/session"
	"github.com/jordan-wright/email"
)

// Email sends notifications over SMTP.
type Email struct {
	Server   string
	Port     int
	From     string
	Password string
	To       string
}

func (e *Email) Notify(ctx context.Context, sessions []session.Session, reopenedCount int) error {
	if e.Server == "" || e.From == "" || e.To == "" {
		return fmt.Errorf("email notifier: SMTP_SERVER, SMTP_FROM and NOTIFICATION_EMAIL must be set")
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("rinkwatch <%s>", e.From)
	mail.To = []string{e.To}
	mail.Subject = subject(sessions, reopenedCount)
	mail.Text = []byte(formatMessage(sessions, reopenedCount))

	addr := fmt.Sprintf("%s:%d", e.Server, e.Port)
	if err := mail.Send(addr, smtp.PlainAuth("", e.From, e.Password, e.Server)); err != nil {
		return fmt.Errorf("email notifier: %w", err)
	}
	return nil
}
