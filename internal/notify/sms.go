package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/example/rinkwatch/internal/config"
	"github.com/example/rinkwatch/internal/session"
	"github.com/go-resty/resty/v2"
)

// SMS delivers notifications through the Twilio messages API. An API
// key/secret pair is preferred; the account auth token also works.
type SMS struct {
	AccountSID string
	AuthToken  string
	APIKey     string
	APISecret  string
	From       string
	To         string

	http *resty.Client
}

func NewSMS(cfg config.Config) *SMS {
	return &SMS{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		APIKey:     cfg.TwilioAPIKey,
		APISecret:  cfg.TwilioAPISecret,
		From:       cfg.TwilioFromPhone,
		To:         cfg.TwilioToPhone,
		http:       resty.New().SetTimeout(10 * time.Second),
	}
}

func (s *SMS) Notify(ctx context.Context, sessions []session.Session, reopenedCount int) error {
	if s.AccountSID == "" || s.From == "" || s.To == "" {
		return fmt.Errorf("sms notifier: TWILIO_ACCOUNT_SID, TWILIO_FROM_PHONE and TWILIO_TO_PHONE must be set")
	}
	user, pass := s.AccountSID, s.AuthToken
	if s.APIKey != "" && s.APISecret != "" {
		user, pass = s.APIKey, s.APISecret
	}
	if pass == "" {
		return fmt.Errorf("sms notifier: set TWILIO_API_KEY+TWILIO_API_SECRET or TWILIO_AUTH_TOKEN")
	}

	res, err := s.http.R().
		SetContext(ctx).
		SetBasicAuth(user, pass).
		SetFormData(map[string]string{
			"Body": formatMessage(sessions, reopenedCount),
			"From": s.From,
			"To":   s.To,
		}).
		Post(fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.AccountSID))
	if err != nil {
		return fmt.Errorf("sms notifier: %w", err)
	}
	if res.StatusCode() >= 400 {
		return fmt.Errorf("sms notifier: twilio returned status %d", res.StatusCode())
	}
	return nil
}
