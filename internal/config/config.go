package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Site is one booking page to watch. Type selects the scraper.
type Site struct {
	Name string
	URL  string
	Type string
}

// Config is built once at process start and passed by reference; core logic
// never reads the environment directly.
type Config struct {
	Env           string
	CheckInterval time.Duration
	ListenAddr    string

	Sites []Site

	// scrape filters
	MonitorDays         []time.Weekday
	MonitorDates        []string // YYYY-MM-DD
	MonitorSessionTypes []string // lowercased substrings
	ScrapeTimeout       time.Duration

	// notification
	NotificationMethod string
	NotificationEmail  string
	SMTPServer         string
	SMTPPort           int
	SMTPFrom           string
	SMTPPassword       string
	TelegramBotToken   string
	TelegramChatID     string
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioAPIKey       string
	TwilioAPISecret    string
	TwilioFromPhone    string
	TwilioToPhone      string

	// storage
	StatusFile   string
	BookedFile   string
	StatusMaxAge time.Duration
}

func FromEnv() (Config, error) {
	// .env is optional; real environment variables win over file entries.
	_ = godotenv.Load()

	cfg := Config{
		Env:                getenv("ENV", "development"),
		ListenAddr:         os.Getenv("LISTEN_ADDR"),
		NotificationMethod: getenv("NOTIFICATION_METHOD", "console"),
		NotificationEmail:  os.Getenv("NOTIFICATION_EMAIL"),
		SMTPServer:         os.Getenv("SMTP_SERVER"),
		SMTPFrom:           os.Getenv("SMTP_FROM"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:     os.Getenv("TELEGRAM_CHAT_ID"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioAPIKey:       os.Getenv("TWILIO_API_KEY"),
		TwilioAPISecret:    os.Getenv("TWILIO_API_SECRET"),
		TwilioFromPhone:    os.Getenv("TWILIO_FROM_PHONE"),
		TwilioToPhone:      os.Getenv("TWILIO_TO_PHONE"),
		StatusFile:         getenv("STORAGE_FILE", "seen_sessions.json"),
		BookedFile:         getenv("BOOKED_SESSIONS_FILE", "booked_sessions.json"),
	}

	intervalMin, err := strconv.Atoi(getenv("CHECK_INTERVAL_MINUTES", "60"))
	if err != nil || intervalMin < 1 {
		return Config{}, fmt.Errorf("invalid CHECK_INTERVAL_MINUTES")
	}
	cfg.CheckInterval = time.Duration(intervalMin) * time.Minute

	timeoutSec, err := strconv.Atoi(getenv("SCRAPE_TIMEOUT_SECONDS", "30"))
	if err != nil || timeoutSec < 1 {
		return Config{}, fmt.Errorf("invalid SCRAPE_TIMEOUT_SECONDS")
	}
	cfg.ScrapeTimeout = time.Duration(timeoutSec) * time.Second

	smtpPort, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil || smtpPort < 1 {
		return Config{}, fmt.Errorf("invalid SMTP_PORT")
	}
	cfg.SMTPPort = smtpPort

	maxAgeHours, err := strconv.Atoi(getenv("STATUS_MAX_AGE_HOURS", "0"))
	if err != nil || maxAgeHours < 0 {
		return Config{}, fmt.Errorf("invalid STATUS_MAX_AGE_HOURS")
	}
	cfg.StatusMaxAge = time.Duration(maxAgeHours) * time.Hour

	cfg.Sites, err = parseSites(getenv("SITES", "IceHQ Melbourne|https://www.icehq.com.au/playhockey|icehq"))
	if err != nil {
		return Config{}, err
	}

	cfg.MonitorDays, err = parseDays(os.Getenv("MONITOR_DAYS"))
	if err != nil {
		return Config{}, err
	}

	cfg.MonitorDates = splitCSV(os.Getenv("MONITOR_DATES"))
	for _, d := range cfg.MonitorDates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return Config{}, fmt.Errorf("invalid MONITOR_DATES entry %q (want YYYY-MM-DD)", d)
		}
	}

	for _, t := range splitCSV(getenv("MONITOR_SESSION_TYPES", "stick & puck,scrimmage")) {
		cfg.MonitorSessionTypes = append(cfg.MonitorSessionTypes, strings.ToLower(t))
	}

	return cfg, nil
}

// parseSites parses "name|url|type" entries separated by semicolons.
func parseSites(s string) ([]Site, error) {
	var out []Site
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid SITES entry %q (want name|url|type)", entry)
		}
		out = append(out, Site{
			Name: strings.TrimSpace(parts[0]),
			URL:  strings.TrimSpace(parts[1]),
			Type: strings.TrimSpace(parts[2]),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no sites configured")
	}
	return out, nil
}

// parseDays parses MONITOR_DAYS where 0=Monday .. 6=Sunday.
func parseDays(s string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, p := range splitCSV(s) {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid MONITOR_DAYS entry %q (want 0-6, 0=Monday)", p)
		}
		out = append(out, time.Weekday((n+1)%7))
	}
	return out, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
