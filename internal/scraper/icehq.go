package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/example/rinkwatch/internal/config"
	"github.com/example/rinkwatch/internal/session"
	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// IceHQ scrapes icehq.com.au-style booking pages. Each session type is a
// product block whose data-product attribute carries an HTML-escaped JSON
// payload with one variant per date/time.
type IceHQ struct {
	cfg    config.Config
	http   *resty.Client
	logger *zap.Logger
}

func NewIceHQ(cfg config.Config, logger *zap.Logger) *IceHQ {
	client := resty.New()
	if jar, err := cookiejar.New(nil); err == nil {
		client.SetCookieJar(jar)
	}
	client.SetTimeout(cfg.ScrapeTimeout)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")

	return &IceHQ{cfg: cfg, http: client, logger: logger}
}

func (s *IceHQ) Name() string { return "icehq" }

type productData struct {
	Variants []productVariant `json:"variants"`
}

type productVariant struct {
	Attributes map[string]string `json:"attributes"`
	SoldOut    bool              `json:"soldOut"`
	QtyInStock int               `json:"qtyInStock"`
}

func (s *IceHQ) FindSessions(ctx context.Context, site config.Site) ([]session.Session, error) {
	body, err := s.fetch(ctx, site.URL)
	if err != nil {
		return nil, fmt.Errorf("icehq: fetch %s: %w", site.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("icehq: parse %s: %w", site.URL, err)
	}

	var sessions []session.Session
	doc.Find("div.product-block").Each(func(i int, block *goquery.Selection) {
		sessionType := strings.TrimSpace(block.Find("h1, h2, h3, .product-title").First().Text())
		if sessionType == "" {
			sessionType = "Unknown"
		}
		if !matchesSessionType(s.cfg, sessionType) {
			return
		}

		raw, ok := block.Attr("data-product")
		if !ok {
			s.logger.Warn("product block without data-product attribute",
				zap.String("site", site.Name), zap.String("session_type", sessionType))
			return
		}
		var product productData
		if err := json.Unmarshal([]byte(html.UnescapeString(raw)), &product); err != nil {
			s.logger.Error("malformed data-product payload",
				zap.String("site", site.Name), zap.String("session_type", sessionType), zap.Error(err))
			return
		}

		for _, v := range product.Variants {
			dateTime := v.Attributes["Date/time"]
			if dateTime == "" {
				continue
			}
			if !matchesDateFilter(s.cfg, dateTime) {
				continue
			}
			status := session.StatusAvailable
			if v.SoldOut {
				status = session.StatusSoldOut
			}
			sessions = append(sessions, session.Session{
				Type:       sessionType,
				DateTime:   dateTime,
				Status:     status,
				Site:       site.Name,
				URL:        site.URL,
				QtyInStock: v.QtyInStock,
			})
		}
	})

	s.logger.Info("scrape finished",
		zap.String("site", site.Name), zap.Int("sessions", len(sessions)))
	return sessions, nil
}

// fetch retrieves the page with a couple of retries; the booking site sits
// behind a flaky CDN.
func (s *IceHQ) fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	backoff := retry.WithMaxRetries(2, retry.NewExponential(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, err := s.http.R().SetContext(ctx).Get(url)
		if err != nil {
			return retry.RetryableError(err)
		}
		if res.StatusCode() >= 500 {
			return retry.RetryableError(fmt.Errorf("status %d", res.StatusCode()))
		}
		if res.StatusCode() >= 400 {
			return fmt.Errorf("status %d", res.StatusCode())
		}
		body = res.Body()
		return nil
	})
	return body, err
}
