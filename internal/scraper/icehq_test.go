package scraper

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/rinkwatch/internal/config"
	"github.com/example/rinkwatch/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const stickAndPuckJSON = `{
	"variants": [
		{"attributes": {"Date/time": "Tuesday 4th November 8:00pm-9:00pm"}, "soldOut": false, "qtyInStock": 12},
		{"attributes": {"Date/time": "Wednesday 5th November 8:00pm-9:00pm"}, "soldOut": true, "qtyInStock": 0},
		{"attributes": {"Size": "Adult"}, "soldOut": false, "qtyInStock": 3}
	]
}`

const publicSkateJSON = `{
	"variants": [
		{"attributes": {"Date/time": "Saturday 8th November 2:00pm"}, "soldOut": false, "qtyInStock": 40}
	]
}`

func bookingPage() string {
	return fmt.Sprintf(`<html><body>
		<div class="product-block" data-product="%s"><h2>Stick &amp; Puck</h2></div>
		<div class="product-block" data-product="%s"><h2>Public Skate</h2></div>
		<div class="product-block" data-product="not json"><h2>Scrimmage</h2></div>
		<div class="product-block"><h2>Scrimmage</h2></div>
	</body></html>`,
		html.EscapeString(stickAndPuckJSON), html.EscapeString(publicSkateJSON))
}

func serveFixture(t *testing.T, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func scraperConfig() config.Config {
	return config.Config{
		ScrapeTimeout:       5 * time.Second,
		MonitorSessionTypes: []string{"stick & puck", "scrimmage"},
	}
}

func TestIceHQFindSessions(t *testing.T) {
	ts := serveFixture(t, bookingPage())
	site := config.Site{Name: "IceHQ Melbourne", URL: ts.URL, Type: "icehq"}

	got, err := NewIceHQ(scraperConfig(), zap.NewNop()).FindSessions(context.Background(), site)
	require.NoError(t, err)

	// Public Skate is filtered by type, the malformed and attribute-less
	// Scrimmage blocks are skipped, the variant without a date is dropped.
	require.Len(t, got, 2)

	require.Equal(t, session.Session{
		Type:       "Stick & Puck",
		DateTime:   "Tuesday 4th November 8:00pm-9:00pm",
		Status:     session.StatusAvailable,
		Site:       "IceHQ Melbourne",
		URL:        ts.URL,
		QtyInStock: 12,
	}, got[0])

	require.Equal(t, session.StatusSoldOut, got[1].Status)
	require.Equal(t, "Wednesday 5th November 8:00pm-9:00pm", got[1].DateTime)
}

func TestIceHQFindSessionsWeekdayFilter(t *testing.T) {
	ts := serveFixture(t, bookingPage())
	site := config.Site{Name: "IceHQ Melbourne", URL: ts.URL, Type: "icehq"}

	cfg := scraperConfig()
	cfg.MonitorDays = []time.Weekday{time.Tuesday}

	got, err := NewIceHQ(cfg, zap.NewNop()).FindSessions(context.Background(), site)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Tuesday 4th November 8:00pm-9:00pm", got[0].DateTime)
}

func TestIceHQFindSessionsClientError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(ts.Close)
	site := config.Site{Name: "IceHQ Melbourne", URL: ts.URL, Type: "icehq"}

	_, err := NewIceHQ(scraperConfig(), zap.NewNop()).FindSessions(context.Background(), site)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 404")
}

func TestMatchesDateFilter(t *testing.T) {
	testCases := []struct {
		name     string
		dates    []string
		days     []time.Weekday
		dateTime string
		want     bool
	}{
		{name: "no criteria passes everything", dateTime: "whenever", want: true},
		{name: "raw substring", dates: []string{"2025-11-04"}, dateTime: "session on 2025-11-04", want: true},
		{name: "ordinal day and month", dates: []string{"2025-11-04"}, dateTime: "Tuesday 4th November 8pm", want: true},
		{name: "month then day", dates: []string{"2025-11-04"}, dateTime: "Monday, November 4 - 8:00pm", want: true},
		{name: "short month", dates: []string{"2025-11-04"}, dateTime: "Tue 4 Nov 8pm", want: true},
		{name: "wrong day", dates: []string{"2025-11-04"}, dateTime: "Wednesday 5th November 8pm", want: false},
		{name: "weekday match", days: []time.Weekday{time.Tuesday}, dateTime: "Tuesday 4th November 8pm", want: true},
		{name: "weekday miss", days: []time.Weekday{time.Friday}, dateTime: "Tuesday 4th November 8pm", want: false},
		{name: "criteria configured but nothing matches", dates: []string{"2025-11-04"}, dateTime: "Friday 6th December 8pm", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Config{MonitorDates: tc.dates, MonitorDays: tc.days}
			require.Equal(t, tc.want, matchesDateFilter(cfg, tc.dateTime))
		})
	}
}
