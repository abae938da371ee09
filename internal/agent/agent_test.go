package agent

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/rinkwatch/internal/config"
	"github.com/example/rinkwatch/internal/scraper"
	"github.com/example/rinkwatch/internal/session"
	"github.com/example/rinkwatch/internal/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	sessions []session.Session
	err      error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FindSessions(ctx context.Context, site config.Site) ([]session.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []session.Session
	for _, s := range f.sessions {
		if s.Site == site.Name {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	calls    int
	sessions []session.Session
	reopened int
}

func (f *fakeNotifier) Notify(ctx context.Context, sessions []session.Session, reopenedCount int) error {
	f.calls++
	f.sessions = sessions
	f.reopened = reopenedCount
	return nil
}

func slot(site, sessionType, dateTime string, status session.Status) session.Session {
	return session.Session{
		Type:     sessionType,
		DateTime: dateTime,
		Status:   status,
		Site:     site,
		URL:      "https://example.test/playhockey",
	}
}

func newTestAgent(t *testing.T, src scraper.Source, sites ...config.Site) (*Agent, *fakeNotifier) {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()
	notifier := &fakeNotifier{}
	return &Agent{
		Sites:    sites,
		Sources:  map[string]scraper.Source{"fake": src},
		Status:   storage.NewStatusStore(filepath.Join(dir, "status.json"), logger),
		Booked:   storage.NewBookedRegistry(filepath.Join(dir, "booked.json"), logger),
		Notifier: notifier,
		Out:      &bytes.Buffer{},
		Logger:   logger,
	}, notifier
}

func TestCheckAllSitesNewAvailable(t *testing.T) {
	src := &fakeSource{sessions: []session.Session{
		slot("A", "Stick & Puck", "Tuesday 4th November 8pm", session.StatusAvailable),
		slot("A", "Scrimmage", "Wednesday 5th November 9pm", session.StatusSoldOut),
	}}
	a, notifier := newTestAgent(t, src, config.Site{Name: "A", Type: "fake"})

	require.NoError(t, a.CheckAllSites(context.Background()))

	require.Equal(t, 1, notifier.calls)
	require.Zero(t, notifier.reopened)
	require.Len(t, notifier.sessions, 1)
	require.Equal(t, "Stick & Puck", notifier.sessions[0].Type)

	// the sold-out sighting is recorded even though it produced no event
	_, seen := a.Status.Get(slot("A", "Scrimmage", "Wednesday 5th November 9pm", session.StatusSoldOut).Identity())
	require.True(t, seen)
}

func TestCheckAllSitesReopenedOrderedFirst(t *testing.T) {
	reopening := slot("A", "Stick & Puck", "Tuesday 4th November 8pm", session.StatusSoldOut)
	src := &fakeSource{sessions: []session.Session{
		slot("A", "Scrimmage", "Friday 6th December 9pm", session.StatusAvailable),
	}}
	a, notifier := newTestAgent(t, src, config.Site{Name: "A", Type: "fake"})

	// previous cycle saw the slot sold out
	require.NoError(t, a.Status.Update(reopening.Identity(), reopening.Status, reopening))

	reopening.Status = session.StatusAvailable
	src.sessions = append(src.sessions, reopening)

	require.NoError(t, a.CheckAllSites(context.Background()))

	require.Equal(t, 1, notifier.calls)
	require.Equal(t, 1, notifier.reopened)
	require.Len(t, notifier.sessions, 2)
	// reopened slots lead the payload even though the scraper returned them last
	require.Equal(t, "Stick & Puck", notifier.sessions[0].Type)
	require.Equal(t, "Scrimmage", notifier.sessions[1].Type)
}

func TestCheckAllSitesSiteFailureIsIsolated(t *testing.T) {
	good := &fakeSource{sessions: []session.Session{
		slot("B", "Stick & Puck", "Tuesday 4th November 8pm", session.StatusAvailable),
	}}
	bad := &fakeSource{err: errors.New("connection refused")}

	dir := t.TempDir()
	logger := zap.NewNop()
	notifier := &fakeNotifier{}
	a := &Agent{
		Sites: []config.Site{
			{Name: "A", Type: "broken"},
			{Name: "B", Type: "fake"},
		},
		Sources:  map[string]scraper.Source{"broken": bad, "fake": good},
		Status:   storage.NewStatusStore(filepath.Join(dir, "status.json"), logger),
		Booked:   storage.NewBookedRegistry(filepath.Join(dir, "booked.json"), logger),
		Notifier: notifier,
		Out:      &bytes.Buffer{},
		Logger:   logger,
	}

	require.NoError(t, a.CheckAllSites(context.Background()))

	// the healthy site's event still went out
	require.Equal(t, 1, notifier.calls)
	require.Len(t, notifier.sessions, 1)
	require.Equal(t, "B", notifier.sessions[0].Site)
}

func TestCheckAllSitesBookedSuppressed(t *testing.T) {
	open := slot("A", "Stick & Puck", "Monday, November 4 - 8:00pm", session.StatusAvailable)
	src := &fakeSource{sessions: []session.Session{open}}
	a, notifier := newTestAgent(t, src, config.Site{Name: "A", Type: "fake"})

	require.NoError(t, a.Booked.Add("mon 4 nov"))
	require.NoError(t, a.CheckAllSites(context.Background()))

	// no notification, but the status is still recorded
	require.Zero(t, notifier.calls)
	got, seen := a.Status.Get(open.Identity())
	require.True(t, seen)
	require.Equal(t, session.StatusAvailable, got)
}

func TestCheckAllSitesReannouncesAfterUnbooking(t *testing.T) {
	open := slot("A", "Stick & Puck", "Monday, November 4 - 8:00pm", session.StatusAvailable)
	src := &fakeSource{sessions: []session.Session{open}}
	a, notifier := newTestAgent(t, src, config.Site{Name: "A", Type: "fake"})

	require.NoError(t, a.Booked.Add("mon 4 nov"))
	require.NoError(t, a.CheckAllSites(context.Background()))
	require.Zero(t, notifier.calls)

	// un-book and forget, like the CLI does
	removed, err := a.Booked.Remove("nov 4")
	require.NoError(t, err)
	require.Len(t, removed, 1)
	forgotten, err := a.Status.ForgetMatching("nov 4")
	require.NoError(t, err)
	require.Len(t, forgotten, 1)

	require.NoError(t, a.CheckAllSites(context.Background()))
	require.Equal(t, 1, notifier.calls)
	require.Len(t, notifier.sessions, 1)
	require.Zero(t, notifier.reopened)
}

func TestCheckAllSitesUnchangedRefreshesSnapshot(t *testing.T) {
	open := slot("A", "Stick & Puck", "Tuesday 4th November 8pm", session.StatusAvailable)
	src := &fakeSource{sessions: []session.Session{open}}
	a, notifier := newTestAgent(t, src, config.Site{Name: "A", Type: "fake"})

	require.NoError(t, a.CheckAllSites(context.Background()))
	require.Equal(t, 1, notifier.calls)
	first := a.Status.All()[open.Identity()].LastUpdated

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, a.CheckAllSites(context.Background()))

	// second cycle: no change, no second notification, fresh timestamp
	require.Equal(t, 1, notifier.calls)
	require.True(t, a.Status.All()[open.Identity()].LastUpdated.After(first))
}

func TestCheckAllSitesPersistFailureIsFatal(t *testing.T) {
	src := &fakeSource{sessions: []session.Session{
		slot("A", "Stick & Puck", "Tuesday 4th November 8pm", session.StatusAvailable),
	}}
	a, notifier := newTestAgent(t, src, config.Site{Name: "A", Type: "fake"})

	// point the store at a directory so every write fails
	a.Status = storage.NewStatusStore(t.TempDir(), zap.NewNop())

	require.Error(t, a.CheckAllSites(context.Background()))
	require.Zero(t, notifier.calls)
}
