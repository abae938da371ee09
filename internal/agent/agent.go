package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/example/rinkwatch/internal/config"
	"github.com/example/rinkwatch/internal/notify"
	"github.com/example/rinkwatch/internal/scraper"
	"github.com/example/rinkwatch/internal/session"
	"github.com/example/rinkwatch/internal/storage"
	"go.uber.org/zap"
)

// Agent runs one scan cycle: scrape every configured site, annotate booked
// slots, classify status transitions, persist current state and notify.
// It holds the stores only for the duration of a cycle; all durable state
// lives in the files, which may be edited between cycles.
type Agent struct {
	Sites    []config.Site
	Sources  map[string]scraper.Source
	Status   *storage.StatusStore
	Booked   *storage.BookedRegistry
	Notifier notify.Notifier
	Out      io.Writer
	MaxAge   time.Duration
	Logger   *zap.Logger
}

func New(cfg config.Config, logger *zap.Logger) *Agent {
	return &Agent{
		Sites:    cfg.Sites,
		Sources:  scraper.NewSources(cfg, logger),
		Status:   storage.NewStatusStore(cfg.StatusFile, logger),
		Booked:   storage.NewBookedRegistry(cfg.BookedFile, logger),
		Notifier: notify.New(cfg, logger),
		Out:      os.Stdout,
		MaxAge:   cfg.StatusMaxAge,
		Logger:   logger,
	}
}

// CheckAllSites performs one complete scan-classify-notify cycle. A scrape
// failure on one site skips that site only; a failure persisting state is
// fatal to the cycle, since notifying from partially updated state would
// corrupt the next cycle's classification.
func (a *Agent) CheckAllSites(ctx context.Context) error {
	a.Logger.Info("starting session check", zap.Int("sites", len(a.Sites)))

	if n, err := a.Status.Prune(a.MaxAge); err != nil {
		return fmt.Errorf("prune status store: %w", err)
	} else if n > 0 {
		a.Logger.Info("pruned stale status records", zap.Int("records", n))
	}

	var reopened, fresh, all []session.Session

	for _, site := range a.Sites {
		src, ok := a.Sources[site.Type]
		if !ok {
			a.Logger.Warn("unknown site type",
				zap.String("site", site.Name), zap.String("type", site.Type))
			continue
		}

		sessions, err := src.FindSessions(ctx, site)
		if err != nil {
			// One broken site must not block the others.
			a.Logger.Error("scrape failed", zap.String("site", site.Name), zap.Error(err))
			continue
		}

		for _, s := range sessions {
			s.Booked = a.Booked.IsBooked(s.DateTime)
			all = append(all, s)

			identity := s.Identity()

			// Booked slots are displayed and recorded but never classified.
			if !s.Booked && a.Status.Changed(identity, s.Status) {
				prev, seen := a.Status.Get(identity)
				switch session.Classify(prev, seen, s.Status) {
				case session.EventReopened:
					reopened = append(reopened, s)
					a.Logger.Info("spot opened",
						zap.String("session", s.Type), zap.String("when", s.DateTime))
				case session.EventNew:
					fresh = append(fresh, s)
					a.Logger.Info("new available",
						zap.String("session", s.Type), zap.String("when", s.DateTime))
				}
			}

			if err := a.Status.Update(identity, s.Status, s); err != nil {
				return fmt.Errorf("update status for %s: %w", identity, err)
			}
		}
	}

	notify.RenderAll(a.Out, all)

	if len(reopened)+len(fresh) == 0 {
		a.Logger.Info("no new or reopened sessions")
		return nil
	}

	// Reopened slots outrank new ones in the payload; the notifier labels
	// the leading reopenedCount entries distinctly.
	events := make([]session.Session, 0, len(reopened)+len(fresh))
	events = append(events, reopened...)
	events = append(events, fresh...)

	if err := a.Notifier.Notify(ctx, events, len(reopened)); err != nil {
		a.Logger.Error("notification failed", zap.Error(err))
	}

	a.Logger.Info("check complete",
		zap.Int("reopened", len(reopened)), zap.Int("new", len(fresh)))
	return nil
}
