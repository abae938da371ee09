package scraper

import (
	"context"

	"github.com/example/rinkwatch/internal/config"
	"github.com/example/rinkwatch/internal/session"
	"go.uber.org/zap"
)

// Source produces the sessions currently advertised by one site, already
// filtered to the configured session types and date/day criteria.
type Source interface {
	Name() string
	FindSessions(ctx context.Context, site config.Site) ([]session.Session, error)
}

// NewSources returns the available sources keyed by site type.
func NewSources(cfg config.Config, logger *zap.Logger) map[string]Source {
	return map[string]Source{
		"icehq": NewIceHQ(cfg, logger),
	}
}
