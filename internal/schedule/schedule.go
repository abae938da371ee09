package schedule

import (
	"context"
	"time"

	"github.com/example/rinkwatch/internal/agent"
	"go.uber.org/zap"
)

// Scheduler runs scan cycles on a fixed interval. Cycles are strictly
// sequential and run to completion: ticks that fire while a cycle is still
// running are dropped, never overlapped.
type Scheduler struct {
	Agent    *agent.Agent
	Interval time.Duration
	Logger   *zap.Logger
}

func (s *Scheduler) Run(ctx context.Context) error {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	// kick immediately
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if err := s.Agent.CheckAllSites(ctx); err != nil {
		s.Logger.Error("check cycle failed", zap.Error(err))
		return
	}
	s.Logger.Info("scheduled check completed")
}
