package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/rinkwatch/internal/agent"
	"github.com/example/rinkwatch/internal/config"
	"github.com/example/rinkwatch/internal/schedule"
	"github.com/example/rinkwatch/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the periodic session checker (plus HTTP trigger when LISTEN_ADDR is set)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Env)
			defer logger.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a := agent.New(cfg, logger)
			s := &schedule.Scheduler{Agent: a, Interval: cfg.CheckInterval, Logger: logger}

			if cfg.ListenAddr != "" {
				ws := &web.Server{Agent: a, Logger: logger}
				go func() {
					logger.Info("trigger server listening", zap.String("addr", cfg.ListenAddr))
					if err := web.Start(ctx, cfg.ListenAddr, ws.Routes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("trigger server stopped", zap.Error(err))
					}
				}()
			}

			logger.Info("scheduler started", zap.Duration("interval", cfg.CheckInterval))
			if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("shutting down")
			return nil
		},
	}
}
