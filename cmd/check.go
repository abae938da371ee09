package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/rinkwatch/internal/agent"
	"github.com/example/rinkwatch/internal/config"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single scan cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Env)
			defer logger.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return agent.New(cfg, logger).CheckAllSites(ctx)
		},
	}
}
