package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skanderbz/tutord/internal/orchestrator"
	"github.com/skanderbz/tutord/internal/server"
	"github.com/skanderbz/tutord/internal/session"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tutor API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mgr, err := buildKnowledge(ctx, cfg)
			if err != nil {
				return err
			}
			defer mgr.Close()

			if _, _, err := mgr.Sync(ctx); err != nil {
				log.Warn().Err(err).Msg("initial knowledge sync failed, retrieval may be stale")
			}
			if cfg.Knowledge.Watch {
				if err := mgr.Watch(ctx); err != nil {
					log.Warn().Err(err).Msg("knowledge watcher failed to start")
				}
			}

			store := session.NewStore(cfg.Session.TTL, log)
			orch := orchestrator.New(store, buildCascade(ctx, cfg, mgr), log)

			return server.New(cfg.Server, orch, log).ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override the listen port")
	cmd.Flags().StringVar(&host, "host", "", "override the listen host")
	return cmd
}
