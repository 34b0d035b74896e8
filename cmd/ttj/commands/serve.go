package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rutooro/translation-manager/internal/cache"
	"github.com/rutooro/translation-manager/internal/logger"
	"github.com/rutooro/translation-manager/internal/web"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive translation demo",
		Long: `Serve a small web page for trying both translation directions, plus
/api/translate, /healthz and /metrics.

Translations are cached in Redis when redis.addr is configured and in
memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			r, err := newRouter(ctx, g.cfg)
			if err != nil {
				return err
			}

			var c cache.Cache = cache.NewMemory(0)
			if g.cfg.Redis.Addr != "" {
				rc, err := cache.NewRedis(ctx, cache.RedisOptions{
					Addr:     g.cfg.Redis.Addr,
					Password: g.cfg.Redis.Password,
					DB:       g.cfg.Redis.DB,
					TTL:      g.cfg.Redis.TTL,
				})
				if err != nil {
					return err
				}
				defer rc.Close()
				c = rc
				logger.Log.Info("Using Redis translation cache", zap.String("addr", g.cfg.Redis.Addr))
			}

			srv := web.New(r, web.Options{
				RequestTimeout: g.cfg.Server.RequestTimeout,
				Cache:          c,
				Logger:         logger.Log,
			})

			if !cmd.Flags().Changed("port") {
				port = g.cfg.Server.Port
			}
			addr := fmt.Sprintf("%s:%d", g.cfg.Server.Host, port)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Log.Info("Shutting down server...")
			if err := srv.Shutdown(); err != nil {
				logger.Log.Error("Error during server shutdown", zap.Error(err))
				return err
			}
			logger.Log.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 7860, "HTTP port")
	return cmd
}
