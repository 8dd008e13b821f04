package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"reservation-engine/cmd/bootstrap"
	"reservation-engine/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCmd() *cobra.Command {
	var (
		migrateUp bool
		withJobs  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []fx.Option{
				bootstrap.CoreModule,
				bootstrap.HTTPModule,
				fx.Provide(func() *gin.Engine { return gin.New() }),
				fx.Invoke(startServer),
			}
			if migrateUp {
				opts = append(opts, fx.Invoke(bootstrap.MigrateOnStart))
			}
			if withJobs {
				opts = append(opts, fx.Invoke(bootstrap.RunScheduler))
			}
			return runApp(cmd.Context(), fx.New(opts...))
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply database migrations on startup")
	cmd.Flags().BoolVar(&withJobs, "with-jobs", false, "also run the background jobs in this process")
	return cmd
}

func startServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			gin.EnableJsonDecoderDisallowUnknownFields()
			logger.Info("starting server", "address", srv.Addr, "mode", gin.Mode())
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return srv.Shutdown(ctx)
		},
	})
}
