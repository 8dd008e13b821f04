package bootstrap

import (
	"context"
	"log/slog"

	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/obs"

	"go.uber.org/fx"
)

var TracingModule = fx.Module("tracing",
	fx.Invoke(InitTracing),
)

func InitTracing(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) error {
	shutdown, err := obs.InitTracer(context.Background(), cfg.Tracing, logger)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: shutdown,
	})
	return nil
}
