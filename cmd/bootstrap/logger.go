package bootstrap

import (
	"log/slog"

	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

// NewLogger builds the process logger from LogConfig and installs it as slog's default.
func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log)
}
