package bootstrap

import (
	"reservation-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.ReservationConfig { return cfg.Reservation },
		func(cfg config.Config) config.PaymentConfig { return cfg.Payment },
	),
)
