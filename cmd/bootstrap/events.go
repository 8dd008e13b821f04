package bootstrap

import (
	"context"
	"log/slog"

	"reservation-engine/internal/infra/events"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		NewEventPublisher,
	),
)

// NewEventPublisher picks Kafka when brokers are configured, otherwise a logging publisher.
func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.EventPublisher {
	var pub shared.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Brokers[0] != "" {
		logger.Info("publishing reservation events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		pub = events.NewKafkaPublisher(cfg.Kafka, logger)
	} else {
		logger.Info("no kafka brokers configured: reservation events are logged only")
		pub = events.NewLogPublisher(logger)
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub
}
