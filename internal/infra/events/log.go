package events

import (
	"context"
	"log/slog"

	"reservation-engine/internal/usecase/shared"
)

// LogPublisher is used when no broker is configured; events are logged and marked published.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, events []shared.OutboxEvent) error {
	for _, evt := range events {
		p.logger.InfoContext(ctx, "reservation event",
			"id", evt.ID,
			"type", evt.Type,
			"reservationId", evt.ReservationID,
			"occurredAt", evt.OccurredAt,
		)
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
