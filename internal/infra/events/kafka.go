package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &KafkaPublisher{writer: writer, logger: logger}
}

// Publish keys messages by reservation id so one reservation's events stay ordered on a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, events []shared.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, len(events))
	for i, evt := range events {
		msgs[i] = kafka.Message{
			Key:   []byte(evt.ReservationID.String()),
			Value: evt.Payload,
			Time:  evt.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event-type", Value: []byte(evt.Type)},
				{Key: "event-id", Value: []byte(fmt.Sprintf("%d", evt.ID))},
			},
		}
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write %d events to kafka: %w", len(msgs), err)
	}
	p.logger.DebugContext(ctx, "published reservation events", "count", len(msgs), "topic", p.writer.Topic)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
