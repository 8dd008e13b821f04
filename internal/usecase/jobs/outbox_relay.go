package jobs

import (
	"context"
	"log/slog"

	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/obs"
	"reservation-engine/internal/usecase/shared"

	"go.opentelemetry.io/otel/attribute"
)

// OutboxRelay publishes committed lifecycle events. Delivery is at least once:
// rows are marked published only after the publisher accepted them.
type OutboxRelay struct {
	uow       shared.UnitOfWork
	publisher shared.EventPublisher
	clock     clock.Clock
	batchSize int
	logger    *slog.Logger
}

func NewOutboxRelay(uow shared.UnitOfWork, publisher shared.EventPublisher, clock clock.Clock, batchSize int, logger *slog.Logger) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxRelay{uow: uow, publisher: publisher, clock: clock, batchSize: batchSize, logger: logger}
}

func (r *OutboxRelay) Name() string { return "outbox-relay" }

func (r *OutboxRelay) Run(ctx context.Context) error {
	_, err := r.Relay(ctx)
	return err
}

func (r *OutboxRelay) Relay(ctx context.Context) (published int, err error) {
	ctx, span := obs.Start(ctx, "jobs.outbox_relay")
	defer func() {
		span.SetAttributes(attribute.Int("jobs.published", published))
		obs.End(span, err)
	}()

	for {
		var n int
		err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			events, cerr := tx.Outbox().ClaimBatch(ctx, r.batchSize)
			if cerr != nil || len(events) == 0 {
				return cerr
			}
			if cerr = r.publisher.Publish(ctx, events); cerr != nil {
				return cerr
			}
			ids := make([]int64, len(events))
			for i, e := range events {
				ids[i] = e.ID
			}
			n = len(events)
			return tx.Outbox().MarkPublished(ctx, ids, r.clock.Now())
		})
		if err != nil {
			return published, err
		}
		published += n
		if n < r.batchSize {
			break
		}
	}

	if published > 0 {
		r.logger.DebugContext(ctx, "outbox relayed", "published", published)
	}
	return published, nil
}
