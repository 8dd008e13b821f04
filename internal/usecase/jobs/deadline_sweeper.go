package jobs

import (
	"context"
	"log/slog"

	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/obs"
	"reservation-engine/internal/usecase/lifecycle"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// DeadlineSweeper cancels PENDING reservations whose payment deadline passed.
type DeadlineSweeper struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	batchSize int
	logger    *slog.Logger
}

func NewDeadlineSweeper(uow shared.UnitOfWork, clock clock.Clock, batchSize int, logger *slog.Logger) *DeadlineSweeper {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &DeadlineSweeper{uow: uow, clock: clock, batchSize: batchSize, logger: logger}
}

func (s *DeadlineSweeper) Name() string { return "deadline-sweeper" }

func (s *DeadlineSweeper) Run(ctx context.Context) error {
	_, err := s.Sweep(ctx)
	return err
}

// Sweep drains overdue reservations batch by batch. A second sweep over the
// same reservations finds nothing: they are no longer PENDING.
func (s *DeadlineSweeper) Sweep(ctx context.Context) (rep Report, err error) {
	ctx, span := obs.Start(ctx, "jobs.deadline_sweep")
	defer func() {
		span.SetAttributes(attribute.Int("jobs.expired", rep.Processed), attribute.Int("jobs.failed", rep.Failed))
		obs.End(span, err)
	}()

	for {
		now := s.clock.Now()
		var ids []uuid.UUID
		err = s.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
			var rerr error
			ids, rerr = reads.OverdueReservationIDs(ctx, now, s.batchSize)
			return rerr
		})
		if err != nil {
			return rep, err
		}

		var batch Report
		batch, err = forEach(ctx, s.uow, s.logger, s.Name(), ids, func(ctx context.Context, tx shared.Tx, id uuid.UUID) (bool, error) {
			return lifecycle.Expire(ctx, tx, id, now)
		})
		rep.add(batch)
		if err != nil {
			return rep, err
		}
		// a short batch is the last one; a batch with no progress would repeat forever
		if len(ids) < s.batchSize || batch.Processed == 0 {
			break
		}
	}

	if rep.Scanned > 0 {
		s.logger.InfoContext(ctx, "deadline sweep finished",
			"scanned", rep.Scanned, "expired", rep.Processed, "skipped", rep.Skipped, "failed", rep.Failed)
	}
	return rep, nil
}
