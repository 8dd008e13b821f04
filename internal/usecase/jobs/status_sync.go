package jobs

import (
	"context"
	"log/slog"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/obs"
	"reservation-engine/internal/usecase/lifecycle"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type SyncReport struct {
	Advanced Report
	Cascaded Report
	Settled  Report
}

// StatusSynchronizer moves time-driven item lifecycles forward and settles
// the reservations that depend on them.
type StatusSynchronizer struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	batchSize int
	logger    *slog.Logger
}

func NewStatusSynchronizer(uow shared.UnitOfWork, clock clock.Clock, batchSize int, logger *slog.Logger) *StatusSynchronizer {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &StatusSynchronizer{uow: uow, clock: clock, batchSize: batchSize, logger: logger}
}

func (s *StatusSynchronizer) ExcursionJob() Job { return syncJob{name: "excursion-status-sync", run: s.SyncExcursions} }
func (s *StatusSynchronizer) FlightJob() Job    { return syncJob{name: "flight-status-sync", run: s.SyncFlights} }
func (s *StatusSynchronizer) StayJob() Job      { return syncJob{name: "stay-status-sync", run: s.SyncStays} }

type syncJob struct {
	name string
	run  func(ctx context.Context) (SyncReport, error)
}

func (j syncJob) Name() string { return j.name }

func (j syncJob) Run(ctx context.Context) error {
	_, err := j.run(ctx)
	return err
}

func (s *StatusSynchronizer) SyncExcursions(ctx context.Context) (SyncReport, error) {
	return s.sync(ctx, inventory.KindExcursion, s.advanceExcursions)
}

func (s *StatusSynchronizer) SyncFlights(ctx context.Context) (SyncReport, error) {
	return s.sync(ctx, inventory.KindFlight, s.advanceFlights)
}

// SyncStays has no item lifecycle to advance; rooms are settled by check-out time.
func (s *StatusSynchronizer) SyncStays(ctx context.Context) (SyncReport, error) {
	return s.sync(ctx, inventory.KindRoom, nil)
}

func (s *StatusSynchronizer) sync(
	ctx context.Context,
	kind inventory.Kind,
	advance func(ctx context.Context, now time.Time) (Report, error),
) (rep SyncReport, err error) {
	ctx, span := obs.Start(ctx, "jobs.status_sync", attribute.String("inventory.kind", kind.String()))
	defer func() {
		span.SetAttributes(
			attribute.Int("jobs.advanced", rep.Advanced.Processed),
			attribute.Int("jobs.cascaded", rep.Cascaded.Processed),
			attribute.Int("jobs.settled", rep.Settled.Processed),
		)
		obs.End(span, err)
	}()

	now := s.clock.Now()
	if advance != nil {
		if rep.Advanced, err = advance(ctx, now); err != nil {
			return rep, err
		}
	}
	if rep.Cascaded, err = s.cascadeCancellations(ctx, kind, now); err != nil {
		return rep, err
	}
	if rep.Settled, err = s.settleEnded(ctx, kind, now); err != nil {
		return rep, err
	}

	if rep.Advanced.Scanned+rep.Cascaded.Scanned+rep.Settled.Scanned > 0 {
		s.logger.InfoContext(ctx, "status sync finished",
			"kind", kind,
			"advanced", rep.Advanced.Processed,
			"cascadedItems", rep.Cascaded.Processed,
			"settled", rep.Settled.Processed,
			"failed", rep.Advanced.Failed+rep.Cascaded.Failed+rep.Settled.Failed,
		)
	}
	return rep, nil
}

func (s *StatusSynchronizer) advanceExcursions(ctx context.Context, now time.Time) (Report, error) {
	var due []*inventory.Excursion
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
		var rerr error
		due, rerr = reads.ExcursionsDueForAdvance(ctx, now, s.batchSize)
		return rerr
	})
	if err != nil {
		return Report{}, err
	}

	byID := make(map[uuid.UUID]*inventory.Excursion, len(due))
	ids := make([]uuid.UUID, 0, len(due))
	for _, e := range due {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	return forEach(ctx, s.uow, s.logger, "excursion-status-sync", ids, func(ctx context.Context, tx shared.Tx, id uuid.UUID) (bool, error) {
		e := *byID[id]
		moved := false
		for {
			next, ok := e.NextStatus(now)
			if !ok {
				return moved, nil
			}
			if err := inventory.ValidateExcursionTransition(e.Status, next); err != nil {
				return moved, err
			}
			// conditional on the status we read: a concurrent change wins
			ok, err := tx.Inventory().SetExcursionStatus(ctx, id, e.Status, next)
			if err != nil || !ok {
				return moved, err
			}
			s.logger.InfoContext(ctx, "excursion advanced", "excursionId", id, "from", e.Status, "to", next)
			e.Status = next
			moved = true
		}
	})
}

func (s *StatusSynchronizer) advanceFlights(ctx context.Context, now time.Time) (Report, error) {
	var due []*inventory.Flight
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
		var rerr error
		due, rerr = reads.FlightsDueForAdvance(ctx, now, s.batchSize)
		return rerr
	})
	if err != nil {
		return Report{}, err
	}

	byID := make(map[uuid.UUID]*inventory.Flight, len(due))
	ids := make([]uuid.UUID, 0, len(due))
	for _, f := range due {
		byID[f.ID] = f
		ids = append(ids, f.ID)
	}
	return forEach(ctx, s.uow, s.logger, "flight-status-sync", ids, func(ctx context.Context, tx shared.Tx, id uuid.UUID) (bool, error) {
		f := *byID[id]
		moved := false
		for {
			next, ok := f.NextStatus(now)
			if !ok {
				return moved, nil
			}
			if err := inventory.ValidateFlightTransition(f.Status, next); err != nil {
				return moved, err
			}
			ok, err := tx.Inventory().SetFlightStatus(ctx, id, f.Status, next)
			if err != nil || !ok {
				return moved, err
			}
			s.logger.InfoContext(ctx, "flight advanced", "flightId", id, "from", f.Status, "to", next)
			f.Status = next
			moved = true
		}
	})
}

func (s *StatusSynchronizer) cascadeCancellations(ctx context.Context, kind inventory.Kind, now time.Time) (Report, error) {
	if kind == inventory.KindRoom {
		return Report{}, nil
	}
	var items []uuid.UUID
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
		var rerr error
		items, rerr = reads.CancelledItemsWithActiveReservations(ctx, kind, s.batchSize)
		return rerr
	})
	if err != nil {
		return Report{}, err
	}
	return forEach(ctx, s.uow, s.logger, "cancellation-cascade", items, func(ctx context.Context, tx shared.Tx, itemID uuid.UUID) (bool, error) {
		n, err := lifecycle.CancelItemReservations(ctx, tx, kind, itemID, now)
		return n > 0, err
	})
}

func (s *StatusSynchronizer) settleEnded(ctx context.Context, kind inventory.Kind, now time.Time) (Report, error) {
	var ids []uuid.UUID
	err := s.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
		var rerr error
		ids, rerr = reads.EndedReservationIDs(ctx, kind, now, s.batchSize)
		return rerr
	})
	if err != nil {
		return Report{}, err
	}
	return forEach(ctx, s.uow, s.logger, "reservation-settle", ids, func(ctx context.Context, tx shared.Tx, id uuid.UUID) (bool, error) {
		status, err := lifecycle.Settle(ctx, tx, id, now)
		return status != "", err
	})
}
