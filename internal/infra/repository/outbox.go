package repository

import (
	"context"
	"time"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/pgconv"
	"reservation-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

type OutboxWriteQueries interface {
	InsertReservationEvent(ctx context.Context, db sqlstore.DBTX, arg sqlstore.InsertReservationEventParams) error
	ClaimUnpublishedEvents(ctx context.Context, db sqlstore.DBTX, limit int32) ([]sqlstore.ReservationEvent, error)
	MarkEventsPublished(ctx context.Context, db sqlstore.DBTX, ids []int64, at pgtype.Timestamptz) (int64, error)
}

// OutboxRepository stores reservation events in the same transaction as the
// state change that produced them.
type OutboxRepository struct {
	queries OutboxWriteQueries
	db      sqlstore.DBTX
}

func NewOutboxRepository(queries OutboxWriteQueries, db sqlstore.DBTX) *OutboxRepository {
	return &OutboxRepository{
		queries: queries,
		db:      db,
	}
}

func (r *OutboxRepository) Append(ctx context.Context, evt shared.Event) error {
	err := r.queries.InsertReservationEvent(ctx, r.db, sqlstore.InsertReservationEventParams{
		ReservationID: evt.ReservationID,
		EventType:     string(evt.Type),
		Payload:       evt.Payload,
		CreatedAt:     pgconv.TimeToPgtype(evt.OccurredAt),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to append reservation event", err)
	}
	return nil
}

func (r *OutboxRepository) ClaimBatch(ctx context.Context, limit int) ([]shared.OutboxEvent, error) {
	rows, err := r.queries.ClaimUnpublishedEvents(ctx, r.db, int32(limit)) // #nosec G115
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox events", err)
	}
	out := make([]shared.OutboxEvent, len(rows))
	for i, row := range rows {
		out[i] = shared.OutboxEvent{
			ID: row.ID,
			Event: shared.Event{
				ReservationID: row.ReservationID,
				Type:          shared.EventType(row.EventType),
				Payload:       row.Payload,
				OccurredAt:    pgconv.TimeFromPgtype(row.CreatedAt),
			},
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.queries.MarkEventsPublished(ctx, r.db, ids, pgconv.TimeToPgtype(at)); err != nil {
		return infra.WrapRepoErr("failed to mark outbox events published", err)
	}
	return nil
}
