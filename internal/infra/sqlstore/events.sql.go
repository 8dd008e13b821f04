package sqlstore

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertReservationEvent = `-- name: InsertReservationEvent :exec
INSERT INTO reservation_events (reservation_id, event_type, payload, created_at)
VALUES ($1, $2, $3, $4)`

type InsertReservationEventParams struct {
	ReservationID uuid.UUID
	EventType     string
	Payload       json.RawMessage
	CreatedAt     pgtype.Timestamptz
}

func (q *Queries) InsertReservationEvent(ctx context.Context, db DBTX, arg InsertReservationEventParams) error {
	_, err := db.Exec(ctx, insertReservationEvent, arg.ReservationID, arg.EventType, []byte(arg.Payload), arg.CreatedAt)
	return err
}

const claimUnpublishedEvents = `-- name: ClaimUnpublishedEvents :many
SELECT id, reservation_id, event_type, payload, created_at
FROM reservation_events
WHERE published_at IS NULL
ORDER BY id
LIMIT $1
FOR UPDATE SKIP LOCKED`

func (q *Queries) ClaimUnpublishedEvents(ctx context.Context, db DBTX, limit int32) ([]ReservationEvent, error) {
	rows, err := db.Query(ctx, claimUnpublishedEvents, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (ReservationEvent, error) {
		var e ReservationEvent
		var payload []byte
		err := r.Scan(&e.ID, &e.ReservationID, &e.EventType, &payload, &e.CreatedAt)
		e.Payload = payload
		return e, err
	})
}

const markEventsPublished = `-- name: MarkEventsPublished :execrows
UPDATE reservation_events SET published_at = $2 WHERE id = ANY($1::bigint[])`

func (q *Queries) MarkEventsPublished(ctx context.Context, db DBTX, ids []int64, at pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, markEventsPublished, ids, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
