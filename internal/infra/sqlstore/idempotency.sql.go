package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertIdempotencyKey = `-- name: InsertIdempotencyKey :execrows
INSERT INTO idempotency_keys (key, customer_id, status, request_hash, expires_at)
VALUES ($1, $2, 'processing', $3, $4)
ON CONFLICT (key, customer_id) DO NOTHING`

type IdempotencyKeyParams struct {
	Key         uuid.UUID
	CustomerID  uuid.UUID
	RequestHash string
	ExpiresAt   pgtype.Timestamptz
}

func (q *Queries) InsertIdempotencyKey(ctx context.Context, db DBTX, arg IdempotencyKeyParams) (int64, error) {
	tag, err := db.Exec(ctx, insertIdempotencyKey, arg.Key, arg.CustomerID, arg.RequestHash, arg.ExpiresAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const reclaimIdempotencyKey = `-- name: ReclaimIdempotencyKey :execrows
UPDATE idempotency_keys
SET status = 'processing', request_hash = $3, reservation_id = NULL, expires_at = $4, updated_at = now()
WHERE key = $1 AND customer_id = $2`

func (q *Queries) ReclaimIdempotencyKey(ctx context.Context, db DBTX, arg IdempotencyKeyParams) (int64, error) {
	tag, err := db.Exec(ctx, reclaimIdempotencyKey, arg.Key, arg.CustomerID, arg.RequestHash, arg.ExpiresAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const completeIdempotencyKey = `-- name: CompleteIdempotencyKey :execrows
UPDATE idempotency_keys
SET status = 'completed', reservation_id = $3, updated_at = now()
WHERE key = $1 AND customer_id = $2`

func (q *Queries) CompleteIdempotencyKey(ctx context.Context, db DBTX, key, customerID, reservationID uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, completeIdempotencyKey, key, customerID, reservationID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Locks the row so a concurrent retry with the same key waits for the first to finish.
const getIdempotencyKeyForUpdate = `-- name: GetIdempotencyKeyForUpdate :one
SELECT key, customer_id, status, request_hash, reservation_id, expires_at
FROM idempotency_keys
WHERE key = $1 AND customer_id = $2
FOR UPDATE`

func (q *Queries) GetIdempotencyKeyForUpdate(ctx context.Context, db DBTX, key, customerID uuid.UUID) (IdempotencyKey, error) {
	var k IdempotencyKey
	err := db.QueryRow(ctx, getIdempotencyKeyForUpdate, key, customerID).Scan(
		&k.Key, &k.CustomerID, &k.Status, &k.RequestHash, &k.ReservationID, &k.ExpiresAt,
	)
	return k, err
}
