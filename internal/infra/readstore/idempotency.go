package readstore

import (
	"context"

	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/pgconv"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyReadQueries interface {
	GetIdempotencyKeyForUpdate(ctx context.Context, db sqlstore.DBTX, key, customerID uuid.UUID) (sqlstore.IdempotencyKey, error)
}

type IdempotencyReadStore struct {
	queries IdempotencyReadQueries
	db      sqlstore.DBTX
}

func NewIdempotencyReadStore(queries IdempotencyReadQueries, db sqlstore.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{
		queries: queries,
		db:      db,
	}
}

// Get locks the key row; expiry is judged by the caller against its own clock.
func (r *IdempotencyReadStore) Get(ctx context.Context, key, customerID uuid.UUID) (*shared.IdempotencyRecord, error) {
	row, err := r.queries.GetIdempotencyKeyForUpdate(ctx, r.db, key, customerID)
	if err != nil {
		return nil, wrapLookupErr("idempotency key", err)
	}

	return &shared.IdempotencyRecord{
		Key:           row.Key,
		CustomerID:    row.CustomerID,
		Status:        row.Status,
		RequestHash:   row.RequestHash,
		ReservationID: pgconv.UUIDPtrFromPgtype(row.ReservationID),
		ExpiresAt:     pgconv.TimeFromPgtype(row.ExpiresAt),
	}, nil
}
