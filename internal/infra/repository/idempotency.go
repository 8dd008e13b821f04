package repository

import (
	"context"
	"time"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type IdempotencyWriteQueries interface {
	InsertIdempotencyKey(ctx context.Context, db sqlstore.DBTX, arg sqlstore.IdempotencyKeyParams) (int64, error)
	ReclaimIdempotencyKey(ctx context.Context, db sqlstore.DBTX, arg sqlstore.IdempotencyKeyParams) (int64, error)
	CompleteIdempotencyKey(ctx context.Context, db sqlstore.DBTX, key, customerID, reservationID uuid.UUID) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      sqlstore.DBTX
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries, db sqlstore.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

func (r *IdempotencyRepository) Reserve(ctx context.Context, key, customerID uuid.UUID, requestHash string, expiresAt time.Time) (bool, error) {
	rows, err := r.queries.InsertIdempotencyKey(ctx, r.db, sqlstore.IdempotencyKeyParams{
		Key:         key,
		CustomerID:  customerID,
		RequestHash: requestHash,
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert idempotency key", err)
	}
	return rows == 1, nil
}

func (r *IdempotencyRepository) Reclaim(ctx context.Context, key, customerID uuid.UUID, requestHash string, expiresAt time.Time) error {
	rows, err := r.queries.ReclaimIdempotencyKey(ctx, r.db, sqlstore.IdempotencyKeyParams{
		Key:         key,
		CustomerID:  customerID,
		RequestHash: requestHash,
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to reclaim idempotency key", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, customerID, reservationID uuid.UUID) error {
	rows, err := r.queries.CompleteIdempotencyKey(ctx, r.db, key, customerID, reservationID)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}
