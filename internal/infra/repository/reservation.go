package repository

import (
	"context"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/repository/converter"
	"reservation-engine/internal/infra/sqlstore"

	"github.com/google/uuid"
)

type ReservationWriteQueries interface {
	CreateReservation(ctx context.Context, db sqlstore.DBTX, arg sqlstore.CreateReservationParams) error
	UpdateReservation(ctx context.Context, db sqlstore.DBTX, arg sqlstore.UpdateReservationParams) (int64, error)
	DeleteReservation(ctx context.Context, db sqlstore.DBTX, id uuid.UUID) (int64, error)
}

type ReservationRepository struct {
	queries ReservationWriteQueries
	db      sqlstore.DBTX
}

func NewReservationRepository(queries ReservationWriteQueries, db sqlstore.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	if err := r.queries.CreateReservation(ctx, r.db, converter.ReservationToCreateParams(res)); err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	rows, err := r.queries.UpdateReservation(ctx, r.db, converter.ReservationToUpdateParams(res))
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := r.queries.DeleteReservation(ctx, r.db, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete reservation", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}
