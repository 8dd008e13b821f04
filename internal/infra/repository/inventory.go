package repository

import (
	"context"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/repository/converter"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type InventoryWriteQueries interface {
	CreateExcursion(ctx context.Context, db sqlstore.DBTX, arg sqlstore.CreateExcursionParams) error
	CreateFlight(ctx context.Context, db sqlstore.DBTX, arg sqlstore.CreateFlightParams) error
	CreateRoom(ctx context.Context, db sqlstore.DBTX, arg sqlstore.CreateRoomParams) error

	ReserveExcursionGuests(ctx context.Context, db sqlstore.DBTX, id uuid.UUID, guests int32) (int64, error)
	ReleaseExcursionGuests(ctx context.Context, db sqlstore.DBTX, id uuid.UUID, guests int32) (int64, error)
	ReserveFlightSeats(ctx context.Context, db sqlstore.DBTX, id uuid.UUID, seats int32) (int64, error)
	ReleaseFlightSeats(ctx context.Context, db sqlstore.DBTX, id uuid.UUID, seats int32) (int64, error)

	ResizeExcursion(ctx context.Context, db sqlstore.DBTX, id uuid.UUID, maxGuests int32) (int64, error)
	ResizeFlight(ctx context.Context, db sqlstore.DBTX, id uuid.UUID, capacity int32) (int64, error)
	UpdateRoom(ctx context.Context, db sqlstore.DBTX, arg sqlstore.UpdateRoomParams) (int64, error)

	SetExcursionStatus(ctx context.Context, db sqlstore.DBTX, id uuid.UUID, from, to string) (int64, error)
	SetFlightStatus(ctx context.Context, db sqlstore.DBTX, id uuid.UUID, from, to string) (int64, error)
	RescheduleFlight(ctx context.Context, db sqlstore.DBTX, id uuid.UUID, departureAt, arrivalAt pgtype.Timestamptz) (int64, error)
}

// InventoryRepository applies counter changes as single conditional UPDATEs,
// so the capacity bound is enforced by the row itself under concurrency.
type InventoryRepository struct {
	queries InventoryWriteQueries
	db      sqlstore.DBTX
}

func NewInventoryRepository(queries InventoryWriteQueries, db sqlstore.DBTX) *InventoryRepository {
	return &InventoryRepository{
		queries: queries,
		db:      db,
	}
}

func (r *InventoryRepository) CreateExcursion(ctx context.Context, e *inventory.Excursion) error {
	if err := r.queries.CreateExcursion(ctx, r.db, converter.ExcursionToCreateParams(e)); err != nil {
		return infra.WrapRepoErr("failed to create excursion", err)
	}
	return nil
}

func (r *InventoryRepository) CreateFlight(ctx context.Context, f *inventory.Flight) error {
	if err := r.queries.CreateFlight(ctx, r.db, converter.FlightToCreateParams(f)); err != nil {
		return infra.WrapRepoErr("failed to create flight", err)
	}
	return nil
}

func (r *InventoryRepository) CreateRoom(ctx context.Context, room *inventory.Room) error {
	if err := r.queries.CreateRoom(ctx, r.db, converter.RoomToCreateParams(room)); err != nil {
		return infra.WrapRepoErr("failed to create room", err)
	}
	return nil
}

func (r *InventoryRepository) ReserveExcursionGuests(ctx context.Context, id uuid.UUID, guests int) (bool, error) {
	rows, err := r.queries.ReserveExcursionGuests(ctx, r.db, id, int32(guests)) // #nosec G115
	if err != nil {
		return false, infra.WrapRepoErr("failed to reserve excursion guests", err)
	}
	return rows == 1, nil
}

func (r *InventoryRepository) ReleaseExcursionGuests(ctx context.Context, id uuid.UUID, guests int) error {
	rows, err := r.queries.ReleaseExcursionGuests(ctx, r.db, id, int32(guests)) // #nosec G115
	if err != nil {
		return infra.WrapRepoErr("failed to release excursion guests", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("excursion release would drive guests below zero", nil, infra.KindInvariantViolated)
	}
	return nil
}

func (r *InventoryRepository) ReserveFlightSeats(ctx context.Context, id uuid.UUID, seats int) (bool, error) {
	rows, err := r.queries.ReserveFlightSeats(ctx, r.db, id, int32(seats)) // #nosec G115
	if err != nil {
		return false, infra.WrapRepoErr("failed to reserve flight seats", err)
	}
	return rows == 1, nil
}

func (r *InventoryRepository) ReleaseFlightSeats(ctx context.Context, id uuid.UUID, seats int) error {
	rows, err := r.queries.ReleaseFlightSeats(ctx, r.db, id, int32(seats)) // #nosec G115
	if err != nil {
		return infra.WrapRepoErr("failed to release flight seats", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("flight release would exceed capacity", nil, infra.KindInvariantViolated)
	}
	return nil
}

func (r *InventoryRepository) ResizeExcursion(ctx context.Context, id uuid.UUID, maxGuests int) (bool, error) {
	rows, err := r.queries.ResizeExcursion(ctx, r.db, id, int32(maxGuests)) // #nosec G115
	if err != nil {
		return false, infra.WrapRepoErr("failed to resize excursion", err)
	}
	return rows == 1, nil
}

func (r *InventoryRepository) ResizeFlight(ctx context.Context, id uuid.UUID, capacity int) (bool, error) {
	rows, err := r.queries.ResizeFlight(ctx, r.db, id, int32(capacity)) // #nosec G115
	if err != nil {
		return false, infra.WrapRepoErr("failed to resize flight", err)
	}
	return rows == 1, nil
}

func (r *InventoryRepository) UpdateRoom(ctx context.Context, room *inventory.Room) error {
	rows, err := r.queries.UpdateRoom(ctx, r.db, converter.RoomToUpdateParams(room))
	if err != nil {
		return infra.WrapRepoErr("failed to update room", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *InventoryRepository) SetExcursionStatus(ctx context.Context, id uuid.UUID, from, to inventory.ExcursionStatus) (bool, error) {
	rows, err := r.queries.SetExcursionStatus(ctx, r.db, id, string(from), string(to))
	if err != nil {
		return false, infra.WrapRepoErr("failed to set excursion status", err)
	}
	return rows == 1, nil
}

func (r *InventoryRepository) SetFlightStatus(ctx context.Context, id uuid.UUID, from, to inventory.FlightStatus) (bool, error) {
	rows, err := r.queries.SetFlightStatus(ctx, r.db, id, string(from), string(to))
	if err != nil {
		return false, infra.WrapRepoErr("failed to set flight status", err)
	}
	return rows == 1, nil
}

func (r *InventoryRepository) RescheduleFlight(ctx context.Context, id uuid.UUID, departureAt, arrivalAt time.Time) error {
	rows, err := r.queries.RescheduleFlight(ctx, r.db, id, pgconv.TimeToPgtype(departureAt), pgconv.TimeToPgtype(arrivalAt))
	if err != nil {
		return infra.WrapRepoErr("failed to reschedule flight", err)
	}
	if rows == 0 {
		return infra.WrapRepoErr("flight not found", nil, infra.KindNotFound)
	}
	return nil
}
