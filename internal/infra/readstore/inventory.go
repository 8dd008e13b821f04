package readstore

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

type InventoryReadQueries interface {
	GetExcursion(ctx context.Context, db sqlstore.DBTX, id uuid.UUID) (sqlstore.Excursion, error)
	GetFlight(ctx context.Context, db sqlstore.DBTX, id uuid.UUID) (sqlstore.Flight, error)
	GetRoom(ctx context.Context, db sqlstore.DBTX, id uuid.UUID) (sqlstore.Room, error)
	LockRoom(ctx context.Context, db sqlstore.DBTX, id uuid.UUID) (sqlstore.Room, error)
	SumRoomsBooked(ctx context.Context, db sqlstore.DBTX, arg sqlstore.SumRoomsBookedParams) (int32, error)
	ListActiveRoomAllocations(ctx context.Context, db sqlstore.DBTX, roomID uuid.UUID, from pgtype.Timestamptz) ([]sqlstore.RoomAllocationRow, error)
	ListExcursionsDueForAdvance(ctx context.Context, db sqlstore.DBTX, now pgtype.Timestamptz, limit int32) ([]sqlstore.Excursion, error)
	ListFlightsDueForAdvance(ctx context.Context, db sqlstore.DBTX, now pgtype.Timestamptz, limit int32) ([]sqlstore.Flight, error)
}

type InventoryReadStore struct {
	queries InventoryReadQueries
	db      sqlstore.DBTX
}

func NewInventoryReadStore(queries InventoryReadQueries, db sqlstore.DBTX) *InventoryReadStore {
	return &InventoryReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *InventoryReadStore) ExcursionByID(ctx context.Context, id uuid.UUID) (*inventory.Excursion, error) {
	row, err := r.queries.GetExcursion(ctx, r.db, id)
	if err != nil {
		return nil, wrapLookupErr("excursion", err)
	}
	return converter.ExcursionFromRow(row), nil
}

func (r *InventoryReadStore) FlightByID(ctx context.Context, id uuid.UUID) (*inventory.Flight, error) {
	row, err := r.queries.GetFlight(ctx, r.db, id)
	if err != nil {
		return nil, wrapLookupErr("flight", err)
	}
	return converter.FlightFromRow(row), nil
}

func (r *InventoryReadStore) RoomByID(ctx context.Context, id uuid.UUID) (*inventory.Room, error) {
	row, err := r.queries.GetRoom(ctx, r.db, id)
	if err != nil {
		return nil, wrapLookupErr("room", err)
	}
	return converter.RoomFromRow(row), nil
}

func (r *InventoryReadStore) LockRoom(ctx context.Context, id uuid.UUID) (*inventory.Room, error) {
	row, err := r.queries.LockRoom(ctx, r.db, id)
	if err != nil {
		return nil, wrapLookupErr("room", err)
	}
	return converter.RoomFromRow(row), nil
}

func (r *InventoryReadStore) RoomsBooked(ctx context.Context, roomID uuid.UUID, window inventory.DateRange, exclude uuid.UUID) (int, error) {
	booked, err := r.queries.SumRoomsBooked(ctx, r.db, sqlstore.SumRoomsBookedParams{
		RoomID:  roomID,
		StartAt: pgconv.TimeToPgtype(window.Start()),
		EndAt:   pgconv.TimeToPgtype(window.End()),
		Exclude: exclude,
	})
	if err != nil {
		return 0, infra.WrapRepoErr("failed to sum booked rooms", err)
	}
	return int(booked), nil
}

func (r *InventoryReadStore) ActiveRoomAllocations(ctx context.Context, roomID uuid.UUID, from time.Time) ([]inventory.RoomAllocation, error) {
	rows, err := r.queries.ListActiveRoomAllocations(ctx, r.db, roomID, pgconv.TimeToPgtype(from))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list room allocations", err)
	}
	allocs := make([]inventory.RoomAllocation, 0, len(rows))
	for _, row := range rows {
		if a, ok := converter.RoomAllocationFromRow(row); ok {
			allocs = append(allocs, a)
		}
	}
	return allocs, nil
}

func (r *InventoryReadStore) ExcursionsDueForAdvance(ctx context.Context, now time.Time, limit int) ([]*inventory.Excursion, error) {
	rows, err := r.queries.ListExcursionsDueForAdvance(ctx, r.db, pgconv.TimeToPgtype(now), int32(limit)) // #nosec G115
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list excursions due for advance", err)
	}
	out := make([]*inventory.Excursion, len(rows))
	for i, row := range rows {
		out[i] = converter.ExcursionFromRow(row)
	}
	return out, nil
}

func (r *InventoryReadStore) FlightsDueForAdvance(ctx context.Context, now time.Time, limit int) ([]*inventory.Flight, error) {
	rows, err := r.queries.ListFlightsDueForAdvance(ctx, r.db, pgconv.TimeToPgtype(now), int32(limit)) // #nosec G115
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list flights due for advance", err)
	}
	out := make([]*inventory.Flight, len(rows))
	for i, row := range rows {
		out[i] = converter.FlightFromRow(row)
	}
	return out, nil
}

func wrapLookupErr(entity string, err error) error {
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr(entity+" not found", err, infra.KindNotFound)
	}
	return infra.WrapRepoErr("failed to find "+entity, err)
}
