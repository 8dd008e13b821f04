package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const excursionColumns = `id, title, price_per_guest_cents, max_guests, guests_booked, start_at, end_at, status, created_at, updated_at`

func scanExcursion(row pgx.Row) (Excursion, error) {
	var e Excursion
	err := row.Scan(&e.ID, &e.Title, &e.PricePerGuestCents, &e.MaxGuests, &e.GuestsBooked,
		&e.StartAt, &e.EndAt, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

const createExcursion = `-- name: CreateExcursion :exec
INSERT INTO excursions (id, title, price_per_guest_cents, max_guests, guests_booked, start_at, end_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $8)`

type CreateExcursionParams struct {
	ID                 uuid.UUID
	Title              string
	PricePerGuestCents int64
	MaxGuests          int32
	StartAt            pgtype.Timestamptz
	EndAt              pgtype.Timestamptz
	Status             string
	CreatedAt          pgtype.Timestamptz
}

func (q *Queries) CreateExcursion(ctx context.Context, db DBTX, arg CreateExcursionParams) error {
	_, err := db.Exec(ctx, createExcursion, arg.ID, arg.Title, arg.PricePerGuestCents, arg.MaxGuests,
		arg.StartAt, arg.EndAt, arg.Status, arg.CreatedAt)
	return err
}

const getExcursion = `-- name: GetExcursion :one
SELECT ` + excursionColumns + ` FROM excursions WHERE id = $1`

func (q *Queries) GetExcursion(ctx context.Context, db DBTX, id uuid.UUID) (Excursion, error) {
	return scanExcursion(db.QueryRow(ctx, getExcursion, id))
}

// The status, start and bound predicates make the increment a no-op when the
// excursion is not bookable, has already started or would be overbooked.
const reserveExcursionGuests = `-- name: ReserveExcursionGuests :execrows
UPDATE excursions
SET guests_booked = guests_booked + $2, updated_at = now()
WHERE id = $1 AND status = 'UPCOMING' AND start_at > now() AND guests_booked + $2 <= max_guests`

func (q *Queries) ReserveExcursionGuests(ctx context.Context, db DBTX, id uuid.UUID, guests int32) (int64, error) {
	tag, err := db.Exec(ctx, reserveExcursionGuests, id, guests)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const releaseExcursionGuests = `-- name: ReleaseExcursionGuests :execrows
UPDATE excursions
SET guests_booked = guests_booked - $2, updated_at = now()
WHERE id = $1 AND guests_booked >= $2`

func (q *Queries) ReleaseExcursionGuests(ctx context.Context, db DBTX, id uuid.UUID, guests int32) (int64, error) {
	tag, err := db.Exec(ctx, releaseExcursionGuests, id, guests)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const resizeExcursion = `-- name: ResizeExcursion :execrows
UPDATE excursions
SET max_guests = $2, updated_at = now()
WHERE id = $1 AND guests_booked <= $2`

func (q *Queries) ResizeExcursion(ctx context.Context, db DBTX, id uuid.UUID, maxGuests int32) (int64, error) {
	tag, err := db.Exec(ctx, resizeExcursion, id, maxGuests)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const setExcursionStatus = `-- name: SetExcursionStatus :execrows
UPDATE excursions SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2`

func (q *Queries) SetExcursionStatus(ctx context.Context, db DBTX, id uuid.UUID, from, to string) (int64, error) {
	tag, err := db.Exec(ctx, setExcursionStatus, id, from, to)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listExcursionsDueForAdvance = `-- name: ListExcursionsDueForAdvance :many
SELECT ` + excursionColumns + ` FROM excursions
WHERE (status = 'UPCOMING' AND start_at <= $1) OR (status = 'ONGOING' AND end_at <= $1)
ORDER BY start_at, id
LIMIT $2`

func (q *Queries) ListExcursionsDueForAdvance(ctx context.Context, db DBTX, now pgtype.Timestamptz, limit int32) ([]Excursion, error) {
	rows, err := db.Query(ctx, listExcursionsDueForAdvance, now, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (Excursion, error) { return scanExcursion(r) })
}

const flightColumns = `id, flight_number, price_per_seat_cents, capacity, seats_available, departure_at, arrival_at, status, created_at, updated_at`

func scanFlight(row pgx.Row) (Flight, error) {
	var f Flight
	err := row.Scan(&f.ID, &f.FlightNumber, &f.PricePerSeatCents, &f.Capacity, &f.SeatsAvailable,
		&f.DepartureAt, &f.ArrivalAt, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

const createFlight = `-- name: CreateFlight :exec
INSERT INTO flights (id, flight_number, price_per_seat_cents, capacity, seats_available, departure_at, arrival_at, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4, $5, $6, $7, $8, $8)`

type CreateFlightParams struct {
	ID                uuid.UUID
	FlightNumber      string
	PricePerSeatCents int64
	Capacity          int32
	DepartureAt       pgtype.Timestamptz
	ArrivalAt         pgtype.Timestamptz
	Status            string
	CreatedAt         pgtype.Timestamptz
}

func (q *Queries) CreateFlight(ctx context.Context, db DBTX, arg CreateFlightParams) error {
	_, err := db.Exec(ctx, createFlight, arg.ID, arg.FlightNumber, arg.PricePerSeatCents, arg.Capacity,
		arg.DepartureAt, arg.ArrivalAt, arg.Status, arg.CreatedAt)
	return err
}

const getFlight = `-- name: GetFlight :one
SELECT ` + flightColumns + ` FROM flights WHERE id = $1`

func (q *Queries) GetFlight(ctx context.Context, db DBTX, id uuid.UUID) (Flight, error) {
	return scanFlight(db.QueryRow(ctx, getFlight, id))
}

const reserveFlightSeats = `-- name: ReserveFlightSeats :execrows
UPDATE flights
SET seats_available = seats_available - $2, updated_at = now()
WHERE id = $1 AND status IN ('SCHEDULED', 'DELAYED') AND departure_at > now() AND seats_available >= $2`

func (q *Queries) ReserveFlightSeats(ctx context.Context, db DBTX, id uuid.UUID, seats int32) (int64, error) {
	tag, err := db.Exec(ctx, reserveFlightSeats, id, seats)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const releaseFlightSeats = `-- name: ReleaseFlightSeats :execrows
UPDATE flights
SET seats_available = seats_available + $2, updated_at = now()
WHERE id = $1 AND seats_available + $2 <= capacity`

func (q *Queries) ReleaseFlightSeats(ctx context.Context, db DBTX, id uuid.UUID, seats int32) (int64, error) {
	tag, err := db.Exec(ctx, releaseFlightSeats, id, seats)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SET expressions all read the pre-update row, so the seat delta uses the old capacity.
const resizeFlight = `-- name: ResizeFlight :execrows
UPDATE flights
SET capacity = $2, seats_available = seats_available + ($2 - capacity), updated_at = now()
WHERE id = $1 AND seats_available + ($2 - capacity) >= 0`

func (q *Queries) ResizeFlight(ctx context.Context, db DBTX, id uuid.UUID, capacity int32) (int64, error) {
	tag, err := db.Exec(ctx, resizeFlight, id, capacity)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const setFlightStatus = `-- name: SetFlightStatus :execrows
UPDATE flights SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2`

func (q *Queries) SetFlightStatus(ctx context.Context, db DBTX, id uuid.UUID, from, to string) (int64, error) {
	tag, err := db.Exec(ctx, setFlightStatus, id, from, to)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const rescheduleFlight = `-- name: RescheduleFlight :execrows
UPDATE flights SET departure_at = $2, arrival_at = $3, updated_at = now()
WHERE id = $1`

func (q *Queries) RescheduleFlight(ctx context.Context, db DBTX, id uuid.UUID, departureAt, arrivalAt pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, rescheduleFlight, id, departureAt, arrivalAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listFlightsDueForAdvance = `-- name: ListFlightsDueForAdvance :many
SELECT ` + flightColumns + ` FROM flights
WHERE (status IN ('SCHEDULED', 'DELAYED') AND departure_at <= $1) OR (status = 'DEPARTED' AND arrival_at <= $1)
ORDER BY departure_at, id
LIMIT $2`

func (q *Queries) ListFlightsDueForAdvance(ctx context.Context, db DBTX, now pgtype.Timestamptz, limit int32) ([]Flight, error) {
	rows, err := db.Query(ctx, listFlightsDueForAdvance, now, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (Flight, error) { return scanFlight(r) })
}

const roomColumns = `id, hotel_name, room_type, price_per_night_cents, capacity, total_rooms, created_at, updated_at`

func scanRoom(row pgx.Row) (Room, error) {
	var r Room
	err := row.Scan(&r.ID, &r.HotelName, &r.RoomType, &r.PricePerNightCents, &r.Capacity, &r.TotalRooms,
		&r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const createRoom = `-- name: CreateRoom :exec
INSERT INTO rooms (id, hotel_name, room_type, price_per_night_cents, capacity, total_rooms, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

type CreateRoomParams struct {
	ID                 uuid.UUID
	HotelName          string
	RoomType           string
	PricePerNightCents int64
	Capacity           int32
	TotalRooms         int32
	CreatedAt          pgtype.Timestamptz
}

func (q *Queries) CreateRoom(ctx context.Context, db DBTX, arg CreateRoomParams) error {
	_, err := db.Exec(ctx, createRoom, arg.ID, arg.HotelName, arg.RoomType, arg.PricePerNightCents,
		arg.Capacity, arg.TotalRooms, arg.CreatedAt)
	return err
}

const getRoom = `-- name: GetRoom :one
SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

func (q *Queries) GetRoom(ctx context.Context, db DBTX, id uuid.UUID) (Room, error) {
	return scanRoom(db.QueryRow(ctx, getRoom, id))
}

const lockRoom = `-- name: LockRoom :one
SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 FOR UPDATE`

func (q *Queries) LockRoom(ctx context.Context, db DBTX, id uuid.UUID) (Room, error) {
	return scanRoom(db.QueryRow(ctx, lockRoom, id))
}

const updateRoom = `-- name: UpdateRoom :execrows
UPDATE rooms
SET hotel_name = $2, room_type = $3, price_per_night_cents = $4, capacity = $5, total_rooms = $6, updated_at = $7
WHERE id = $1`

type UpdateRoomParams struct {
	ID                 uuid.UUID
	HotelName          string
	RoomType           string
	PricePerNightCents int64
	Capacity           int32
	TotalRooms         int32
	UpdatedAt          pgtype.Timestamptz
}

func (q *Queries) UpdateRoom(ctx context.Context, db DBTX, arg UpdateRoomParams) (int64, error) {
	tag, err := db.Exec(ctx, updateRoom, arg.ID, arg.HotelName, arg.RoomType, arg.PricePerNightCents,
		arg.Capacity, arg.TotalRooms, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Half-open overlap: [start, end) intersects [$2, $3).
const sumRoomsBooked = `-- name: SumRoomsBooked :one
SELECT COALESCE(SUM(quantity), 0)::int
FROM reservations
WHERE room_id = $1
  AND status IN ('PENDING', 'CONFIRMED')
  AND start_at < $3 AND end_at > $2
  AND id <> $4`

type SumRoomsBookedParams struct {
	RoomID  uuid.UUID
	StartAt pgtype.Timestamptz
	EndAt   pgtype.Timestamptz
	Exclude uuid.UUID
}

func (q *Queries) SumRoomsBooked(ctx context.Context, db DBTX, arg SumRoomsBookedParams) (int32, error) {
	var booked int32
	err := db.QueryRow(ctx, sumRoomsBooked, arg.RoomID, arg.StartAt, arg.EndAt, arg.Exclude).Scan(&booked)
	return booked, err
}

const listActiveRoomAllocations = `-- name: ListActiveRoomAllocations :many
SELECT id, quantity, guests, start_at, end_at
FROM reservations
WHERE room_id = $1 AND status IN ('PENDING', 'CONFIRMED') AND end_at > $2
ORDER BY start_at, id`

func (q *Queries) ListActiveRoomAllocations(ctx context.Context, db DBTX, roomID uuid.UUID, from pgtype.Timestamptz) ([]RoomAllocationRow, error) {
	rows, err := db.Query(ctx, listActiveRoomAllocations, roomID, from)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (RoomAllocationRow, error) {
		var a RoomAllocationRow
		err := r.Scan(&a.ID, &a.Quantity, &a.Guests, &a.StartAt, &a.EndAt)
		return a, err
	})
}
