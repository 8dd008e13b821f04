package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `id, customer_id, kind, excursion_id, room_id, flight_id, status, quantity, guests, amount_cents,
       start_at, end_at, payment_deadline, immediate_payment, special_requests, created_at, updated_at`

func (r *Reservation) scanTargets() []any {
	return []any{&r.ID, &r.CustomerID, &r.Kind, &r.ExcursionID, &r.RoomID, &r.FlightID, &r.Status,
		&r.Quantity, &r.Guests, &r.AmountCents, &r.StartAt, &r.EndAt, &r.PaymentDeadline,
		&r.ImmediatePayment, &r.SpecialRequests, &r.CreatedAt, &r.UpdatedAt}
}

func scanReservation(row pgx.Row) (Reservation, error) {
	var r Reservation
	err := row.Scan(r.scanTargets()...)
	return r, err
}

const createReservation = `-- name: CreateReservation :exec
INSERT INTO reservations (
    id, customer_id, kind, excursion_id, room_id, flight_id, status, quantity, guests, amount_cents,
    start_at, end_at, payment_deadline, immediate_payment, special_requests, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

type CreateReservationParams struct {
	ID               uuid.UUID
	CustomerID       uuid.UUID
	Kind             string
	ExcursionID      pgtype.UUID
	RoomID           pgtype.UUID
	FlightID         pgtype.UUID
	Status           string
	Quantity         int32
	Guests           int32
	AmountCents      int64
	StartAt          pgtype.Timestamptz
	EndAt            pgtype.Timestamptz
	PaymentDeadline  pgtype.Timestamptz
	ImmediatePayment bool
	SpecialRequests  pgtype.Text
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

func (q *Queries) CreateReservation(ctx context.Context, db DBTX, arg CreateReservationParams) error {
	_, err := db.Exec(ctx, createReservation,
		arg.ID, arg.CustomerID, arg.Kind, arg.ExcursionID, arg.RoomID, arg.FlightID, arg.Status,
		arg.Quantity, arg.Guests, arg.AmountCents, arg.StartAt, arg.EndAt, arg.PaymentDeadline,
		arg.ImmediatePayment, arg.SpecialRequests, arg.CreatedAt, arg.UpdatedAt,
	)
	return err
}

const updateReservation = `-- name: UpdateReservation :execrows
UPDATE reservations
SET excursion_id = $2, room_id = $3, flight_id = $4, status = $5, quantity = $6, guests = $7,
    amount_cents = $8, start_at = $9, end_at = $10, payment_deadline = $11, immediate_payment = $12,
    special_requests = $13, updated_at = $14
WHERE id = $1`

type UpdateReservationParams struct {
	ID               uuid.UUID
	ExcursionID      pgtype.UUID
	RoomID           pgtype.UUID
	FlightID         pgtype.UUID
	Status           string
	Quantity         int32
	Guests           int32
	AmountCents      int64
	StartAt          pgtype.Timestamptz
	EndAt            pgtype.Timestamptz
	PaymentDeadline  pgtype.Timestamptz
	ImmediatePayment bool
	SpecialRequests  pgtype.Text
	UpdatedAt        pgtype.Timestamptz
}

func (q *Queries) UpdateReservation(ctx context.Context, db DBTX, arg UpdateReservationParams) (int64, error) {
	tag, err := db.Exec(ctx, updateReservation,
		arg.ID, arg.ExcursionID, arg.RoomID, arg.FlightID, arg.Status, arg.Quantity, arg.Guests,
		arg.AmountCents, arg.StartAt, arg.EndAt, arg.PaymentDeadline, arg.ImmediatePayment,
		arg.SpecialRequests, arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteReservation = `-- name: DeleteReservation :execrows
DELETE FROM reservations WHERE id = $1`

func (q *Queries) DeleteReservation(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, deleteReservation, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getReservation = `-- name: GetReservation :one
SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

func (q *Queries) GetReservation(ctx context.Context, db DBTX, id uuid.UUID) (Reservation, error) {
	return scanReservation(db.QueryRow(ctx, getReservation, id))
}

const lockReservation = `-- name: LockReservation :one
SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`

func (q *Queries) LockReservation(ctx context.Context, db DBTX, id uuid.UUID) (Reservation, error) {
	return scanReservation(db.QueryRow(ctx, lockReservation, id))
}

const listOverdueReservationIDs = `-- name: ListOverdueReservationIDs :many
SELECT id FROM reservations
WHERE status = 'PENDING' AND payment_deadline < $1
ORDER BY payment_deadline, id
LIMIT $2`

func (q *Queries) ListOverdueReservationIDs(ctx context.Context, db DBTX, now pgtype.Timestamptz, limit int32) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, listOverdueReservationIDs, now, limit)
	if err != nil {
		return nil, err
	}
	return collectIDs[uuid.UUID](rows)
}

const listCancelledExcursionsWithActiveReservations = `-- name: ListCancelledExcursionsWithActiveReservations :many
SELECT DISTINCT e.id FROM excursions e
JOIN reservations r ON r.excursion_id = e.id
WHERE e.status = 'CANCELLED' AND r.status IN ('PENDING', 'CONFIRMED')
LIMIT $1`

const listCancelledFlightsWithActiveReservations = `-- name: ListCancelledFlightsWithActiveReservations :many
SELECT DISTINCT f.id FROM flights f
JOIN reservations r ON r.flight_id = f.id
WHERE f.status = 'CANCELLED' AND r.status IN ('PENDING', 'CONFIRMED')
LIMIT $1`

func (q *Queries) ListCancelledExcursionsWithActiveReservations(ctx context.Context, db DBTX, limit int32) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, listCancelledExcursionsWithActiveReservations, limit)
	if err != nil {
		return nil, err
	}
	return collectIDs[uuid.UUID](rows)
}

func (q *Queries) ListCancelledFlightsWithActiveReservations(ctx context.Context, db DBTX, limit int32) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, listCancelledFlightsWithActiveReservations, limit)
	if err != nil {
		return nil, err
	}
	return collectIDs[uuid.UUID](rows)
}

const listActiveReservationIDsForExcursion = `-- name: ListActiveReservationIDsForExcursion :many
SELECT id FROM reservations
WHERE excursion_id = $1 AND status IN ('PENDING', 'CONFIRMED')
ORDER BY created_at, id`

const listActiveReservationIDsForFlight = `-- name: ListActiveReservationIDsForFlight :many
SELECT id FROM reservations
WHERE flight_id = $1 AND status IN ('PENDING', 'CONFIRMED')
ORDER BY created_at, id`

const listActiveReservationIDsForRoom = `-- name: ListActiveReservationIDsForRoom :many
SELECT id FROM reservations
WHERE room_id = $1 AND status IN ('PENDING', 'CONFIRMED')
ORDER BY created_at, id`

func (q *Queries) ListActiveReservationIDsForExcursion(ctx context.Context, db DBTX, excursionID uuid.UUID) ([]uuid.UUID, error) {
	return q.listIDs(ctx, db, listActiveReservationIDsForExcursion, excursionID)
}

func (q *Queries) ListActiveReservationIDsForFlight(ctx context.Context, db DBTX, flightID uuid.UUID) ([]uuid.UUID, error) {
	return q.listIDs(ctx, db, listActiveReservationIDsForFlight, flightID)
}

func (q *Queries) ListActiveReservationIDsForRoom(ctx context.Context, db DBTX, roomID uuid.UUID) ([]uuid.UUID, error) {
	return q.listIDs(ctx, db, listActiveReservationIDsForRoom, roomID)
}

const listEndedExcursionReservationIDs = `-- name: ListEndedExcursionReservationIDs :many
SELECT r.id FROM reservations r
JOIN excursions e ON e.id = r.excursion_id
WHERE e.status = 'COMPLETED' AND r.status IN ('PENDING', 'CONFIRMED')
ORDER BY r.id
LIMIT $1`

const listEndedFlightReservationIDs = `-- name: ListEndedFlightReservationIDs :many
SELECT r.id FROM reservations r
JOIN flights f ON f.id = r.flight_id
WHERE f.status = 'LANDED' AND r.status IN ('PENDING', 'CONFIRMED')
ORDER BY r.id
LIMIT $1`

const listEndedStayReservationIDs = `-- name: ListEndedStayReservationIDs :many
SELECT id FROM reservations
WHERE room_id IS NOT NULL AND status IN ('PENDING', 'CONFIRMED') AND end_at <= $1
ORDER BY end_at, id
LIMIT $2`

func (q *Queries) ListEndedExcursionReservationIDs(ctx context.Context, db DBTX, limit int32) ([]uuid.UUID, error) {
	return q.listIDs(ctx, db, listEndedExcursionReservationIDs, limit)
}

func (q *Queries) ListEndedFlightReservationIDs(ctx context.Context, db DBTX, limit int32) ([]uuid.UUID, error) {
	return q.listIDs(ctx, db, listEndedFlightReservationIDs, limit)
}

func (q *Queries) ListEndedStayReservationIDs(ctx context.Context, db DBTX, now pgtype.Timestamptz, limit int32) ([]uuid.UUID, error) {
	return q.listIDs(ctx, db, listEndedStayReservationIDs, now, limit)
}

func (q *Queries) listIDs(ctx context.Context, db DBTX, sql string, args ...any) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collectIDs[uuid.UUID](rows)
}
