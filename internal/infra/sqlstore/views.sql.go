package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationViewSelect = `SELECT r.id, r.customer_id, r.kind, r.excursion_id, r.room_id, r.flight_id, r.status, r.quantity,
       r.guests, r.amount_cents, r.start_at, r.end_at, r.payment_deadline, r.immediate_payment,
       r.special_requests, r.created_at, r.updated_at,
       COALESCE(e.title, f.flight_number, rm.hotel_name || CASE WHEN rm.room_type = '' THEN '' ELSE ' - ' || rm.room_type END, '') AS item_name,
       p.status AS payment_status
FROM reservations r
LEFT JOIN excursions e ON e.id = r.excursion_id
LEFT JOIN flights f ON f.id = r.flight_id
LEFT JOIN rooms rm ON rm.id = r.room_id
LEFT JOIN payments p ON p.reservation_id = r.id`

func scanReservationView(row pgx.Row) (ReservationViewRow, error) {
	var v ReservationViewRow
	targets := append(v.Reservation.scanTargets(), &v.ItemName, &v.PaymentStatus)
	err := row.Scan(targets...)
	return v, err
}

const getReservationView = `-- name: GetReservationView :one
` + reservationViewSelect + `
WHERE r.id = $1`

func (q *Queries) GetReservationView(ctx context.Context, db DBTX, id uuid.UUID) (ReservationViewRow, error) {
	return scanReservationView(db.QueryRow(ctx, getReservationView, id))
}

// Keyset pagination on (created_at, id) descending; a NULL cursor starts at the newest row.
const listReservationViewsByCustomer = `-- name: ListReservationViewsByCustomer :many
` + reservationViewSelect + `
WHERE r.customer_id = $1
  AND ($2::timestamptz IS NULL OR (r.created_at, r.id) < ($2::timestamptz, $3::uuid))
ORDER BY r.created_at DESC, r.id DESC
LIMIT $4`

type ListReservationViewsByCustomerParams struct {
	CustomerID     uuid.UUID
	AfterCreatedAt pgtype.Timestamptz
	AfterID        pgtype.UUID
	Limit          int32
}

func (q *Queries) ListReservationViewsByCustomer(ctx context.Context, db DBTX, arg ListReservationViewsByCustomerParams) ([]ReservationViewRow, error) {
	rows, err := db.Query(ctx, listReservationViewsByCustomer, arg.CustomerID, arg.AfterCreatedAt, arg.AfterID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (ReservationViewRow, error) { return scanReservationView(r) })
}
