package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const paymentColumns = `id, reservation_id, reference, method, amount_cents, status, created_at, updated_at`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	err := row.Scan(&p.ID, &p.ReservationID, &p.Reference, &p.Method, &p.AmountCents, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// One payment per reservation: a re-initiated payment replaces the previous attempt.
const upsertPayment = `-- name: UpsertPayment :exec
INSERT INTO payments (id, reservation_id, reference, method, amount_cents, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (reservation_id) DO UPDATE
SET reference = EXCLUDED.reference,
    method = EXCLUDED.method,
    amount_cents = EXCLUDED.amount_cents,
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`

type UpsertPaymentParams struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	Reference     string
	Method        string
	AmountCents   int64
	Status        string
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

func (q *Queries) UpsertPayment(ctx context.Context, db DBTX, arg UpsertPaymentParams) error {
	_, err := db.Exec(ctx, upsertPayment, arg.ID, arg.ReservationID, arg.Reference, arg.Method,
		arg.AmountCents, arg.Status, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const updatePaymentStatus = `-- name: UpdatePaymentStatus :execrows
UPDATE payments SET status = $2, updated_at = $3 WHERE id = $1`

func (q *Queries) UpdatePaymentStatus(ctx context.Context, db DBTX, id uuid.UUID, status string, updatedAt pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, updatePaymentStatus, id, status, updatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getPaymentByReservation = `-- name: GetPaymentByReservation :one
SELECT ` + paymentColumns + ` FROM payments WHERE reservation_id = $1`

func (q *Queries) GetPaymentByReservation(ctx context.Context, db DBTX, reservationID uuid.UUID) (Payment, error) {
	return scanPayment(db.QueryRow(ctx, getPaymentByReservation, reservationID))
}

const getPaymentByReference = `-- name: GetPaymentByReference :one
SELECT ` + paymentColumns + ` FROM payments WHERE reference = $1`

func (q *Queries) GetPaymentByReference(ctx context.Context, db DBTX, reference string) (Payment, error) {
	return scanPayment(db.QueryRow(ctx, getPaymentByReference, reference))
}
