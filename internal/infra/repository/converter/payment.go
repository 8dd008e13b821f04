package converter

import (
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/pgconv"
)

func PaymentToUpsertParams(p *payment.Payment) sqlstore.UpsertPaymentParams {
	return sqlstore.UpsertPaymentParams{
		ID:            p.ID(),
		ReservationID: p.ReservationID(),
		Reference:     p.Reference(),
		Method:        p.Method(),
		AmountCents:   p.AmountCents(),
		Status:        p.Status().String(),
		CreatedAt:     pgconv.TimeToPgtype(p.CreatedAt()),
		UpdatedAt:     pgconv.TimeToPgtype(p.UpdatedAt()),
	}
}

func PaymentFromRow(row sqlstore.Payment) (*payment.Payment, error) {
	status, err := payment.ParseStatus(row.Status)
	if err != nil {
		return nil, err
	}
	return payment.ReconstructPayment(
		row.ID, row.ReservationID,
		row.Reference, row.Method,
		row.AmountCents,
		status,
		pgconv.TimeFromPgtype(row.CreatedAt), pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
