package readstore

import (
	"context"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/repository/converter"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationReadQueries interface {
	GetReservation(ctx context.Context, db sqlstore.DBTX, id uuid.UUID) (sqlstore.Reservation, error)
	LockReservation(ctx context.Context, db sqlstore.DBTX, id uuid.UUID) (sqlstore.Reservation, error)
	GetPaymentByReservation(ctx context.Context, db sqlstore.DBTX, reservationID uuid.UUID) (sqlstore.Payment, error)
	GetPaymentByReference(ctx context.Context, db sqlstore.DBTX, reference string) (sqlstore.Payment, error)

	ListOverdueReservationIDs(ctx context.Context, db sqlstore.DBTX, now pgtype.Timestamptz, limit int32) ([]uuid.UUID, error)
	ListCancelledExcursionsWithActiveReservations(ctx context.Context, db sqlstore.DBTX, limit int32) ([]uuid.UUID, error)
	ListCancelledFlightsWithActiveReservations(ctx context.Context, db sqlstore.DBTX, limit int32) ([]uuid.UUID, error)
	ListActiveReservationIDsForExcursion(ctx context.Context, db sqlstore.DBTX, excursionID uuid.UUID) ([]uuid.UUID, error)
	ListActiveReservationIDsForFlight(ctx context.Context, db sqlstore.DBTX, flightID uuid.UUID) ([]uuid.UUID, error)
	ListActiveReservationIDsForRoom(ctx context.Context, db sqlstore.DBTX, roomID uuid.UUID) ([]uuid.UUID, error)
	ListEndedExcursionReservationIDs(ctx context.Context, db sqlstore.DBTX, limit int32) ([]uuid.UUID, error)
	ListEndedFlightReservationIDs(ctx context.Context, db sqlstore.DBTX, limit int32) ([]uuid.UUID, error)
	ListEndedStayReservationIDs(ctx context.Context, db sqlstore.DBTX, now pgtype.Timestamptz, limit int32) ([]uuid.UUID, error)
}

// ReservationReadStore loads reservation aggregates and their payment inside a command transaction.
type ReservationReadStore struct {
	queries ReservationReadQueries
	db      sqlstore.DBTX
}

func NewReservationReadStore(queries ReservationReadQueries, db sqlstore.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservation(ctx, r.db, id)
	if err != nil {
		return nil, wrapLookupErr("reservation", err)
	}
	return reservationFromRow(row)
}

// Lock reads the reservation FOR UPDATE.
func (r *ReservationReadStore) Lock(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.LockReservation(ctx, r.db, id)
	if err != nil {
		return nil, wrapLookupErr("reservation", err)
	}
	return reservationFromRow(row)
}

func reservationFromRow(row sqlstore.Reservation) (*reservation.Reservation, error) {
	res, err := converter.ReservationFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt reservation row", err, infra.KindInvariantViolated)
	}
	return res, nil
}

// PaymentByReservation returns nil, nil when no payment was ever initiated.
func (r *ReservationReadStore) PaymentByReservation(ctx context.Context, reservationID uuid.UUID) (*payment.Payment, error) {
	row, err := r.queries.GetPaymentByReservation(ctx, r.db, reservationID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return paymentFromRow(row)
}

func (r *ReservationReadStore) PaymentByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	row, err := r.queries.GetPaymentByReference(ctx, r.db, reference)
	if err != nil {
		return nil, wrapLookupErr("payment", err)
	}
	return paymentFromRow(row)
}

func paymentFromRow(row sqlstore.Payment) (*payment.Payment, error) {
	p, err := converter.PaymentFromRow(row)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt payment row", err, infra.KindInvariantViolated)
	}
	return p, nil
}

func (r *ReservationReadStore) OverdueIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	ids, err := r.queries.ListOverdueReservationIDs(ctx, r.db, pgconv.TimeToPgtype(now), int32(limit)) // #nosec G115
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list overdue reservations", err)
	}
	return ids, nil
}

func (r *ReservationReadStore) CancelledItemsWithActiveReservations(ctx context.Context, kind inventory.Kind, limit int) ([]uuid.UUID, error) {
	var (
		ids []uuid.UUID
		err error
	)
	switch kind {
	case inventory.KindExcursion:
		ids, err = r.queries.ListCancelledExcursionsWithActiveReservations(ctx, r.db, int32(limit)) // #nosec G115
	case inventory.KindFlight:
		ids, err = r.queries.ListCancelledFlightsWithActiveReservations(ctx, r.db, int32(limit)) // #nosec G115
	default:
		// rooms have no cancelled status
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list cancelled items", err)
	}
	return ids, nil
}

func (r *ReservationReadStore) ActiveIDsForItem(ctx context.Context, kind inventory.Kind, itemID uuid.UUID) ([]uuid.UUID, error) {
	var (
		ids []uuid.UUID
		err error
	)
	switch kind {
	case inventory.KindExcursion:
		ids, err = r.queries.ListActiveReservationIDsForExcursion(ctx, r.db, itemID)
	case inventory.KindFlight:
		ids, err = r.queries.ListActiveReservationIDsForFlight(ctx, r.db, itemID)
	case inventory.KindRoom:
		ids, err = r.queries.ListActiveReservationIDsForRoom(ctx, r.db, itemID)
	default:
		return nil, errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", kind)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active reservations for item", err)
	}
	return ids, nil
}

func (r *ReservationReadStore) EndedIDs(ctx context.Context, kind inventory.Kind, now time.Time, limit int) ([]uuid.UUID, error) {
	var (
		ids []uuid.UUID
		err error
	)
	switch kind {
	case inventory.KindExcursion:
		ids, err = r.queries.ListEndedExcursionReservationIDs(ctx, r.db, int32(limit)) // #nosec G115
	case inventory.KindFlight:
		ids, err = r.queries.ListEndedFlightReservationIDs(ctx, r.db, int32(limit)) // #nosec G115
	case inventory.KindRoom:
		ids, err = r.queries.ListEndedStayReservationIDs(ctx, r.db, pgconv.TimeToPgtype(now), int32(limit)) // #nosec G115
	default:
		return nil, errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", kind)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ended reservations", err)
	}
	return ids, nil
}
