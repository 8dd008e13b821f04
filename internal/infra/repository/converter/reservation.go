package converter

import (
	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

type itemColumns struct {
	excursionID pgtype.UUID
	roomID      pgtype.UUID
	flightID    pgtype.UUID
	startAt     pgtype.Timestamptz
	endAt       pgtype.Timestamptz
}

func allocationColumns(alloc reservation.Allocation) itemColumns {
	cols := itemColumns{
		excursionID: pgconv.UUIDIfToPgtype(alloc.ItemID, alloc.Kind == inventory.KindExcursion),
		roomID:      pgconv.UUIDIfToPgtype(alloc.ItemID, alloc.Kind == inventory.KindRoom),
		flightID:    pgconv.UUIDIfToPgtype(alloc.ItemID, alloc.Kind == inventory.KindFlight),
	}
	if !alloc.Window.IsZero() {
		cols.startAt = pgconv.TimeToPgtype(alloc.Window.Start())
		cols.endAt = pgconv.TimeToPgtype(alloc.Window.End())
	}
	return cols
}

func ReservationToCreateParams(res *reservation.Reservation) sqlstore.CreateReservationParams {
	cols := allocationColumns(res.Allocation())
	return sqlstore.CreateReservationParams{
		ID:               res.ID(),
		CustomerID:       res.CustomerID(),
		Kind:             res.Kind().String(),
		ExcursionID:      cols.excursionID,
		RoomID:           cols.roomID,
		FlightID:         cols.flightID,
		Status:           res.Status().String(),
		Quantity:         int32(res.Quantity()), // #nosec G115 -- bounded by item capacity
		Guests:           int32(res.Guests()),   // #nosec G115
		AmountCents:      res.Amount().Cents(),
		StartAt:          cols.startAt,
		EndAt:            cols.endAt,
		PaymentDeadline:  pgconv.TimeToPgtype(res.PaymentDeadline()),
		ImmediatePayment: res.ImmediatePayment(),
		SpecialRequests:  pgconv.NonEmptyToPgtype(res.SpecialRequests().String()),
		CreatedAt:        pgconv.TimeToPgtype(res.CreatedAt()),
		UpdatedAt:        pgconv.TimeToPgtype(res.UpdatedAt()),
	}
}

func ReservationToUpdateParams(res *reservation.Reservation) sqlstore.UpdateReservationParams {
	cols := allocationColumns(res.Allocation())
	return sqlstore.UpdateReservationParams{
		ID:               res.ID(),
		ExcursionID:      cols.excursionID,
		RoomID:           cols.roomID,
		FlightID:         cols.flightID,
		Status:           res.Status().String(),
		Quantity:         int32(res.Quantity()), // #nosec G115
		Guests:           int32(res.Guests()),   // #nosec G115
		AmountCents:      res.Amount().Cents(),
		StartAt:          cols.startAt,
		EndAt:            cols.endAt,
		PaymentDeadline:  pgconv.TimeToPgtype(res.PaymentDeadline()),
		ImmediatePayment: res.ImmediatePayment(),
		SpecialRequests:  pgconv.NonEmptyToPgtype(res.SpecialRequests().String()),
		UpdatedAt:        pgconv.TimeToPgtype(res.UpdatedAt()),
	}
}

func ReservationFromRow(row sqlstore.Reservation) (*reservation.Reservation, error) {
	kind, err := inventory.ParseKind(row.Kind)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", row.ID)
	}

	alloc := reservation.Allocation{
		Kind:     kind,
		ItemID:   pgconv.FirstUUID(row.ExcursionID, row.RoomID, row.FlightID),
		Quantity: int(row.Quantity),
		Guests:   int(row.Guests),
	}
	if row.StartAt.Valid && row.EndAt.Valid {
		window, werr := inventory.NewDateRange(pgconv.TimeFromPgtype(row.StartAt), pgconv.TimeFromPgtype(row.EndAt))
		if werr != nil {
			return nil, errs.Wrapf(werr, "reservation %s", row.ID)
		}
		alloc.Window = window
	}

	var note reservation.Note
	if row.SpecialRequests.Valid {
		if note, err = reservation.NewNote(row.SpecialRequests.String); err != nil {
			return nil, errs.Wrapf(err, "reservation %s", row.ID)
		}
	}

	return reservation.ReconstructReservation(
		row.ID, row.CustomerID,
		alloc,
		status,
		reservation.NewMoney(row.AmountCents),
		pgconv.TimeFromPgtype(row.PaymentDeadline),
		row.ImmediatePayment,
		note,
		pgconv.TimeFromPgtype(row.CreatedAt), pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}
