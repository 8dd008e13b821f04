package readstore

import (
	"context"
	"time"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/pgconv"
	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationViewQueries interface {
	GetReservationView(ctx context.Context, db sqlstore.DBTX, id uuid.UUID) (sqlstore.ReservationViewRow, error)
	ListReservationViewsByCustomer(ctx context.Context, db sqlstore.DBTX, arg sqlstore.ListReservationViewsByCustomerParams) ([]sqlstore.ReservationViewRow, error)
}

// ReservationViewStore serves the query side straight from the pool.
type ReservationViewStore struct {
	queries ReservationViewQueries
	db      sqlstore.DBTX
}

var _ queries.ReservationViewRepo = (*ReservationViewStore)(nil)

func NewReservationViewStore(queries ReservationViewQueries, db sqlstore.DBTX) *ReservationViewStore {
	return &ReservationViewStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationViewStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationView(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return rowToReservationView(row), nil
}

func (r *ReservationViewStore) FindByCustomerAfter(ctx context.Context, customerID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int) ([]*queries.ReservationListItem, error) {
	params := sqlstore.ListReservationViewsByCustomerParams{
		CustomerID:     customerID,
		AfterCreatedAt: pgconv.TimePtrToPgtype(afterCreatedAt),
		AfterID:        pgconv.UUIDPtrToPgtype(afterID),
		Limit:          int32(limit), // #nosec G115 -- bounded by MaxListLimit
	}

	rows, err := r.queries.ListReservationViewsByCustomer(ctx, r.db, params)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by customer", err)
	}

	result := make([]*queries.ReservationListItem, len(rows))
	for i, row := range rows {
		result[i] = rowToReservationListItem(row)
	}
	return result, nil
}

func rowToReservationView(row sqlstore.ReservationViewRow) *queries.ReservationView {
	return &queries.ReservationView{
		ID:               row.ID,
		CustomerID:       row.CustomerID,
		Kind:             row.Kind,
		ItemID:           pgconv.FirstUUID(row.ExcursionID, row.RoomID, row.FlightID),
		ItemName:         row.ItemName,
		Status:           row.Status,
		Quantity:         int(row.Quantity),
		Guests:           int(row.Guests),
		StartAt:          pgconv.TimePtrFromPgtype(row.StartAt),
		EndAt:            pgconv.TimePtrFromPgtype(row.EndAt),
		AmountCents:      row.AmountCents,
		PaymentDeadline:  pgconv.TimeFromPgtype(row.PaymentDeadline),
		ImmediatePayment: row.ImmediatePayment,
		PaymentStatus:    pgconv.StringPtrFromPgtype(row.PaymentStatus),
		SpecialRequests:  pgconv.StringPtrFromPgtype(row.SpecialRequests),
		CreatedAt:        pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:        pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func rowToReservationListItem(row sqlstore.ReservationViewRow) *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:              row.ID,
		Kind:            row.Kind,
		ItemID:          pgconv.FirstUUID(row.ExcursionID, row.RoomID, row.FlightID),
		ItemName:        row.ItemName,
		Status:          row.Status,
		Quantity:        int(row.Quantity),
		AmountCents:     row.AmountCents,
		PaymentDeadline: pgconv.TimeFromPgtype(row.PaymentDeadline),
		CreatedAt:       pgconv.TimeFromPgtype(row.CreatedAt),
	}
}
