package queries

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/queries/reservation.go -package=queriesmock

import (
	"context"
	"time"

	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReservationQueries interface {
	GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReservationView, error)
	ListByCustomer(ctx context.Context, actor user.Actor, customerID uuid.UUID, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error)
}

type ReservationViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	// FindByCustomerAfter lists newest first, strictly after the (createdAt, id) key when given.
	FindByCustomerAfter(ctx context.Context, customerID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int) ([]*ReservationListItem, error)
}

type reservationQueriesImpl struct {
	repo ReservationViewRepo
}

func NewReservationQueries(repo ReservationViewRepo) ReservationQueries {
	return &reservationQueriesImpl{repo: repo}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*ReservationView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(view.CustomerID) {
		// not revealing other customers' reservations
		return nil, errs.Wrapf(errs.ErrNotFound, "reservation %s", id)
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByCustomer(ctx context.Context, actor user.Actor, customerID uuid.UUID, after *Cursor, limit int) ([]*ReservationListItem, *Cursor, error) {
	if !actor.CanActFor(customerID) {
		return nil, nil, errs.Wrap(errs.ErrForbidden, "cannot list another customer's reservations")
	}
	limit = ValidateLimit(limit)

	var (
		afterAt *time.Time
		afterID *uuid.UUID
	)
	if after != nil && after.After != "" {
		at, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, err
		}
		afterAt, afterID = &at, &id
	}

	// one extra row tells whether another page exists
	rows, err := q.repo.FindByCustomerAfter(ctx, customerID, afterAt, afterID, limit+1)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) <= limit {
		return rows, nil, nil
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	return rows, &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}, nil
}
