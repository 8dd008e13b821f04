package queries

//go:generate mockgen -source=availability.go -destination=../../../tests/mock/queries/availability.go -package=queriesmock

import (
	"context"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/ledger"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type CheckAvailabilityInput struct {
	Kind      inventory.Kind
	ItemID    uuid.UUID
	StartAt   *time.Time
	EndAt     *time.Time
	Requested int
}

// AvailabilityQueries answers advisory pre-submission checks. Nothing is held;
// the booking transaction re-derives availability.
type AvailabilityQueries interface {
	CheckAvailability(ctx context.Context, in CheckAvailabilityInput) (*AvailabilityView, error)
	GetItem(ctx context.Context, kind inventory.Kind, id uuid.UUID) (*ItemView, error)
}

type availabilityQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewAvailabilityQueries(uow shared.UnitOfWork) AvailabilityQueries {
	return &availabilityQueriesImpl{uow: uow}
}

func (q *availabilityQueriesImpl) CheckAvailability(ctx context.Context, in CheckAvailabilityInput) (*AvailabilityView, error) {
	if !in.Kind.IsValid() {
		return nil, errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", in.Kind)
	}
	requested := in.Requested
	if requested <= 0 {
		requested = 1
	}
	alloc := reservation.Allocation{Kind: in.Kind, ItemID: in.ItemID, Quantity: requested, Guests: requested}
	if in.Kind == inventory.KindRoom {
		if in.StartAt == nil || in.EndAt == nil {
			return nil, errs.Wrap(errs.ErrInvalidDateRange, "room availability needs startAt and endAt")
		}
		window, err := inventory.NewDateRange(*in.StartAt, *in.EndAt)
		if err != nil {
			return nil, err
		}
		alloc.Window = window
	}

	var avail inventory.Availability
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
		var rerr error
		avail, rerr = ledger.Available(ctx, reads, alloc, nil)
		return rerr
	})
	if err != nil {
		return nil, err
	}
	return &AvailabilityView{
		Kind:        in.Kind.String(),
		ItemID:      in.ItemID,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
		Capacity:    avail.Capacity,
		Available:   avail.Available,
		Requested:   requested,
		IsAvailable: avail.Covers(requested),
	}, nil
}

func (q *availabilityQueriesImpl) GetItem(ctx context.Context, kind inventory.Kind, id uuid.UUID) (*ItemView, error) {
	var view *ItemView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
		switch kind {
		case inventory.KindExcursion:
			e, err := reads.ExcursionByID(ctx, id)
			if err != nil {
				return err
			}
			view = excursionView(e)
		case inventory.KindFlight:
			f, err := reads.FlightByID(ctx, id)
			if err != nil {
				return err
			}
			view = flightView(f)
		case inventory.KindRoom:
			r, err := reads.RoomByID(ctx, id)
			if err != nil {
				return err
			}
			view = roomView(r)
		default:
			return errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", kind)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func excursionView(e *inventory.Excursion) *ItemView {
	a := e.Availability()
	status := string(e.Status)
	return &ItemView{
		Kind:           inventory.KindExcursion.String(),
		ID:             e.ID,
		Name:           e.Title,
		Status:         &status,
		UnitPriceCents: e.PricePerGuestCents,
		Capacity:       e.MaxGuests,
		Booked:         &a.Booked,
		Available:      &a.Available,
		StartAt:        &e.StartAt,
		EndAt:          &e.EndAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func flightView(f *inventory.Flight) *ItemView {
	a := f.Availability()
	status := string(f.Status)
	return &ItemView{
		Kind:           inventory.KindFlight.String(),
		ID:             f.ID,
		Name:           f.FlightNumber,
		Status:         &status,
		UnitPriceCents: f.PricePerSeatCents,
		Capacity:       f.Capacity,
		Booked:         &a.Booked,
		Available:      &a.Available,
		StartAt:        &f.DepartureAt,
		EndAt:          &f.ArrivalAt,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func roomView(r *inventory.Room) *ItemView {
	name := r.HotelName
	if r.RoomType != "" {
		name += " - " + r.RoomType
	}
	total := r.TotalRooms
	return &ItemView{
		Kind:           inventory.KindRoom.String(),
		ID:             r.ID,
		Name:           name,
		UnitPriceCents: r.PricePerNightCents,
		Capacity:       r.Capacity,
		TotalRooms:     &total,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
