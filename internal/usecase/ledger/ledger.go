package ledger

import (
	"context"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Hold is an allocation already owned by a reservation.
type Hold struct {
	ReservationID uuid.UUID
	Allocation    reservation.Allocation
}

// Available reports what the item can still give to alloc. When held targets
// the same item its units count as available again.
func Available(ctx context.Context, reads shared.CommandReads, alloc reservation.Allocation, held *Hold) (inventory.Availability, error) {
	switch alloc.Kind {
	case inventory.KindExcursion:
		e, err := reads.ExcursionByID(ctx, alloc.ItemID)
		if err != nil {
			return inventory.Availability{}, err
		}
		return adjust(e.Availability(), alloc, held), nil
	case inventory.KindFlight:
		f, err := reads.FlightByID(ctx, alloc.ItemID)
		if err != nil {
			return inventory.Availability{}, err
		}
		return adjust(f.Availability(), alloc, held), nil
	case inventory.KindRoom:
		room, err := reads.RoomByID(ctx, alloc.ItemID)
		if err != nil {
			return inventory.Availability{}, err
		}
		return roomAvailability(ctx, reads, room, alloc, held)
	default:
		return inventory.Availability{}, errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", alloc.Kind)
	}
}

// Apply moves a reservation from old (nil on create) to next inside tx. Counter
// kinds use capacity-bounded conditional updates; rooms lock the room row and
// re-derive availability from overlapping reservations.
func Apply(ctx context.Context, tx shared.Tx, reservationID uuid.UUID, old *reservation.Allocation, next reservation.Allocation) error {
	var held *Hold
	if old != nil {
		held = &Hold{ReservationID: reservationID, Allocation: *old}
		if !old.SameItem(next) {
			if err := Release(ctx, tx, *old); err != nil {
				return err
			}
		}
	}

	switch next.Kind {
	case inventory.KindExcursion, inventory.KindFlight:
		delta := next.Quantity
		if held != nil && old.SameItem(next) {
			delta = next.Quantity - old.Quantity
		}
		return applyCounterDelta(ctx, tx, next, delta, held)
	case inventory.KindRoom:
		return allocateRoom(ctx, tx, reservationID, next, held)
	default:
		return errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", next.Kind)
	}
}

// Release gives back counter units. Room availability is derived, so nothing is written.
func Release(ctx context.Context, tx shared.Tx, alloc reservation.Allocation) error {
	switch alloc.Kind {
	case inventory.KindExcursion:
		return tx.Inventory().ReleaseExcursionGuests(ctx, alloc.ItemID, alloc.Quantity)
	case inventory.KindFlight:
		return tx.Inventory().ReleaseFlightSeats(ctx, alloc.ItemID, alloc.Quantity)
	default:
		return nil
	}
}

func applyCounterDelta(ctx context.Context, tx shared.Tx, alloc reservation.Allocation, delta int, held *Hold) error {
	if delta == 0 {
		return nil
	}
	if delta < 0 {
		shrink := alloc
		shrink.Quantity = -delta
		return Release(ctx, tx, shrink)
	}

	var (
		ok  bool
		err error
	)
	switch alloc.Kind {
	case inventory.KindExcursion:
		ok, err = tx.Inventory().ReserveExcursionGuests(ctx, alloc.ItemID, delta)
	case inventory.KindFlight:
		ok, err = tx.Inventory().ReserveFlightSeats(ctx, alloc.ItemID, delta)
	}
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return counterFailure(ctx, tx.Reads(), alloc, held)
}

// counterFailure re-reads the item to explain a rejected conditional update.
func counterFailure(ctx context.Context, reads shared.CommandReads, alloc reservation.Allocation, held *Hold) error {
	var (
		avail    inventory.Availability
		bookable bool
		started  bool
	)
	// the conditional update compares against database time
	now := time.Now()
	switch alloc.Kind {
	case inventory.KindExcursion:
		e, err := reads.ExcursionByID(ctx, alloc.ItemID)
		if err != nil {
			return err
		}
		avail, bookable, started = e.Availability(), e.IsBookable(), e.HasStarted(now)
	case inventory.KindFlight:
		f, err := reads.FlightByID(ctx, alloc.ItemID)
		if err != nil {
			return err
		}
		avail, bookable, started = f.Availability(), f.IsBookable(), f.HasStarted(now)
	}
	if !bookable {
		return errs.Wrapf(errs.ErrNotBookable, "%s %s is not open for booking", alloc.Kind, alloc.ItemID)
	}
	avail = adjust(avail, alloc, held)
	if err := avail.Require(alloc.Kind, alloc.ItemID, alloc.Quantity); err != nil {
		return err
	}
	if started {
		return errs.Wrapf(errs.ErrInvalidDateRange, "%s %s has already started", alloc.Kind, alloc.ItemID)
	}
	// the row changed between the update and the re-read
	return errs.Wrap(errs.ErrContention, "inventory counter moved during allocation")
}

func allocateRoom(ctx context.Context, tx shared.Tx, reservationID uuid.UUID, alloc reservation.Allocation, held *Hold) error {
	room, err := tx.Reads().LockRoom(ctx, alloc.ItemID)
	if err != nil {
		return err
	}
	if err := room.CheckOccupancy(alloc.Guests, alloc.Quantity); err != nil {
		return err
	}
	avail, err := roomAvailability(ctx, tx.Reads(), room, alloc, held)
	if err != nil {
		return err
	}
	return avail.Require(alloc.Kind, alloc.ItemID, alloc.Quantity)
}

func roomAvailability(ctx context.Context, reads shared.CommandReads, room *inventory.Room, alloc reservation.Allocation, held *Hold) (inventory.Availability, error) {
	exclude := uuid.Nil
	if held != nil {
		exclude = held.ReservationID
	}
	booked, err := reads.RoomsBooked(ctx, room.ID, alloc.Window, exclude)
	if err != nil {
		return inventory.Availability{}, err
	}
	return inventory.NewAvailability(room.TotalRooms, booked), nil
}

func adjust(a inventory.Availability, alloc reservation.Allocation, held *Hold) inventory.Availability {
	if held == nil || !held.Allocation.SameItem(alloc) {
		return a
	}
	return a.Adjusted(held.Allocation.Quantity)
}
