package lifecycle

import (
	"context"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"
)

// LoadItem resolves the pricing view of the item an allocation points at.
func LoadItem(ctx context.Context, reads shared.CommandReads, alloc reservation.Allocation) (reservation.ItemSpec, error) {
	item, _, err := loadItem(ctx, reads, alloc)
	return item, err
}

// LoadBookableItem is LoadItem plus the lifecycle check for new allocations.
// Excursions and flights whose start has passed are rejected even while their
// status still reads open.
func LoadBookableItem(ctx context.Context, reads shared.CommandReads, alloc reservation.Allocation, now time.Time) (reservation.ItemSpec, error) {
	item, bookable, err := loadItem(ctx, reads, alloc)
	if err != nil {
		return reservation.ItemSpec{}, err
	}
	if !bookable {
		return reservation.ItemSpec{}, errs.Wrapf(errs.ErrNotBookable, "%s %s is not open for booking", alloc.Kind, alloc.ItemID)
	}
	if alloc.Kind != inventory.KindRoom && !now.Before(item.StartsAt) {
		return reservation.ItemSpec{}, errs.Wrapf(errs.ErrInvalidDateRange, "%s %s started at %s", alloc.Kind, alloc.ItemID, item.StartsAt.Format(time.RFC3339))
	}
	return item, nil
}

func loadItem(ctx context.Context, reads shared.CommandReads, alloc reservation.Allocation) (reservation.ItemSpec, bool, error) {
	switch alloc.Kind {
	case inventory.KindExcursion:
		e, err := reads.ExcursionByID(ctx, alloc.ItemID)
		if err != nil {
			return reservation.ItemSpec{}, false, err
		}
		return reservation.ExcursionSpec(e), e.IsBookable(), nil
	case inventory.KindFlight:
		f, err := reads.FlightByID(ctx, alloc.ItemID)
		if err != nil {
			return reservation.ItemSpec{}, false, err
		}
		return reservation.FlightSpec(f), f.IsBookable(), nil
	case inventory.KindRoom:
		r, err := reads.RoomByID(ctx, alloc.ItemID)
		if err != nil {
			return reservation.ItemSpec{}, false, err
		}
		return reservation.RoomSpec(r, alloc.Window), true, nil
	default:
		return reservation.ItemSpec{}, false, errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", alloc.Kind)
	}
}
