package inventory

import "reservation-engine/internal/pkg/errs"

func (e *Excursion) Resize(maxGuests int) error {
	if maxGuests < 1 {
		return errs.Wrap(errs.ErrValidation, "max guests must be at least 1")
	}
	if maxGuests < e.GuestsBooked {
		return errs.Wrapf(errs.ErrCapacityBelowDemand,
			"max guests %d is below %d guests already booked", maxGuests, e.GuestsBooked)
	}
	e.MaxGuests = maxGuests
	return nil
}

func (f *Flight) Resize(capacity int) error {
	if capacity < 1 {
		return errs.Wrap(errs.ErrValidation, "capacity must be at least 1")
	}
	taken := f.SeatsTaken()
	if capacity < taken {
		return errs.Wrapf(errs.ErrCapacityBelowDemand,
			"capacity %d is below %d seats already taken", capacity, taken)
	}
	f.Capacity = capacity
	f.SeatsAvailable = capacity - taken
	return nil
}

// Resize checks the new inventory against every active allocation.
func (r *Room) Resize(totalRooms, capacity int, active []RoomAllocation) error {
	if totalRooms < 0 {
		return errs.Wrap(errs.ErrValidation, "total rooms cannot be negative")
	}
	if capacity < 1 {
		return errs.Wrap(errs.ErrValidation, "room capacity must be at least 1")
	}
	if peak := PeakRoomDemand(active); totalRooms < peak {
		return errs.Wrapf(errs.ErrCapacityBelowDemand,
			"total rooms %d is below concurrent demand of %d rooms", totalRooms, peak)
	}
	for _, a := range active {
		if a.Guests > capacity*a.Rooms {
			return errs.Wrapf(errs.ErrCapacityBelowDemand,
				"reservation %s needs room capacity for %d guests in %d room(s)", a.ReservationID, a.Guests, a.Rooms)
		}
	}
	r.TotalRooms = totalRooms
	r.Capacity = capacity
	return nil
}
