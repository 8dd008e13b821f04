package inventory

import (
	"fmt"
	"sort"
	"time"

	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// Availability is the ledger's answer for one item and window.
type Availability struct {
	Capacity  int
	Booked    int
	Available int
}

func NewAvailability(capacity, booked int) Availability {
	available := capacity - booked
	if available < 0 {
		available = 0
	}
	return Availability{Capacity: capacity, Booked: booked, Available: available}
}

// Adjusted adds back units already held by the reservation being edited.
func (a Availability) Adjusted(held int) Availability {
	return NewAvailability(a.Capacity, a.Booked-held)
}

func (a Availability) Covers(requested int) bool {
	return requested <= a.Available
}

// Require returns an InsufficientInventoryError when requested exceeds what is left.
func (a Availability) Require(kind Kind, itemID uuid.UUID, requested int) error {
	if a.Covers(requested) {
		return nil
	}
	return &InsufficientInventoryError{
		Kind:      kind,
		ItemID:    itemID,
		Requested: requested,
		Available: a.Available,
	}
}

type InsufficientInventoryError struct {
	Kind      Kind
	ItemID    uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient %s inventory for %s: requested %d, available %d",
		e.Kind, e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientInventoryError) Is(target error) bool {
	return target == errs.ErrInsufficientInventory
}

// RoomAllocation is an active reservation's hold on a room type.
type RoomAllocation struct {
	ReservationID uuid.UUID
	Rooms         int
	Guests        int
	Window        DateRange
}

// RoomsBooked sums allocations overlapping window, skipping exclude.
func RoomsBooked(allocs []RoomAllocation, window DateRange, exclude uuid.UUID) int {
	booked := 0
	for _, a := range allocs {
		if a.ReservationID == exclude {
			continue
		}
		if a.Window.Overlaps(window) {
			booked += a.Rooms
		}
	}
	return booked
}

// PeakRoomDemand is the largest number of rooms held at any single instant.
// With half-open ranges the peak is reached at some allocation's start.
func PeakRoomDemand(allocs []RoomAllocation) int {
	type edge struct {
		at    time.Time
		delta int
	}
	edges := make([]edge, 0, len(allocs)*2)
	for _, a := range allocs {
		edges = append(edges, edge{at: a.Window.Start(), delta: a.Rooms}, edge{at: a.Window.End(), delta: -a.Rooms})
	}
	// releases sort before acquisitions at the same instant
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at.Equal(edges[j].at) {
			return edges[i].delta < edges[j].delta
		}
		return edges[i].at.Before(edges[j].at)
	})

	peak, current := 0, 0
	for _, e := range edges {
		current += e.delta
		if current > peak {
			peak = current
		}
	}
	return peak
}
