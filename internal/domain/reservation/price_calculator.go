package reservation

import (
	"time"

	"reservation-engine/internal/domain/inventory"

	"github.com/google/uuid"
)

// ItemSpec is the part of an inventory item that pricing and deadlines need.
type ItemSpec struct {
	Kind           inventory.Kind
	ID             uuid.UUID
	UnitPriceCents int64
	StartsAt       time.Time
}

func ExcursionSpec(e *inventory.Excursion) ItemSpec {
	return ItemSpec{Kind: inventory.KindExcursion, ID: e.ID, UnitPriceCents: e.PricePerGuestCents, StartsAt: e.StartAt}
}

func FlightSpec(f *inventory.Flight) ItemSpec {
	return ItemSpec{Kind: inventory.KindFlight, ID: f.ID, UnitPriceCents: f.PricePerSeatCents, StartsAt: f.DepartureAt}
}

func RoomSpec(r *inventory.Room, window inventory.DateRange) ItemSpec {
	return ItemSpec{Kind: inventory.KindRoom, ID: r.ID, UnitPriceCents: r.PricePerNightCents, StartsAt: window.Start()}
}

type PriceBreakdown struct {
	UnitPrice Money
	Units     int
	Nights    int
	Total     Money
}

type PriceCalculator interface {
	Quote(item ItemSpec, alloc Allocation) PriceBreakdown
}

// DefaultPriceCalculator: per guest, per seat, or per room-night.
type DefaultPriceCalculator struct{}

func NewDefaultPriceCalculator() *DefaultPriceCalculator {
	return &DefaultPriceCalculator{}
}

func (pc *DefaultPriceCalculator) Quote(item ItemSpec, alloc Allocation) PriceBreakdown {
	unit := NewMoney(item.UnitPriceCents)
	nights := 1
	if item.Kind == inventory.KindRoom {
		nights = alloc.Window.Nights()
	}
	return PriceBreakdown{
		UnitPrice: unit,
		Units:     alloc.Quantity,
		Nights:    nights,
		Total:     unit.Times(alloc.Quantity * nights),
	}
}
