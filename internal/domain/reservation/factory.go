package reservation

import (
	"reservation-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
	Policy          DeadlinePolicy
}

func NewFactory(clock clock.Clock, priceCalculator PriceCalculator, policy DeadlinePolicy) *Factory {
	return &Factory{
		Clock:           clock,
		PriceCalculator: priceCalculator,
		Policy:          policy,
	}
}

// Create prices the allocation and stamps the payment deadline. Availability
// has already been checked by the caller inside the same transaction.
func (f *Factory) Create(customerID uuid.UUID, item ItemSpec, alloc Allocation, note Note) (*Reservation, PriceBreakdown, error) {
	now := f.Clock.Now()
	quote := f.PriceCalculator.Quote(item, alloc)
	terms := f.Policy.Compute(item.StartsAt, now)

	res, err := NewReservation(customerID, alloc, quote.Total, terms, note, now)
	if err != nil {
		return nil, PriceBreakdown{}, err
	}
	return res, quote, nil
}

// Reprice applies a new allocation to an existing reservation.
func (f *Factory) Reprice(res *Reservation, item ItemSpec, alloc Allocation) (PriceBreakdown, error) {
	now := f.Clock.Now()
	quote := f.PriceCalculator.Quote(item, alloc)

	var terms *PaymentTerms
	old := res.Allocation()
	if !old.SameItem(alloc) || !old.Window.Equal(alloc.Window) {
		t := f.Policy.Compute(item.StartsAt, now)
		terms = &t
	}
	if err := res.Reallocate(alloc, quote.Total, terms, now); err != nil {
		return PriceBreakdown{}, err
	}
	return quote, nil
}
