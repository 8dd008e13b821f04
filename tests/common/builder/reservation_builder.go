//go:build unit || e2e

package builder

import (
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/reservation"
	reqdto "reservation-engine/internal/handler/dto/request"
	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

var BaseTime = time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)

type ReservationBuilder struct {
	ID               uuid.UUID
	CustomerID       uuid.UUID
	Kind             inventory.Kind
	ItemID           uuid.UUID
	Quantity         int
	Guests           int
	StartAt          time.Time
	EndAt            time.Time
	Status           reservation.Status
	AmountCents      int64
	PaymentDeadline  time.Time
	ImmediatePayment bool
	SpecialRequests  string
	CreatedAt        time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		Kind:            inventory.KindExcursion,
		ItemID:          uuid.New(),
		Quantity:        2,
		Guests:          2,
		Status:          reservation.StatusPending,
		AmountCents:     10000,
		PaymentDeadline: BaseTime.Add(time.Hour),
		SpecialRequests: "window seat",
		CreatedAt:       BaseTime,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithCustomer(id uuid.UUID) *ReservationBuilder {
	b.CustomerID = id
	return b
}

func (b *ReservationBuilder) WithStatus(s reservation.Status) *ReservationBuilder {
	b.Status = s
	return b
}

func (b *ReservationBuilder) WithItem(kind inventory.Kind, id uuid.UUID) *ReservationBuilder {
	b.Kind = kind
	b.ItemID = id
	return b
}

func (b *ReservationBuilder) WithQuantity(n int) *ReservationBuilder {
	b.Quantity = n
	b.Guests = n
	return b
}

func (b *ReservationBuilder) WithStay(start, end time.Time) *ReservationBuilder {
	b.Kind = inventory.KindRoom
	b.StartAt = start
	b.EndAt = end
	return b
}

func (b *ReservationBuilder) WithDeadline(t time.Time) *ReservationBuilder {
	b.PaymentDeadline = t
	return b
}

func (b *ReservationBuilder) Allocation() reservation.Allocation {
	alloc := reservation.Allocation{Kind: b.Kind, ItemID: b.ItemID, Quantity: b.Quantity, Guests: b.Guests}
	if !b.StartAt.IsZero() && !b.EndAt.IsZero() {
		alloc.Window, _ = inventory.NewDateRange(b.StartAt, b.EndAt)
	}
	return alloc
}

// BuildDomain reconstructs a stored reservation; it skips the constructor's checks.
func (b *ReservationBuilder) BuildDomain() *reservation.Reservation {
	note, _ := reservation.NewNote(b.SpecialRequests)
	return reservation.ReconstructReservation(
		b.ID, b.CustomerID, b.Allocation(), b.Status,
		reservation.NewMoney(b.AmountCents), b.PaymentDeadline, b.ImmediatePayment,
		note, b.CreatedAt, b.CreatedAt,
	)
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	req := reqdto.CreateReservationRequest{
		Kind:     b.Kind.String(),
		ItemID:   b.ItemID,
		Quantity: b.Quantity,
	}
	if b.SpecialRequests != "" {
		s := b.SpecialRequests
		req.SpecialRequests = &s
	}
	if b.Kind == inventory.KindRoom {
		start, end := b.StartAt, b.EndAt
		req.StartAt, req.EndAt = &start, &end
		guests := b.Guests
		req.Guests = &guests
	}
	return req
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	v := &queries.ReservationView{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		Kind:            b.Kind.String(),
		ItemID:          b.ItemID,
		ItemName:        "Glacier Hike",
		Status:          b.Status.String(),
		Quantity:        b.Quantity,
		Guests:          b.Guests,
		AmountCents:     b.AmountCents,
		PaymentDeadline: b.PaymentDeadline,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.CreatedAt,
	}
	if b.Kind == inventory.KindRoom {
		start, end := b.StartAt, b.EndAt
		v.StartAt, v.EndAt = &start, &end
	}
	return v
}

func (b *ReservationBuilder) BuildListItem() *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:              b.ID,
		Kind:            b.Kind.String(),
		ItemID:          b.ItemID,
		ItemName:        "Glacier Hike",
		Status:          b.Status.String(),
		Quantity:        b.Quantity,
		AmountCents:     b.AmountCents,
		PaymentDeadline: b.PaymentDeadline,
		CreatedAt:       b.CreatedAt,
	}
}
