package response

import (
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type PriceResponse struct {
	UnitPriceCents int64 `json:"unit_price_cents"`
	Units          int   `json:"units"`
	Nights         int   `json:"nights"`
	TotalCents     int64 `json:"total_cents"`
}

// ReservationResponse is returned by the write endpoints.
type ReservationResponse struct {
	ID               uuid.UUID      `json:"id"`
	CustomerID       uuid.UUID      `json:"customer_id"`
	Kind             string         `json:"kind"`
	ItemID           uuid.UUID      `json:"item_id"`
	Status           string         `json:"status"`
	Quantity         int            `json:"quantity"`
	Guests           int            `json:"guests"`
	StartAt          *time.Time     `json:"start_at,omitempty"`
	EndAt            *time.Time     `json:"end_at,omitempty"`
	AmountCents      int64          `json:"amount_cents"`
	PaymentDeadline  time.Time      `json:"payment_deadline"`
	ImmediatePayment bool           `json:"immediate_payment"`
	SpecialRequests  *string        `json:"special_requests,omitempty"`
	Price            *PriceResponse `json:"price,omitempty"`
	IsReplayed       bool           `json:"is_replayed,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ReservationListResponse struct {
	Items      []*queries.ReservationListItem `json:"items"`
	NextCursor *string                        `json:"next_cursor,omitempty"`
}

func FromReservationResult(res *commands.ReservationResult) *ReservationResponse {
	out := FromReservation(res.Reservation)
	out.Price = &PriceResponse{
		UnitPriceCents: res.Price.UnitPrice.Cents(),
		Units:          res.Price.Units,
		Nights:         res.Price.Nights,
		TotalCents:     res.Price.Total.Cents(),
	}
	out.IsReplayed = res.IsReplayed
	return out
}

func FromReservation(r *reservation.Reservation) *ReservationResponse {
	out := &ReservationResponse{
		ID:               r.ID(),
		CustomerID:       r.CustomerID(),
		Kind:             r.Kind().String(),
		ItemID:           r.ItemID(),
		Status:           r.Status().String(),
		Quantity:         r.Quantity(),
		Guests:           r.Guests(),
		AmountCents:      r.Amount().Cents(),
		PaymentDeadline:  r.PaymentDeadline(),
		ImmediatePayment: r.ImmediatePayment(),
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
	if window := r.DateRange(); !window.IsZero() {
		start, end := window.Start(), window.End()
		out.StartAt, out.EndAt = &start, &end
	}
	if note := r.SpecialRequests(); !note.IsEmpty() {
		s := note.String()
		out.SpecialRequests = &s
	}
	return out
}

func FromReservationList(items []*queries.ReservationListItem, next *queries.Cursor) *ReservationListResponse {
	if items == nil {
		items = []*queries.ReservationListItem{}
	}
	out := &ReservationListResponse{Items: items}
	if next != nil && next.After != "" {
		out.NextCursor = &next.After
	}
	return out
}
