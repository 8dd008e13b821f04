package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView is the read-side shape of a reservation joined with its item and payment.
type ReservationView struct {
	ID               uuid.UUID  `json:"id"`
	CustomerID       uuid.UUID  `json:"customer_id"`
	Kind             string     `json:"kind"`
	ItemID           uuid.UUID  `json:"item_id"`
	ItemName         string     `json:"item_name"`
	Status           string     `json:"status"`
	Quantity         int        `json:"quantity"`
	Guests           int        `json:"guests"`
	StartAt          *time.Time `json:"start_at,omitempty"`
	EndAt            *time.Time `json:"end_at,omitempty"`
	AmountCents      int64      `json:"amount_cents"`
	PaymentDeadline  time.Time  `json:"payment_deadline"`
	ImmediatePayment bool       `json:"immediate_payment"`
	PaymentStatus    *string    `json:"payment_status,omitempty"`
	SpecialRequests  *string    `json:"special_requests,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ReservationListItem struct {
	ID              uuid.UUID `json:"id"`
	Kind            string    `json:"kind"`
	ItemID          uuid.UUID `json:"item_id"`
	ItemName        string    `json:"item_name"`
	Status          string    `json:"status"`
	Quantity        int       `json:"quantity"`
	AmountCents     int64     `json:"amount_cents"`
	PaymentDeadline time.Time `json:"payment_deadline"`
	CreatedAt       time.Time `json:"created_at"`
}

type AvailabilityView struct {
	Kind        string     `json:"kind"`
	ItemID      uuid.UUID  `json:"item_id"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	Capacity    int        `json:"capacity"`
	Available   int        `json:"available"`
	Requested   int        `json:"requested"`
	IsAvailable bool       `json:"is_available"`
}

// ItemView is a kind-agnostic snapshot of an inventory item.
type ItemView struct {
	Kind           string     `json:"kind"`
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Status         *string    `json:"status,omitempty"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	Capacity       int        `json:"capacity"`
	Booked         *int       `json:"booked,omitempty"`
	Available      *int       `json:"available,omitempty"`
	TotalRooms     *int       `json:"total_rooms,omitempty"`
	StartAt        *time.Time `json:"start_at,omitempty"`
	EndAt          *time.Time `json:"end_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
