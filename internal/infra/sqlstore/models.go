package sqlstore

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Excursion struct {
	ID                 uuid.UUID
	Title              string
	PricePerGuestCents int64
	MaxGuests          int32
	GuestsBooked       int32
	StartAt            pgtype.Timestamptz
	EndAt              pgtype.Timestamptz
	Status             string
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

type Flight struct {
	ID                uuid.UUID
	FlightNumber      string
	PricePerSeatCents int64
	Capacity          int32
	SeatsAvailable    int32
	DepartureAt       pgtype.Timestamptz
	ArrivalAt         pgtype.Timestamptz
	Status            string
	CreatedAt         pgtype.Timestamptz
	UpdatedAt         pgtype.Timestamptz
}

type Room struct {
	ID                 uuid.UUID
	HotelName          string
	RoomType           string
	PricePerNightCents int64
	Capacity           int32
	TotalRooms         int32
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

type Reservation struct {
	ID               uuid.UUID
	CustomerID       uuid.UUID
	Kind             string
	ExcursionID      pgtype.UUID
	RoomID           pgtype.UUID
	FlightID         pgtype.UUID
	Status           string
	Quantity         int32
	Guests           int32
	AmountCents      int64
	StartAt          pgtype.Timestamptz
	EndAt            pgtype.Timestamptz
	PaymentDeadline  pgtype.Timestamptz
	ImmediatePayment bool
	SpecialRequests  pgtype.Text
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

type Payment struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	Reference     string
	Method        string
	AmountCents   int64
	Status        string
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type IdempotencyKey struct {
	Key           uuid.UUID
	CustomerID    uuid.UUID
	Status        string
	RequestHash   string
	ReservationID pgtype.UUID
	ExpiresAt     pgtype.Timestamptz
}

type ReservationEvent struct {
	ID            int64
	ReservationID uuid.UUID
	EventType     string
	Payload       json.RawMessage
	CreatedAt     pgtype.Timestamptz
}

type RoomAllocationRow struct {
	ID       uuid.UUID
	Quantity int32
	Guests   int32
	StartAt  pgtype.Timestamptz
	EndAt    pgtype.Timestamptz
}

// ReservationViewRow is a reservation joined with its item name and payment status.
type ReservationViewRow struct {
	Reservation
	ItemName      string
	PaymentStatus pgtype.Text
}
