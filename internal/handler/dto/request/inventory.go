package request

import (
	"time"

	"reservation-engine/internal/usecase/commands"
)

type CreateExcursionRequest struct {
	Title              string    `json:"title" binding:"required"`
	PricePerGuestCents int64     `json:"price_per_guest_cents" binding:"min=0"`
	MaxGuests          int       `json:"max_guests" binding:"min=0"`
	StartAt            time.Time `json:"start_at" binding:"required"`
	EndAt              time.Time `json:"end_at" binding:"required"`
}

func (r CreateExcursionRequest) ToInput() commands.CreateExcursionInput {
	return commands.CreateExcursionInput{
		Title:              r.Title,
		PricePerGuestCents: r.PricePerGuestCents,
		MaxGuests:          r.MaxGuests,
		StartAt:            r.StartAt,
		EndAt:              r.EndAt,
	}
}

type CreateFlightRequest struct {
	FlightNumber      string    `json:"flight_number" binding:"required"`
	PricePerSeatCents int64     `json:"price_per_seat_cents" binding:"min=0"`
	Capacity          int       `json:"capacity" binding:"min=0"`
	DepartureAt       time.Time `json:"departure_at" binding:"required"`
	ArrivalAt         time.Time `json:"arrival_at" binding:"required"`
}

func (r CreateFlightRequest) ToInput() commands.CreateFlightInput {
	return commands.CreateFlightInput{
		FlightNumber:      r.FlightNumber,
		PricePerSeatCents: r.PricePerSeatCents,
		Capacity:          r.Capacity,
		DepartureAt:       r.DepartureAt,
		ArrivalAt:         r.ArrivalAt,
	}
}

type CreateRoomRequest struct {
	HotelName          string `json:"hotel_name" binding:"required"`
	RoomType           string `json:"room_type"`
	PricePerNightCents int64  `json:"price_per_night_cents" binding:"min=0"`
	Capacity           int    `json:"capacity" binding:"required,min=1"`
	TotalRooms         int    `json:"total_rooms" binding:"min=0"`
}

func (r CreateRoomRequest) ToInput() commands.CreateRoomInput {
	return commands.CreateRoomInput{
		HotelName:          r.HotelName,
		RoomType:           r.RoomType,
		PricePerNightCents: r.PricePerNightCents,
		Capacity:           r.Capacity,
		TotalRooms:         r.TotalRooms,
	}
}

type AdjustCapacityRequest struct {
	MaxGuests  *int `json:"max_guests,omitempty" binding:"omitempty,min=0"`
	Capacity   *int `json:"capacity,omitempty" binding:"omitempty,min=0"`
	TotalRooms *int `json:"total_rooms,omitempty" binding:"omitempty,min=0"`
}

func (r AdjustCapacityRequest) ToInput() commands.AdjustCapacityInput {
	return commands.AdjustCapacityInput{
		MaxGuests:  r.MaxGuests,
		Capacity:   r.Capacity,
		TotalRooms: r.TotalRooms,
	}
}

type ChangeItemStatusRequest struct {
	Status      string     `json:"status" binding:"required"`
	DepartureAt *time.Time `json:"departure_at,omitempty"`
	ArrivalAt   *time.Time `json:"arrival_at,omitempty"`
}

func (r ChangeItemStatusRequest) ToInput() commands.ChangeItemStatusInput {
	return commands.ChangeItemStatusInput{
		Status:      r.Status,
		DepartureAt: r.DepartureAt,
		ArrivalAt:   r.ArrivalAt,
	}
}
