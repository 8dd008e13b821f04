package inventory

import (
	"strings"
	"time"

	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// Room is a hotel room type. TotalRooms is how many identical rooms exist;
// Capacity is the occupancy of a single room.
type Room struct {
	ID                 uuid.UUID
	HotelName          string
	RoomType           string
	PricePerNightCents int64
	Capacity           int
	TotalRooms         int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewRoom(hotelName, roomType string, pricePerNightCents int64, capacity, totalRooms int) (*Room, error) {
	hotelName = strings.TrimSpace(hotelName)
	if hotelName == "" {
		return nil, errs.Wrap(errs.ErrValidation, "hotel name is required")
	}
	if pricePerNightCents < 0 {
		return nil, errs.Wrap(errs.ErrValidation, "price cannot be negative")
	}
	if capacity < 1 {
		return nil, errs.Wrap(errs.ErrValidation, "room capacity must be at least 1")
	}
	if totalRooms < 0 {
		return nil, errs.Wrap(errs.ErrValidation, "total rooms cannot be negative")
	}
	return &Room{
		ID:                 uuid.New(),
		HotelName:          hotelName,
		RoomType:           strings.TrimSpace(roomType),
		PricePerNightCents: pricePerNightCents,
		Capacity:           capacity,
		TotalRooms:         totalRooms,
	}, nil
}

// CheckOccupancy rejects a headcount that the requested rooms cannot hold.
func (r *Room) CheckOccupancy(guests, rooms int) error {
	if guests > r.Capacity*rooms {
		return errs.Wrapf(errs.ErrCapacityBelowDemand,
			"%d guests exceed occupancy of %d room(s) with capacity %d", guests, rooms, r.Capacity)
	}
	return nil
}
