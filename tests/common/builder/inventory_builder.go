//go:build unit || e2e

package builder

import (
	"time"

	"reservation-engine/internal/domain/inventory"
	reqdto "reservation-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

type ExcursionBuilder struct {
	e inventory.Excursion
}

func NewExcursionBuilder() *ExcursionBuilder {
	return &ExcursionBuilder{e: inventory.Excursion{
		ID:                 uuid.New(),
		Title:              "Glacier Hike",
		PricePerGuestCents: 5000,
		MaxGuests:          10,
		StartAt:            BaseTime.Add(72 * time.Hour),
		EndAt:              BaseTime.Add(76 * time.Hour),
		Status:             inventory.ExcursionUpcoming,
		CreatedAt:          BaseTime,
		UpdatedAt:          BaseTime,
	}}
}

func (b *ExcursionBuilder) With(mutate func(*inventory.Excursion)) *ExcursionBuilder {
	mutate(&b.e)
	return b
}

func (b *ExcursionBuilder) WithCapacity(maxGuests, booked int) *ExcursionBuilder {
	b.e.MaxGuests = maxGuests
	b.e.GuestsBooked = booked
	return b
}

func (b *ExcursionBuilder) StartingAt(t time.Time) *ExcursionBuilder {
	d := b.e.EndAt.Sub(b.e.StartAt)
	b.e.StartAt = t
	b.e.EndAt = t.Add(d)
	return b
}

func (b *ExcursionBuilder) Build() *inventory.Excursion {
	e := b.e
	return &e
}

func (b *ExcursionBuilder) BuildCreateRequestDTO() reqdto.CreateExcursionRequest {
	return reqdto.CreateExcursionRequest{
		Title:              b.e.Title,
		PricePerGuestCents: b.e.PricePerGuestCents,
		MaxGuests:          b.e.MaxGuests,
		StartAt:            b.e.StartAt,
		EndAt:              b.e.EndAt,
	}
}

type FlightBuilder struct {
	f inventory.Flight
}

func NewFlightBuilder() *FlightBuilder {
	return &FlightBuilder{f: inventory.Flight{
		ID:                uuid.New(),
		FlightNumber:      "NZ101",
		PricePerSeatCents: 25000,
		Capacity:          100,
		SeatsAvailable:    100,
		DepartureAt:       BaseTime.Add(96 * time.Hour),
		ArrivalAt:         BaseTime.Add(99 * time.Hour),
		Status:            inventory.FlightScheduled,
		CreatedAt:         BaseTime,
		UpdatedAt:         BaseTime,
	}}
}

func (b *FlightBuilder) With(mutate func(*inventory.Flight)) *FlightBuilder {
	mutate(&b.f)
	return b
}

func (b *FlightBuilder) WithSeats(capacity, available int) *FlightBuilder {
	b.f.Capacity = capacity
	b.f.SeatsAvailable = available
	return b
}

func (b *FlightBuilder) DepartingAt(t time.Time) *FlightBuilder {
	d := b.f.ArrivalAt.Sub(b.f.DepartureAt)
	b.f.DepartureAt = t
	b.f.ArrivalAt = t.Add(d)
	return b
}

func (b *FlightBuilder) Build() *inventory.Flight {
	f := b.f
	return &f
}

func (b *FlightBuilder) BuildCreateRequestDTO() reqdto.CreateFlightRequest {
	return reqdto.CreateFlightRequest{
		FlightNumber:      b.f.FlightNumber,
		PricePerSeatCents: b.f.PricePerSeatCents,
		Capacity:          b.f.Capacity,
		DepartureAt:       b.f.DepartureAt,
		ArrivalAt:         b.f.ArrivalAt,
	}
}

type RoomBuilder struct {
	r inventory.Room
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{r: inventory.Room{
		ID:                 uuid.New(),
		HotelName:          "Harbour View",
		RoomType:           "Double",
		PricePerNightCents: 12000,
		Capacity:           2,
		TotalRooms:         5,
		CreatedAt:          BaseTime,
		UpdatedAt:          BaseTime,
	}}
}

func (b *RoomBuilder) With(mutate func(*inventory.Room)) *RoomBuilder {
	mutate(&b.r)
	return b
}

func (b *RoomBuilder) WithRooms(total, capacity int) *RoomBuilder {
	b.r.TotalRooms = total
	b.r.Capacity = capacity
	return b
}

func (b *RoomBuilder) Build() *inventory.Room {
	r := b.r
	return &r
}

func (b *RoomBuilder) BuildCreateRequestDTO() reqdto.CreateRoomRequest {
	return reqdto.CreateRoomRequest{
		HotelName:          b.r.HotelName,
		RoomType:           b.r.RoomType,
		PricePerNightCents: b.r.PricePerNightCents,
		Capacity:           b.r.Capacity,
		TotalRooms:         b.r.TotalRooms,
	}
}

// Stay returns a window of nights starting days after BaseTime at 15:00.
func Stay(days, nights int) (time.Time, time.Time) {
	start := time.Date(BaseTime.Year(), BaseTime.Month(), BaseTime.Day(), 15, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return start, start.AddDate(0, 0, nights)
}
