package response

import (
	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"
)

func FromExcursion(e *inventory.Excursion) *queries.ItemView {
	status := string(e.Status)
	booked, avail := e.GuestsBooked, e.Availability().Available
	return &queries.ItemView{
		Kind:           inventory.KindExcursion.String(),
		ID:             e.ID,
		Name:           e.Title,
		Status:         &status,
		UnitPriceCents: e.PricePerGuestCents,
		Capacity:       e.MaxGuests,
		Booked:         &booked,
		Available:      &avail,
		StartAt:        &e.StartAt,
		EndAt:          &e.EndAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromFlight(f *inventory.Flight) *queries.ItemView {
	status := string(f.Status)
	booked, avail := f.SeatsTaken(), f.SeatsAvailable
	return &queries.ItemView{
		Kind:           inventory.KindFlight.String(),
		ID:             f.ID,
		Name:           f.FlightNumber,
		Status:         &status,
		UnitPriceCents: f.PricePerSeatCents,
		Capacity:       f.Capacity,
		Booked:         &booked,
		Available:      &avail,
		StartAt:        &f.DepartureAt,
		EndAt:          &f.ArrivalAt,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func FromRoom(r *inventory.Room) *queries.ItemView {
	total := r.TotalRooms
	return &queries.ItemView{
		Kind:           inventory.KindRoom.String(),
		ID:             r.ID,
		Name:           r.HotelName + " " + r.RoomType,
		UnitPriceCents: r.PricePerNightCents,
		Capacity:       r.Capacity,
		TotalRooms:     &total,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type ItemStatusResponse struct {
	Status                string `json:"status"`
	CancelledReservations int    `json:"cancelled_reservations"`
}

func FromItemStatusResult(r *commands.ChangeItemStatusResult) *ItemStatusResponse {
	return &ItemStatusResponse{Status: r.Status, CancelledReservations: r.CancelledReservations}
}
