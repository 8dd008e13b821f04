package converter

import (
	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/pgconv"
)

func ExcursionToCreateParams(e *inventory.Excursion) sqlstore.CreateExcursionParams {
	return sqlstore.CreateExcursionParams{
		ID:                 e.ID,
		Title:              e.Title,
		PricePerGuestCents: e.PricePerGuestCents,
		MaxGuests:          int32(e.MaxGuests), // #nosec G115
		StartAt:            pgconv.TimeToPgtype(e.StartAt),
		EndAt:              pgconv.TimeToPgtype(e.EndAt),
		Status:             string(e.Status),
		CreatedAt:          pgconv.TimeToPgtype(e.CreatedAt),
	}
}

func ExcursionFromRow(row sqlstore.Excursion) *inventory.Excursion {
	return &inventory.Excursion{
		ID:                 row.ID,
		Title:              row.Title,
		PricePerGuestCents: row.PricePerGuestCents,
		MaxGuests:          int(row.MaxGuests),
		GuestsBooked:       int(row.GuestsBooked),
		StartAt:            pgconv.TimeFromPgtype(row.StartAt),
		EndAt:              pgconv.TimeFromPgtype(row.EndAt),
		Status:             inventory.ExcursionStatus(row.Status),
		CreatedAt:          pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:          pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func FlightToCreateParams(f *inventory.Flight) sqlstore.CreateFlightParams {
	return sqlstore.CreateFlightParams{
		ID:                f.ID,
		FlightNumber:      f.FlightNumber,
		PricePerSeatCents: f.PricePerSeatCents,
		Capacity:          int32(f.Capacity), // #nosec G115
		DepartureAt:       pgconv.TimeToPgtype(f.DepartureAt),
		ArrivalAt:         pgconv.TimeToPgtype(f.ArrivalAt),
		Status:            string(f.Status),
		CreatedAt:         pgconv.TimeToPgtype(f.CreatedAt),
	}
}

func FlightFromRow(row sqlstore.Flight) *inventory.Flight {
	return &inventory.Flight{
		ID:                row.ID,
		FlightNumber:      row.FlightNumber,
		PricePerSeatCents: row.PricePerSeatCents,
		Capacity:          int(row.Capacity),
		SeatsAvailable:    int(row.SeatsAvailable),
		DepartureAt:       pgconv.TimeFromPgtype(row.DepartureAt),
		ArrivalAt:         pgconv.TimeFromPgtype(row.ArrivalAt),
		Status:            inventory.FlightStatus(row.Status),
		CreatedAt:         pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:         pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

func RoomToCreateParams(r *inventory.Room) sqlstore.CreateRoomParams {
	return sqlstore.CreateRoomParams{
		ID:                 r.ID,
		HotelName:          r.HotelName,
		RoomType:           r.RoomType,
		PricePerNightCents: r.PricePerNightCents,
		Capacity:           int32(r.Capacity),   // #nosec G115
		TotalRooms:         int32(r.TotalRooms), // #nosec G115
		CreatedAt:          pgconv.TimeToPgtype(r.CreatedAt),
	}
}

func RoomToUpdateParams(r *inventory.Room) sqlstore.UpdateRoomParams {
	return sqlstore.UpdateRoomParams{
		ID:                 r.ID,
		HotelName:          r.HotelName,
		RoomType:           r.RoomType,
		PricePerNightCents: r.PricePerNightCents,
		Capacity:           int32(r.Capacity),   // #nosec G115
		TotalRooms:         int32(r.TotalRooms), // #nosec G115
		UpdatedAt:          pgconv.TimeToPgtype(r.UpdatedAt),
	}
}

func RoomFromRow(row sqlstore.Room) *inventory.Room {
	return &inventory.Room{
		ID:                 row.ID,
		HotelName:          row.HotelName,
		RoomType:           row.RoomType,
		PricePerNightCents: row.PricePerNightCents,
		Capacity:           int(row.Capacity),
		TotalRooms:         int(row.TotalRooms),
		CreatedAt:          pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:          pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}

// RoomAllocationFromRow skips rows whose window no longer parses.
func RoomAllocationFromRow(row sqlstore.RoomAllocationRow) (inventory.RoomAllocation, bool) {
	window, err := inventory.NewDateRange(pgconv.TimeFromPgtype(row.StartAt), pgconv.TimeFromPgtype(row.EndAt))
	if err != nil {
		return inventory.RoomAllocation{}, false
	}
	return inventory.RoomAllocation{
		ReservationID: row.ID,
		Rooms:         int(row.Quantity),
		Guests:        int(row.Guests),
		Window:        window,
	}, true
}
