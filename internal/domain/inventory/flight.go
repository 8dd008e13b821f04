package inventory

import (
	"strings"
	"time"

	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type FlightStatus string

const (
	FlightScheduled FlightStatus = "SCHEDULED"
	FlightDelayed   FlightStatus = "DELAYED"
	FlightDeparted  FlightStatus = "DEPARTED"
	FlightLanded    FlightStatus = "LANDED"
	FlightCancelled FlightStatus = "CANCELLED"
)

func (s FlightStatus) IsValid() bool {
	switch s {
	case FlightScheduled, FlightDelayed, FlightDeparted, FlightLanded, FlightCancelled:
		return true
	default:
		return false
	}
}

func (s FlightStatus) IsTerminal() bool {
	return s == FlightLanded || s == FlightCancelled
}

// Flight is a snapshot of a flight row. SeatsAvailable counts down as seats are taken.
type Flight struct {
	ID                uuid.UUID
	FlightNumber      string
	PricePerSeatCents int64
	Capacity          int
	SeatsAvailable    int
	DepartureAt       time.Time
	ArrivalAt         time.Time
	Status            FlightStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewFlight(flightNumber string, pricePerSeatCents int64, capacity int, departureAt, arrivalAt time.Time) (*Flight, error) {
	flightNumber = strings.ToUpper(strings.TrimSpace(flightNumber))
	if flightNumber == "" {
		return nil, errs.Wrap(errs.ErrValidation, "flight number is required")
	}
	if pricePerSeatCents < 0 {
		return nil, errs.Wrap(errs.ErrValidation, "price cannot be negative")
	}
	if capacity < 1 {
		return nil, errs.Wrap(errs.ErrValidation, "capacity must be at least 1")
	}
	if _, err := NewDateRange(departureAt, arrivalAt); err != nil {
		return nil, err
	}
	return &Flight{
		ID:                uuid.New(),
		FlightNumber:      flightNumber,
		PricePerSeatCents: pricePerSeatCents,
		Capacity:          capacity,
		SeatsAvailable:    capacity,
		DepartureAt:       departureAt,
		ArrivalAt:         arrivalAt,
		Status:            FlightScheduled,
	}, nil
}

func (f *Flight) SeatsTaken() int {
	return f.Capacity - f.SeatsAvailable
}

func (f *Flight) Availability() Availability {
	return NewAvailability(f.Capacity, f.SeatsTaken())
}

func (f *Flight) IsBookable() bool {
	return f.Status == FlightScheduled || f.Status == FlightDelayed
}

func (f *Flight) HasStarted(now time.Time) bool {
	return !now.Before(f.DepartureAt)
}

func (f *Flight) NextStatus(now time.Time) (FlightStatus, bool) {
	switch f.Status {
	case FlightScheduled, FlightDelayed:
		if !now.Before(f.DepartureAt) {
			return FlightDeparted, true
		}
	case FlightDeparted:
		if !now.Before(f.ArrivalAt) {
			return FlightLanded, true
		}
	}
	return "", false
}
