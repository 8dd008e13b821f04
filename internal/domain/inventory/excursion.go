package inventory

import (
	"strings"
	"time"

	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type ExcursionStatus string

const (
	ExcursionUpcoming  ExcursionStatus = "UPCOMING"
	ExcursionOngoing   ExcursionStatus = "ONGOING"
	ExcursionCompleted ExcursionStatus = "COMPLETED"
	ExcursionCancelled ExcursionStatus = "CANCELLED"
)

func (s ExcursionStatus) IsValid() bool {
	switch s {
	case ExcursionUpcoming, ExcursionOngoing, ExcursionCompleted, ExcursionCancelled:
		return true
	default:
		return false
	}
}

func (s ExcursionStatus) IsTerminal() bool {
	return s == ExcursionCompleted || s == ExcursionCancelled
}

// Excursion is a snapshot of a guided excursion row.
type Excursion struct {
	ID                 uuid.UUID
	Title              string
	PricePerGuestCents int64
	MaxGuests          int
	GuestsBooked       int
	StartAt            time.Time
	EndAt              time.Time
	Status             ExcursionStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewExcursion(title string, pricePerGuestCents int64, maxGuests int, startAt, endAt time.Time) (*Excursion, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errs.Wrap(errs.ErrValidation, "excursion title is required")
	}
	if pricePerGuestCents < 0 {
		return nil, errs.Wrap(errs.ErrValidation, "price cannot be negative")
	}
	if maxGuests < 1 {
		return nil, errs.Wrap(errs.ErrValidation, "max guests must be at least 1")
	}
	if _, err := NewDateRange(startAt, endAt); err != nil {
		return nil, err
	}
	return &Excursion{
		ID:                 uuid.New(),
		Title:              title,
		PricePerGuestCents: pricePerGuestCents,
		MaxGuests:          maxGuests,
		StartAt:            startAt,
		EndAt:              endAt,
		Status:             ExcursionUpcoming,
	}, nil
}

func (e *Excursion) Availability() Availability {
	return NewAvailability(e.MaxGuests, e.GuestsBooked)
}

// IsBookable: only upcoming excursions accept new guests.
func (e *Excursion) IsBookable() bool {
	return e.Status == ExcursionUpcoming
}

// HasStarted reports whether the start has been reached, whatever the status
// column says; the status sync can lag behind the clock.
func (e *Excursion) HasStarted(now time.Time) bool {
	return !now.Before(e.StartAt)
}

// NextStatus returns the single forward step the clock allows, if any.
func (e *Excursion) NextStatus(now time.Time) (ExcursionStatus, bool) {
	switch e.Status {
	case ExcursionUpcoming:
		if !now.Before(e.StartAt) {
			return ExcursionOngoing, true
		}
	case ExcursionOngoing:
		if !now.Before(e.EndAt) {
			return ExcursionCompleted, true
		}
	}
	return "", false
}
