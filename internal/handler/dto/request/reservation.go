package request

import (
	"strings"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	// CustomerID is honoured for staff only.
	CustomerID      *uuid.UUID `json:"customer_id,omitempty"`
	Kind            string     `json:"kind" binding:"required"`
	ItemID          uuid.UUID  `json:"item_id" binding:"required"`
	Quantity        int        `json:"quantity" binding:"required,min=1"`
	Guests          *int       `json:"guests,omitempty" binding:"omitempty,min=1"`
	StartAt         *time.Time `json:"start_at,omitempty"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	SpecialRequests *string    `json:"special_requests,omitempty"`
}

func (r CreateReservationRequest) ToInput() (commands.CreateReservationInput, error) {
	kind, err := inventory.ParseKind(r.Kind)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	return commands.CreateReservationInput{
		CustomerID:      r.CustomerID,
		Kind:            kind,
		ItemID:          r.ItemID,
		Quantity:        r.Quantity,
		Guests:          r.Guests,
		StartAt:         r.StartAt,
		EndAt:           r.EndAt,
		SpecialRequests: trimmed(r.SpecialRequests),
	}, nil
}

// UpdateReservationRequest is a partial update; absent fields are left unchanged.
type UpdateReservationRequest struct {
	ItemID          *uuid.UUID `json:"item_id,omitempty"`
	Quantity        *int       `json:"quantity,omitempty" binding:"omitempty,min=1"`
	Guests          *int       `json:"guests,omitempty" binding:"omitempty,min=1"`
	StartAt         *time.Time `json:"start_at,omitempty"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	SpecialRequests *string    `json:"special_requests,omitempty"`
	Status          *string    `json:"status,omitempty"`
}

func (r UpdateReservationRequest) ToPatch() (commands.ReservationPatch, error) {
	patch := commands.ReservationPatch{
		ItemID:          r.ItemID,
		Quantity:        r.Quantity,
		Guests:          r.Guests,
		StartAt:         r.StartAt,
		EndAt:           r.EndAt,
		SpecialRequests: trimmed(r.SpecialRequests),
	}
	if r.Status != nil {
		status, err := reservation.ParseStatus(*r.Status)
		if err != nil {
			return commands.ReservationPatch{}, err
		}
		patch.Status = &status
	}
	return patch, nil
}

type ListReservationsRequest struct {
	CustomerID string `form:"customer_id"`
	After      string `form:"after"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
}

// Customer resolves whose reservations to list, defaulting to the caller.
func (r ListReservationsRequest) Customer(self uuid.UUID) (uuid.UUID, error) {
	if r.CustomerID == "" {
		return self, nil
	}
	id, err := uuid.Parse(r.CustomerID)
	if err != nil {
		return uuid.Nil, errs.Wrap(errs.ErrValidation, "customer_id must be a UUID")
	}
	return id, nil
}

func (r ListReservationsRequest) Cursor() *queries.Cursor {
	if r.After == "" {
		return nil
	}
	return &queries.Cursor{After: r.After}
}

type CheckAvailabilityRequest struct {
	Kind      string     `form:"kind" binding:"required"`
	ItemID    string     `form:"item_id" binding:"required"`
	StartAt   *time.Time `form:"start_at"`
	EndAt     *time.Time `form:"end_at"`
	Requested int        `form:"requested" binding:"omitempty,min=1"`
}

func (r CheckAvailabilityRequest) ToInput() (queries.CheckAvailabilityInput, error) {
	kind, err := inventory.ParseKind(r.Kind)
	if err != nil {
		return queries.CheckAvailabilityInput{}, err
	}
	itemID, err := uuid.Parse(r.ItemID)
	if err != nil {
		return queries.CheckAvailabilityInput{}, errs.Wrap(errs.ErrValidation, "item_id must be a UUID")
	}
	return queries.CheckAvailabilityInput{
		Kind:      kind,
		ItemID:    itemID,
		StartAt:   r.StartAt,
		EndAt:     r.EndAt,
		Requested: r.Requested,
	}, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
