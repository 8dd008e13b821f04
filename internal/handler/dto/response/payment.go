package response

import (
	"reservation-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type PaymentSessionResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

func FromPaymentSession(s *commands.PaymentSession) *PaymentSessionResponse {
	return &PaymentSessionResponse{Reference: s.Reference, AuthorizationURL: s.AuthorizationURL}
}

type PaymentOutcomeResponse struct {
	ReservationID     uuid.UUID `json:"reservation_id"`
	PaymentStatus     string    `json:"payment_status"`
	ReservationStatus string    `json:"reservation_status"`
	RefundRequired    bool      `json:"refund_required"`
}

func FromPaymentOutcome(r *commands.PaymentOutcomeResult) *PaymentOutcomeResponse {
	return &PaymentOutcomeResponse{
		ReservationID:     r.ReservationID,
		PaymentStatus:     r.PaymentStatus.String(),
		ReservationStatus: r.ReservationStatus.String(),
		RefundRequired:    r.RefundRequired,
	}
}
