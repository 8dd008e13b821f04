package request

import (
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/usecase/commands"
)

type InitiatePaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

// PaymentWebhookRequest is the processor's callback body.
type PaymentWebhookRequest struct {
	Reference   string `json:"reference" binding:"required"`
	Status      string `json:"status" binding:"required"`
	AmountCents int64  `json:"amount_cents" binding:"min=0"`
}

func (r PaymentWebhookRequest) ToOutcome() (commands.PaymentOutcome, error) {
	status, err := payment.ParseStatus(r.Status)
	if err != nil {
		return commands.PaymentOutcome{}, err
	}
	return commands.PaymentOutcome{
		Reference:   r.Reference,
		Status:      status,
		AmountCents: r.AmountCents,
	}, nil
}
