package payment

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

// SandboxGateway issues hosted-checkout sessions without calling a processor.
// Outcomes arrive later through the webhook endpoint.
type SandboxGateway struct {
	baseURL  string
	currency string
	logger   *slog.Logger
}

func NewSandboxGateway(cfg config.PaymentConfig, logger *slog.Logger) (*SandboxGateway, error) {
	if _, err := url.Parse(cfg.CheckoutBaseURL); err != nil {
		return nil, fmt.Errorf("invalid checkout base url: %w", err)
	}
	return &SandboxGateway{baseURL: cfg.CheckoutBaseURL, currency: cfg.Currency, logger: logger}, nil
}

func (g *SandboxGateway) InitiatePayment(ctx context.Context, req commands.PaymentRequest) (*commands.PaymentSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reference := "pay_" + uuid.NewString()

	u, err := url.Parse(g.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid checkout base url: %w", err)
	}
	q := u.Query()
	q.Set("reference", reference)
	q.Set("reservation", req.ReservationID.String())
	q.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	q.Set("currency", g.currency)
	if req.Method != "" {
		q.Set("method", req.Method)
	}
	u.RawQuery = q.Encode()

	g.logger.InfoContext(ctx, "sandbox checkout session created",
		"reference", reference,
		"reservationId", req.ReservationID,
		"amountCents", req.AmountCents,
	)
	return &commands.PaymentSession{AuthorizationURL: u.String(), Reference: reference}, nil
}
