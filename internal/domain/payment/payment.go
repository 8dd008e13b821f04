package payment

import (
	"strings"
	"time"

	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", errs.Wrapf(errs.ErrValidation, "unknown payment status %q", s)
	}
	return st, nil
}

// Payment is the collaborator-owned payment record; one per reservation.
type Payment struct {
	id            uuid.UUID
	reservationID uuid.UUID
	reference     string
	method        string
	amountCents   int64
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
}

func NewPayment(reservationID uuid.UUID, reference, method string, amountCents int64, now time.Time) (*Payment, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, errs.Wrap(errs.ErrValidation, "payment reference is required")
	}
	if amountCents < 0 {
		return nil, errs.Wrap(errs.ErrValidation, "payment amount cannot be negative")
	}
	return &Payment{
		id:            uuid.New(),
		reservationID: reservationID,
		reference:     reference,
		method:        method,
		amountCents:   amountCents,
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructPayment(
	id, reservationID uuid.UUID,
	reference, method string,
	amountCents int64,
	status Status,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:            id,
		reservationID: reservationID,
		reference:     reference,
		method:        method,
		amountCents:   amountCents,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (p *Payment) ID() uuid.UUID            { return p.id }
func (p *Payment) ReservationID() uuid.UUID { return p.reservationID }
func (p *Payment) Reference() string        { return p.reference }
func (p *Payment) Method() string           { return p.method }
func (p *Payment) AmountCents() int64       { return p.amountCents }
func (p *Payment) Status() Status           { return p.status }
func (p *Payment) CreatedAt() time.Time     { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time     { return p.updatedAt }

// Reinitiate replaces a pending or failed attempt with a fresh gateway session.
func (p *Payment) Reinitiate(reference, method string, amountCents int64, now time.Time) error {
	if p.status == StatusCompleted || p.status == StatusRefunded {
		return errs.Wrapf(errs.ErrInvalidTransition, "payment already %s", p.status)
	}
	p.reference = reference
	p.method = method
	p.amountCents = amountCents
	p.status = StatusPending
	p.updatedAt = now
	return nil
}

// Record applies a processor outcome. Same-status outcomes are no-ops; the
// returned bool is false when nothing changed.
func (p *Payment) Record(outcome Status, now time.Time) (bool, error) {
	if outcome == p.status {
		return false, nil
	}
	switch outcome {
	case StatusCompleted, StatusFailed:
		if p.status != StatusPending && p.status != StatusFailed {
			return false, errs.Wrapf(errs.ErrInvalidTransition, "payment %s -> %s", p.status, outcome)
		}
	case StatusRefunded:
		if p.status != StatusCompleted {
			return false, errs.Wrapf(errs.ErrInvalidTransition, "payment %s -> %s", p.status, outcome)
		}
	default:
		return false, errs.Wrapf(errs.ErrInvalidTransition, "payment %s -> %s", p.status, outcome)
	}
	p.status = outcome
	p.updatedAt = now
	return true, nil
}

// Expire marks an unpaid attempt failed when the reservation deadline passes.
func (p *Payment) Expire(now time.Time) bool {
	if p.status != StatusPending {
		return false
	}
	p.status = StatusFailed
	p.updatedAt = now
	return true
}

// StatusOf treats a missing record as "no payment".
func StatusOf(p *Payment) Status {
	if p == nil {
		return ""
	}
	return p.status
}
