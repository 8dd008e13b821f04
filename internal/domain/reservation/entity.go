package reservation

import (
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type Reservation struct {
	id               uuid.UUID
	customerID       uuid.UUID
	allocation       Allocation
	status           Status
	amount           Money
	paymentDeadline  time.Time
	immediatePayment bool
	specialRequests  Note
	createdAt        time.Time
	updatedAt        time.Time
}

func NewReservation(
	customerID uuid.UUID,
	alloc Allocation,
	amount Money,
	terms PaymentTerms,
	specialRequests Note,
	now time.Time,
) (*Reservation, error) {
	if customerID == uuid.Nil {
		return nil, errs.Wrap(errs.ErrValidation, "customer id is required")
	}
	if err := alloc.Validate(); err != nil {
		return nil, err
	}
	if amount.Cents() < 0 {
		return nil, errs.Wrap(errs.ErrValidation, "amount cannot be negative")
	}
	return &Reservation{
		id:               uuid.New(),
		customerID:       customerID,
		allocation:       alloc,
		status:           StatusPending,
		amount:           amount,
		paymentDeadline:  terms.Deadline,
		immediatePayment: terms.ImmediatePaymentRequired,
		specialRequests:  specialRequests,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructReservation(
	id, customerID uuid.UUID,
	alloc Allocation,
	status Status,
	amount Money,
	paymentDeadline time.Time,
	immediatePayment bool,
	specialRequests Note,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:               id,
		customerID:       customerID,
		allocation:       alloc,
		status:           status,
		amount:           amount,
		paymentDeadline:  paymentDeadline,
		immediatePayment: immediatePayment,
		specialRequests:  specialRequests,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (r *Reservation) ID() uuid.UUID                  { return r.id }
func (r *Reservation) CustomerID() uuid.UUID          { return r.customerID }
func (r *Reservation) Allocation() Allocation         { return r.allocation }
func (r *Reservation) Kind() inventory.Kind           { return r.allocation.Kind }
func (r *Reservation) ItemID() uuid.UUID              { return r.allocation.ItemID }
func (r *Reservation) Quantity() int                  { return r.allocation.Quantity }
func (r *Reservation) Guests() int                    { return r.allocation.Guests }
func (r *Reservation) DateRange() inventory.DateRange { return r.allocation.Window }
func (r *Reservation) Status() Status                 { return r.status }
func (r *Reservation) Amount() Money                  { return r.amount }
func (r *Reservation) PaymentDeadline() time.Time     { return r.paymentDeadline }
func (r *Reservation) ImmediatePayment() bool         { return r.immediatePayment }
func (r *Reservation) SpecialRequests() Note          { return r.specialRequests }
func (r *Reservation) CreatedAt() time.Time           { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time           { return r.updatedAt }

func (r *Reservation) HoldsInventory() bool {
	return r.status.HoldsInventory()
}

func (r *Reservation) IsOverdue(now time.Time) bool {
	return r.status == StatusPending && r.paymentDeadline.Before(now)
}

// TransitionTo moves through the state machine; inventory side effects are the caller's.
func (r *Reservation) TransitionTo(to Status, paymentStatus payment.Status, now time.Time) error {
	if err := ValidateTransition(r.status, to, paymentStatus); err != nil {
		return err
	}
	r.status = to
	r.updatedAt = now
	return nil
}

// Expire cancels an overdue PENDING reservation.
func (r *Reservation) Expire(paymentStatus payment.Status, now time.Time) error {
	if !r.IsOverdue(now) {
		return errs.Wrapf(errs.ErrInvalidTransition, "reservation is %s with deadline %s", r.status, r.paymentDeadline.Format(time.RFC3339))
	}
	return r.TransitionTo(StatusCancelled, paymentStatus, now)
}

// CancelUpstream cancels because the item itself was cancelled. It skips the
// refund guard; the returned bool reports whether a completed payment needs refunding.
func (r *Reservation) CancelUpstream(paymentStatus payment.Status, now time.Time) (bool, error) {
	if !CanTransition(r.status, StatusCancelled) {
		return false, errs.Wrapf(errs.ErrInvalidTransition, "reservation %s -> %s", r.status, StatusCancelled)
	}
	r.status = StatusCancelled
	r.updatedAt = now
	return paymentStatus == payment.StatusCompleted, nil
}

// Reallocate swaps the held allocation and re-prices the reservation. When terms
// is non-nil a PENDING deadline may move earlier, never later.
func (r *Reservation) Reallocate(alloc Allocation, amount Money, terms *PaymentTerms, now time.Time) error {
	if err := EnsureMutable(r.status); err != nil {
		return err
	}
	if alloc.Kind != r.allocation.Kind {
		return errs.Wrap(errs.ErrValidation, "inventory kind cannot change")
	}
	if err := alloc.Validate(); err != nil {
		return err
	}
	r.allocation = alloc
	r.amount = amount
	if terms != nil && r.status == StatusPending {
		if terms.Deadline.Before(r.paymentDeadline) {
			r.paymentDeadline = terms.Deadline
		}
		r.immediatePayment = r.immediatePayment || terms.ImmediatePaymentRequired
	}
	r.updatedAt = now
	return nil
}

func (r *Reservation) UpdateSpecialRequests(note Note, now time.Time) error {
	if err := EnsureMutable(r.status); err != nil {
		return err
	}
	r.specialRequests = note
	r.updatedAt = now
	return nil
}
