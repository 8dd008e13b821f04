package reservation

import (
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/pkg/errs"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition checks the transition table and then the payment guards.
// paymentStatus is empty when no payment record exists.
func ValidateTransition(from, to Status, paymentStatus payment.Status) error {
	if !to.IsValid() {
		return errs.Wrapf(errs.ErrValidation, "unknown reservation status %q", to)
	}
	if !CanTransition(from, to) {
		return errs.Wrapf(errs.ErrInvalidTransition, "reservation %s -> %s", from, to)
	}
	switch to {
	case StatusConfirmed, StatusCompleted:
		if paymentStatus != payment.StatusCompleted {
			return errs.Wrapf(errs.ErrPaymentRequired, "reservation %s -> %s", from, to)
		}
	case StatusCancelled:
		if paymentStatus == payment.StatusCompleted {
			return errs.Wrapf(errs.ErrRefundRequired, "reservation %s -> %s", from, to)
		}
	}
	return nil
}

// EnsureMutable rejects field edits on terminal reservations.
func EnsureMutable(status Status) error {
	if status.IsTerminal() {
		return errs.Wrapf(errs.ErrImmutableReservation, "reservation is %s", status)
	}
	return nil
}

// ValidateDeletion: a reservation can be removed only while no money is held for it.
// Held money is reported first, whatever the reservation status.
func ValidateDeletion(status Status, paymentStatus payment.Status) error {
	if paymentStatus == payment.StatusCompleted {
		return errs.Wrap(errs.ErrRefundRequired, "payment must be refunded before deletion")
	}
	if status == StatusCompleted {
		return errs.Wrap(errs.ErrImmutableReservation, "completed reservations cannot be deleted")
	}
	return nil
}
