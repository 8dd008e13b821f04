package errs

import "errors"

// Failure taxonomy shared by the domain, usecase and transport layers.
// Layers wrap or mark these; callers match with errs.Is, which also sees marks.
var (
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")
	ErrInvalidDateRange      = errors.New("invalid date range")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrCapacityBelowDemand   = errors.New("capacity below demand")
	ErrNotBookable           = errors.New("item is not bookable")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrPaymentRequired       = errors.New("completed payment required")
	ErrRefundRequired        = errors.New("refund required before cancellation")
	ErrImmutableReservation  = errors.New("reservation can no longer be modified")
	ErrAmountMismatch        = errors.New("payment amount does not match reservation price")
	ErrForbidden             = errors.New("forbidden")

	// Retryable: lock wait or serialization retries exhausted.
	ErrContention = errors.New("contention on inventory, retry later")

	ErrIdempotencyInProgress = errors.New("idempotency in progress")
	ErrIdempotencyMismatch   = errors.New("idempotency key reused with a different request")
)
