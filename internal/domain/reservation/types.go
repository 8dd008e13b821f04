package reservation

import (
	"strings"

	"reservation-engine/internal/pkg/errs"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal: terminal reservations reject every field mutation.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// HoldsInventory: only these statuses count against item capacity.
func (s Status) HoldsInventory() bool {
	return s == StatusPending || s == StatusConfirmed
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", errs.Wrapf(errs.ErrValidation, "unknown reservation status %q", s)
	}
	return st, nil
}

// ActiveStatuses are the statuses whose quantities the ledger sums.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}
