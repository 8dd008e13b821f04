package inventory

import (
	"strings"

	"reservation-engine/internal/pkg/errs"
)

type Kind string

const (
	KindExcursion Kind = "EXCURSION"
	KindRoom      Kind = "ROOM"
	KindFlight    Kind = "FLIGHT"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindExcursion, KindRoom, KindFlight:
		return true
	default:
		return false
	}
}

// UsesCounter reports whether availability is tracked by a stored running counter.
// Room availability is always derived from overlapping reservations.
func (k Kind) UsesCounter() bool {
	return k == KindExcursion || k == KindFlight
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", s)
	}
	return k, nil
}
