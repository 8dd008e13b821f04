package reservation

import (
	"strings"
	"unicode/utf8"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

const maxNoteLength = 1000

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func NewMoneyFromInt(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.Wrap(errs.ErrValidation, "money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Times(n int) Money {
	return Money{cents: m.cents * int64(n)}
}

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

// Note holds the customer's free-text special requests.
type Note struct {
	value string
}

func NewNote(value string) (Note, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > maxNoteLength {
		return Note{}, errs.Wrapf(errs.ErrValidation, "special requests exceed %d characters", maxNoteLength)
	}
	return Note{value: value}, nil
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}

// Allocation is what a reservation holds against one inventory item.
// Window is set only for ROOM allocations.
type Allocation struct {
	Kind     inventory.Kind
	ItemID   uuid.UUID
	Quantity int
	Guests   int
	Window   inventory.DateRange
}

func (a Allocation) SameItem(other Allocation) bool {
	return a.Kind == other.Kind && a.ItemID == other.ItemID
}

func (a Allocation) Validate() error {
	if !a.Kind.IsValid() {
		return errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", a.Kind)
	}
	if a.ItemID == uuid.Nil {
		return errs.Wrap(errs.ErrValidation, "item id is required")
	}
	if a.Quantity < 1 {
		return errs.Wrap(errs.ErrValidation, "quantity must be at least 1")
	}
	if a.Guests < 1 {
		return errs.Wrap(errs.ErrValidation, "guests must be at least 1")
	}
	if a.Kind == inventory.KindRoom && a.Window.IsZero() {
		return errs.Wrap(errs.ErrInvalidDateRange, "room reservations need a date range")
	}
	if a.Kind != inventory.KindRoom {
		if !a.Window.IsZero() {
			return errs.Wrapf(errs.ErrValidation, "%s reservations do not take a date range", a.Kind)
		}
		if a.Guests != a.Quantity {
			return errs.Wrapf(errs.ErrValidation, "%s reservations book one unit per guest", a.Kind)
		}
	}
	return nil
}
