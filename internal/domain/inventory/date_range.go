package inventory

import (
	"time"

	"reservation-engine/internal/pkg/errs"
)

// DateRange is a half-open interval [start, end).
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, errs.Wrap(errs.ErrInvalidDateRange, "start and end are required")
	}
	if !end.After(start) {
		return DateRange{}, errs.Wrap(errs.ErrInvalidDateRange, "end must be after start")
	}
	return DateRange{start: start, end: end}, nil
}

// NewFutureDateRange also rejects ranges starting before now.
func NewFutureDateRange(start, end, now time.Time) (DateRange, error) {
	r, err := NewDateRange(start, end)
	if err != nil {
		return DateRange{}, err
	}
	if start.Before(now) {
		return DateRange{}, errs.Wrap(errs.ErrInvalidDateRange, "start cannot be in the past")
	}
	return r, nil
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }

func (r DateRange) Duration() time.Duration {
	return r.end.Sub(r.start)
}

func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

// Overlaps uses the half-open rule: ranges that only touch do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && r.end.After(other.start)
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && t.Before(r.end)
}

// Nights counts started 24h periods, minimum one.
func (r DateRange) Nights() int {
	d := r.Duration()
	n := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (r DateRange) Equal(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}
