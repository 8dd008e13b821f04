package shared

import (
	"context"
	"encoding/json"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type EventType string

const (
	EventReservationCreated        EventType = "reservation.created"
	EventReservationUpdated        EventType = "reservation.updated"
	EventReservationConfirmed      EventType = "reservation.confirmed"
	EventReservationCancelled      EventType = "reservation.cancelled"
	EventReservationExpired        EventType = "reservation.expired"
	EventReservationCompleted      EventType = "reservation.completed"
	EventReservationDeleted        EventType = "reservation.deleted"
	EventReservationRefundRequired EventType = "reservation.refund_required"
	EventPaymentFailed             EventType = "payment.failed"
)

// Event is a lifecycle change recorded in the same transaction as the change itself.
type Event struct {
	ReservationID uuid.UUID
	Type          EventType
	Payload       json.RawMessage
	OccurredAt    time.Time
}

// OutboxEvent is a stored Event waiting for the relay.
type OutboxEvent struct {
	ID int64
	Event
}

type ReservationPayload struct {
	ReservationID uuid.UUID  `json:"reservation_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	Kind          string     `json:"kind"`
	ItemID        uuid.UUID  `json:"item_id"`
	Status        string     `json:"status"`
	Quantity      int        `json:"quantity"`
	AmountCents   int64      `json:"amount_cents"`
	Deadline      time.Time  `json:"payment_deadline"`
	StartAt       *time.Time `json:"start_at,omitempty"`
	EndAt         *time.Time `json:"end_at,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

func NewReservationEvent(typ EventType, res *reservation.Reservation, reason string, now time.Time) (Event, error) {
	p := ReservationPayload{
		ReservationID: res.ID(),
		CustomerID:    res.CustomerID(),
		Kind:          res.Kind().String(),
		ItemID:        res.ItemID(),
		Status:        res.Status().String(),
		Quantity:      res.Quantity(),
		AmountCents:   res.Amount().Cents(),
		Deadline:      res.PaymentDeadline(),
		Reason:        reason,
	}
	if w := res.DateRange(); !w.IsZero() {
		start, end := w.Start(), w.End()
		p.StartAt, p.EndAt = &start, &end
	}
	body, err := json.Marshal(p)
	if err != nil {
		return Event{}, errs.Wrap(err, "marshal reservation event")
	}
	return Event{ReservationID: res.ID(), Type: typ, Payload: body, OccurredAt: now}, nil
}

// AppendReservationEvent builds and stores an event inside tx.
func AppendReservationEvent(ctx context.Context, tx Tx, typ EventType, res *reservation.Reservation, reason string, now time.Time) error {
	evt, err := NewReservationEvent(typ, res, reason, now)
	if err != nil {
		return err
	}
	return tx.Outbox().Append(ctx, evt)
}

type EventPublisher interface {
	Publish(ctx context.Context, events []OutboxEvent) error
	Close() error
}

// ErrStorageUnavailable marks failures to reach the database at all.
var ErrStorageUnavailable = errs.New("storage unavailable")
