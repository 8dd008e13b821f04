package lifecycle

import (
	"context"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/usecase/ledger"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Reasons recorded on cancellation events.
const (
	ReasonRequested     = "cancelled_by_request"
	ReasonDeadline      = "payment_deadline_passed"
	ReasonItemCancelled = "item_cancelled"
	ReasonItemEnded     = "item_ended_unpaid"
)

var eventForStatus = map[reservation.Status]shared.EventType{
	reservation.StatusConfirmed: shared.EventReservationConfirmed,
	reservation.StatusCancelled: shared.EventReservationCancelled,
	reservation.StatusCompleted: shared.EventReservationCompleted,
}

// Transition moves res through the state machine and applies the inventory
// side effect. The caller persists res and appends the returned event.
func Transition(ctx context.Context, tx shared.Tx, res *reservation.Reservation, to reservation.Status, now time.Time) (shared.EventType, error) {
	pay, err := tx.Reads().PaymentByReservation(ctx, res.ID())
	if err != nil {
		return "", err
	}
	return TransitionWithPayment(ctx, tx, res, to, payment.StatusOf(pay), now)
}

func TransitionWithPayment(ctx context.Context, tx shared.Tx, res *reservation.Reservation, to reservation.Status, payStatus payment.Status, now time.Time) (shared.EventType, error) {
	held := res.HoldsInventory()
	if err := res.TransitionTo(to, payStatus, now); err != nil {
		return "", err
	}
	if held && !res.HoldsInventory() {
		if err := ledger.Release(ctx, tx, res.Allocation()); err != nil {
			return "", err
		}
	}
	return eventForStatus[to], nil
}

// Expire cancels one overdue reservation. It re-locks the row and returns
// false without writing when the reservation is no longer PENDING and overdue.
func Expire(ctx context.Context, tx shared.Tx, id uuid.UUID, now time.Time) (bool, error) {
	res, err := tx.Reads().LockReservation(ctx, id)
	if err != nil {
		return false, err
	}
	if !res.IsOverdue(now) {
		return false, nil
	}
	pay, err := tx.Reads().PaymentByReservation(ctx, id)
	if err != nil {
		return false, err
	}
	if pay != nil && pay.Expire(now) {
		if err := tx.Payments().UpdateStatus(ctx, pay); err != nil {
			return false, err
		}
	}
	if err := res.Expire(payment.StatusOf(pay), now); err != nil {
		return false, err
	}
	if err := ledger.Release(ctx, tx, res.Allocation()); err != nil {
		return false, err
	}
	if err := tx.Reservations().Update(ctx, res); err != nil {
		return false, err
	}
	return true, shared.AppendReservationEvent(ctx, tx, shared.EventReservationExpired, res, ReasonDeadline, now)
}

// CancelForItem cancels an active reservation because its item was cancelled.
// A completed payment does not block it; a refund_required event is emitted instead.
func CancelForItem(ctx context.Context, tx shared.Tx, id uuid.UUID, now time.Time) (bool, error) {
	res, err := tx.Reads().LockReservation(ctx, id)
	if err != nil {
		return false, err
	}
	if !res.HoldsInventory() {
		return false, nil
	}
	pay, err := tx.Reads().PaymentByReservation(ctx, id)
	if err != nil {
		return false, err
	}
	if pay != nil && pay.Expire(now) {
		if err := tx.Payments().UpdateStatus(ctx, pay); err != nil {
			return false, err
		}
	}
	refundOwed, err := res.CancelUpstream(payment.StatusOf(pay), now)
	if err != nil {
		return false, err
	}
	if err := ledger.Release(ctx, tx, res.Allocation()); err != nil {
		return false, err
	}
	if err := tx.Reservations().Update(ctx, res); err != nil {
		return false, err
	}
	if err := shared.AppendReservationEvent(ctx, tx, shared.EventReservationCancelled, res, ReasonItemCancelled, now); err != nil {
		return false, err
	}
	if refundOwed {
		return true, shared.AppendReservationEvent(ctx, tx, shared.EventReservationRefundRequired, res, ReasonItemCancelled, now)
	}
	return true, nil
}

// Settle closes out a reservation whose item has ended: paid CONFIRMED
// reservations complete, unpaid PENDING ones are cancelled.
func Settle(ctx context.Context, tx shared.Tx, id uuid.UUID, now time.Time) (reservation.Status, error) {
	res, err := tx.Reads().LockReservation(ctx, id)
	if err != nil {
		return "", err
	}
	pay, err := tx.Reads().PaymentByReservation(ctx, id)
	if err != nil {
		return "", err
	}

	var (
		evt    shared.EventType
		reason string
	)
	switch res.Status() {
	case reservation.StatusConfirmed:
		if evt, err = TransitionWithPayment(ctx, tx, res, reservation.StatusCompleted, payment.StatusOf(pay), now); err != nil {
			return "", err
		}
	case reservation.StatusPending:
		if pay != nil && pay.Expire(now) {
			if err := tx.Payments().UpdateStatus(ctx, pay); err != nil {
				return "", err
			}
		}
		if evt, err = TransitionWithPayment(ctx, tx, res, reservation.StatusCancelled, payment.StatusOf(pay), now); err != nil {
			return "", err
		}
		reason = ReasonItemEnded
	default:
		return "", nil
	}

	if err := tx.Reservations().Update(ctx, res); err != nil {
		return "", err
	}
	if err := shared.AppendReservationEvent(ctx, tx, evt, res, reason, now); err != nil {
		return "", err
	}
	return res.Status(), nil
}

// CancelItemReservations cascades an item cancellation to its active reservations.
func CancelItemReservations(ctx context.Context, tx shared.Tx, kind inventory.Kind, itemID uuid.UUID, now time.Time) (int, error) {
	ids, err := tx.Reads().ActiveReservationIDsForItem(ctx, kind, itemID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		done, err := CancelForItem(ctx, tx, id, now)
		if err != nil {
			return n, err
		}
		if done {
			n++
		}
	}
	return n, nil
}
