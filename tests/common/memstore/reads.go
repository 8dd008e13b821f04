//go:build unit

package memstore

import (
	"context"
	"sort"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type memReads struct {
	st *state
}

func (r *memReads) ExcursionByID(_ context.Context, id uuid.UUID) (*inventory.Excursion, error) {
	e, ok := r.st.excursions[id]
	if !ok {
		return nil, notFound("excursion", id)
	}
	return &e, nil
}

func (r *memReads) FlightByID(_ context.Context, id uuid.UUID) (*inventory.Flight, error) {
	f, ok := r.st.flights[id]
	if !ok {
		return nil, notFound("flight", id)
	}
	return &f, nil
}

func (r *memReads) RoomByID(_ context.Context, id uuid.UUID) (*inventory.Room, error) {
	room, ok := r.st.rooms[id]
	if !ok {
		return nil, notFound("room", id)
	}
	return &room, nil
}

func (r *memReads) LockRoom(ctx context.Context, id uuid.UUID) (*inventory.Room, error) {
	return r.RoomByID(ctx, id)
}

func (r *memReads) RoomsBooked(_ context.Context, roomID uuid.UUID, window inventory.DateRange, exclude uuid.UUID) (int, error) {
	return inventory.RoomsBooked(r.roomAllocations(roomID, time.Time{}), window, exclude), nil
}

func (r *memReads) ActiveRoomAllocations(_ context.Context, roomID uuid.UUID, from time.Time) ([]inventory.RoomAllocation, error) {
	return r.roomAllocations(roomID, from), nil
}

func (r *memReads) roomAllocations(roomID uuid.UUID, from time.Time) []inventory.RoomAllocation {
	var out []inventory.RoomAllocation
	for _, res := range r.st.reservations {
		if res.Kind() != inventory.KindRoom || res.ItemID() != roomID || !holds(res) {
			continue
		}
		w := res.DateRange()
		if !from.IsZero() && !w.End().After(from) {
			continue
		}
		out = append(out, inventory.RoomAllocation{
			ReservationID: res.ID(),
			Rooms:         res.Quantity(),
			Guests:        res.Guests(),
			Window:        w,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window.Start().Before(out[j].Window.Start()) })
	return out
}

func (r *memReads) ReservationByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.st.reservations[id]
	if !ok {
		return nil, notFound("reservation", id)
	}
	return &res, nil
}

func (r *memReads) LockReservation(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.ReservationByID(ctx, id)
}

func (r *memReads) PaymentByReservation(_ context.Context, reservationID uuid.UUID) (*payment.Payment, error) {
	p, ok := r.st.payments[reservationID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *memReads) PaymentByReference(_ context.Context, reference string) (*payment.Payment, error) {
	for _, p := range r.st.payments {
		if p.Reference() == reference {
			return &p, nil
		}
	}
	return nil, notFound("payment", reference)
}

func (r *memReads) IdempotencyByKey(_ context.Context, key, customerID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.st.idempotency[idemKey{key, customerID}]
	if !ok {
		return nil, notFound("idempotency key", key)
	}
	return &rec, nil
}

func (r *memReads) OverdueReservationIDs(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	type row struct {
		id       uuid.UUID
		deadline time.Time
	}
	var rows []row
	for _, res := range r.st.reservations {
		if res.Status() == reservation.StatusPending && res.PaymentDeadline().Before(now) {
			rows = append(rows, row{res.ID(), res.PaymentDeadline()})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].deadline.Before(rows[j].deadline) })
	ids := make([]uuid.UUID, 0, len(rows))
	for _, rw := range rows {
		ids = append(ids, rw.id)
	}
	return limitIDs(ids, limit), nil
}

func (r *memReads) ExcursionsDueForAdvance(_ context.Context, now time.Time, limit int) ([]*inventory.Excursion, error) {
	var out []*inventory.Excursion
	for _, e := range r.st.excursions {
		due := (e.Status == inventory.ExcursionUpcoming && !e.StartAt.After(now)) ||
			(e.Status == inventory.ExcursionOngoing && !e.EndAt.After(now))
		if due {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memReads) FlightsDueForAdvance(_ context.Context, now time.Time, limit int) ([]*inventory.Flight, error) {
	var out []*inventory.Flight
	for _, f := range r.st.flights {
		due := ((f.Status == inventory.FlightScheduled || f.Status == inventory.FlightDelayed) && !f.DepartureAt.After(now)) ||
			(f.Status == inventory.FlightDeparted && !f.ArrivalAt.After(now))
		if due {
			f := f
			out = append(out, &f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureAt.Before(out[j].DepartureAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memReads) CancelledItemsWithActiveReservations(_ context.Context, kind inventory.Kind, limit int) ([]uuid.UUID, error) {
	cancelled := func(id uuid.UUID) bool {
		switch kind {
		case inventory.KindExcursion:
			e, ok := r.st.excursions[id]
			return ok && e.Status == inventory.ExcursionCancelled
		case inventory.KindFlight:
			f, ok := r.st.flights[id]
			return ok && f.Status == inventory.FlightCancelled
		}
		return false
	}
	seen := map[uuid.UUID]bool{}
	var ids []uuid.UUID
	for _, res := range r.st.reservations {
		if res.Kind() != kind || !holds(res) || seen[res.ItemID()] || !cancelled(res.ItemID()) {
			continue
		}
		seen[res.ItemID()] = true
		ids = append(ids, res.ItemID())
	}
	sortIDs(ids)
	return limitIDs(ids, limit), nil
}

func (r *memReads) ActiveReservationIDsForItem(_ context.Context, kind inventory.Kind, itemID uuid.UUID) ([]uuid.UUID, error) {
	if !kind.IsValid() {
		return nil, errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", kind)
	}
	var matches []reservation.Reservation
	for _, res := range r.st.reservations {
		if res.Kind() == kind && res.ItemID() == itemID && holds(res) {
			matches = append(matches, res)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt().Before(matches[j].CreatedAt()) })
	ids := make([]uuid.UUID, 0, len(matches))
	for i := range matches {
		ids = append(ids, matches[i].ID())
	}
	return ids, nil
}

func (r *memReads) EndedReservationIDs(_ context.Context, kind inventory.Kind, now time.Time, limit int) ([]uuid.UUID, error) {
	ended := func(res reservation.Reservation) bool {
		switch kind {
		case inventory.KindExcursion:
			e, ok := r.st.excursions[res.ItemID()]
			return ok && e.Status == inventory.ExcursionCompleted
		case inventory.KindFlight:
			f, ok := r.st.flights[res.ItemID()]
			return ok && f.Status == inventory.FlightLanded
		case inventory.KindRoom:
			return !res.DateRange().End().After(now)
		}
		return false
	}
	if !kind.IsValid() {
		return nil, errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", kind)
	}
	var ids []uuid.UUID
	for _, res := range r.st.reservations {
		if res.Kind() == kind && holds(res) && ended(res) {
			ids = append(ids, res.ID())
		}
	}
	sortIDs(ids)
	return limitIDs(ids, limit), nil
}
