//go:build unit

package memstore

import (
	"context"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var errInvariant = errs.New("memstore: stored invariant would be violated")

type reservationRepo struct{ st *state }

func (r *reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	if _, exists := r.st.reservations[res.ID()]; exists {
		return errs.Newf("reservation %s already exists", res.ID())
	}
	r.st.reservations[res.ID()] = *res
	return nil
}

func (r *reservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	if _, ok := r.st.reservations[res.ID()]; !ok {
		return notFound("reservation", res.ID())
	}
	r.st.reservations[res.ID()] = *res
	return nil
}

func (r *reservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.st.reservations[id]; !ok {
		return notFound("reservation", id)
	}
	delete(r.st.reservations, id)
	delete(r.st.payments, id)
	for k, rec := range r.st.idempotency {
		if rec.ReservationID != nil && *rec.ReservationID == id {
			rec.ReservationID = nil
			r.st.idempotency[k] = rec
		}
	}
	return nil
}

type inventoryRepo struct{ st *state }

func (r *inventoryRepo) CreateExcursion(_ context.Context, e *inventory.Excursion) error {
	r.st.excursions[e.ID] = *e
	return nil
}

func (r *inventoryRepo) CreateFlight(_ context.Context, f *inventory.Flight) error {
	r.st.flights[f.ID] = *f
	return nil
}

func (r *inventoryRepo) CreateRoom(_ context.Context, room *inventory.Room) error {
	r.st.rooms[room.ID] = *room
	return nil
}

func (r *inventoryRepo) ReserveExcursionGuests(_ context.Context, id uuid.UUID, guests int) (bool, error) {
	e, ok := r.st.excursions[id]
	if !ok || e.Status != inventory.ExcursionUpcoming || e.GuestsBooked+guests > e.MaxGuests {
		return false, nil
	}
	e.GuestsBooked += guests
	r.st.excursions[id] = e
	return true, nil
}

func (r *inventoryRepo) ReleaseExcursionGuests(_ context.Context, id uuid.UUID, guests int) error {
	e, ok := r.st.excursions[id]
	if !ok || e.GuestsBooked < guests {
		return errInvariant
	}
	e.GuestsBooked -= guests
	r.st.excursions[id] = e
	return nil
}

func (r *inventoryRepo) ReserveFlightSeats(_ context.Context, id uuid.UUID, seats int) (bool, error) {
	f, ok := r.st.flights[id]
	if !ok || !f.IsBookable() || f.SeatsAvailable < seats {
		return false, nil
	}
	f.SeatsAvailable -= seats
	r.st.flights[id] = f
	return true, nil
}

func (r *inventoryRepo) ReleaseFlightSeats(_ context.Context, id uuid.UUID, seats int) error {
	f, ok := r.st.flights[id]
	if !ok || f.SeatsAvailable+seats > f.Capacity {
		return errInvariant
	}
	f.SeatsAvailable += seats
	r.st.flights[id] = f
	return nil
}

func (r *inventoryRepo) ResizeExcursion(_ context.Context, id uuid.UUID, maxGuests int) (bool, error) {
	e, ok := r.st.excursions[id]
	if !ok || e.GuestsBooked > maxGuests {
		return false, nil
	}
	e.MaxGuests = maxGuests
	r.st.excursions[id] = e
	return true, nil
}

func (r *inventoryRepo) ResizeFlight(_ context.Context, id uuid.UUID, capacity int) (bool, error) {
	f, ok := r.st.flights[id]
	if !ok {
		return false, nil
	}
	available := f.SeatsAvailable + (capacity - f.Capacity)
	if available < 0 {
		return false, nil
	}
	f.Capacity = capacity
	f.SeatsAvailable = available
	r.st.flights[id] = f
	return true, nil
}

func (r *inventoryRepo) UpdateRoom(_ context.Context, room *inventory.Room) error {
	if _, ok := r.st.rooms[room.ID]; !ok {
		return notFound("room", room.ID)
	}
	r.st.rooms[room.ID] = *room
	return nil
}

func (r *inventoryRepo) SetExcursionStatus(_ context.Context, id uuid.UUID, from, to inventory.ExcursionStatus) (bool, error) {
	e, ok := r.st.excursions[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	r.st.excursions[id] = e
	return true, nil
}

func (r *inventoryRepo) SetFlightStatus(_ context.Context, id uuid.UUID, from, to inventory.FlightStatus) (bool, error) {
	f, ok := r.st.flights[id]
	if !ok || f.Status != from {
		return false, nil
	}
	f.Status = to
	r.st.flights[id] = f
	return true, nil
}

func (r *inventoryRepo) RescheduleFlight(_ context.Context, id uuid.UUID, departureAt, arrivalAt time.Time) error {
	f, ok := r.st.flights[id]
	if !ok {
		return notFound("flight", id)
	}
	f.DepartureAt = departureAt
	f.ArrivalAt = arrivalAt
	r.st.flights[id] = f
	return nil
}

type paymentRepo struct{ st *state }

func (r *paymentRepo) Save(_ context.Context, p *payment.Payment) error {
	r.st.payments[p.ReservationID()] = *p
	return nil
}

func (r *paymentRepo) UpdateStatus(_ context.Context, p *payment.Payment) error {
	if _, ok := r.st.payments[p.ReservationID()]; !ok {
		return notFound("payment", p.ID())
	}
	r.st.payments[p.ReservationID()] = *p
	return nil
}

type idempotencyRepo struct{ st *state }

func (r *idempotencyRepo) Reserve(_ context.Context, key, customerID uuid.UUID, requestHash string, expiresAt time.Time) (bool, error) {
	k := idemKey{key, customerID}
	if _, exists := r.st.idempotency[k]; exists {
		return false, nil
	}
	r.st.idempotency[k] = shared.IdempotencyRecord{
		Key:         key,
		CustomerID:  customerID,
		Status:      shared.IdempotencyStatusProcessing,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r *idempotencyRepo) Reclaim(_ context.Context, key, customerID uuid.UUID, requestHash string, expiresAt time.Time) error {
	k := idemKey{key, customerID}
	rec, ok := r.st.idempotency[k]
	if !ok {
		return notFound("idempotency key", key)
	}
	rec.Status = shared.IdempotencyStatusProcessing
	rec.RequestHash = requestHash
	rec.ReservationID = nil
	rec.ExpiresAt = expiresAt
	r.st.idempotency[k] = rec
	return nil
}

func (r *idempotencyRepo) Complete(_ context.Context, key, customerID, reservationID uuid.UUID) error {
	k := idemKey{key, customerID}
	rec, ok := r.st.idempotency[k]
	if !ok {
		return notFound("idempotency key", key)
	}
	rec.Status = shared.IdempotencyStatusCompleted
	rec.ReservationID = &reservationID
	r.st.idempotency[k] = rec
	return nil
}

type outboxRepo struct{ st *state }

func (r *outboxRepo) Append(_ context.Context, evt shared.Event) error {
	r.st.nextEventID++
	r.st.events = append(r.st.events, storedEvent{OutboxEvent: shared.OutboxEvent{ID: r.st.nextEventID, Event: evt}})
	return nil
}

func (r *outboxRepo) ClaimBatch(_ context.Context, limit int) ([]shared.OutboxEvent, error) {
	var out []shared.OutboxEvent
	for _, e := range r.st.events {
		if e.publishedAt != nil {
			continue
		}
		out = append(out, e.OutboxEvent)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *outboxRepo) MarkPublished(_ context.Context, ids []int64, at time.Time) error {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for i := range r.st.events {
		if want[r.st.events[i].ID] {
			t := at
			r.st.events[i].publishedAt = &t
		}
	}
	return nil
}
