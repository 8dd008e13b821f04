//go:build unit

// Package memstore is an in-memory shared.UnitOfWork for use case tests.
// Transactions are serialized and run against a copy of the state that is
// swapped in only when the callback succeeds, so a failed callback leaves no
// trace. Conditional updates follow the same predicates as the SQL queries.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type idemKey struct {
	key        uuid.UUID
	customerID uuid.UUID
}

type storedEvent struct {
	shared.OutboxEvent
	publishedAt *time.Time
}

type state struct {
	excursions   map[uuid.UUID]inventory.Excursion
	flights      map[uuid.UUID]inventory.Flight
	rooms        map[uuid.UUID]inventory.Room
	reservations map[uuid.UUID]reservation.Reservation
	payments     map[uuid.UUID]payment.Payment // by reservation id
	idempotency  map[idemKey]shared.IdempotencyRecord
	events       []storedEvent
	nextEventID  int64
}

func newState() *state {
	return &state{
		excursions:   map[uuid.UUID]inventory.Excursion{},
		flights:      map[uuid.UUID]inventory.Flight{},
		rooms:        map[uuid.UUID]inventory.Room{},
		reservations: map[uuid.UUID]reservation.Reservation{},
		payments:     map[uuid.UUID]payment.Payment{},
		idempotency:  map[idemKey]shared.IdempotencyRecord{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.excursions {
		c.excursions[k] = v
	}
	for k, v := range s.flights {
		c.flights[k] = v
	}
	for k, v := range s.rooms {
		c.rooms[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.idempotency {
		c.idempotency[k] = v
	}
	c.events = append([]storedEvent(nil), s.events...)
	c.nextEventID = s.nextEventID
	return c
}

type Store struct {
	mu      sync.Mutex
	state   *state
	failErr error
	commits int
}

var _ shared.UnitOfWork = (*Store)(nil)

func New() *Store {
	return &Store{state: newState()}
}

// FailNextWith makes the next transaction return err without running.
func (s *Store) FailNextWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}
	work := s.state.clone()
	if err := fn(ctx, &memTx{st: work}); err != nil {
		return err
	}
	s.state = work
	s.commits++
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads shared.CommandReads) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}
	return fn(ctx, &memReads{st: s.state.clone()})
}

func (s *Store) takeFailure() error {
	err := s.failErr
	s.failErr = nil
	return err
}

// Commits counts successful write transactions.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// ---- seeding and inspection ----

func (s *Store) PutExcursion(e *inventory.Excursion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.excursions[e.ID] = *e
}

func (s *Store) PutFlight(f *inventory.Flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.flights[f.ID] = *f
}

func (s *Store) PutRoom(r *inventory.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.rooms[r.ID] = *r
}

func (s *Store) PutReservation(res *reservation.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.reservations[res.ID()] = *res
}

func (s *Store) PutPayment(p *payment.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.payments[p.ReservationID()] = *p
}

func (s *Store) PutIdempotency(rec shared.IdempotencyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.idempotency[idemKey{rec.Key, rec.CustomerID}] = rec
}

func (s *Store) Excursion(id uuid.UUID) (inventory.Excursion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.state.excursions[id]
	return e, ok
}

func (s *Store) Flight(id uuid.UUID) (inventory.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.state.flights[id]
	return f, ok
}

func (s *Store) Room(id uuid.UUID) (inventory.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.state.rooms[id]
	return r, ok
}

func (s *Store) Reservation(id uuid.UUID) (*reservation.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.state.reservations[id]
	if !ok {
		return nil, false
	}
	return &res, true
}

func (s *Store) Payment(reservationID uuid.UUID) (*payment.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.payments[reservationID]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (s *Store) Idempotency(key, customerID uuid.UUID) (shared.IdempotencyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.state.idempotency[idemKey{key, customerID}]
	return rec, ok
}

// ActiveQuantity sums the quantity of PENDING and CONFIRMED reservations on an item.
func (s *Store) ActiveQuantity(itemID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, r := range s.state.reservations {
		if r.ItemID() == itemID && r.HoldsInventory() {
			total += r.Quantity()
		}
	}
	return total
}

// EventTypes lists recorded outbox event types for one reservation, oldest first.
func (s *Store) EventTypes(reservationID uuid.UUID) []shared.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []shared.EventType
	for _, e := range s.state.events {
		if e.ReservationID == reservationID {
			out = append(out, e.Type)
		}
	}
	return out
}

func (s *Store) Events() []shared.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shared.OutboxEvent, 0, len(s.state.events))
	for _, e := range s.state.events {
		out = append(out, e.OutboxEvent)
	}
	return out
}

func (s *Store) UnpublishedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.state.events {
		if e.publishedAt == nil {
			n++
		}
	}
	return n
}

// ---- transaction ----

type memTx struct {
	st *state
}

func (t *memTx) Reservations() shared.ReservationRepository { return &reservationRepo{st: t.st} }
func (t *memTx) Inventory() shared.InventoryRepository      { return &inventoryRepo{st: t.st} }
func (t *memTx) Payments() shared.PaymentRepository         { return &paymentRepo{st: t.st} }
func (t *memTx) Idempotency() shared.IdempotencyRepository  { return &idempotencyRepo{st: t.st} }
func (t *memTx) Outbox() shared.OutboxRepository            { return &outboxRepo{st: t.st} }
func (t *memTx) Reads() shared.CommandReads                 { return &memReads{st: t.st} }

func notFound(entity string, id any) error {
	return errs.Wrapf(errs.ErrNotFound, "%s %v", entity, id)
}

func holds(r reservation.Reservation) bool {
	return r.Status().HoldsInventory()
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
}

func limitIDs(ids []uuid.UUID, limit int) []uuid.UUID {
	if limit > 0 && len(ids) > limit {
		return ids[:limit]
	}
	return ids
}
