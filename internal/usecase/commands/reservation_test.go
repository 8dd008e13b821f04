//go:build unit

package commands_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/shared"
	"reservation-engine/tests/common/builder"
	"reservation-engine/tests/common/memstore"
	"reservation-engine/tests/common/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type reservationCommandsSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memstore.Store
	clock    *clock.MockClock
	uc       commands.ReservationCommands
	customer user.Actor
	operator user.Actor
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(reservationCommandsSuite))
}

func (s *reservationCommandsSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.clock = clock.NewMockClock(builder.BaseTime)
	factory := reservation.NewFactory(s.clock, reservation.NewDefaultPriceCalculator(), reservation.NewDeadlinePolicy(24*time.Hour, time.Hour))
	s.uc = commands.NewReservationUseCase(s.store, factory, s.clock, 24*time.Hour, testutil.DiscardLogger())
	s.customer = user.NewActor(uuid.New(), user.RoleCustomer)
	s.operator = user.NewActor(uuid.New(), user.RoleOperator)
}

func (s *reservationCommandsSuite) seedExcursion(maxGuests, booked int) *inventory.Excursion {
	e := builder.NewExcursionBuilder().WithCapacity(maxGuests, booked).Build()
	s.store.PutExcursion(e)
	return e
}

// seedBooking stores a reservation on e owned by the suite customer and
// counts it against the excursion when it holds inventory.
func (s *reservationCommandsSuite) seedBooking(e *inventory.Excursion, status reservation.Status, qty int) *reservation.Reservation {
	res := builder.NewReservationBuilder().
		WithCustomer(s.customer.ID).
		WithItem(inventory.KindExcursion, e.ID).
		WithQuantity(qty).
		WithStatus(status).
		BuildDomain()
	if status.HoldsInventory() {
		e.GuestsBooked += qty
		s.store.PutExcursion(e)
	}
	s.store.PutReservation(res)
	return res
}

func (s *reservationCommandsSuite) seedPayment(res *reservation.Reservation, status payment.Status) {
	s.store.PutPayment(payment.ReconstructPayment(uuid.New(), res.ID(), "ref-"+res.ID().String(), "card",
		res.Amount().Cents(), status, builder.BaseTime, builder.BaseTime))
}

func (s *reservationCommandsSuite) guestsBooked(id uuid.UUID) int {
	e, ok := s.store.Excursion(id)
	s.Require().True(ok)
	return e.GuestsBooked
}

func excursionInput(itemID uuid.UUID, qty int) commands.CreateReservationInput {
	return commands.CreateReservationInput{Kind: inventory.KindExcursion, ItemID: itemID, Quantity: qty}
}

func roomInput(itemID uuid.UUID, rooms, guests int, start, end time.Time) commands.CreateReservationInput {
	return commands.CreateReservationInput{
		Kind:     inventory.KindRoom,
		ItemID:   itemID,
		Quantity: rooms,
		Guests:   &guests,
		StartAt:  &start,
		EndAt:    &end,
	}
}

// ===========================
// CreateReservation
// ===========================

func (s *reservationCommandsSuite) TestCreateReservation() {
	s.Run("excursion takes guests from the counter", func() {
		e := s.seedExcursion(10, 0)

		result, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 3), nil)
		s.Require().NoError(err)

		res := result.Reservation
		s.Equal(reservation.StatusPending, res.Status())
		s.Equal(s.customer.ID, res.CustomerID())
		s.Equal(3, res.Guests())
		s.Equal(int64(15000), res.Amount().Cents())
		s.Equal(int64(15000), result.Price.Total.Cents())
		s.Equal(builder.BaseTime.Add(time.Hour), res.PaymentDeadline())
		s.False(result.IsReplayed)

		s.Equal(3, s.guestsBooked(e.ID))
		stored, ok := s.store.Reservation(res.ID())
		s.Require().True(ok)
		s.Equal(res.Amount(), stored.Amount())
		s.Equal([]shared.EventType{shared.EventReservationCreated}, s.store.EventTypes(res.ID()))
	})

	s.Run("flight takes seats", func() {
		f := builder.NewFlightBuilder().WithSeats(100, 10).Build()
		s.store.PutFlight(f)

		in := commands.CreateReservationInput{Kind: inventory.KindFlight, ItemID: f.ID, Quantity: 4}
		result, err := s.uc.CreateReservation(s.ctx, s.customer, in, nil)
		s.Require().NoError(err)
		s.Equal(int64(100000), result.Reservation.Amount().Cents())

		stored, _ := s.store.Flight(f.ID)
		s.Equal(6, stored.SeatsAvailable)
	})

	s.Run("rejects more guests than remain", func() {
		e := s.seedExcursion(10, 8)

		_, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 3), nil)
		s.Require().ErrorIs(err, errs.ErrInsufficientInventory)

		var insufficient *inventory.InsufficientInventoryError
		s.Require().ErrorAs(err, &insufficient)
		s.Equal(2, insufficient.Available)
		s.Equal(8, s.guestsBooked(e.ID))
		s.Equal(0, s.store.ActiveQuantity(e.ID))
	})

	s.Run("fills the last seat exactly", func() {
		e := s.seedExcursion(10, 8)

		_, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 2), nil)
		s.Require().NoError(err)
		s.Equal(10, s.guestsBooked(e.ID))
	})

	s.Run("item must be bookable", func() {
		e := builder.NewExcursionBuilder().With(func(e *inventory.Excursion) { e.Status = inventory.ExcursionOngoing }).Build()
		s.store.PutExcursion(e)

		_, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 1), nil)
		s.ErrorIs(err, errs.ErrNotBookable)

		f := builder.NewFlightBuilder().With(func(f *inventory.Flight) { f.Status = inventory.FlightCancelled }).Build()
		s.store.PutFlight(f)
		_, err = s.uc.CreateReservation(s.ctx, s.customer, commands.CreateReservationInput{Kind: inventory.KindFlight, ItemID: f.ID, Quantity: 1}, nil)
		s.ErrorIs(err, errs.ErrNotBookable)
	})

	s.Run("started items close before the status sync catches up", func() {
		tests := []struct {
			name    string
			startAt time.Time
			flight  bool
		}{
			{name: "upcoming excursion that started 10 minutes ago", startAt: builder.BaseTime.Add(-10 * time.Minute)},
			{name: "upcoming excursion starting right now", startAt: builder.BaseTime},
			{name: "scheduled flight that already departed", startAt: builder.BaseTime.Add(-time.Minute), flight: true},
		}
		for _, tt := range tests {
			s.Run(tt.name, func() {
				var in commands.CreateReservationInput
				if tt.flight {
					f := builder.NewFlightBuilder().DepartingAt(tt.startAt).WithSeats(10, 10).Build()
					s.store.PutFlight(f)
					in = commands.CreateReservationInput{Kind: inventory.KindFlight, ItemID: f.ID, Quantity: 2}
				} else {
					e := builder.NewExcursionBuilder().StartingAt(tt.startAt).WithCapacity(10, 0).Build()
					s.store.PutExcursion(e)
					in = excursionInput(e.ID, 2)
				}

				result, err := s.uc.CreateReservation(s.ctx, s.customer, in, nil)
				s.Require().ErrorIs(err, errs.ErrInvalidDateRange)
				s.Nil(result)
				s.Equal(0, s.store.ActiveQuantity(in.ItemID))
			})
		}
	})

	s.Run("unknown item", func() {
		_, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(uuid.New(), 1), nil)
		s.ErrorIs(err, errs.ErrNotFound)
	})

	s.Run("input validation", func() {
		e := s.seedExcursion(10, 0)
		start, end := builder.Stay(3, 2)

		tests := []struct {
			name  string
			in    commands.CreateReservationInput
			errIs error
		}{
			{name: "zero quantity", in: excursionInput(e.ID, 0), errIs: errs.ErrValidation},
			{name: "unknown kind", in: commands.CreateReservationInput{Kind: "TRAIN", ItemID: e.ID, Quantity: 1}, errIs: errs.ErrValidation},
			{
				name:  "excursion with dates",
				in:    commands.CreateReservationInput{Kind: inventory.KindExcursion, ItemID: e.ID, Quantity: 1, StartAt: &start, EndAt: &end},
				errIs: errs.ErrValidation,
			},
			{
				name:  "room without dates",
				in:    commands.CreateReservationInput{Kind: inventory.KindRoom, ItemID: uuid.New(), Quantity: 1},
				errIs: errs.ErrInvalidDateRange,
			},
			{name: "room with reversed dates", in: roomInput(uuid.New(), 1, 1, end, start), errIs: errs.ErrInvalidDateRange},
			{
				name:  "room in the past",
				in:    roomInput(uuid.New(), 1, 1, builder.BaseTime.Add(-48*time.Hour), builder.BaseTime.Add(-24*time.Hour)),
				errIs: errs.ErrInvalidDateRange,
			},
			{
				name: "special requests too long",
				in: commands.CreateReservationInput{
					Kind: inventory.KindExcursion, ItemID: e.ID, Quantity: 1,
					SpecialRequests: testutil.Ptr(strings.Repeat("a", 1001)),
				},
				errIs: errs.ErrValidation,
			},
		}
		for _, tt := range tests {
			s.Run(tt.name, func() {
				_, err := s.uc.CreateReservation(s.ctx, s.customer, tt.in, nil)
				s.ErrorIs(err, tt.errIs)
			})
		}
		s.Equal(0, s.guestsBooked(e.ID))
	})

	s.Run("booking on behalf of another customer", func() {
		e := s.seedExcursion(10, 0)
		other := uuid.New()
		in := excursionInput(e.ID, 1)
		in.CustomerID = &other

		_, err := s.uc.CreateReservation(s.ctx, s.customer, in, nil)
		s.ErrorIs(err, errs.ErrForbidden)

		result, err := s.uc.CreateReservation(s.ctx, s.operator, in, nil)
		s.Require().NoError(err)
		s.Equal(other, result.Reservation.CustomerID())
	})

	s.Run("storage failure surfaces unchanged", func() {
		e := s.seedExcursion(10, 0)
		s.store.FailNextWith(shared.ErrStorageUnavailable)

		_, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 1), nil)
		s.ErrorIs(err, shared.ErrStorageUnavailable)
		s.Equal(0, s.guestsBooked(e.ID))
	})
}

func (s *reservationCommandsSuite) TestCreateRoomReservation() {
	room := builder.NewRoomBuilder().WithRooms(2, 2).Build()
	s.store.PutRoom(room)
	start, end := builder.Stay(3, 3)

	first, err := s.uc.CreateReservation(s.ctx, s.customer, roomInput(room.ID, 2, 3, start, end), nil)
	s.Require().NoError(err)
	s.Equal(int64(2*3*12000), first.Reservation.Amount().Cents())
	s.Equal(3, first.Price.Nights)

	s.Run("overlapping stay sees no rooms left", func() {
		oStart, oEnd := builder.Stay(5, 2)
		_, err := s.uc.CreateReservation(s.ctx, s.customer, roomInput(room.ID, 1, 1, oStart, oEnd), nil)
		s.ErrorIs(err, errs.ErrInsufficientInventory)
	})

	s.Run("back-to-back stay is free", func() {
		nStart, nEnd := builder.Stay(6, 2)
		_, err := s.uc.CreateReservation(s.ctx, s.customer, roomInput(room.ID, 2, 4, nStart, nEnd), nil)
		s.NoError(err)
	})

	s.Run("guests must fit the rooms", func() {
		fStart, fEnd := builder.Stay(20, 1)
		_, err := s.uc.CreateReservation(s.ctx, s.customer, roomInput(room.ID, 1, 3, fStart, fEnd), nil)
		s.ErrorIs(err, errs.ErrCapacityBelowDemand)
	})

	s.Run("cancelled stays free their rooms", func() {
		_, err := s.uc.CancelReservation(s.ctx, s.customer, first.Reservation.ID())
		s.Require().NoError(err)

		oStart, oEnd := builder.Stay(4, 1)
		_, err = s.uc.CreateReservation(s.ctx, s.customer, roomInput(room.ID, 2, 2, oStart, oEnd), nil)
		s.NoError(err)
	})
}

func (s *reservationCommandsSuite) TestConcurrentBookingsNeverOversell() {
	e := s.seedExcursion(5, 0)

	const attempts = 20
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			actor := user.NewActor(uuid.New(), user.RoleCustomer)
			_, err := s.uc.CreateReservation(s.ctx, actor, excursionInput(e.ID, 1), nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errs.Is(err, errs.ErrInsufficientInventory):
				insufficient++
			}
		}()
	}
	wg.Wait()

	s.Equal(5, succeeded)
	s.Equal(attempts-5, insufficient)
	s.Equal(5, s.guestsBooked(e.ID))
	s.Equal(5, s.store.ActiveQuantity(e.ID))
}

// ===========================
// Idempotency
// ===========================

func (s *reservationCommandsSuite) TestIdempotentCreate() {
	s.Run("replays the first result", func() {
		e := s.seedExcursion(10, 0)
		key := uuid.New()

		first, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 2), &key)
		s.Require().NoError(err)
		second, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 2), &key)
		s.Require().NoError(err)

		s.True(second.IsReplayed)
		s.Equal(first.Reservation.ID(), second.Reservation.ID())
		s.Equal(first.Price, second.Price)
		s.Equal(2, s.guestsBooked(e.ID))
		s.Len(s.store.EventTypes(first.Reservation.ID()), 1)

		rec, ok := s.store.Idempotency(key, s.customer.ID)
		s.Require().True(ok)
		s.Equal(shared.IdempotencyStatusCompleted, rec.Status)
	})

	s.Run("same key with a different body", func() {
		e := s.seedExcursion(10, 0)
		key := uuid.New()

		_, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 2), &key)
		s.Require().NoError(err)
		_, err = s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 3), &key)
		s.ErrorIs(err, errs.ErrIdempotencyMismatch)
		s.Equal(2, s.guestsBooked(e.ID))
	})

	s.Run("keys are scoped per customer", func() {
		e := s.seedExcursion(10, 0)
		key := uuid.New()
		other := user.NewActor(uuid.New(), user.RoleCustomer)

		first, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 1), &key)
		s.Require().NoError(err)
		second, err := s.uc.CreateReservation(s.ctx, other, excursionInput(e.ID, 1), &key)
		s.Require().NoError(err)
		s.NotEqual(first.Reservation.ID(), second.Reservation.ID())
		s.False(second.IsReplayed)
	})

	s.Run("request still in flight", func() {
		e := s.seedExcursion(10, 0)
		key := uuid.New()
		_, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 1), &key)
		s.Require().NoError(err)

		rec, _ := s.store.Idempotency(key, s.customer.ID)
		rec.Status = shared.IdempotencyStatusProcessing
		rec.ReservationID = nil
		s.store.PutIdempotency(rec)

		_, err = s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 1), &key)
		s.ErrorIs(err, errs.ErrIdempotencyInProgress)
	})

	s.Run("expired key is reclaimed", func() {
		e := s.seedExcursion(10, 0)
		key := uuid.New()
		first, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 1), &key)
		s.Require().NoError(err)

		s.clock.Add(25 * time.Hour)
		defer s.clock.Set(builder.BaseTime)

		second, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 4), &key)
		s.Require().NoError(err)
		s.False(second.IsReplayed)
		s.NotEqual(first.Reservation.ID(), second.Reservation.ID())
		s.Equal(5, s.guestsBooked(e.ID))
	})

	s.Run("reservation behind the key was deleted", func() {
		e := s.seedExcursion(10, 0)
		key := uuid.New()
		first, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 1), &key)
		s.Require().NoError(err)
		s.Require().NoError(s.uc.CancelOrDeleteReservation(s.ctx, s.customer, first.Reservation.ID()))

		_, err = s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 1), &key)
		s.ErrorIs(err, errs.ErrNotFound)
	})

	s.Run("failed booking releases the key", func() {
		e := s.seedExcursion(1, 1)
		key := uuid.New()

		_, err := s.uc.CreateReservation(s.ctx, s.customer, excursionInput(e.ID, 1), &key)
		s.Require().ErrorIs(err, errs.ErrInsufficientInventory)
		_, ok := s.store.Idempotency(key, s.customer.ID)
		s.False(ok)
	})
}

// ===========================
// UpdateReservation
// ===========================

func (s *reservationCommandsSuite) TestUpdateReservation() {
	s.Run("growing the party takes more guests", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusPending, 2)

		result, err := s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{Quantity: testutil.Ptr(4)})
		s.Require().NoError(err)
		s.Equal(4, result.Reservation.Quantity())
		s.Equal(4, result.Reservation.Guests())
		s.Equal(int64(20000), result.Reservation.Amount().Cents())
		s.Equal(4, s.guestsBooked(e.ID))
		s.Equal([]shared.EventType{shared.EventReservationUpdated}, s.store.EventTypes(res.ID()))
	})

	s.Run("shrinking releases guests", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusPending, 5)

		_, err := s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{Quantity: testutil.Ptr(1)})
		s.Require().NoError(err)
		s.Equal(1, s.guestsBooked(e.ID))
	})

	s.Run("own guests count as available", func() {
		e := s.seedExcursion(4, 2)
		res := s.seedBooking(e, reservation.StatusPending, 2)

		_, err := s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{Quantity: testutil.Ptr(3)})
		s.Require().ErrorIs(err, errs.ErrInsufficientInventory)

		_, err = s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{Quantity: testutil.Ptr(2), SpecialRequests: testutil.Ptr("vegan")})
		s.Require().NoError(err)
		s.Equal(4, s.guestsBooked(e.ID))
	})

	s.Run("moving to another excursion", func() {
		from := s.seedExcursion(10, 0)
		to := s.seedExcursion(10, 0)
		res := s.seedBooking(from, reservation.StatusPending, 3)

		result, err := s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{ItemID: &to.ID})
		s.Require().NoError(err)
		s.Equal(to.ID, result.Reservation.ItemID())
		s.Equal(0, s.guestsBooked(from.ID))
		s.Equal(3, s.guestsBooked(to.ID))
	})

	s.Run("moving onto a started excursion", func() {
		from := s.seedExcursion(10, 0)
		started := builder.NewExcursionBuilder().StartingAt(builder.BaseTime.Add(-5 * time.Minute)).Build()
		s.store.PutExcursion(started)
		res := s.seedBooking(from, reservation.StatusPending, 2)

		_, err := s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{ItemID: &started.ID})
		s.Require().ErrorIs(err, errs.ErrInvalidDateRange)
		s.Equal(2, s.guestsBooked(from.ID))
		s.Equal(0, s.guestsBooked(started.ID))
	})

	s.Run("failed move leaves both items untouched", func() {
		from := s.seedExcursion(10, 0)
		to := s.seedExcursion(2, 0)
		res := s.seedBooking(from, reservation.StatusPending, 3)

		_, err := s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{ItemID: &to.ID})
		s.Require().ErrorIs(err, errs.ErrInsufficientInventory)
		s.Equal(3, s.guestsBooked(from.ID))
		s.Equal(0, s.guestsBooked(to.ID))
		stored, _ := s.store.Reservation(res.ID())
		s.Equal(from.ID, stored.ItemID())
	})

	s.Run("special requests only", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusConfirmed, 2)

		result, err := s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{SpecialRequests: testutil.Ptr("  birthday  ")})
		s.Require().NoError(err)
		s.Equal("birthday", result.Reservation.SpecialRequests().String())
		s.Equal(int64(10000), result.Price.Total.Cents())
		s.Equal(2, s.guestsBooked(e.ID))
	})

	s.Run("terminal reservations are immutable", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusCancelled, 2)

		_, err := s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{Quantity: testutil.Ptr(1)})
		s.ErrorIs(err, errs.ErrImmutableReservation)
		_, err = s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{SpecialRequests: testutil.Ptr("late")})
		s.ErrorIs(err, errs.ErrImmutableReservation)
	})

	s.Run("customer cancels through a status patch", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusPending, 2)

		status := reservation.StatusCancelled
		result, err := s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{Status: &status})
		s.Require().NoError(err)
		s.Equal(reservation.StatusCancelled, result.Reservation.Status())
		s.Equal(0, s.guestsBooked(e.ID))
		s.Equal([]shared.EventType{shared.EventReservationUpdated, shared.EventReservationCancelled}, s.store.EventTypes(res.ID()))
	})

	s.Run("customer cannot confirm", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusPending, 2)

		status := reservation.StatusConfirmed
		_, err := s.uc.UpdateReservation(s.ctx, s.customer, res.ID(), commands.ReservationPatch{Status: &status})
		s.ErrorIs(err, errs.ErrForbidden)
	})

	s.Run("staff confirm needs a completed payment", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusPending, 2)
		status := reservation.StatusConfirmed

		_, err := s.uc.UpdateReservation(s.ctx, s.operator, res.ID(), commands.ReservationPatch{Status: &status})
		s.Require().ErrorIs(err, errs.ErrPaymentRequired)

		s.seedPayment(res, payment.StatusCompleted)
		result, err := s.uc.UpdateReservation(s.ctx, s.operator, res.ID(), commands.ReservationPatch{Status: &status})
		s.Require().NoError(err)
		s.Equal(reservation.StatusConfirmed, result.Reservation.Status())
		s.Equal(2, s.guestsBooked(e.ID))
	})

	s.Run("other customers are forbidden", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusPending, 2)
		stranger := user.NewActor(uuid.New(), user.RoleCustomer)

		_, err := s.uc.UpdateReservation(s.ctx, stranger, res.ID(), commands.ReservationPatch{Quantity: testutil.Ptr(1)})
		s.ErrorIs(err, errs.ErrForbidden)
		s.Equal(2, s.guestsBooked(e.ID))
	})

	s.Run("missing reservation", func() {
		_, err := s.uc.UpdateReservation(s.ctx, s.customer, uuid.New(), commands.ReservationPatch{Quantity: testutil.Ptr(1)})
		s.ErrorIs(err, errs.ErrNotFound)
	})
}

func (s *reservationCommandsSuite) TestUpdateRoomStay() {
	room := builder.NewRoomBuilder().WithRooms(1, 2).Build()
	s.store.PutRoom(room)
	start, end := builder.Stay(3, 2)
	mine, err := s.uc.CreateReservation(s.ctx, s.customer, roomInput(room.ID, 1, 2, start, end), nil)
	s.Require().NoError(err)

	s.Run("extending over its own nights", func() {
		longer := end.AddDate(0, 0, 1)
		result, err := s.uc.UpdateReservation(s.ctx, s.customer, mine.Reservation.ID(), commands.ReservationPatch{EndAt: &longer})
		s.Require().NoError(err)
		s.Equal(3, result.Price.Nights)
		s.Equal(int64(3*12000), result.Reservation.Amount().Cents())
	})

	s.Run("moving onto a taken night", func() {
		otherStart, otherEnd := builder.Stay(10, 2)
		_, err := s.uc.CreateReservation(s.ctx, s.customer, roomInput(room.ID, 1, 1, otherStart, otherEnd), nil)
		s.Require().NoError(err)

		_, err = s.uc.UpdateReservation(s.ctx, s.customer, mine.Reservation.ID(), commands.ReservationPatch{EndAt: testutil.Ptr(otherStart.AddDate(0, 0, 1))})
		s.ErrorIs(err, errs.ErrInsufficientInventory)
	})

	s.Run("more guests than the room holds", func() {
		_, err := s.uc.UpdateReservation(s.ctx, s.customer, mine.Reservation.ID(), commands.ReservationPatch{Guests: testutil.Ptr(3)})
		s.ErrorIs(err, errs.ErrCapacityBelowDemand)
	})
}

// ===========================
// CancelReservation / CancelOrDeleteReservation
// ===========================

func (s *reservationCommandsSuite) TestCancelReservation() {
	s.Run("pending reservation releases inventory", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusPending, 3)

		cancelled, err := s.uc.CancelReservation(s.ctx, s.customer, res.ID())
		s.Require().NoError(err)
		s.Equal(reservation.StatusCancelled, cancelled.Status())
		s.Equal(0, s.guestsBooked(e.ID))
		s.Equal([]shared.EventType{shared.EventReservationCancelled}, s.store.EventTypes(res.ID()))
	})

	s.Run("second cancel is rejected", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusCancelled, 3)

		_, err := s.uc.CancelReservation(s.ctx, s.customer, res.ID())
		s.ErrorIs(err, errs.ErrInvalidTransition)
		s.Equal(0, s.guestsBooked(e.ID))
	})

	s.Run("paid reservation needs a refund first", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusConfirmed, 3)
		s.seedPayment(res, payment.StatusCompleted)

		_, err := s.uc.CancelReservation(s.ctx, s.customer, res.ID())
		s.Require().ErrorIs(err, errs.ErrRefundRequired)
		s.Equal(3, s.guestsBooked(e.ID))

		s.seedPayment(res, payment.StatusRefunded)
		_, err = s.uc.CancelReservation(s.ctx, s.customer, res.ID())
		s.Require().NoError(err)
		s.Equal(0, s.guestsBooked(e.ID))
	})

	s.Run("flight seats come back", func() {
		f := builder.NewFlightBuilder().WithSeats(10, 10).Build()
		s.store.PutFlight(f)
		result, err := s.uc.CreateReservation(s.ctx, s.customer, commands.CreateReservationInput{Kind: inventory.KindFlight, ItemID: f.ID, Quantity: 4}, nil)
		s.Require().NoError(err)

		_, err = s.uc.CancelReservation(s.ctx, s.customer, result.Reservation.ID())
		s.Require().NoError(err)
		stored, _ := s.store.Flight(f.ID)
		s.Equal(10, stored.SeatsAvailable)
	})
}

func (s *reservationCommandsSuite) TestCancelOrDeleteReservation() {
	s.Run("pending reservation is removed and released", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusPending, 2)

		s.Require().NoError(s.uc.CancelOrDeleteReservation(s.ctx, s.customer, res.ID()))
		_, ok := s.store.Reservation(res.ID())
		s.False(ok)
		s.Equal(0, s.guestsBooked(e.ID))
		s.Equal([]shared.EventType{shared.EventReservationDeleted}, s.store.EventTypes(res.ID()))
	})

	s.Run("cancelled reservation releases nothing twice", func() {
		e := s.seedExcursion(10, 4)
		res := s.seedBooking(e, reservation.StatusCancelled, 2)

		s.Require().NoError(s.uc.CancelOrDeleteReservation(s.ctx, s.customer, res.ID()))
		s.Equal(4, s.guestsBooked(e.ID))
	})

	s.Run("held money blocks deletion", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusConfirmed, 2)
		s.seedPayment(res, payment.StatusCompleted)

		s.ErrorIs(s.uc.CancelOrDeleteReservation(s.ctx, s.customer, res.ID()), errs.ErrRefundRequired)
		_, ok := s.store.Reservation(res.ID())
		s.True(ok)
	})

	s.Run("completed reservations stay", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusCompleted, 2)

		s.ErrorIs(s.uc.CancelOrDeleteReservation(s.ctx, s.customer, res.ID()), errs.ErrImmutableReservation)
	})

	s.Run("completed and paid asks for a refund", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusCompleted, 2)
		s.seedPayment(res, payment.StatusCompleted)

		s.ErrorIs(s.uc.CancelOrDeleteReservation(s.ctx, s.customer, res.ID()), errs.ErrRefundRequired)
		_, ok := s.store.Reservation(res.ID())
		s.True(ok)
	})

	s.Run("staff may delete any reservation", func() {
		e := s.seedExcursion(10, 0)
		res := s.seedBooking(e, reservation.StatusPending, 2)

		s.NoError(s.uc.CancelOrDeleteReservation(s.ctx, s.operator, res.ID()))
	})
}
