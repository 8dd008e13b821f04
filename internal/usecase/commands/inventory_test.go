//go:build unit

package commands_test

import (
	"context"
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

type inventoryCommandsSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memstore.Store
	clock    *clock.MockClock
	uc       commands.InventoryCommands
	operator user.Actor
}

func TestInventoryCommandsSuite(t *testing.T) {
	suite.Run(t, new(inventoryCommandsSuite))
}

func (s *inventoryCommandsSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.clock = clock.NewMockClock(builder.BaseTime)
	s.uc = commands.NewInventoryUseCase(s.store, s.clock, testutil.DiscardLogger())
	s.operator = user.NewActor(uuid.New(), user.RoleOperator)
}

func (s *inventoryCommandsSuite) book(kind inventory.Kind, itemID uuid.UUID, status reservation.Status, qty int) *reservation.Reservation {
	res := builder.NewReservationBuilder().WithItem(kind, itemID).WithQuantity(qty).WithStatus(status).BuildDomain()
	s.store.PutReservation(res)
	return res
}

func (s *inventoryCommandsSuite) bookStay(roomID uuid.UUID, rooms, guests, days, nights int) *reservation.Reservation {
	start, end := builder.Stay(days, nights)
	res := builder.NewReservationBuilder().
		WithStay(start, end).
		With(func(b *builder.ReservationBuilder) { b.ItemID, b.Quantity, b.Guests = roomID, rooms, guests }).
		BuildDomain()
	s.store.PutReservation(res)
	return res
}

// ===========================
// Create*
// ===========================

func (s *inventoryCommandsSuite) TestCreateItems() {
	s.Run("staff create every kind", func() {
		e, err := s.uc.CreateExcursion(s.ctx, s.operator, commands.CreateExcursionInput{
			Title: "Glacier Hike", PricePerGuestCents: 5000, MaxGuests: 12,
			StartAt: builder.BaseTime.Add(48 * time.Hour), EndAt: builder.BaseTime.Add(52 * time.Hour),
		})
		s.Require().NoError(err)
		stored, ok := s.store.Excursion(e.ID)
		s.Require().True(ok)
		s.Equal(12, stored.MaxGuests)
		s.Equal(builder.BaseTime, stored.CreatedAt)

		f, err := s.uc.CreateFlight(s.ctx, s.operator, commands.CreateFlightInput{
			FlightNumber: "nz101", PricePerSeatCents: 25000, Capacity: 180,
			DepartureAt: builder.BaseTime.Add(48 * time.Hour), ArrivalAt: builder.BaseTime.Add(51 * time.Hour),
		})
		s.Require().NoError(err)
		storedFlight, _ := s.store.Flight(f.ID)
		s.Equal(180, storedFlight.SeatsAvailable)
		s.Equal("NZ101", storedFlight.FlightNumber)

		r, err := s.uc.CreateRoom(s.ctx, s.operator, commands.CreateRoomInput{
			HotelName: "Harbour View", RoomType: "Double", PricePerNightCents: 12000, Capacity: 2, TotalRooms: 8,
		})
		s.Require().NoError(err)
		_, ok = s.store.Room(r.ID)
		s.True(ok)
	})

	s.Run("customers cannot manage inventory", func() {
		customer := user.NewActor(uuid.New(), user.RoleCustomer)
		_, err := s.uc.CreateRoom(s.ctx, customer, commands.CreateRoomInput{HotelName: "Harbour View", Capacity: 2, TotalRooms: 1})
		s.ErrorIs(err, errs.ErrForbidden)
		s.ErrorIs(s.uc.AdjustCapacity(s.ctx, customer, inventory.KindRoom, uuid.New(), commands.AdjustCapacityInput{TotalRooms: testutil.Ptr(1)}), errs.ErrForbidden)
		_, err = s.uc.ChangeItemStatus(s.ctx, customer, inventory.KindFlight, uuid.New(), commands.ChangeItemStatusInput{Status: "CANCELLED"})
		s.ErrorIs(err, errs.ErrForbidden)
	})

	s.Run("invalid definitions", func() {
		_, err := s.uc.CreateExcursion(s.ctx, s.operator, commands.CreateExcursionInput{
			Title: "Glacier Hike", MaxGuests: 12,
			StartAt: builder.BaseTime.Add(52 * time.Hour), EndAt: builder.BaseTime.Add(48 * time.Hour),
		})
		s.ErrorIs(err, errs.ErrInvalidDateRange)

		_, err = s.uc.CreateFlight(s.ctx, s.operator, commands.CreateFlightInput{FlightNumber: "NZ1", Capacity: 0,
			DepartureAt: builder.BaseTime, ArrivalAt: builder.BaseTime.Add(time.Hour)})
		s.ErrorIs(err, errs.ErrValidation)
	})
}

// ===========================
// AdjustCapacity
// ===========================

func (s *inventoryCommandsSuite) TestAdjustCapacity() {
	s.Run("excursion cannot drop below booked guests", func() {
		e := builder.NewExcursionBuilder().WithCapacity(10, 6).Build()
		s.store.PutExcursion(e)

		err := s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindExcursion, e.ID, commands.AdjustCapacityInput{MaxGuests: testutil.Ptr(5)})
		s.Require().ErrorIs(err, errs.ErrCapacityBelowDemand)

		s.Require().NoError(s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindExcursion, e.ID, commands.AdjustCapacityInput{MaxGuests: testutil.Ptr(6)}))
		stored, _ := s.store.Excursion(e.ID)
		s.Equal(6, stored.MaxGuests)
		s.Equal(6, stored.GuestsBooked)
	})

	s.Run("flight keeps seats already taken", func() {
		f := builder.NewFlightBuilder().WithSeats(100, 40).Build()
		s.store.PutFlight(f)

		s.Require().ErrorIs(s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindFlight, f.ID, commands.AdjustCapacityInput{Capacity: testutil.Ptr(59)}), errs.ErrCapacityBelowDemand)
		s.Require().NoError(s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindFlight, f.ID, commands.AdjustCapacityInput{Capacity: testutil.Ptr(120)}))

		stored, _ := s.store.Flight(f.ID)
		s.Equal(120, stored.Capacity)
		s.Equal(60, stored.SeatsAvailable)
	})

	s.Run("rooms check the busiest night", func() {
		room := builder.NewRoomBuilder().WithRooms(5, 2).Build()
		s.store.PutRoom(room)
		s.bookStay(room.ID, 2, 4, 3, 3)
		s.bookStay(room.ID, 1, 2, 4, 3)
		s.bookStay(room.ID, 2, 2, 6, 2)

		err := s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindRoom, room.ID, commands.AdjustCapacityInput{TotalRooms: testutil.Ptr(2)})
		s.Require().ErrorIs(err, errs.ErrCapacityBelowDemand)

		s.Require().NoError(s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindRoom, room.ID, commands.AdjustCapacityInput{TotalRooms: testutil.Ptr(3)}))
		stored, _ := s.store.Room(room.ID)
		s.Equal(3, stored.TotalRooms)
	})

	s.Run("room occupancy cannot shrink under a party", func() {
		room := builder.NewRoomBuilder().WithRooms(5, 3).Build()
		s.store.PutRoom(room)
		s.bookStay(room.ID, 1, 3, 3, 2)

		err := s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindRoom, room.ID, commands.AdjustCapacityInput{Capacity: testutil.Ptr(2)})
		s.ErrorIs(err, errs.ErrCapacityBelowDemand)
	})

	s.Run("finished stays do not count", func() {
		room := builder.NewRoomBuilder().WithRooms(5, 2).Build()
		s.store.PutRoom(room)
		past := builder.NewReservationBuilder().
			WithStay(builder.BaseTime.Add(-72*time.Hour), builder.BaseTime.Add(-24*time.Hour)).
			With(func(b *builder.ReservationBuilder) { b.ItemID, b.Quantity, b.Guests = room.ID, 5, 5 }).
			WithStatus(reservation.StatusConfirmed).
			BuildDomain()
		s.store.PutReservation(past)

		s.NoError(s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindRoom, room.ID, commands.AdjustCapacityInput{TotalRooms: testutil.Ptr(0)}))
	})

	s.Run("missing field for the kind", func() {
		e := builder.NewExcursionBuilder().Build()
		s.store.PutExcursion(e)
		s.ErrorIs(s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindExcursion, e.ID, commands.AdjustCapacityInput{Capacity: testutil.Ptr(3)}), errs.ErrValidation)
		s.ErrorIs(s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindRoom, uuid.New(), commands.AdjustCapacityInput{}), errs.ErrValidation)
	})

	s.Run("unknown item", func() {
		s.ErrorIs(s.uc.AdjustCapacity(s.ctx, s.operator, inventory.KindFlight, uuid.New(), commands.AdjustCapacityInput{Capacity: testutil.Ptr(3)}), errs.ErrNotFound)
	})
}

// ===========================
// ChangeItemStatus
// ===========================

func (s *inventoryCommandsSuite) TestChangeItemStatus() {
	s.Run("cancelling an excursion cascades", func() {
		e := builder.NewExcursionBuilder().WithCapacity(10, 5).Build()
		s.store.PutExcursion(e)
		pending := s.book(inventory.KindExcursion, e.ID, reservation.StatusPending, 2)
		paid := s.book(inventory.KindExcursion, e.ID, reservation.StatusConfirmed, 3)
		s.store.PutPayment(payment.ReconstructPayment(uuid.New(), paid.ID(), "ref-paid", "card", paid.Amount().Cents(),
			payment.StatusCompleted, builder.BaseTime, builder.BaseTime))
		done := s.book(inventory.KindExcursion, e.ID, reservation.StatusCancelled, 1)

		result, err := s.uc.ChangeItemStatus(s.ctx, s.operator, inventory.KindExcursion, e.ID, commands.ChangeItemStatusInput{Status: "cancelled"})
		s.Require().NoError(err)
		s.Equal("CANCELLED", result.Status)
		s.Equal(2, result.CancelledReservations)

		stored, _ := s.store.Excursion(e.ID)
		s.Equal(inventory.ExcursionCancelled, stored.Status)
		s.Equal(0, stored.GuestsBooked)

		for _, id := range []uuid.UUID{pending.ID(), paid.ID()} {
			res, _ := s.store.Reservation(id)
			s.Equal(reservation.StatusCancelled, res.Status())
		}
		s.Equal([]shared.EventType{shared.EventReservationCancelled}, s.store.EventTypes(pending.ID()))
		s.Equal([]shared.EventType{shared.EventReservationCancelled, shared.EventReservationRefundRequired}, s.store.EventTypes(paid.ID()))
		s.Empty(s.store.EventTypes(done.ID()))
	})

	s.Run("cancelling a flight fails its pending payment", func() {
		f := builder.NewFlightBuilder().WithSeats(10, 8).Build()
		s.store.PutFlight(f)
		res := s.book(inventory.KindFlight, f.ID, reservation.StatusPending, 2)
		s.store.PutPayment(payment.ReconstructPayment(uuid.New(), res.ID(), "ref-open", "card", res.Amount().Cents(),
			payment.StatusPending, builder.BaseTime, builder.BaseTime))

		result, err := s.uc.ChangeItemStatus(s.ctx, s.operator, inventory.KindFlight, f.ID, commands.ChangeItemStatusInput{Status: "CANCELLED"})
		s.Require().NoError(err)
		s.Equal(1, result.CancelledReservations)

		pay, _ := s.store.Payment(res.ID())
		s.Equal(payment.StatusFailed, pay.Status())
		stored, _ := s.store.Flight(f.ID)
		s.Equal(10, stored.SeatsAvailable)
	})

	s.Run("delay with a new schedule", func() {
		f := builder.NewFlightBuilder().Build()
		s.store.PutFlight(f)
		dep, arr := f.DepartureAt.Add(3*time.Hour), f.ArrivalAt.Add(3*time.Hour)

		result, err := s.uc.ChangeItemStatus(s.ctx, s.operator, inventory.KindFlight, f.ID, commands.ChangeItemStatusInput{Status: "DELAYED", DepartureAt: &dep, ArrivalAt: &arr})
		s.Require().NoError(err)
		s.Equal(0, result.CancelledReservations)

		stored, _ := s.store.Flight(f.ID)
		s.Equal(inventory.FlightDelayed, stored.Status)
		s.Equal(dep, stored.DepartureAt)
		s.Equal(arr, stored.ArrivalAt)

		later := dep.Add(time.Hour)
		_, err = s.uc.ChangeItemStatus(s.ctx, s.operator, inventory.KindFlight, f.ID, commands.ChangeItemStatusInput{Status: "DELAYED", DepartureAt: &later, ArrivalAt: testutil.Ptr(arr.Add(time.Hour))})
		s.Require().NoError(err)
		stored, _ = s.store.Flight(f.ID)
		s.Equal(later, stored.DepartureAt)
	})

	s.Run("invalid changes", func() {
		f := builder.NewFlightBuilder().With(func(f *inventory.Flight) { f.Status = inventory.FlightLanded }).Build()
		s.store.PutFlight(f)
		e := builder.NewExcursionBuilder().Build()
		s.store.PutExcursion(e)
		dep := f.DepartureAt.Add(time.Hour)

		tests := []struct {
			name  string
			kind  inventory.Kind
			id    uuid.UUID
			in    commands.ChangeItemStatusInput
			errIs error
		}{
			{name: "landed flight cannot cancel", kind: inventory.KindFlight, id: f.ID, in: commands.ChangeItemStatusInput{Status: "CANCELLED"}, errIs: errs.ErrInvalidTransition},
			{name: "landed flight cannot reschedule", kind: inventory.KindFlight, id: f.ID, in: commands.ChangeItemStatusInput{DepartureAt: &dep}, errIs: errs.ErrInvalidTransition},
			{name: "excursion cannot skip ahead", kind: inventory.KindExcursion, id: e.ID, in: commands.ChangeItemStatusInput{Status: "COMPLETED"}, errIs: errs.ErrInvalidTransition},
			{name: "unknown status", kind: inventory.KindExcursion, id: e.ID, in: commands.ChangeItemStatusInput{Status: "POSTPONED"}, errIs: errs.ErrValidation},
			{name: "rooms have no status", kind: inventory.KindRoom, id: uuid.New(), in: commands.ChangeItemStatusInput{Status: "CANCELLED"}, errIs: errs.ErrValidation},
			{name: "unknown item", kind: inventory.KindExcursion, id: uuid.New(), in: commands.ChangeItemStatusInput{Status: "CANCELLED"}, errIs: errs.ErrNotFound},
		}
		for _, tt := range tests {
			s.Run(tt.name, func() {
				_, err := s.uc.ChangeItemStatus(s.ctx, s.operator, tt.kind, tt.id, tt.in)
				s.ErrorIs(err, tt.errIs)
			})
		}
	})
}
