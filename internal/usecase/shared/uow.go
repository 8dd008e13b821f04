package shared

import (
	"context"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/domain/reservation"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads CommandReads) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	Inventory() InventoryRepository
	Payments() PaymentRepository
	Idempotency() IdempotencyRepository
	Outbox() OutboxRepository
	Reads() CommandReads
}

// CommandReads are reads bound to the active transaction. Lookups that miss
// return an error matching errs.ErrNotFound; optional records return nil, nil.
type CommandReads interface {
	ExcursionByID(ctx context.Context, id uuid.UUID) (*inventory.Excursion, error)
	FlightByID(ctx context.Context, id uuid.UUID) (*inventory.Flight, error)
	RoomByID(ctx context.Context, id uuid.UUID) (*inventory.Room, error)
	// LockRoom takes a row lock that serializes bookings of one room type.
	LockRoom(ctx context.Context, id uuid.UUID) (*inventory.Room, error)
	RoomsBooked(ctx context.Context, roomID uuid.UUID, window inventory.DateRange, exclude uuid.UUID) (int, error)
	ActiveRoomAllocations(ctx context.Context, roomID uuid.UUID, from time.Time) ([]inventory.RoomAllocation, error)

	ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	LockReservation(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	PaymentByReservation(ctx context.Context, reservationID uuid.UUID) (*payment.Payment, error)
	PaymentByReference(ctx context.Context, reference string) (*payment.Payment, error)
	IdempotencyByKey(ctx context.Context, key, customerID uuid.UUID) (*IdempotencyRecord, error)

	OverdueReservationIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	ExcursionsDueForAdvance(ctx context.Context, now time.Time, limit int) ([]*inventory.Excursion, error)
	FlightsDueForAdvance(ctx context.Context, now time.Time, limit int) ([]*inventory.Flight, error)
	CancelledItemsWithActiveReservations(ctx context.Context, kind inventory.Kind, limit int) ([]uuid.UUID, error)
	ActiveReservationIDsForItem(ctx context.Context, kind inventory.Kind, itemID uuid.UUID) ([]uuid.UUID, error)
	// EndedReservationIDs lists active reservations whose item has finished.
	EndedReservationIDs(ctx context.Context, kind inventory.Kind, now time.Time, limit int) ([]uuid.UUID, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	Update(ctx context.Context, res *reservation.Reservation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InventoryRepository writes are capacity-bounded conditional updates. Reserve*
// and Resize* return false when the bound (or bookable status) did not hold.
type InventoryRepository interface {
	CreateExcursion(ctx context.Context, e *inventory.Excursion) error
	CreateFlight(ctx context.Context, f *inventory.Flight) error
	CreateRoom(ctx context.Context, r *inventory.Room) error

	ReserveExcursionGuests(ctx context.Context, id uuid.UUID, guests int) (bool, error)
	ReleaseExcursionGuests(ctx context.Context, id uuid.UUID, guests int) error
	ReserveFlightSeats(ctx context.Context, id uuid.UUID, seats int) (bool, error)
	ReleaseFlightSeats(ctx context.Context, id uuid.UUID, seats int) error

	ResizeExcursion(ctx context.Context, id uuid.UUID, maxGuests int) (bool, error)
	ResizeFlight(ctx context.Context, id uuid.UUID, capacity int) (bool, error)
	UpdateRoom(ctx context.Context, r *inventory.Room) error

	SetExcursionStatus(ctx context.Context, id uuid.UUID, from, to inventory.ExcursionStatus) (bool, error)
	SetFlightStatus(ctx context.Context, id uuid.UUID, from, to inventory.FlightStatus) (bool, error)
	RescheduleFlight(ctx context.Context, id uuid.UUID, departureAt, arrivalAt time.Time) error
}

type PaymentRepository interface {
	// Save inserts or replaces the single payment record of a reservation.
	Save(ctx context.Context, p *payment.Payment) error
	UpdateStatus(ctx context.Context, p *payment.Payment) error
}

type IdempotencyRepository interface {
	// Reserve inserts the key unless it already exists; true when inserted.
	Reserve(ctx context.Context, key, customerID uuid.UUID, requestHash string, expiresAt time.Time) (bool, error)
	Reclaim(ctx context.Context, key, customerID uuid.UUID, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key, customerID, reservationID uuid.UUID) error
}

type OutboxRepository interface {
	Append(ctx context.Context, evt Event) error
	// ClaimBatch locks unpublished events, skipping rows other relays hold.
	ClaimBatch(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []int64, at time.Time) error
}
