package commands

//go:generate mockgen -source=inventory.go -destination=../../../tests/mock/commands/inventory.go -package=commandsmock

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/pkg/obs"
	"reservation-engine/internal/usecase/lifecycle"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type CreateExcursionInput struct {
	Title              string
	PricePerGuestCents int64
	MaxGuests          int
	StartAt            time.Time
	EndAt              time.Time
}

type CreateFlightInput struct {
	FlightNumber      string
	PricePerSeatCents int64
	Capacity          int
	DepartureAt       time.Time
	ArrivalAt         time.Time
}

type CreateRoomInput struct {
	HotelName          string
	RoomType           string
	PricePerNightCents int64
	Capacity           int
	TotalRooms         int
}

// AdjustCapacityInput: MaxGuests for excursions, Capacity for flights,
// TotalRooms and/or per-room Capacity for rooms.
type AdjustCapacityInput struct {
	MaxGuests  *int
	Capacity   *int
	TotalRooms *int
}

type ChangeItemStatusInput struct {
	Status string
	// DepartureAt/ArrivalAt reschedule a flight, typically alongside DELAYED.
	DepartureAt *time.Time
	ArrivalAt   *time.Time
}

type ChangeItemStatusResult struct {
	Status                string
	CancelledReservations int
}

type InventoryCommands interface {
	CreateExcursion(ctx context.Context, actor user.Actor, in CreateExcursionInput) (*inventory.Excursion, error)
	CreateFlight(ctx context.Context, actor user.Actor, in CreateFlightInput) (*inventory.Flight, error)
	CreateRoom(ctx context.Context, actor user.Actor, in CreateRoomInput) (*inventory.Room, error)
	AdjustCapacity(ctx context.Context, actor user.Actor, kind inventory.Kind, id uuid.UUID, in AdjustCapacityInput) error
	ChangeItemStatus(ctx context.Context, actor user.Actor, kind inventory.Kind, id uuid.UUID, in ChangeItemStatusInput) (*ChangeItemStatusResult, error)
}

type inventoryUseCaseImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
}

func NewInventoryUseCase(uow shared.UnitOfWork, clock clock.Clock, logger *slog.Logger) InventoryCommands {
	return &inventoryUseCaseImpl{uow: uow, clock: clock, logger: logger}
}

func requireStaff(actor user.Actor) error {
	if !actor.Role.IsStaff() {
		return errs.Wrap(errs.ErrForbidden, "inventory management requires operator or admin role")
	}
	return nil
}

func (uc *inventoryUseCaseImpl) CreateExcursion(ctx context.Context, actor user.Actor, in CreateExcursionInput) (*inventory.Excursion, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	e, err := inventory.NewExcursion(in.Title, in.PricePerGuestCents, in.MaxGuests, in.StartAt, in.EndAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt, e.UpdatedAt = uc.clock.Now(), uc.clock.Now()
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Inventory().CreateExcursion(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	uc.logger.InfoContext(ctx, "excursion created", "excursionId", e.ID, "maxGuests", e.MaxGuests)
	return e, nil
}

func (uc *inventoryUseCaseImpl) CreateFlight(ctx context.Context, actor user.Actor, in CreateFlightInput) (*inventory.Flight, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	f, err := inventory.NewFlight(in.FlightNumber, in.PricePerSeatCents, in.Capacity, in.DepartureAt, in.ArrivalAt)
	if err != nil {
		return nil, err
	}
	f.CreatedAt, f.UpdatedAt = uc.clock.Now(), uc.clock.Now()
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Inventory().CreateFlight(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	uc.logger.InfoContext(ctx, "flight created", "flightId", f.ID, "flightNumber", f.FlightNumber, "capacity", f.Capacity)
	return f, nil
}

func (uc *inventoryUseCaseImpl) CreateRoom(ctx context.Context, actor user.Actor, in CreateRoomInput) (*inventory.Room, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	r, err := inventory.NewRoom(in.HotelName, in.RoomType, in.PricePerNightCents, in.Capacity, in.TotalRooms)
	if err != nil {
		return nil, err
	}
	r.CreatedAt, r.UpdatedAt = uc.clock.Now(), uc.clock.Now()
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Inventory().CreateRoom(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	uc.logger.InfoContext(ctx, "room created", "roomId", r.ID, "totalRooms", r.TotalRooms)
	return r, nil
}

func (uc *inventoryUseCaseImpl) AdjustCapacity(ctx context.Context, actor user.Actor, kind inventory.Kind, id uuid.UUID, in AdjustCapacityInput) (err error) {
	ctx, span := obs.Start(ctx, "inventory.adjust_capacity",
		attribute.String("inventory.kind", kind.String()),
		attribute.String("inventory.item_id", id.String()),
	)
	defer func() { obs.End(span, err) }()

	if err = requireStaff(actor); err != nil {
		return err
	}
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		switch kind {
		case inventory.KindExcursion:
			return uc.resizeExcursion(ctx, tx, id, in)
		case inventory.KindFlight:
			return uc.resizeFlight(ctx, tx, id, in)
		case inventory.KindRoom:
			return uc.resizeRoom(ctx, tx, id, in)
		default:
			return errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", kind)
		}
	})
	if err != nil {
		return err
	}
	uc.logger.InfoContext(ctx, "inventory capacity adjusted", "kind", kind, "itemId", id)
	return nil
}

func (uc *inventoryUseCaseImpl) resizeExcursion(ctx context.Context, tx shared.Tx, id uuid.UUID, in AdjustCapacityInput) error {
	if in.MaxGuests == nil {
		return errs.Wrap(errs.ErrValidation, "maxGuests is required for excursions")
	}
	e, err := tx.Reads().ExcursionByID(ctx, id)
	if err != nil {
		return err
	}
	if err = e.Resize(*in.MaxGuests); err != nil {
		return err
	}
	ok, err := tx.Inventory().ResizeExcursion(ctx, id, *in.MaxGuests)
	if err != nil {
		return err
	}
	if !ok {
		// bookings landed between the read and the bounded update
		return errs.Wrapf(errs.ErrCapacityBelowDemand, "max guests %d is below current bookings", *in.MaxGuests)
	}
	return nil
}

func (uc *inventoryUseCaseImpl) resizeFlight(ctx context.Context, tx shared.Tx, id uuid.UUID, in AdjustCapacityInput) error {
	if in.Capacity == nil {
		return errs.Wrap(errs.ErrValidation, "capacity is required for flights")
	}
	f, err := tx.Reads().FlightByID(ctx, id)
	if err != nil {
		return err
	}
	if err = f.Resize(*in.Capacity); err != nil {
		return err
	}
	ok, err := tx.Inventory().ResizeFlight(ctx, id, *in.Capacity)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Wrapf(errs.ErrCapacityBelowDemand, "capacity %d is below seats already taken", *in.Capacity)
	}
	return nil
}

func (uc *inventoryUseCaseImpl) resizeRoom(ctx context.Context, tx shared.Tx, id uuid.UUID, in AdjustCapacityInput) error {
	if in.TotalRooms == nil && in.Capacity == nil {
		return errs.Wrap(errs.ErrValidation, "totalRooms or capacity is required for rooms")
	}
	room, err := tx.Reads().LockRoom(ctx, id)
	if err != nil {
		return err
	}
	totalRooms, capacity := room.TotalRooms, room.Capacity
	if in.TotalRooms != nil {
		totalRooms = *in.TotalRooms
	}
	if in.Capacity != nil {
		capacity = *in.Capacity
	}
	active, err := tx.Reads().ActiveRoomAllocations(ctx, id, uc.clock.Now())
	if err != nil {
		return err
	}
	if err = room.Resize(totalRooms, capacity, active); err != nil {
		return err
	}
	room.UpdatedAt = uc.clock.Now()
	return tx.Inventory().UpdateRoom(ctx, room)
}

func (uc *inventoryUseCaseImpl) ChangeItemStatus(ctx context.Context, actor user.Actor, kind inventory.Kind, id uuid.UUID, in ChangeItemStatusInput) (result *ChangeItemStatusResult, err error) {
	ctx, span := obs.Start(ctx, "inventory.change_status",
		attribute.String("inventory.kind", kind.String()),
		attribute.String("inventory.item_id", id.String()),
		attribute.String("inventory.status", in.Status),
	)
	defer func() { obs.End(span, err) }()

	if err = requireStaff(actor); err != nil {
		return nil, err
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var (
			cancelled bool
			terr      error
		)
		switch kind {
		case inventory.KindExcursion:
			cancelled, terr = uc.changeExcursionStatus(ctx, tx, id, inventory.ExcursionStatus(status))
		case inventory.KindFlight:
			cancelled, terr = uc.changeFlightStatus(ctx, tx, id, inventory.FlightStatus(status), in)
		case inventory.KindRoom:
			terr = errs.Wrap(errs.ErrValidation, "rooms have no lifecycle status")
		default:
			terr = errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", kind)
		}
		if terr != nil {
			return terr
		}

		result = &ChangeItemStatusResult{Status: status}
		if !cancelled {
			return nil
		}
		n, terr := lifecycle.CancelItemReservations(ctx, tx, kind, id, uc.clock.Now())
		result.CancelledReservations = n
		return terr
	})
	if err != nil {
		return nil, err
	}
	uc.logger.InfoContext(ctx, "inventory status changed",
		"kind", kind, "itemId", id, "status", status, "cancelledReservations", result.CancelledReservations)
	return result, nil
}

func (uc *inventoryUseCaseImpl) changeExcursionStatus(ctx context.Context, tx shared.Tx, id uuid.UUID, to inventory.ExcursionStatus) (bool, error) {
	e, err := tx.Reads().ExcursionByID(ctx, id)
	if err != nil {
		return false, err
	}
	if err = inventory.ValidateExcursionTransition(e.Status, to); err != nil {
		return false, err
	}
	ok, err := tx.Inventory().SetExcursionStatus(ctx, id, e.Status, to)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errs.Wrapf(errs.ErrContention, "excursion %s changed status concurrently", id)
	}
	return to == inventory.ExcursionCancelled, nil
}

func (uc *inventoryUseCaseImpl) changeFlightStatus(ctx context.Context, tx shared.Tx, id uuid.UUID, to inventory.FlightStatus, in ChangeItemStatusInput) (bool, error) {
	f, err := tx.Reads().FlightByID(ctx, id)
	if err != nil {
		return false, err
	}

	reschedule := in.DepartureAt != nil || in.ArrivalAt != nil
	if reschedule {
		if f.Status != inventory.FlightScheduled && f.Status != inventory.FlightDelayed {
			return false, errs.Wrapf(errs.ErrInvalidTransition, "flight %s cannot be rescheduled", f.Status)
		}
		dep, arr := f.DepartureAt, f.ArrivalAt
		if in.DepartureAt != nil {
			dep = *in.DepartureAt
		}
		if in.ArrivalAt != nil {
			arr = *in.ArrivalAt
		}
		if _, err = inventory.NewDateRange(dep, arr); err != nil {
			return false, err
		}
		if err = tx.Inventory().RescheduleFlight(ctx, id, dep, arr); err != nil {
			return false, err
		}
	}
	// a reschedule of an already delayed flight keeps its status
	if reschedule && (to == "" || to == f.Status) {
		return false, nil
	}

	if err = inventory.ValidateFlightTransition(f.Status, to); err != nil {
		return false, err
	}
	ok, err := tx.Inventory().SetFlightStatus(ctx, id, f.Status, to)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errs.Wrapf(errs.ErrContention, "flight %s changed status concurrently", id)
	}
	return to == inventory.FlightCancelled, nil
}
