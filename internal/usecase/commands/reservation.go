package commands

//go:generate mockgen -source=reservation.go -destination=../../../tests/mock/commands/reservation.go -package=commandsmock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/pkg/obs"
	pt "reservation-engine/internal/pkg/patch"
	"reservation-engine/internal/usecase/ledger"
	"reservation-engine/internal/usecase/lifecycle"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type CreateReservationInput struct {
	// CustomerID lets staff book on behalf of a customer; ignored for customers.
	CustomerID      *uuid.UUID
	Kind            inventory.Kind
	ItemID          uuid.UUID
	Quantity        int
	Guests          *int
	StartAt         *time.Time
	EndAt           *time.Time
	SpecialRequests *string
}

// ReservationPatch carries only the fields being changed.
type ReservationPatch struct {
	ItemID          *uuid.UUID
	Quantity        *int
	Guests          *int
	StartAt         *time.Time
	EndAt           *time.Time
	SpecialRequests *string
	Status          *reservation.Status
}

func (p ReservationPatch) changesAllocation() bool {
	return p.ItemID != nil || p.Quantity != nil || p.Guests != nil || p.StartAt != nil || p.EndAt != nil
}

type ReservationResult struct {
	Reservation *reservation.Reservation
	Price       reservation.PriceBreakdown
	IsReplayed  bool
}

type ReservationCommands interface {
	CreateReservation(ctx context.Context, actor user.Actor, in CreateReservationInput, idempotencyKey *uuid.UUID) (*ReservationResult, error)
	UpdateReservation(ctx context.Context, actor user.Actor, id uuid.UUID, patch ReservationPatch) (*ReservationResult, error)
	CancelReservation(ctx context.Context, actor user.Actor, id uuid.UUID) (*reservation.Reservation, error)
	CancelOrDeleteReservation(ctx context.Context, actor user.Actor, id uuid.UUID) error
}

type reservationUseCaseImpl struct {
	uow            shared.UnitOfWork
	factory        *reservation.Factory
	clock          clock.Clock
	idempotencyTTL time.Duration
	logger         *slog.Logger
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	factory *reservation.Factory,
	clock clock.Clock,
	idempotencyTTL time.Duration,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:            uow,
		factory:        factory,
		clock:          clock,
		idempotencyTTL: idempotencyTTL,
		logger:         logger,
	}
}

func (r *reservationUseCaseImpl) CreateReservation(
	ctx context.Context,
	actor user.Actor,
	in CreateReservationInput,
	idempotencyKey *uuid.UUID,
) (result *ReservationResult, err error) {
	ctx, span := obs.Start(ctx, "reservation.create",
		attribute.String("inventory.kind", in.Kind.String()),
		attribute.String("inventory.item_id", in.ItemID.String()),
		attribute.Int("reservation.quantity", in.Quantity),
	)
	defer func() { obs.End(span, err) }()

	customerID := actor.ID
	if in.CustomerID != nil && *in.CustomerID != actor.ID {
		if !actor.Role.IsStaff() {
			return nil, errs.Wrap(errs.ErrForbidden, "customers can only book for themselves")
		}
		customerID = *in.CustomerID
	}

	now := r.clock.Now()
	alloc, err := newAllocation(in, now)
	if err != nil {
		return nil, err
	}
	note, err := noteFrom(in.SpecialRequests)
	if err != nil {
		return nil, err
	}
	requestHash := calculateRequestHash(customerID, in)

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if idempotencyKey != nil {
			replay, ierr := r.claimIdempotencyKey(ctx, tx, *idempotencyKey, customerID, requestHash)
			if ierr != nil {
				return ierr
			}
			if replay != nil {
				result = replay
				return nil
			}
		}

		item, ierr := lifecycle.LoadBookableItem(ctx, tx.Reads(), alloc, now)
		if ierr != nil {
			return ierr
		}
		res, price, ierr := r.factory.Create(customerID, item, alloc, note)
		if ierr != nil {
			return ierr
		}
		if ierr = ledger.Apply(ctx, tx, res.ID(), nil, alloc); ierr != nil {
			return ierr
		}
		if ierr = tx.Reservations().Create(ctx, res); ierr != nil {
			return ierr
		}
		if ierr = shared.AppendReservationEvent(ctx, tx, shared.EventReservationCreated, res, "", now); ierr != nil {
			return ierr
		}
		if idempotencyKey != nil {
			if ierr = tx.Idempotency().Complete(ctx, *idempotencyKey, customerID, res.ID()); ierr != nil {
				return ierr
			}
		}
		result = &ReservationResult{Reservation: res, Price: price}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "reservation created",
		"reservationId", result.Reservation.ID(),
		"kind", result.Reservation.Kind(),
		"itemId", result.Reservation.ItemID(),
		"quantity", result.Reservation.Quantity(),
		"replayed", result.IsReplayed,
	)
	return result, nil
}

// claimIdempotencyKey returns the earlier result when the key already completed.
// The key row is inserted (or locked) inside the booking transaction, so a
// concurrent duplicate waits for the first one to commit or roll back.
func (r *reservationUseCaseImpl) claimIdempotencyKey(
	ctx context.Context,
	tx shared.Tx,
	key, customerID uuid.UUID,
	requestHash string,
) (*ReservationResult, error) {
	now := r.clock.Now()
	expiresAt := now.Add(r.idempotencyTTL)

	inserted, err := tx.Idempotency().Reserve(ctx, key, customerID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if inserted {
		return nil, nil
	}

	existing, err := tx.Reads().IdempotencyByKey(ctx, key, customerID)
	if err != nil {
		return nil, err
	}
	if existing.IsExpired(now) {
		return nil, tx.Idempotency().Reclaim(ctx, key, customerID, requestHash, expiresAt)
	}
	if existing.RequestHash != requestHash {
		return nil, errs.Wrapf(errs.ErrIdempotencyMismatch, "key %s", key)
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ReservationID == nil {
			return nil, errs.Wrapf(errs.ErrNotFound, "reservation behind key %s was deleted", key)
		}
		res, err := tx.Reads().ReservationByID(ctx, *existing.ReservationID)
		if err != nil {
			return nil, err
		}
		price, err := r.quote(ctx, tx.Reads(), res.Allocation())
		if err != nil {
			return nil, err
		}
		return &ReservationResult{Reservation: res, Price: price, IsReplayed: true}, nil
	case shared.IdempotencyStatusProcessing:
		return nil, errs.Wrapf(errs.ErrIdempotencyInProgress, "key %s", key)
	default:
		return nil, errs.Newf("invalid idempotency key status %q", existing.Status)
	}
}

func (r *reservationUseCaseImpl) UpdateReservation(
	ctx context.Context,
	actor user.Actor,
	id uuid.UUID,
	patch ReservationPatch,
) (result *ReservationResult, err error) {
	ctx, span := obs.Start(ctx, "reservation.update", attribute.String("reservation.id", id.String()))
	defer func() { obs.End(span, err) }()

	note, err := pt.Map(patch.SpecialRequests, reservation.NewNote)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil && !actor.Role.IsStaff() && *patch.Status != reservation.StatusCancelled {
		return nil, errs.Wrapf(errs.ErrForbidden, "customers cannot move a reservation to %s", *patch.Status)
	}

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := r.clock.Now()
		res, lerr := lockOwnedReservation(ctx, tx.Reads(), actor, id)
		if lerr != nil {
			return lerr
		}

		var price reservation.PriceBreakdown
		if patch.changesAllocation() {
			if lerr = reservation.EnsureMutable(res.Status()); lerr != nil {
				return lerr
			}
			old := res.Allocation()
			next, lerr := patchedAllocation(old, patch, now)
			if lerr != nil {
				return lerr
			}
			item, lerr := lifecycle.LoadBookableItem(ctx, tx.Reads(), next, now)
			if lerr != nil {
				return lerr
			}
			if lerr = ledger.Apply(ctx, tx, res.ID(), &old, next); lerr != nil {
				return lerr
			}
			if price, lerr = r.factory.Reprice(res, item, next); lerr != nil {
				return lerr
			}
		} else if price, lerr = r.quote(ctx, tx.Reads(), res.Allocation()); lerr != nil {
			return lerr
		}

		if note != nil {
			if lerr = res.UpdateSpecialRequests(*note, now); lerr != nil {
				return lerr
			}
		}

		events := []shared.EventType{shared.EventReservationUpdated}
		if patch.Status != nil {
			evt, terr := lifecycle.Transition(ctx, tx, res, *patch.Status, now)
			if terr != nil {
				return terr
			}
			events = append(events, evt)
		}

		if lerr = tx.Reservations().Update(ctx, res); lerr != nil {
			return lerr
		}
		for _, evt := range events {
			if lerr = shared.AppendReservationEvent(ctx, tx, evt, res, "", now); lerr != nil {
				return lerr
			}
		}
		result = &ReservationResult{Reservation: res, Price: price}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "reservation updated", "reservationId", id, "status", result.Reservation.Status())
	return result, nil
}

func (r *reservationUseCaseImpl) CancelReservation(ctx context.Context, actor user.Actor, id uuid.UUID) (cancelled *reservation.Reservation, err error) {
	ctx, span := obs.Start(ctx, "reservation.cancel", attribute.String("reservation.id", id.String()))
	defer func() { obs.End(span, err) }()

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := r.clock.Now()
		res, lerr := lockOwnedReservation(ctx, tx.Reads(), actor, id)
		if lerr != nil {
			return lerr
		}
		evt, lerr := lifecycle.Transition(ctx, tx, res, reservation.StatusCancelled, now)
		if lerr != nil {
			return lerr
		}
		if lerr = tx.Reservations().Update(ctx, res); lerr != nil {
			return lerr
		}
		cancelled = res
		return shared.AppendReservationEvent(ctx, tx, evt, res, lifecycle.ReasonRequested, now)
	})
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "reservation cancelled", "reservationId", id, "actor", actor.ID)
	return cancelled, nil
}

func (r *reservationUseCaseImpl) CancelOrDeleteReservation(ctx context.Context, actor user.Actor, id uuid.UUID) (err error) {
	ctx, span := obs.Start(ctx, "reservation.delete", attribute.String("reservation.id", id.String()))
	defer func() { obs.End(span, err) }()

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		res, lerr := lockOwnedReservation(ctx, tx.Reads(), actor, id)
		if lerr != nil {
			return lerr
		}
		pay, lerr := tx.Reads().PaymentByReservation(ctx, id)
		if lerr != nil {
			return lerr
		}
		if lerr = reservation.ValidateDeletion(res.Status(), payment.StatusOf(pay)); lerr != nil {
			return lerr
		}
		if res.HoldsInventory() {
			if lerr = ledger.Release(ctx, tx, res.Allocation()); lerr != nil {
				return lerr
			}
		}
		if lerr = tx.Reservations().Delete(ctx, id); lerr != nil {
			return lerr
		}
		return shared.AppendReservationEvent(ctx, tx, shared.EventReservationDeleted, res, "", r.clock.Now())
	})
	if err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "reservation deleted", "reservationId", id, "actor", actor.ID)
	return nil
}

func (r *reservationUseCaseImpl) quote(ctx context.Context, reads shared.CommandReads, alloc reservation.Allocation) (reservation.PriceBreakdown, error) {
	item, err := lifecycle.LoadItem(ctx, reads, alloc)
	if err != nil {
		return reservation.PriceBreakdown{}, err
	}
	return r.factory.PriceCalculator.Quote(item, alloc), nil
}

func lockOwnedReservation(ctx context.Context, reads shared.CommandReads, actor user.Actor, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := reads.LockReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActFor(res.CustomerID()) {
		return nil, errs.Wrapf(errs.ErrForbidden, "reservation %s belongs to another customer", id)
	}
	return res, nil
}

func newAllocation(in CreateReservationInput, now time.Time) (reservation.Allocation, error) {
	if !in.Kind.IsValid() {
		return reservation.Allocation{}, errs.Wrapf(errs.ErrValidation, "unknown inventory kind %q", in.Kind)
	}
	alloc := reservation.Allocation{
		Kind:     in.Kind,
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Guests:   pt.Coalesce(in.Guests, in.Quantity),
	}
	if in.Kind == inventory.KindRoom {
		if in.StartAt == nil || in.EndAt == nil {
			return reservation.Allocation{}, errs.Wrap(errs.ErrInvalidDateRange, "room reservations need startAt and endAt")
		}
		window, err := inventory.NewFutureDateRange(*in.StartAt, *in.EndAt, now)
		if err != nil {
			return reservation.Allocation{}, err
		}
		alloc.Window = window
	} else if in.StartAt != nil || in.EndAt != nil {
		return reservation.Allocation{}, errs.Wrapf(errs.ErrValidation, "%s reservations follow the item's schedule", in.Kind)
	}
	return alloc, alloc.Validate()
}

func patchedAllocation(old reservation.Allocation, patch ReservationPatch, now time.Time) (reservation.Allocation, error) {
	next := old
	next.ItemID = pt.Coalesce(patch.ItemID, old.ItemID)
	next.Quantity = pt.Coalesce(patch.Quantity, old.Quantity)
	next.Guests = old.Guests
	if patch.Quantity != nil && next.Kind != inventory.KindRoom {
		next.Guests = next.Quantity
	}
	next.Guests = pt.Coalesce(patch.Guests, next.Guests)

	if patch.StartAt != nil || patch.EndAt != nil {
		if next.Kind != inventory.KindRoom {
			return reservation.Allocation{}, errs.Wrapf(errs.ErrValidation, "%s reservations follow the item's schedule", next.Kind)
		}
		window, err := inventory.NewFutureDateRange(
			pt.Coalesce(patch.StartAt, old.Window.Start()),
			pt.Coalesce(patch.EndAt, old.Window.End()),
			now,
		)
		if err != nil {
			return reservation.Allocation{}, err
		}
		next.Window = window
	}
	return next, next.Validate()
}

func noteFrom(s *string) (reservation.Note, error) {
	if s == nil {
		return reservation.Note{}, nil
	}
	return reservation.NewNote(*s)
}

func calculateRequestHash(customerID uuid.UUID, in CreateReservationInput) string {
	in.CustomerID = &customerID
	data, _ := json.Marshal(in)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
