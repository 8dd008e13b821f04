package commands

//go:generate mockgen -source=payment.go -destination=../../../tests/mock/commands/payment.go -package=commandsmock

import (
	"context"
	"log/slog"

	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/pkg/obs"
	"reservation-engine/internal/usecase/lifecycle"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type PaymentRequest struct {
	ReservationID uuid.UUID
	CustomerID    uuid.UUID
	AmountCents   int64
	Method        string
}

type PaymentSession struct {
	AuthorizationURL string
	Reference        string
}

// PaymentGateway is the outbound payment processor.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentSession, error)
}

type PaymentOutcome struct {
	Reference   string
	Status      payment.Status
	AmountCents int64
}

type PaymentOutcomeResult struct {
	ReservationID     uuid.UUID
	PaymentStatus     payment.Status
	ReservationStatus reservation.Status
	// RefundRequired is set when money arrived for a reservation that is already cancelled.
	RefundRequired bool
}

type PaymentCommands interface {
	InitiatePayment(ctx context.Context, actor user.Actor, reservationID uuid.UUID, method string) (*PaymentSession, error)
	OnPaymentOutcome(ctx context.Context, outcome PaymentOutcome) (*PaymentOutcomeResult, error)
}

type paymentUseCaseImpl struct {
	uow     shared.UnitOfWork
	gateway PaymentGateway
	clock   clock.Clock
	logger  *slog.Logger
}

func NewPaymentUseCase(uow shared.UnitOfWork, gateway PaymentGateway, clock clock.Clock, logger *slog.Logger) PaymentCommands {
	return &paymentUseCaseImpl{uow: uow, gateway: gateway, clock: clock, logger: logger}
}

func (p *paymentUseCaseImpl) InitiatePayment(ctx context.Context, actor user.Actor, reservationID uuid.UUID, method string) (session *PaymentSession, err error) {
	ctx, span := obs.Start(ctx, "payment.initiate", attribute.String("reservation.id", reservationID.String()))
	defer func() { obs.End(span, err) }()

	var amount int64
	var customerID uuid.UUID
	err = p.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
		res, rerr := reads.ReservationByID(ctx, reservationID)
		if rerr != nil {
			return rerr
		}
		if !actor.CanActFor(res.CustomerID()) {
			return errs.Wrapf(errs.ErrForbidden, "reservation %s belongs to another customer", reservationID)
		}
		pay, rerr := reads.PaymentByReservation(ctx, reservationID)
		if rerr != nil {
			return rerr
		}
		if rerr = p.checkPayable(res, pay); rerr != nil {
			return rerr
		}
		amount, customerID = res.Amount().Cents(), res.CustomerID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the gateway call stays outside the transaction so no row lock is held across it
	session, err = p.gateway.InitiatePayment(ctx, PaymentRequest{
		ReservationID: reservationID,
		CustomerID:    customerID,
		AmountCents:   amount,
		Method:        method,
	})
	if err != nil {
		return nil, errs.Wrap(err, "initiate payment with gateway")
	}

	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := p.clock.Now()
		res, terr := tx.Reads().LockReservation(ctx, reservationID)
		if terr != nil {
			return terr
		}
		pay, terr := tx.Reads().PaymentByReservation(ctx, reservationID)
		if terr != nil {
			return terr
		}
		if terr = p.checkPayable(res, pay); terr != nil {
			return terr
		}
		if res.Amount().Cents() != amount {
			return errs.Wrap(errs.ErrContention, "reservation price changed while initiating payment")
		}
		if pay == nil {
			pay, terr = payment.NewPayment(reservationID, session.Reference, method, amount, now)
			if terr != nil {
				return terr
			}
		} else if terr = pay.Reinitiate(session.Reference, method, amount, now); terr != nil {
			return terr
		}
		return tx.Payments().Save(ctx, pay)
	})
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "payment initiated", "reservationId", reservationID, "reference", session.Reference, "method", method)
	return session, nil
}

func (p *paymentUseCaseImpl) checkPayable(res *reservation.Reservation, pay *payment.Payment) error {
	if res.Status() != reservation.StatusPending {
		return errs.Wrapf(errs.ErrInvalidTransition, "reservation is %s, only PENDING reservations take payment", res.Status())
	}
	if !res.PaymentDeadline().After(p.clock.Now()) {
		return errs.Wrap(errs.ErrInvalidTransition, "payment deadline has passed")
	}
	if st := payment.StatusOf(pay); st == payment.StatusCompleted || st == payment.StatusRefunded {
		return errs.Wrapf(errs.ErrInvalidTransition, "payment already %s", st)
	}
	return nil
}

// OnPaymentOutcome applies a processor callback. Replayed callbacks are no-ops.
func (p *paymentUseCaseImpl) OnPaymentOutcome(ctx context.Context, outcome PaymentOutcome) (result *PaymentOutcomeResult, err error) {
	ctx, span := obs.Start(ctx, "payment.outcome",
		attribute.String("payment.reference", outcome.Reference),
		attribute.String("payment.status", outcome.Status.String()),
	)
	defer func() { obs.End(span, err) }()

	if !outcome.Status.IsValid() || outcome.Status == payment.StatusPending {
		return nil, errs.Wrapf(errs.ErrValidation, "unsupported payment outcome %q", outcome.Status)
	}

	var mismatch bool
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := p.clock.Now()
		pay, terr := tx.Reads().PaymentByReference(ctx, outcome.Reference)
		if terr != nil {
			return terr
		}
		res, terr := tx.Reads().LockReservation(ctx, pay.ReservationID())
		if terr != nil {
			return terr
		}
		result = &PaymentOutcomeResult{ReservationID: res.ID()}

		status := outcome.Status
		if status == payment.StatusCompleted && outcome.AmountCents != res.Amount().Cents() && pay.Status() != payment.StatusCompleted {
			mismatch = true
			status = payment.StatusFailed
		}

		changed, terr := pay.Record(status, now)
		if terr != nil {
			return terr
		}
		if changed {
			if terr = tx.Payments().UpdateStatus(ctx, pay); terr != nil {
				return terr
			}
		}

		switch {
		case !changed:
		case status == payment.StatusFailed:
			reason := "declined"
			if mismatch {
				reason = "amount_mismatch"
			}
			terr = shared.AppendReservationEvent(ctx, tx, shared.EventPaymentFailed, res, reason, now)
		case status == payment.StatusCompleted && res.Status() == reservation.StatusPending:
			evt, cerr := lifecycle.TransitionWithPayment(ctx, tx, res, reservation.StatusConfirmed, payment.StatusCompleted, now)
			if cerr != nil {
				return cerr
			}
			if terr = tx.Reservations().Update(ctx, res); terr != nil {
				return terr
			}
			terr = shared.AppendReservationEvent(ctx, tx, evt, res, "", now)
		case status == payment.StatusCompleted && res.Status() == reservation.StatusCancelled:
			result.RefundRequired = true
			terr = shared.AppendReservationEvent(ctx, tx, shared.EventReservationRefundRequired, res, "paid_after_cancellation", now)
		}
		if terr != nil {
			return terr
		}

		result.PaymentStatus = pay.Status()
		result.ReservationStatus = res.Status()
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "payment outcome recorded",
		"reference", outcome.Reference,
		"reservationId", result.ReservationID,
		"paymentStatus", result.PaymentStatus,
		"reservationStatus", result.ReservationStatus,
	)
	if mismatch {
		return result, errs.Wrapf(errs.ErrAmountMismatch, "paid %d, expected price differs", outcome.AmountCents)
	}
	return result, nil
}
