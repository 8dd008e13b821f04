package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reservation-engine/internal/domain/inventory"
	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/readstore"
	"reservation-engine/internal/infra/repository"
	"reservation-engine/internal/infra/sqlstore"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// TxBeginner is the slice of pgxpool.Pool the unit of work needs.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type PostgresUoW struct {
	pool        TxBeginner
	q           *sqlstore.Queries
	lockTimeout time.Duration
	maxRetries  int
	base        time.Duration
	logger      *slog.Logger
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlstore.Queries, cfg config.ReservationConfig, logger *slog.Logger) shared.UnitOfWork {
	return newPostgresUoW(pool, q, cfg, logger)
}

func newPostgresUoW(pool TxBeginner, q *sqlstore.Queries, cfg config.ReservationConfig, logger *slog.Logger) *PostgresUoW {
	return &PostgresUoW{
		pool:        pool,
		q:           q,
		lockTimeout: cfg.LockTimeout,
		maxRetries:  cfg.MaxTxRetries,
		base:        100 * time.Millisecond,
		logger:      logger,
	}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes.
// Capacity bounds are enforced by conditional updates and row locks, not by isolation.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads shared.CommandReads) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return classify(errs.Mark(errs.Mark(err, errTransactionBegin), shared.ErrStorageUnavailable))
		}

		err = u.setLockTimeout(ctx, pgxTx)
		if err == nil {
			err = fn(ctx, newPgTx(pgxTx, u.q))
		}
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				u.logger.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !isRetryableError(err) {
			return classify(err)
		}
		if attempt == u.maxRetries {
			u.logger.Error("transaction failed after max retries",
				"attempts", attempt+1,
				"error", err.Error())
			return errs.Mark(errs.Mark(err, errMaxRetriesExceeded), errs.ErrContention)
		}

		waitTime := calculateBackoff(attempt, u.base)

		u.logger.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return classify(ctx.Err())
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, reads shared.CommandReads) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return classify(errs.Mark(errs.Mark(err, errTransactionBegin), shared.ErrStorageUnavailable))
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(context.WithoutCancel(ctx)); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				u.logger.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, newCommandReads(pgxTx, u.q)); err != nil {
		return classify(err)
	}

	return classify(pgxTx.Commit(ctx))
}

// setLockTimeout bounds every row-lock wait in the transaction.
func (u *PostgresUoW) setLockTimeout(ctx context.Context, tx pgx.Tx) error {
	if u.lockTimeout <= 0 {
		return nil
	}
	_, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds()))
	return err
}

// classify maps lock waits and deadlines onto ErrContention.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || infra.KindFromErr(err) == infra.KindContention {
		return errs.Mark(err, errs.ErrContention)
	}
	return err
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx sqlstore.DBTX
	q    *sqlstore.Queries

	// Lazy-initialized repositories
	reservationRepo shared.ReservationRepository
	inventoryRepo   shared.InventoryRepository
	paymentRepo     shared.PaymentRepository
	idempotencyRepo shared.IdempotencyRepository
	outboxRepo      shared.OutboxRepository
	commandReads    shared.CommandReads
}

func newPgTx(dbtx sqlstore.DBTX, q *sqlstore.Queries) *pgTx {
	return &pgTx{dbtx: dbtx, q: q}
}

func (t *pgTx) Reservations() shared.ReservationRepository {
	if t.reservationRepo == nil {
		t.reservationRepo = repository.NewReservationRepository(t.q, t.dbtx)
	}
	return t.reservationRepo
}

func (t *pgTx) Inventory() shared.InventoryRepository {
	if t.inventoryRepo == nil {
		t.inventoryRepo = repository.NewInventoryRepository(t.q, t.dbtx)
	}
	return t.inventoryRepo
}

func (t *pgTx) Payments() shared.PaymentRepository {
	if t.paymentRepo == nil {
		t.paymentRepo = repository.NewPaymentRepository(t.q, t.dbtx)
	}
	return t.paymentRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository(t.q, t.dbtx)
	}
	return t.idempotencyRepo
}

func (t *pgTx) Outbox() shared.OutboxRepository {
	if t.outboxRepo == nil {
		t.outboxRepo = repository.NewOutboxRepository(t.q, t.dbtx)
	}
	return t.outboxRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = newCommandReads(t.dbtx, t.q)
	}
	return t.commandReads
}

type commandReads struct {
	*readstore.InventoryReadStore
	reservations *readstore.ReservationReadStore
	idempotency  *readstore.IdempotencyReadStore
}

func newCommandReads(dbtx sqlstore.DBTX, q *sqlstore.Queries) *commandReads {
	return &commandReads{
		InventoryReadStore: readstore.NewInventoryReadStore(q, dbtx),
		reservations:       readstore.NewReservationReadStore(q, dbtx),
		idempotency:        readstore.NewIdempotencyReadStore(q, dbtx),
	}
}

func (r *commandReads) ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.reservations.FindByID(ctx, id)
}

func (r *commandReads) LockReservation(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.reservations.Lock(ctx, id)
}

func (r *commandReads) PaymentByReservation(ctx context.Context, reservationID uuid.UUID) (*payment.Payment, error) {
	return r.reservations.PaymentByReservation(ctx, reservationID)
}

func (r *commandReads) PaymentByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	return r.reservations.PaymentByReference(ctx, reference)
}

func (r *commandReads) IdempotencyByKey(ctx context.Context, key, customerID uuid.UUID) (*shared.IdempotencyRecord, error) {
	return r.idempotency.Get(ctx, key, customerID)
}

func (r *commandReads) OverdueReservationIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	return r.reservations.OverdueIDs(ctx, now, limit)
}

func (r *commandReads) CancelledItemsWithActiveReservations(ctx context.Context, kind inventory.Kind, limit int) ([]uuid.UUID, error) {
	return r.reservations.CancelledItemsWithActiveReservations(ctx, kind, limit)
}

func (r *commandReads) ActiveReservationIDsForItem(ctx context.Context, kind inventory.Kind, itemID uuid.UUID) ([]uuid.UUID, error) {
	return r.reservations.ActiveIDsForItem(ctx, kind, itemID)
}

func (r *commandReads) EndedReservationIDs(ctx context.Context, kind inventory.Kind, now time.Time, limit int) ([]uuid.UUID, error) {
	return r.reservations.EndedIDs(ctx, kind, now, limit)
}
