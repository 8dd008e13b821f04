package infra

import (
	"errors"
	"log/slog"

	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// Is lets callers above infra match the shared taxonomy without knowing repository kinds.
func (e RepositoryError) Is(target error) bool {
	switch target {
	case errs.ErrNotFound:
		return e.Kind == KindNotFound
	case errs.ErrContention:
		return e.Kind == KindContention
	}
	return false
}

// WrapRepoErr classifies err. Without an explicit kind it is derived from the
// Postgres error code; unknown failures are logged as DB failures.
func WrapRepoErr(msg string, err error, kind ...RepositoryErrorKind) error {
	k := KindFromErr(err)
	if len(kind) > 0 {
		k = kind[0]
	}

	if k == KindDBFailure {
		args := []any{slog.String("kind", string(k))}
		if err != nil {
			args = append(args, slog.String("error", err.Error()))
		}
		slog.Error("Repository error: "+msg, args...)
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: k, msg: msg, err: err}
}

func KindFromErr(err error) RepositoryErrorKind {
	if err == nil {
		return KindDBFailure
	}
	if pgconv.IsNoRows(err) {
		return KindNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgErrUniqueViolation:
			return KindDuplicateKey
		case PgErrForeignKeyViolation:
			return KindForeignKeyViolated
		case PgErrCheckViolation:
			return KindInvariantViolated
		case PgErrLockNotAvailable, PgErrQueryCanceled:
			return KindContention
		}
	}
	return KindDBFailure
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindInvariantViolated  RepositoryErrorKind = "INVARIANT_VIOLATED"
	KindContention         RepositoryErrorKind = "CONTENTION"
)

const (
	PgErrUniqueViolation     = "23505"
	PgErrForeignKeyViolation = "23503"
	PgErrCheckViolation      = "23514"
	PgErrLockNotAvailable    = "55P03"
	PgErrQueryCanceled       = "57014"
)
