//go:build unit

package infra

import (
	"errors"
	"fmt"
	"testing"

	"reservation-engine/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestKindFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RepositoryErrorKind
	}{
		{"nil", nil, KindDBFailure},
		{"no rows", pgx.ErrNoRows, KindNotFound},
		{"wrapped no rows", fmt.Errorf("get item: %w", pgx.ErrNoRows), KindNotFound},
		{"unique", &pgconn.PgError{Code: PgErrUniqueViolation}, KindDuplicateKey},
		{"foreign key", &pgconn.PgError{Code: PgErrForeignKeyViolation}, KindForeignKeyViolated},
		{"check", &pgconn.PgError{Code: PgErrCheckViolation}, KindInvariantViolated},
		{"lock not available", &pgconn.PgError{Code: PgErrLockNotAvailable}, KindContention},
		{"statement timeout", &pgconn.PgError{Code: PgErrQueryCanceled}, KindContention},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, KindDBFailure},
		{"plain error", errors.New("connection reset"), KindDBFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindFromErr(tt.err))
		})
	}
}

func TestWrapRepoErr(t *testing.T) {
	t.Run("derives the kind and matches the taxonomy", func(t *testing.T) {
		err := WrapRepoErr("get reservation", pgx.ErrNoRows)
		assert.True(t, IsKind(err, KindNotFound))
		assert.ErrorIs(t, err, errs.ErrNotFound)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
		assert.NotErrorIs(t, err, errs.ErrContention)
	})

	t.Run("lock timeouts are contention", func(t *testing.T) {
		err := WrapRepoErr("lock item", &pgconn.PgError{Code: PgErrLockNotAvailable})
		assert.ErrorIs(t, err, errs.ErrContention)
		assert.Contains(t, err.Error(), "CONTENTION: lock item")
	})

	t.Run("explicit kind wins", func(t *testing.T) {
		err := WrapRepoErr("decrement seats", nil, KindInvariantViolated)
		assert.True(t, IsKind(err, KindInvariantViolated))
		assert.Equal(t, "INVARIANT_VIOLATED: decrement seats", err.Error())
	})

	t.Run("IsKind ignores foreign errors", func(t *testing.T) {
		assert.False(t, IsKind(errors.New("boom"), KindNotFound))
	})
}
