//go:build unit

package pgconv

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestNullableConversions(t *testing.T) {
	id := uuid.New()

	assert.Nil(t, UUIDPtrFromPgtype(pgtype.UUID{}))
	assert.Equal(t, id, *UUIDPtrFromPgtype(UUIDToPgtype(id)))
	assert.False(t, UUIDPtrToPgtype(nil).Valid)
	assert.False(t, UUIDIfToPgtype(id, false).Valid)
	assert.Equal(t, id, uuid.UUID(UUIDIfToPgtype(id, true).Bytes))

	assert.Equal(t, id, FirstUUID(pgtype.UUID{}, UUIDToPgtype(id)))
	assert.Equal(t, uuid.Nil, FirstUUID(pgtype.UUID{}, pgtype.UUID{}))

	assert.False(t, NonEmptyToPgtype("").Valid)
	assert.Equal(t, "x", *StringPtrFromPgtype(NonEmptyToPgtype("x")))
	assert.Nil(t, StringPtrFromPgtype(StringPtrToPgtype(nil)))

	local := time.Date(2030, 6, 1, 14, 0, 0, 0, time.FixedZone("NZST", 12*3600))
	got := TimeFromPgtype(TimeToPgtype(local))
	assert.True(t, got.Equal(local))
	assert.Equal(t, time.UTC, got.Location())
	assert.Nil(t, TimePtrFromPgtype(TimePtrToPgtype(nil)))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(sql.ErrNoRows))
	assert.False(t, IsNoRows(errors.New("no rows? no")))
}
