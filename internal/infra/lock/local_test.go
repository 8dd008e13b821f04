//go:build unit

package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.now = func() time.Time { return now }

	release, ok, err := l.TryLock(ctx, "jobs:deadline-sweeper", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, "jobs:deadline-sweeper", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "held key")

	_, ok, _ = l.TryLock(ctx, "jobs:outbox-relay", time.Minute)
	assert.True(t, ok, "keys are independent")

	require.NoError(t, release(ctx))
	_, ok, _ = l.TryLock(ctx, "jobs:deadline-sweeper", time.Minute)
	assert.True(t, ok, "released key")
}

func TestLocalLockerExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.now = func() time.Time { return now }

	stale, ok, _ := l.TryLock(ctx, "jobs:stay-status-sync", time.Minute)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = l.TryLock(ctx, "jobs:stay-status-sync", time.Minute)
	require.True(t, ok, "expired lock is re-acquired")

	// the first holder's release must not free the new holder's lock
	require.NoError(t, stale(ctx))
	_, ok, _ = l.TryLock(ctx, "jobs:stay-status-sync", time.Minute)
	assert.False(t, ok)
}
