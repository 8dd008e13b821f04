//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
)

func TestDeadlinePolicy(t *testing.T) {
	now := builder.BaseTime
	policy := reservation.NewDeadlinePolicy(24*time.Hour, time.Hour)

	tests := []struct {
		name          string
		policy        reservation.DeadlinePolicy
		start         time.Time
		wantDeadline  time.Time
		wantImmediate bool
	}{
		{
			name:         "far start gets the grace period",
			policy:       policy,
			start:        now.Add(72 * time.Hour),
			wantDeadline: now.Add(time.Hour),
		},
		{
			name:          "start exactly at the threshold pays by the start",
			policy:        policy,
			start:         now.Add(24 * time.Hour),
			wantDeadline:  now.Add(24 * time.Hour),
			wantImmediate: true,
		},
		{
			name:          "near start pays by the start",
			policy:        policy,
			start:         now.Add(2 * time.Hour),
			wantDeadline:  now.Add(2 * time.Hour),
			wantImmediate: true,
		},
		{
			name:          "start already passed pays now",
			policy:        policy,
			start:         now.Add(-time.Hour),
			wantDeadline:  now,
			wantImmediate: true,
		},
		{
			name:         "grace period never runs past the start",
			policy:       reservation.NewDeadlinePolicy(time.Hour, 48*time.Hour),
			start:        now.Add(2 * time.Hour),
			wantDeadline: now.Add(2 * time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := tt.policy.Compute(tt.start, now)
			assert.Equal(t, tt.wantDeadline, terms.Deadline)
			assert.Equal(t, tt.wantImmediate, terms.ImmediatePaymentRequired)
			assert.False(t, terms.Deadline.After(tt.start) && tt.start.After(now))
		})
	}

	t.Run("zero values fall back to defaults", func(t *testing.T) {
		p := reservation.NewDeadlinePolicy(0, -time.Minute)
		assert.Equal(t, reservation.DefaultImmediateThreshold, p.ImmediateThreshold)
		assert.Equal(t, reservation.DefaultGracePeriod, p.GracePeriod)
	})

	t.Run("compute is pure", func(t *testing.T) {
		start := now.Add(48 * time.Hour)
		assert.Equal(t, policy.Compute(start, now), policy.Compute(start, now))
	})
}
