//go:build unit

package clock_test

import (
	"testing"
	"time"

	"reservation-engine/internal/pkg/clock"

	"github.com/stretchr/testify/assert"
)

func TestRealClock(t *testing.T) {
	now := clock.NewRealClock().Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Equal(t, now, now.Truncate(clock.Precision))
}

func TestMockClock(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := clock.NewMockClock(start)
	assert.Equal(t, start, c.Now())

	c.Add(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), c.Now())

	c.Add(-30 * time.Minute)
	assert.Equal(t, start.Add(time.Hour), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}
