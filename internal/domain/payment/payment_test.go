//go:build unit

package payment_test

import (
	"testing"
	"time"

	"reservation-engine/internal/domain/payment"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentIn(status payment.Status) *payment.Payment {
	return payment.ReconstructPayment(uuid.New(), uuid.New(), "ref-1", "card", 10000, status, builder.BaseTime, builder.BaseTime)
}

func TestNewPayment(t *testing.T) {
	p, err := payment.NewPayment(uuid.New(), "ref-1", "card", 10000, builder.BaseTime)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, p.Status())

	_, err = payment.NewPayment(uuid.New(), " ", "card", 10000, builder.BaseTime)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = payment.NewPayment(uuid.New(), "ref-1", "card", -5, builder.BaseTime)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestRecord(t *testing.T) {
	later := builder.BaseTime.Add(time.Minute)

	tests := []struct {
		name        string
		from        payment.Status
		outcome     payment.Status
		wantChanged bool
		errIs       error
	}{
		{name: "pending to completed", from: payment.StatusPending, outcome: payment.StatusCompleted, wantChanged: true},
		{name: "pending to failed", from: payment.StatusPending, outcome: payment.StatusFailed, wantChanged: true},
		{name: "failed retry completes", from: payment.StatusFailed, outcome: payment.StatusCompleted, wantChanged: true},
		{name: "completed to refunded", from: payment.StatusCompleted, outcome: payment.StatusRefunded, wantChanged: true},
		{name: "duplicate completion is a no-op", from: payment.StatusCompleted, outcome: payment.StatusCompleted},
		{name: "duplicate failure is a no-op", from: payment.StatusFailed, outcome: payment.StatusFailed},
		{name: "completed cannot fail", from: payment.StatusCompleted, outcome: payment.StatusFailed, errIs: errs.ErrInvalidTransition},
		{name: "refunded cannot complete", from: payment.StatusRefunded, outcome: payment.StatusCompleted, errIs: errs.ErrInvalidTransition},
		{name: "pending cannot refund", from: payment.StatusPending, outcome: payment.StatusRefunded, errIs: errs.ErrInvalidTransition},
		{name: "back to pending", from: payment.StatusFailed, outcome: payment.StatusPending, errIs: errs.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paymentIn(tt.from)
			changed, err := p.Record(tt.outcome, later)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				assert.Equal(t, tt.from, p.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.outcome, p.Status())
			if changed {
				assert.Equal(t, later, p.UpdatedAt())
			}
		})
	}
}

func TestReinitiate(t *testing.T) {
	later := builder.BaseTime.Add(time.Minute)

	p := paymentIn(payment.StatusFailed)
	require.NoError(t, p.Reinitiate("ref-2", "bank", 12000, later))
	assert.Equal(t, payment.StatusPending, p.Status())
	assert.Equal(t, "ref-2", p.Reference())
	assert.Equal(t, int64(12000), p.AmountCents())

	for _, status := range []payment.Status{payment.StatusCompleted, payment.StatusRefunded} {
		assert.ErrorIs(t, paymentIn(status).Reinitiate("ref-3", "card", 1, later), errs.ErrInvalidTransition)
	}
}

func TestExpire(t *testing.T) {
	p := paymentIn(payment.StatusPending)
	assert.True(t, p.Expire(builder.BaseTime))
	assert.Equal(t, payment.StatusFailed, p.Status())
	assert.False(t, p.Expire(builder.BaseTime))

	assert.False(t, paymentIn(payment.StatusCompleted).Expire(builder.BaseTime))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, payment.Status(""), payment.StatusOf(nil))
	assert.Equal(t, payment.StatusRefunded, payment.StatusOf(paymentIn(payment.StatusRefunded)))

	s, err := payment.ParseStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCompleted, s)
	_, err = payment.ParseStatus("VOIDED")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
