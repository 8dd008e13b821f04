package reservation

import "time"

const (
	DefaultImmediateThreshold = 24 * time.Hour
	DefaultGracePeriod        = time.Hour
)

// DeadlinePolicy decides how long a PENDING reservation may wait for payment.
type DeadlinePolicy struct {
	ImmediateThreshold time.Duration
	GracePeriod        time.Duration
}

type PaymentTerms struct {
	Deadline                 time.Time
	ImmediatePaymentRequired bool
}

func NewDeadlinePolicy(immediateThreshold, gracePeriod time.Duration) DeadlinePolicy {
	if immediateThreshold <= 0 {
		immediateThreshold = DefaultImmediateThreshold
	}
	if gracePeriod <= 0 {
		gracePeriod = DefaultGracePeriod
	}
	return DeadlinePolicy{ImmediateThreshold: immediateThreshold, GracePeriod: gracePeriod}
}

// Compute is pure: far-off starts get a grace period, near starts must pay by the start.
// The deadline never falls after the start.
func (p DeadlinePolicy) Compute(start, now time.Time) PaymentTerms {
	if start.Sub(now) > p.ImmediateThreshold {
		deadline := now.Add(p.GracePeriod)
		if deadline.After(start) {
			deadline = start
		}
		return PaymentTerms{Deadline: deadline}
	}

	deadline := start
	if !start.After(now) {
		deadline = now
	}
	return PaymentTerms{Deadline: deadline, ImmediatePaymentRequired: true}
}
