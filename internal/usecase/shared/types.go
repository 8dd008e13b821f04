package shared

import (
	"time"

	"github.com/google/uuid"
)

type IdempotencyRecord struct {
	Key           uuid.UUID
	CustomerID    uuid.UUID
	Status        string
	RequestHash   string
	ReservationID *uuid.UUID
	ExpiresAt     time.Time
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

func (r *IdempotencyRecord) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
