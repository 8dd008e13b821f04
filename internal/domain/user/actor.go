package user

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

// Actor is the identity resolved by the external identity collaborator.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func NewActor(id uuid.UUID, role Role) Actor {
	return Actor{ID: id, Role: role}
}

// System is used by background jobs and webhook callbacks.
func System() Actor {
	return Actor{ID: uuid.Nil, Role: RoleAdmin}
}

func (a Actor) CanActFor(customerID uuid.UUID) bool {
	return a.Role.IsStaff() || a.ID == customerID
}
