package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is the account owner. Registration, identity fields and the rest
// of the user lifecycle live in a separate service; this module only
// needs the owner to exist before an account references it.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Status    UserStatus
	CreatedAt time.Time
}
