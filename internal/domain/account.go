package domain

import (
	"time"

	"github.com/google/uuid"
)

type AccountKind string

const (
	AccountKindSavings AccountKind = "savings"
	AccountKindCurrent AccountKind = "current"
)

func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindSavings, AccountKindCurrent:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
	AccountStatusClosed   AccountStatus = "closed"
)

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive, AccountStatusClosed:
		return true
	}
	return false
}

// Account is a financial product held by an owner. Balance and UpdatedAt
// are mutated only by the transaction engine; Status only by the status
// management operation. Version is the optimistic-lock column: every
// successful save increments it, and a save conditioned on a stale
// version is rejected by the store.
type Account struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Kind          AccountKind
	AccountNumber string
	Balance       Money
	Version       int64
	TaxExempt     bool
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// CanDelete reports whether the account may be deleted. Deletion is
// allowed only at an exactly zero balance.
func (a *Account) CanDelete() error {
	if !a.Balance.IsZero() {
		return &NonZeroBalanceError{AccountID: a.ID, Balance: a.Balance}
	}
	return nil
}
