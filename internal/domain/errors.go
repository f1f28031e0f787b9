package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinels group failures by kind so callers can classify them with
// errors.Is. Where a failure carries data (account id, balances) a typed
// error below wraps the sentinel through an Is method.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidAmount       = errors.New("amount must be a positive decimal with at most two fractional digits")
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
	ErrAccountInactive     = errors.New("account is not active")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAccountNotFound     = errors.New("account not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNonZeroBalance      = errors.New("account balance is not zero")
	ErrVersionConflict     = errors.New("optimistic lock conflict")
	ErrContention          = errors.New("account is being modified concurrently")
	ErrAccountNumberTaken  = errors.New("account number already exists")
	ErrInvalidAccountKind  = errors.New("account kind must be savings or current")
	ErrInvalidStatus       = errors.New("invalid account status")
	ErrNegativeBalance     = errors.New("savings account balance cannot be negative")
)

type AccountNotFoundError struct {
	AccountID uuid.UUID
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.AccountID)
}

func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound || target == ErrNotFound
}

type AccountInactiveError struct {
	AccountID uuid.UUID
	Status    AccountStatus
}

func (e *AccountInactiveError) Error() string {
	return fmt.Sprintf("account %s is %s, not active", e.AccountID, e.Status)
}

func (e *AccountInactiveError) Is(target error) bool {
	return target == ErrAccountInactive
}

type InsufficientFundsError struct {
	AccountID uuid.UUID
	Available Money
	Requested Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds on account %s: available %s, requested %s",
		e.AccountID, e.Available, e.Requested)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

type SameAccountTransferError struct {
	AccountID uuid.UUID
}

func (e *SameAccountTransferError) Error() string {
	return fmt.Sprintf("transfer from account %s to itself", e.AccountID)
}

func (e *SameAccountTransferError) Is(target error) bool {
	return target == ErrSameAccountTransfer
}

type NonZeroBalanceError struct {
	AccountID uuid.UUID
	Balance   Money
}

func (e *NonZeroBalanceError) Error() string {
	return fmt.Sprintf("account %s holds %s, balance must be zero", e.AccountID, e.Balance)
}

func (e *NonZeroBalanceError) Is(target error) bool {
	return target == ErrNonZeroBalance
}

// ContentionError surfaces after the engine has exhausted its internal
// retries against concurrent writers. The caller may retry the request.
type ContentionError struct {
	AccountID uuid.UUID
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("account %s is being modified concurrently, retry the request", e.AccountID)
}

func (e *ContentionError) Is(target error) bool {
	return target == ErrContention
}
