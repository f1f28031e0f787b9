package engine

import (
	"github.com/google/uuid"

	"github.com/camounitropico/banco-financiera/internal/domain"
)

// Precondition rules, pure over account state and operands. They run in
// a fixed order per operation so error precedence is deterministic: the
// same-account check precedes any account load, and existence/active
// checks precede funds checks.

func requirePositiveAmount(amount domain.Money) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	return nil
}

func requireDistinctAccounts(fromID, toID uuid.UUID) error {
	if fromID == toID {
		return &domain.SameAccountTransferError{AccountID: fromID}
	}
	return nil
}

func requireActive(account *domain.Account) error {
	if !account.IsActive() {
		return &domain.AccountInactiveError{AccountID: account.ID, Status: account.Status}
	}
	return nil
}

func requireSufficientFunds(account *domain.Account, amount domain.Money) error {
	if account.Balance.Cmp(amount) < 0 {
		return &domain.InsufficientFundsError{
			AccountID: account.ID,
			Available: account.Balance,
			Requested: amount,
		}
	}
	return nil
}
