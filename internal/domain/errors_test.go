package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camounitropico/banco-financiera/internal/domain"
)

// Callers classify failures with errors.Is; each typed error must keep
// matching its sentinel through any number of fmt.Errorf wraps.
func TestTypedErrorsMatchSentinels(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "account not found",
			err:      &domain.AccountNotFoundError{AccountID: id},
			sentinel: domain.ErrAccountNotFound,
		},
		{
			name:     "account inactive",
			err:      &domain.AccountInactiveError{AccountID: id, Status: domain.AccountStatusClosed},
			sentinel: domain.ErrAccountInactive,
		},
		{
			name: "insufficient funds",
			err: &domain.InsufficientFundsError{
				AccountID: id,
				Available: domain.MustMoney("150.00"),
				Requested: domain.MustMoney("200.00"),
			},
			sentinel: domain.ErrInsufficientFunds,
		},
		{
			name:     "same account transfer",
			err:      &domain.SameAccountTransferError{AccountID: id},
			sentinel: domain.ErrSameAccountTransfer,
		},
		{
			name:     "non-zero balance",
			err:      &domain.NonZeroBalanceError{AccountID: id, Balance: domain.MustMoney("0.01")},
			sentinel: domain.ErrNonZeroBalance,
		},
		{
			name:     "contention",
			err:      &domain.ContentionError{AccountID: id},
			sentinel: domain.ErrContention,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("Transfer: %w", fmt.Errorf("attempt: %w", tt.err))
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.NotErrorIs(t, wrapped, domain.ErrVersionConflict)
		})
	}
}

func TestInsufficientFundsErrorCarriesAmounts(t *testing.T) {
	id := uuid.New()
	err := fmt.Errorf("Withdraw: %w", &domain.InsufficientFundsError{
		AccountID: id,
		Available: domain.MustMoney("150.00"),
		Requested: domain.MustMoney("200.00"),
	})

	var ife *domain.InsufficientFundsError
	require.True(t, errors.As(err, &ife))
	assert.Equal(t, id, ife.AccountID)
	assert.Equal(t, "150.00", ife.Available.String())
	assert.Equal(t, "200.00", ife.Requested.String())
}

func TestAccountNotFoundMatchesGenericNotFound(t *testing.T) {
	err := &domain.AccountNotFoundError{AccountID: uuid.New()}
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCanDelete(t *testing.T) {
	a := &domain.Account{ID: uuid.New(), Balance: domain.MustMoney("0.00")}
	require.NoError(t, a.CanDelete())

	a.Balance = domain.MustMoney("10.00")
	err := a.CanDelete()
	require.ErrorIs(t, err, domain.ErrNonZeroBalance)

	var nzb *domain.NonZeroBalanceError
	require.True(t, errors.As(err, &nzb))
	assert.Equal(t, "10.00", nzb.Balance.String())
}
