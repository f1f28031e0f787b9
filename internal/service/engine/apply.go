package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/camounitropico/banco-financiera/internal/domain"
	"github.com/camounitropico/banco-financiera/internal/logging"
)

// Deposit credits amount to an active account and appends a deposit
// record. Returns the ledger record or a classified error.
func (s *Service) Deposit(ctx context.Context, accountID uuid.UUID, amount domain.Money) (*domain.Transaction, error) {
	if err := requirePositiveAmount(amount); err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	rec, err := s.applyOne(ctx, accountID, amount, domain.TransactionTypeDeposit)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	logging.FromContext(ctx).Info("deposit committed",
		"transaction_id", rec.ID,
		"account_id", accountID,
		"amount", amount.String(),
	)
	return rec, nil
}

// Withdraw debits amount from an active account with sufficient funds
// and appends a withdraw record. amount equal to the balance succeeds,
// leaving the balance at zero.
func (s *Service) Withdraw(ctx context.Context, accountID uuid.UUID, amount domain.Money) (*domain.Transaction, error) {
	if err := requirePositiveAmount(amount); err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}

	rec, err := s.applyOne(ctx, accountID, amount, domain.TransactionTypeWithdraw)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}

	logging.FromContext(ctx).Info("withdrawal committed",
		"transaction_id", rec.ID,
		"account_id", accountID,
		"amount", amount.String(),
	)
	return rec, nil
}

// applyOne is the retry loop around single-account attempts. Version
// conflicts and store timeouts are retried immediately up to the bounded
// attempt count; anything else is a terminal validation or storage
// failure.
func (s *Service) applyOne(ctx context.Context, accountID uuid.UUID, amount domain.Money, txType domain.TransactionType) (*domain.Transaction, error) {
	var lastErr error
	for range s.maxAttempts {
		rec, err := s.attemptOne(ctx, accountID, amount, txType)
		if err == nil {
			return rec, nil
		}
		if !transient(err) {
			return nil, err
		}
		lastErr = err
	}

	logging.FromContext(ctx).Warn("retries exhausted",
		"account_id", accountID,
		"operation", txType,
		"attempts", s.maxAttempts,
		"last_error", lastErr,
	)
	return nil, &domain.ContentionError{AccountID: accountID}
}

// attemptOne runs one Validating -> Applying -> Recording pass for a
// deposit or withdrawal.
func (s *Service) attemptOne(ctx context.Context, accountID uuid.UUID, amount domain.Money, txType domain.TransactionType) (*domain.Transaction, error) {
	ctx, cancel := s.attemptCtx(ctx)
	defer cancel()

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := requireActive(account); err != nil {
		return nil, err
	}

	switch txType {
	case domain.TransactionTypeDeposit:
		account.Balance = account.Balance.Add(amount)
	case domain.TransactionTypeWithdraw:
		if err := requireSufficientFunds(account, amount); err != nil {
			return nil, err
		}
		account.Balance = account.Balance.Sub(amount)
	default:
		return nil, fmt.Errorf("attemptOne: unsupported transaction type %q", txType)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("attemptOne: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.accounts.CompareAndSave(ctx, tx, account, account.Version); err != nil {
		return nil, err
	}

	rec := &domain.Transaction{
		ID:         uuid.New(),
		Type:       txType,
		Amount:     amount,
		AccountID:  accountID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.ledger.Append(ctx, tx, rec); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("attemptOne: commit: %w", err)
	}
	return rec, nil
}
