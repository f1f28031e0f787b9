package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/camounitropico/banco-financiera/internal/domain"
	"github.com/camounitropico/banco-financiera/internal/logging"
)

// Transfer moves amount from one active account to another. Debit and
// credit commit in the same database transaction: there is no state in
// which one account is updated and the other is not, so no compensation
// path exists. A single transfer record is appended, tagged with the
// source account.
func (s *Service) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount domain.Money) (*domain.Transaction, error) {
	if err := requirePositiveAmount(amount); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}
	// Rejected before either account is loaded.
	if err := requireDistinctAccounts(fromID, toID); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	var lastErr error
	for range s.maxAttempts {
		rec, err := s.attemptTransfer(ctx, fromID, toID, amount)
		if err == nil {
			logging.FromContext(ctx).Info("transfer committed",
				"transaction_id", rec.ID,
				"from_account_id", fromID,
				"to_account_id", toID,
				"amount", amount.String(),
			)
			return rec, nil
		}
		if !transient(err) {
			return nil, fmt.Errorf("Transfer: %w", err)
		}
		lastErr = err
	}

	logging.FromContext(ctx).Warn("retries exhausted",
		"from_account_id", fromID,
		"to_account_id", toID,
		"operation", domain.TransactionTypeTransfer,
		"attempts", s.maxAttempts,
		"last_error", lastErr,
	)
	return nil, fmt.Errorf("Transfer: %w", &domain.ContentionError{AccountID: fromID})
}

func (s *Service) attemptTransfer(ctx context.Context, fromID, toID uuid.UUID, amount domain.Money) (*domain.Transaction, error) {
	ctx, cancel := s.attemptCtx(ctx)
	defer cancel()

	from, err := s.accounts.GetByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.accounts.GetByID(ctx, toID)
	if err != nil {
		return nil, err
	}

	if err := requireActive(from); err != nil {
		return nil, err
	}
	if err := requireActive(to); err != nil {
		return nil, err
	}
	if err := requireSufficientFunds(from, amount); err != nil {
		return nil, err
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("attemptTransfer: begin tx: %w", err)
	}
	defer tx.Rollback()

	// Updates run in ascending account-id order regardless of transfer
	// direction, so concurrent opposite transfers never take the two row
	// locks in conflicting orders.
	first, second := from, to
	if second.ID.String() < first.ID.String() {
		first, second = second, first
	}

	if err := s.accounts.CompareAndSave(ctx, tx, first, first.Version); err != nil {
		return nil, err
	}
	if err := s.accounts.CompareAndSave(ctx, tx, second, second.Version); err != nil {
		return nil, err
	}

	rec := &domain.Transaction{
		ID:         uuid.New(),
		Type:       domain.TransactionTypeTransfer,
		Amount:     amount,
		AccountID:  fromID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.ledger.Append(ctx, tx, rec); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("attemptTransfer: commit: %w", err)
	}
	return rec, nil
}
