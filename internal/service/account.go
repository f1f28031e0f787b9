package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/camounitropico/banco-financiera/internal/domain"
	"github.com/camounitropico/banco-financiera/internal/logging"
)

// Account numbers are prefixed by kind: 53 for savings, 33 for current,
// followed by eight random digits.
const (
	savingsNumberPrefix = "53"
	currentNumberPrefix = "33"

	maxNumberAttempts = 5
	maxStatusAttempts = 3
)

type accountRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus, expectedVersion int64) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ownerChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AccountService provisions and manages accounts. It never touches
// balances: those belong to the transaction engine.
type AccountService struct {
	accounts accountRepo
	owners   ownerChecker
}

func NewAccountService(accounts accountRepo, owners ownerChecker) *AccountService {
	return &AccountService{accounts: accounts, owners: owners}
}

func (s *AccountService) CreateAccount(ctx context.Context, ownerID uuid.UUID, kind domain.AccountKind, initialBalance domain.Money, taxExempt bool) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	if !kind.IsValid() {
		return nil, fmt.Errorf("CreateAccount: %q: %w", kind, domain.ErrInvalidAccountKind)
	}
	if kind == domain.AccountKindSavings && initialBalance.IsNegative() {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrNegativeBalance)
	}

	if _, err := s.owners.GetByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Kind:      kind,
		Balance:   initialBalance,
		Version:   1,
		TaxExempt: taxExempt,
		Status:    domain.AccountStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Generated numbers can collide with existing accounts; a collision
	// gets a fresh number, not an error.
	var err error
	for range maxNumberAttempts {
		account.AccountNumber, err = generateAccountNumber(kind)
		if err != nil {
			return nil, fmt.Errorf("CreateAccount: %w", err)
		}
		err = s.accounts.Create(ctx, account)
		if !errors.Is(err, domain.ErrAccountNumberTaken) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	log.Info("account created",
		"account_id", account.ID,
		"owner_id", ownerID,
		"kind", kind,
		"account_number", account.AccountNumber,
	)
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return account, nil
}

func (s *AccountService) ListOwnerAccounts(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	accounts, err := s.accounts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListOwnerAccounts: %w", err)
	}
	return accounts, nil
}

// UpdateStatus sets the account status. Status changes are not
// financial transactions: no ledger record is written. Version
// conflicts with concurrent balance writers are retried.
func (s *AccountService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus) (*domain.Account, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("UpdateStatus: %q: %w", status, domain.ErrInvalidStatus)
	}

	for range maxStatusAttempts {
		account, err := s.accounts.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("UpdateStatus: %w", err)
		}

		err = s.accounts.UpdateStatus(ctx, id, status, account.Version)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("UpdateStatus: %w", err)
		}

		account.Status = status
		account.Version++
		logging.FromContext(ctx).Info("account status updated",
			"account_id", id,
			"status", status,
		)
		return account, nil
	}
	return nil, fmt.Errorf("UpdateStatus: %w", &domain.ContentionError{AccountID: id})
}

// DeleteAccount removes an account once its balance is exactly zero.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}
	if err := account.CanDelete(); err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}

	logging.FromContext(ctx).Info("account deleted", "account_id", id)
	return nil
}

func generateAccountNumber(kind domain.AccountKind) (string, error) {
	prefix := currentNumberPrefix
	if kind == domain.AccountKindSavings {
		prefix = savingsNumberPrefix
	}

	digits := make([]byte, 8)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generateAccountNumber: %w", err)
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return prefix + string(digits), nil
}
