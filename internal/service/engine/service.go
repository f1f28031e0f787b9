package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/camounitropico/banco-financiera/internal/domain"
)

type accountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	CompareAndSave(ctx context.Context, tx *sql.Tx, account *domain.Account, expectedVersion int64) error
}

type ledgerStore interface {
	Append(ctx context.Context, tx *sql.Tx, entry *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, int, error)
}

// Service is the transaction engine. It is stateless and safe for
// concurrent use; the shared mutable resource is the account row, and
// the discipline is optimistic: read, compute off the read value, save
// conditional on the version being unchanged, retry on conflict.
//
// Each attempt runs Applying and Recording inside one database
// transaction, so a balance change and its ledger record commit
// atomically. There is no balance mutation path that bypasses the
// ledger.
type Service struct {
	accounts     accountStore
	ledger       ledgerStore
	db           *sql.DB
	maxAttempts  int
	storeTimeout time.Duration
}

func NewService(accounts accountStore, ledger ledgerStore, db *sql.DB, maxAttempts int, storeTimeout time.Duration) *Service {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Service{
		accounts:     accounts,
		ledger:       ledger,
		db:           db,
		maxAttempts:  maxAttempts,
		storeTimeout: storeTimeout,
	}
}

func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	e, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetTransaction: %w", err)
	}
	return e, nil
}

func (s *Service) ListAccountTransactions(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, int, error) {
	entries, total, err := s.ledger.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListAccountTransactions: %w", err)
	}
	return entries, total, nil
}

// transient failures are retried by the engine itself: a version
// conflict means another writer won the race, and a store timeout is a
// races-with-slow-storage condition, not an invalid request.
func transient(err error) bool {
	return errors.Is(err, domain.ErrVersionConflict) || errors.Is(err, context.DeadlineExceeded)
}

// attemptCtx bounds every store round-trip of a single attempt. No
// operation blocks on storage indefinitely.
func (s *Service) attemptCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}
