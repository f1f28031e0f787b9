package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/camounitropico/banco-financiera/internal/domain"
)

const accountColumns = `id, owner_id, kind, account_number, balance, version,
	tax_exempt, status, created_at, updated_at`

// AccountRepository is the durable account store. Balance and status
// writes are conditional on the version the caller observed; a stale
// version yields domain.ErrVersionConflict and never a lost update.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", &domain.AccountNotFoundError{AccountID: id})
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE owner_id = $1 ORDER BY created_at`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByOwner: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByOwner: rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (
			id, owner_id, kind, account_number, balance, version,
			tax_exempt, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.ID, account.OwnerID, account.Kind, account.AccountNumber,
		account.Balance, account.Version,
		account.TaxExempt, account.Status, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("Create: %w", domain.ErrAccountNumberTaken)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// CompareAndSave persists the account's balance and status inside tx,
// conditional on expectedVersion being the stored version. On success
// the account's Version and UpdatedAt reflect the saved row.
func (r *AccountRepository) CompareAndSave(ctx context.Context, tx *sql.Tx, account *domain.Account, expectedVersion int64) error {
	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, status = $2, version = $3, updated_at = $4
		 WHERE id = $5 AND version = $6`,
		account.Balance, account.Status, expectedVersion+1, now,
		account.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("CompareAndSave: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("CompareAndSave: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("CompareAndSave: account %s at version %d: %w",
			account.ID, expectedVersion, domain.ErrVersionConflict)
	}

	account.Version = expectedVersion + 1
	account.UpdatedAt = now
	return nil
}

// UpdateStatus is the status-management write path. Same version
// discipline as CompareAndSave, but self-contained: status changes are
// single-row and need no surrounding transaction.
func (r *AccountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AccountStatus, expectedVersion int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET status = $1, version = $2, updated_at = $3
		 WHERE id = $4 AND version = $5`,
		status, expectedVersion+1, time.Now().UTC(), id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateStatus: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateStatus: account %s at version %d: %w", id, expectedVersion, domain.ErrVersionConflict)
	}
	return nil
}

// Delete removes an account row. The zero-balance precondition is
// checked by the service through Account.CanDelete before calling this.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", &domain.AccountNotFoundError{AccountID: id})
	}
	return nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var a domain.Account
	err := s.Scan(
		&a.ID, &a.OwnerID, &a.Kind, &a.AccountNumber,
		&a.Balance, &a.Version,
		&a.TaxExempt, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
