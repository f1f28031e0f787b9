package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/camounitropico/banco-financiera/internal/domain"
)

func SeedUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Status:    domain.UserStatusActive,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO users (id, email, name, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.Status, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func SeedAccount(t *testing.T, db *sql.DB, ownerID uuid.UUID, kind domain.AccountKind, balance string, status domain.AccountStatus) *domain.Account {
	t.Helper()

	now := time.Now().UTC()
	a := &domain.Account{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Kind:          kind,
		AccountNumber: fmt.Sprintf("53%08d", seq()),
		Balance:       domain.MustMoney(balance),
		Version:       1,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, owner_id, kind, account_number, balance, version, tax_exempt, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.OwnerID, a.Kind, a.AccountNumber, a.Balance, a.Version, a.TaxExempt, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s/%s: %v", ownerID, kind, err)
	}
	return a
}

var accountSeq int

func seq() int {
	accountSeq++
	return accountSeq
}

func GetBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) string {
	t.Helper()

	var balance domain.Money
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance.String()
}

func GetVersion(t *testing.T, db *sql.DB, accountID uuid.UUID) int64 {
	t.Helper()

	var version int64
	err := db.QueryRow(`SELECT version FROM accounts WHERE id = $1`, accountID).Scan(&version)
	if err != nil {
		t.Fatalf("get account version %s: %v", accountID, err)
	}
	return version
}

func CountTransactions(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for account %s: %v", accountID, err)
	}
	return count
}
