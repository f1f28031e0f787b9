package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeTransfer TransactionType = "transfer"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdraw, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction is one immutable ledger record. For transfers a single
// record is written, tagged with the source account. The ledger is
// append-only: no update or delete path exists anywhere in this module.
type Transaction struct {
	ID         uuid.UUID
	Type       TransactionType
	Amount     Money
	AccountID  uuid.UUID
	OccurredAt time.Time
}
