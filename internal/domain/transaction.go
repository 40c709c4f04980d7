package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
)

type Transaction struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Amount    decimal.Decimal
	Type      TransactionType
	CreatedAt time.Time
}

// SignedAmount is the transaction's effect on the account balance:
// positive for deposits, negative for withdrawals.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeWithdraw {
		return t.Amount.Neg()
	}
	return t.Amount
}
