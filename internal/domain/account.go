package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID            uuid.UUID
	HolderName    string
	Balance       decimal.Decimal
	AccountNumber string
	CreatedAt     time.Time
}

// MaskAccountNumber hides all but the trailing four digits. Numbers too
// short to mask meaningfully collapse to a constant.
func MaskAccountNumber(accountNumber string) string {
	if len(accountNumber) < 4 {
		return "****"
	}
	return strings.Repeat("*", len(accountNumber)-4) + accountNumber[len(accountNumber)-4:]
}
