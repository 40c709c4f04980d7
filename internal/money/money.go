// Package money holds the fixed-point arithmetic policy for account
// balances. All amounts are base-10 decimals; results are rounded to two
// fractional digits using round-half-up so client-visible balances are
// deterministic.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MOzil-10/banking-api/internal/domain"
)

const scale = 2

// ValidatePositive rejects zero and negative amounts.
func ValidatePositive(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("ValidatePositive: %w", domain.ErrInvalidAmount)
	}
	return nil
}

// Round normalizes an amount to two decimal places, half-up.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(scale)
}

// Add returns balance + amount rounded to two decimal places, half-up.
func Add(balance, amount decimal.Decimal) decimal.Decimal {
	return balance.Add(amount).Round(scale)
}

// Sub returns balance - amount rounded to two decimal places, half-up.
// It fails without computing when amount exceeds the balance.
func Sub(balance, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.GreaterThan(balance) {
		return decimal.Zero, fmt.Errorf("Sub: %w", domain.ErrInsufficientFunds)
	}
	return balance.Sub(amount).Round(scale), nil
}
