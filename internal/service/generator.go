package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/MOzil-10/banking-api/internal/domain"
)

const (
	accountNumberLength   = 12
	maxGenerationAttempts = 5
)

type numberChecker interface {
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
}

// AccountNumberGenerator draws 12 random decimal digits from a secure
// source and retries a bounded number of times when the drawn number is
// already taken. The existence pre-check is not a reservation; the unique
// constraint on the account_number column is the backstop under concurrent
// creation.
type AccountNumberGenerator struct {
	rand     io.Reader
	accounts numberChecker
}

func NewAccountNumberGenerator(accounts numberChecker) *AccountNumberGenerator {
	return &AccountNumberGenerator{rand: rand.Reader, accounts: accounts}
}

func (g *AccountNumberGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxGenerationAttempts; attempt++ {
		number, err := g.randomNumber()
		if err != nil {
			return "", fmt.Errorf("Generate: %w", err)
		}

		exists, err := g.accounts.ExistsByAccountNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("Generate: %w", err)
		}
		if !exists {
			return number, nil
		}
	}
	return "", fmt.Errorf("Generate: gave up after %d attempts: %w", maxGenerationAttempts, domain.ErrDuplicateAccountNumber)
}

func (g *AccountNumberGenerator) randomNumber() (string, error) {
	digits := make([]byte, accountNumberLength)
	for i := range digits {
		n, err := rand.Int(g.rand, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("randomNumber: %w", err)
		}
		digits[i] = '0' + byte(n.Int64())
	}
	return string(digits), nil
}
