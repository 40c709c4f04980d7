package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MOzil-10/banking-api/internal/crypto"
	"github.com/MOzil-10/banking-api/internal/domain"
)

// TestEncryptionKey is the fixed 16-byte key used across integration tests.
var TestEncryptionKey = []byte("unit-test-key-16")

func NewTestCodec(t *testing.T) *crypto.AESCodec {
	t.Helper()

	codec, err := crypto.NewAESCodec(TestEncryptionKey)
	if err != nil {
		t.Fatalf("create test codec: %v", err)
	}
	return codec
}

func SeedAccount(t *testing.T, db *sql.DB, codec crypto.Codec, holderName, accountNumber, balance string) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:            uuid.New(),
		HolderName:    holderName,
		Balance:       decimal.RequireFromString(balance),
		AccountNumber: accountNumber,
		CreatedAt:     time.Now().UTC(),
	}

	encrypted, err := codec.Encrypt(accountNumber)
	if err != nil {
		t.Fatalf("encrypt account number: %v", err)
	}

	_, err = db.Exec(
		`INSERT INTO accounts (id, holder_name, balance, account_number, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.HolderName, a.Balance, encrypted, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s: %v", holderName, err)
	}
	return a
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %s: %v", accountID, err)
	}
	return balance
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

func CountAccounts(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		t.Fatalf("count accounts: %v", err)
	}
	return count
}
