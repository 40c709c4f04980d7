package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/MOzil-10/banking-api/internal/crypto"
	"github.com/MOzil-10/banking-api/internal/domain"
)

const accountColumns = `id, holder_name, balance, account_number, created_at`

type scanner interface {
	Scan(dest ...any) error
}

// AccountRepository persists accounts. Account numbers are encrypted before
// they hit the database and decrypted on the way out; the unique constraint
// on the account_number column therefore applies to ciphertext, which the
// deterministic codec keeps equivalent to plaintext uniqueness.
type AccountRepository struct {
	db    *sql.DB
	codec crypto.Codec
}

func NewAccountRepository(db *sql.DB, codec crypto.Codec) *AccountRepository {
	return &AccountRepository{db: db, codec: codec}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	encrypted, err := r.codec.Encrypt(account.AccountNumber)
	if err != nil {
		return fmt.Errorf("Create: %w: %w", domain.ErrEncryption, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, holder_name, balance, account_number, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		account.ID, account.HolderName, account.Balance, encrypted, account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("Create: %w", domain.ErrDuplicateAccountNumber)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := r.scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := r.scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := r.scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1 WHERE id = $2`, newBalance, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *AccountRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	encrypted, err := r.codec.Encrypt(accountNumber)
	if err != nil {
		return false, fmt.Errorf("ExistsByAccountNumber: %w: %w", domain.ErrEncryption, err)
	}

	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`, encrypted,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ExistsByAccountNumber: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *AccountRepository) scanAccount(s scanner) (*domain.Account, error) {
	var (
		a         domain.Account
		encrypted string
	)
	if err := s.Scan(&a.ID, &a.HolderName, &a.Balance, &encrypted, &a.CreatedAt); err != nil {
		return nil, err
	}

	number, err := r.codec.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("scanAccount: %w: %w", domain.ErrEncryption, err)
	}
	a.AccountNumber = number
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
