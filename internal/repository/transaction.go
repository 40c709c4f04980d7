package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MOzil-10/banking-api/internal/domain"
)

const transactionColumns = `id, account_id, amount, transaction_type, created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, amount, transaction_type, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.AccountID, t.Amount, t.Type, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ListByAccountID returns the account's transactions oldest first, so
// replaying them from a zero balance reproduces the current balance.
func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE account_id = $1 ORDER BY created_at, id`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccountID: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.Type, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListByAccountID: scan: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByAccountID: rows: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) DeleteByAccountID(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transactions WHERE account_id = $1`, accountID,
	); err != nil {
		return fmt.Errorf("DeleteByAccountID: %w", err)
	}
	return nil
}
