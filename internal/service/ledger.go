package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MOzil-10/banking-api/internal/domain"
	"github.com/MOzil-10/banking-api/internal/logging"
	"github.com/MOzil-10/banking-api/internal/money"
)

type accountRepo interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal) error
	Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
	ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
	DeleteByAccountID(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) error
}

type numberGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// LedgerService owns the account lifecycle: creation with a unique account
// number, balance mutation through deposits and withdrawals, and closure.
// Each balance mutation and its transaction record commit atomically in one
// database transaction; row locks on the account serialize concurrent
// mutations of the same account.
type LedgerService struct {
	accounts     accountRepo
	transactions transactionRepo
	generator    numberGenerator
	db           *sql.DB
}

func NewLedgerService(accounts accountRepo, transactions transactionRepo, generator numberGenerator, db *sql.DB) *LedgerService {
	return &LedgerService{
		accounts:     accounts,
		transactions: transactions,
		generator:    generator,
		db:           db,
	}
}

func (s *LedgerService) CreateAccount(ctx context.Context, holderName string) (*domain.Account, error) {
	log := logging.FromContext(ctx)

	name := strings.TrimSpace(holderName)
	if name == "" {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrInvalidHolderName)
	}

	// The generator's pre-check is racy under concurrent creation, so a
	// unique-constraint hit on insert regenerates the number instead of
	// failing the request.
	var lastErr error
	for attempt := 0; attempt < maxGenerationAttempts; attempt++ {
		number, err := s.generator.Generate(ctx)
		if err != nil {
			return nil, fmt.Errorf("CreateAccount: %w", err)
		}

		account := &domain.Account{
			ID:            uuid.New(),
			HolderName:    name,
			Balance:       decimal.Zero,
			AccountNumber: number,
			CreatedAt:     time.Now().UTC(),
		}

		err = s.accounts.Create(ctx, account)
		if err == nil {
			log.Info("account created", "account_id", account.ID, "holder_name", name)
			return account, nil
		}
		if !errors.Is(err, domain.ErrDuplicateAccountNumber) {
			return nil, fmt.Errorf("CreateAccount: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("CreateAccount: %w", lastErr)
}

func (s *LedgerService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return account, nil
}

func (s *LedgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	return accounts, nil
}

func (s *LedgerService) Deposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	account, err := s.applyTransaction(ctx, id, amount, domain.TransactionTypeDeposit)
	if err != nil {
		return nil, fmt.Errorf("Deposit: %w", err)
	}

	logging.FromContext(ctx).Info("deposit completed",
		"account_id", id,
		"amount", amount.String(),
		"balance", account.Balance.String(),
	)
	return account, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	account, err := s.applyTransaction(ctx, id, amount, domain.TransactionTypeWithdraw)
	if err != nil {
		return nil, fmt.Errorf("Withdraw: %w", err)
	}

	logging.FromContext(ctx).Info("withdrawal completed",
		"account_id", id,
		"amount", amount.String(),
		"balance", account.Balance.String(),
	)
	return account, nil
}

// applyTransaction mutates the balance and records the transaction as one
// unit: both are committed or both are rolled back.
func (s *LedgerService) applyTransaction(ctx context.Context, id uuid.UUID, amount decimal.Decimal, txType domain.TransactionType) (*domain.Account, error) {
	if err := money.ValidatePositive(amount); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("applyTransaction: begin tx: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("applyTransaction: %w", err)
	}

	var newBalance decimal.Decimal
	switch txType {
	case domain.TransactionTypeWithdraw:
		newBalance, err = money.Sub(account.Balance, amount)
		if err != nil {
			return nil, fmt.Errorf("applyTransaction: %w", err)
		}
	default:
		newBalance = money.Add(account.Balance, amount)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, id, newBalance); err != nil {
		return nil, fmt.Errorf("applyTransaction: %w", err)
	}

	// The record stores the amount at the balance's two-decimal scale, which
	// is exactly the delta applied to the balance, so replaying the history
	// stays exact. An amount that rounds to zero leaves the balance
	// untouched and records nothing.
	recorded := money.Round(amount)
	if !recorded.IsZero() {
		record := &domain.Transaction{
			ID:        uuid.New(),
			AccountID: id,
			Amount:    recorded,
			Type:      txType,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.transactions.Create(ctx, tx, record); err != nil {
			return nil, fmt.Errorf("applyTransaction: record transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("applyTransaction: commit: %w", err)
	}

	account.Balance = newBalance
	return account, nil
}

// CloseAccount deletes the account together with its transaction history in
// a single database transaction.
func (s *LedgerService) CloseAccount(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("CloseAccount: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.accounts.GetForUpdate(ctx, tx, id); err != nil {
		return fmt.Errorf("CloseAccount: %w", err)
	}

	if err := s.transactions.DeleteByAccountID(ctx, tx, id); err != nil {
		return fmt.Errorf("CloseAccount: %w", err)
	}
	if err := s.accounts.Delete(ctx, tx, id); err != nil {
		return fmt.Errorf("CloseAccount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("CloseAccount: commit: %w", err)
	}

	logging.FromContext(ctx).Info("account closed", "account_id", id)
	return nil
}

// TransactionHistory returns the account's transactions oldest first. An
// existing account with no transactions yields an empty list; only an
// unknown account id is a not-found error.
func (s *LedgerService) TransactionHistory(ctx context.Context, id uuid.UUID) ([]domain.Transaction, error) {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("TransactionHistory: %w", err)
	}

	transactions, err := s.transactions.ListByAccountID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("TransactionHistory: %w", err)
	}
	return transactions, nil
}
