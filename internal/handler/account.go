package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MOzil-10/banking-api/internal/domain"
	"github.com/MOzil-10/banking-api/internal/logging"
)

type ledgerService interface {
	CreateAccount(ctx context.Context, holderName string) (*domain.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	Deposit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Account, error)
	Withdraw(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domain.Account, error)
	CloseAccount(ctx context.Context, id uuid.UUID) error
	TransactionHistory(ctx context.Context, id uuid.UUID) ([]domain.Transaction, error)
}

type AccountHandler struct {
	ledger ledgerService
}

func NewAccountHandler(ledger ledgerService) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

type createAccountRequest struct {
	AccountHolderName string `json:"accountHolderName"`
}

type transactionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type accountDTO struct {
	ID                uuid.UUID       `json:"id"`
	AccountHolderName string          `json:"accountHolderName"`
	Balance           decimal.Decimal `json:"balance"`
	AccountNumber     string          `json:"accountNumber"`
}

type transactionDTO struct {
	ID              uuid.UUID       `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transactionType"`
	Timestamp       time.Time       `json:"timestamp"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:                a.ID,
		AccountHolderName: a.HolderName,
		Balance:           a.Balance,
		AccountNumber:     domain.MaskAccountNumber(a.AccountNumber),
	}
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	return transactionDTO{
		ID:              t.ID,
		Amount:          t.Amount,
		TransactionType: string(t.Type),
		Timestamp:       t.CreatedAt,
	}
}

func accountIDFromPath(r *http.Request) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, ErrResourceNotFound
	}
	return id, nil
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}

	account, err := h.ledger.CreateAccount(r.Context(), req.AccountHolderName)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr)
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.applyTransaction(w, r, h.ledger.Deposit)
}

func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyTransaction(w, r, h.ledger.Withdraw)
}

func (h *AccountHandler) applyTransaction(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID, decimal.Decimal) (*domain.Account, error)) {
	id, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest)
		return
	}

	account, err := op(r.Context(), id, req.Amount)
	if err != nil {
		logging.FromContext(r.Context()).Error("transaction failed", "account_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.ledger.ListAccounts(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}

	RespondJSON(w, http.StatusOK, dtos)
}

func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr)
		return
	}

	transactions, err := h.ledger.TransactionHistory(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(transactions))
	for i := range transactions {
		dtos[i] = toTransactionDTO(&transactions[i])
	}

	RespondJSON(w, http.StatusOK, dtos)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := accountIDFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr)
		return
	}

	if err := h.ledger.CloseAccount(r.Context(), id); err != nil {
		logging.FromContext(r.Context()).Error("failed to close account", "account_id", id, "error", err)
		RespondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
