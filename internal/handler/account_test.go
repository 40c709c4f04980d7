package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOzil-10/banking-api/internal/domain"
)

type stubLedger struct {
	account      *domain.Account
	accounts     []domain.Account
	transactions []domain.Transaction
	err          error

	gotHolderName string
	gotAmount     decimal.Decimal
	closedID      uuid.UUID
}

func (s *stubLedger) CreateAccount(_ context.Context, holderName string) (*domain.Account, error) {
	s.gotHolderName = holderName
	return s.account, s.err
}

func (s *stubLedger) GetAccount(_ context.Context, _ uuid.UUID) (*domain.Account, error) {
	return s.account, s.err
}

func (s *stubLedger) ListAccounts(_ context.Context) ([]domain.Account, error) {
	return s.accounts, s.err
}

func (s *stubLedger) Deposit(_ context.Context, _ uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	s.gotAmount = amount
	return s.account, s.err
}

func (s *stubLedger) Withdraw(_ context.Context, _ uuid.UUID, amount decimal.Decimal) (*domain.Account, error) {
	s.gotAmount = amount
	return s.account, s.err
}

func (s *stubLedger) CloseAccount(_ context.Context, id uuid.UUID) error {
	s.closedID = id
	return s.err
}

func (s *stubLedger) TransactionHistory(_ context.Context, _ uuid.UUID) ([]domain.Transaction, error) {
	return s.transactions, s.err
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:            uuid.New(),
		HolderName:    "Alice",
		Balance:       decimal.RequireFromString("150.01"),
		AccountNumber: "123456789012",
		CreatedAt:     time.Now().UTC(),
	}
}

func newRequest(method, target, body string, pathID string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if pathID != "" {
		r.SetPathValue("id", pathID)
	}
	return r
}

func decodeAccount(t *testing.T, w *httptest.ResponseRecorder) accountDTO {
	t.Helper()
	var dto accountDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	return dto
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestCreateAccount(t *testing.T) {
	stub := &stubLedger{account: testAccount()}
	h := NewAccountHandler(stub)

	w := httptest.NewRecorder()
	h.Create(w, newRequest(http.MethodPost, "/api/account", `{"accountHolderName":"Alice"}`, ""))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Alice", stub.gotHolderName)

	dto := decodeAccount(t, w)
	assert.Equal(t, "Alice", dto.AccountHolderName)
	assert.Equal(t, "********9012", dto.AccountNumber)
	assert.True(t, dto.Balance.Equal(decimal.RequireFromString("150.01")))
}

func TestCreateAccountMalformedBody(t *testing.T) {
	h := NewAccountHandler(&stubLedger{})

	w := httptest.NewRecorder()
	h.Create(w, newRequest(http.MethodPost, "/api/account", `{"accountHolderName":`, ""))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Code)
}

func TestCreateAccountBlankHolderName(t *testing.T) {
	stub := &stubLedger{err: domain.ErrInvalidHolderName}
	h := NewAccountHandler(stub)

	w := httptest.NewRecorder()
	h.Create(w, newRequest(http.MethodPost, "/api/account", `{"accountHolderName":""}`, ""))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, w).Code)
}

func TestGetByIDMalformedUUID(t *testing.T) {
	h := NewAccountHandler(&stubLedger{})

	w := httptest.NewRecorder()
	h.GetByID(w, newRequest(http.MethodGet, "/api/account/nope", "", "nope"))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RESOURCE_NOT_FOUND", decodeError(t, w).Code)
}

func TestGetByIDUnknownAccount(t *testing.T) {
	h := NewAccountHandler(&stubLedger{err: domain.ErrNotFound})

	w := httptest.NewRecorder()
	h.GetByID(w, newRequest(http.MethodGet, "/api/account/x", "", uuid.NewString()))

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDepositErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "invalid amount", serviceErr: domain.ErrInvalidAmount, wantStatus: http.StatusBadRequest, wantCode: "INVALID_AMOUNT"},
		{name: "unknown account", serviceErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "RESOURCE_NOT_FOUND"},
		{name: "duplicate account number", serviceErr: domain.ErrDuplicateAccountNumber, wantStatus: http.StatusConflict, wantCode: "DUPLICATE_ACCOUNT_NUMBER"},
		{name: "encryption failure", serviceErr: domain.ErrEncryption, wantStatus: http.StatusInternalServerError, wantCode: "ENCRYPTION_FAILURE"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAccountHandler(&stubLedger{err: tc.serviceErr})

			w := httptest.NewRecorder()
			h.Deposit(w, newRequest(http.MethodPut, "/api/account/x/deposit", `{"amount":10}`, uuid.NewString()))

			require.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	h := NewAccountHandler(&stubLedger{err: domain.ErrInsufficientFunds})

	w := httptest.NewRecorder()
	h.Withdraw(w, newRequest(http.MethodPut, "/api/account/x/withdraw", `{"amount":200}`, uuid.NewString()))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", decodeError(t, w).Code)
}

func TestDepositDecodesDecimalAmount(t *testing.T) {
	stub := &stubLedger{account: testAccount()}
	h := NewAccountHandler(stub)

	w := httptest.NewRecorder()
	h.Deposit(w, newRequest(http.MethodPut, "/api/account/x/deposit", `{"amount":100.005}`, uuid.NewString()))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, stub.gotAmount.Equal(decimal.RequireFromString("100.005")),
		"amount: got %s", stub.gotAmount)
}

func TestListAccounts(t *testing.T) {
	a := testAccount()
	h := NewAccountHandler(&stubLedger{accounts: []domain.Account{*a}})

	w := httptest.NewRecorder()
	h.List(w, newRequest(http.MethodGet, "/api/account", "", ""))

	require.Equal(t, http.StatusOK, w.Code)

	var dtos []accountDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, "********9012", dtos[0].AccountNumber)
}

func TestTransactionsEmptyHistoryIsOK(t *testing.T) {
	h := NewAccountHandler(&stubLedger{})

	w := httptest.NewRecorder()
	h.Transactions(w, newRequest(http.MethodGet, "/api/account/x/transactions", "", uuid.NewString()))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestDelete(t *testing.T) {
	stub := &stubLedger{}
	h := NewAccountHandler(stub)
	id := uuid.New()

	w := httptest.NewRecorder()
	h.Delete(w, newRequest(http.MethodDelete, "/api/account/x", "", id.String()))

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, id, stub.closedID)
	assert.Empty(t, w.Body.String())
}

func TestDeleteUnknownAccount(t *testing.T) {
	h := NewAccountHandler(&stubLedger{err: domain.ErrNotFound})

	w := httptest.NewRecorder()
	h.Delete(w, newRequest(http.MethodDelete, "/api/account/x", "", uuid.NewString()))

	require.Equal(t, http.StatusNotFound, w.Code)
}
