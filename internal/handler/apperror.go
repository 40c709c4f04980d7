package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrHolderNameRequired = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Account holder name is required"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Account not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidAmount          = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInsufficientFunds      = &AppError{http.StatusBadRequest, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrDuplicateAccountNumber = &AppError{http.StatusConflict, "DUPLICATE_ACCOUNT_NUMBER", "Could not allocate a unique account number"}
	ErrEncryptionFailure      = &AppError{http.StatusInternalServerError, "ENCRYPTION_FAILURE", "Account data could not be processed"}
)
