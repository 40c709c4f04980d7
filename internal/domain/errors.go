package domain

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidHolderName      = errors.New("account holder name is required")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrDuplicateAccountNumber = errors.New("failed to generate a unique account number")
	ErrEncryption             = errors.New("account number encryption failed")
)
