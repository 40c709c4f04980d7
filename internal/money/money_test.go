package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOzil-10/banking-api/internal/domain"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{name: "positive", amount: "0.01"},
		{name: "large positive", amount: "99999999.99"},
		{name: "zero", amount: "0", wantErr: domain.ErrInvalidAmount},
		{name: "negative", amount: "-10", wantErr: domain.ErrInvalidAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePositive(dec(t, tc.amount))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{name: "already two decimals", amount: "12.34", want: "12.34"},
		{name: "half rounds up", amount: "0.005", want: "0.01"},
		{name: "below half collapses to zero", amount: "0.004", want: "0.00"},
		{name: "whole number", amount: "50", want: "50.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Round(dec(t, tc.amount))
			assert.True(t, got.Equal(dec(t, tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		want    string
	}{
		{name: "whole amounts", balance: "100", amount: "50", want: "150"},
		{name: "two decimal places preserved", balance: "0.10", amount: "0.25", want: "0.35"},
		{name: "half rounds up", balance: "0", amount: "100.005", want: "100.01"},
		{name: "below half rounds down", balance: "0", amount: "100.004", want: "100.00"},
		{name: "above half rounds up", balance: "0", amount: "100.006", want: "100.01"},
		{name: "sum crosses rounding boundary", balance: "0.005", amount: "0.005", want: "0.01"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Add(dec(t, tc.balance), dec(t, tc.amount))
			assert.True(t, got.Equal(dec(t, tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestSub(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		want    string
		wantErr error
	}{
		{name: "partial withdrawal", balance: "150.01", amount: "50", want: "100.01"},
		{name: "withdraw exact balance", balance: "150.01", amount: "150.01", want: "0.00"},
		{name: "half rounds up", balance: "10.015", amount: "10", want: "0.02"},
		{name: "amount exceeds balance", balance: "100", amount: "100.01", wantErr: domain.ErrInsufficientFunds},
		{name: "any amount exceeds zero balance", balance: "0", amount: "0.01", wantErr: domain.ErrInsufficientFunds},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Sub(dec(t, tc.balance), dec(t, tc.amount))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(t, tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}
