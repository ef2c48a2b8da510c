package dto

import (
	"encoding/json"
	"errors"
	"loan-ledger/internal/domain/customer"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/pkg/apperrors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericStringUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    NumericString
		wantErr bool
	}{
		{name: "number", input: `{"amount":200000}`, want: "200000"},
		{name: "decimal number", input: `{"amount":1500.5}`, want: "1500.5"},
		{name: "string with separators", input: `{"amount":" 200,000 "}`, want: "200,000"},
		{name: "null", input: `{"amount":null}`, want: ""},
		{name: "missing", input: `{}`, want: ""},
		{name: "boolean", input: `{"amount":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MakePaymentRequest
			err := json.Unmarshal([]byte(tt.input), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Amount)
		})
	}
}

func TestCreateLoanRequestToDomain(t *testing.T) {
	var req CreateLoanRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"200,000","duration":12,"purpose":"Business"}`), &req))

	got := req.ToDomain("ada@example.com", "key-1")
	assert.Equal(t, loan.CreateLoanRequest{
		Amount:         "200,000",
		Duration:       "12",
		Purpose:        "Business",
		OwnerID:        "ada@example.com",
		IdempotencyKey: "key-1",
	}, got)
}

func TestRequestValidation(t *testing.T) {
	assert.EqualError(t, MakePaymentRequest{}.Validate(), "missing payment amount")
	assert.NoError(t, MakePaymentRequest{Amount: "10"}.Validate())
	assert.EqualError(t, UpdateStatusRequest{Status: " "}.Validate(), "missing status parameter")
	assert.EqualError(t, CalculateLoanRequest{Amount: "100000"}.Validate(), "missing required calculation parameters")
	assert.EqualError(t, DebitRequest{Amount: "10"}.Validate(), "missing transaction type")
	assert.EqualError(t, DebitRequest{Type: "Buy Airtime"}.Validate(), "missing transaction amount")
}

func TestNewLoanResponse(t *testing.T) {
	created := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	l := loan.Loan{
		ID:               "LOAN-1",
		OwnerID:          "ada@example.com",
		Principal:        decimal.NewFromInt(200000),
		InterestRate:     15,
		DurationMonths:   12,
		Purpose:          "Business",
		MonthlyPayment:   decimal.RequireFromString("18051.6624"),
		TotalRepayment:   decimal.RequireFromString("216619.9488"),
		RemainingBalance: decimal.RequireFromString("150000"),
		Status:           loan.StatusActive,
		Payments: []loan.Payment{
			{ID: "PAY-1", LoanID: "LOAN-1", Amount: decimal.NewFromInt(50000), Method: "Bank Transfer", CreatedAt: created},
		},
		CreatedAt: created,
		DueDate:   created.AddDate(0, 12, 0),
		UpdatedAt: created,
	}

	resp := NewLoanResponse(l)
	assert.Equal(t, "LOAN-1", resp.ID)
	assert.Equal(t, "ada@example.com", resp.UserID)
	assert.Equal(t, "200000.00", resp.Amount)
	assert.Equal(t, "18051.66", resp.MonthlyPayment)
	assert.Equal(t, "216619.95", resp.TotalRepayment)
	assert.Equal(t, "150000.00", resp.RemainingBalance)
	assert.Equal(t, "50000.00", resp.TotalPaid)
	assert.Equal(t, "Active", resp.Status)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "50000.00", resp.Payments[0].Amount)

	empty := NewLoanResponse(loan.Loan{})
	assert.NotNil(t, empty.Payments)
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"payments":[]`)
}

func TestNewScheduleResponse(t *testing.T) {
	entries := []loan.ScheduleEntry{{
		Month:         1,
		DueDate:       time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		Payment:       decimal.RequireFromString("18051.66"),
		PrincipalPart: decimal.RequireFromString("15551.66"),
		InterestPart:  decimal.RequireFromString("2500"),
		BalanceAfter:  decimal.RequireFromString("184448.34"),
	}}

	resp := NewScheduleResponse(entries)
	require.Len(t, resp, 1)
	assert.Equal(t, ScheduleEntryResponse{
		Month:         1,
		DueDate:       "2025-02-15",
		Payment:       "18051.66",
		PrincipalPart: "15551.66",
		InterestPart:  "2500.00",
		BalanceAfter:  "184448.34",
	}, resp[0])
}

func TestEligibilityRequestToDomain(t *testing.T) {
	t.Run("empty request uses defaults", func(t *testing.T) {
		profile, err := EligibilityRequest{}.ToDomain()
		require.NoError(t, err)
		assert.Nil(t, profile.Income)
		assert.Nil(t, profile.CreditScore)
		assert.Nil(t, profile.AccountAgeDays)
	})

	t.Run("parses provided fields", func(t *testing.T) {
		profile, err := EligibilityRequest{
			Income:           "750,000",
			CreditScore:      "810",
			EmploymentStatus: " Self-Employed ",
			ExistingDebts:    "0",
			AccountAgeDays:   "90",
		}.ToDomain()
		require.NoError(t, err)
		require.NotNil(t, profile.Income)
		assert.True(t, profile.Income.Equal(decimal.NewFromInt(750000)))
		assert.Equal(t, 810, *profile.CreditScore)
		assert.Equal(t, 90, *profile.AccountAgeDays)
		assert.Equal(t, "Self-Employed", profile.EmploymentStatus)
	})

	t.Run("rejects non numeric values", func(t *testing.T) {
		_, err := EligibilityRequest{CreditScore: "excellent"}.ToDomain()
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))

		var vErr *apperrors.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "creditScore", vErr.Field)
	})
}

func TestNewCustomerResponse(t *testing.T) {
	resp := NewCustomerResponse(customer.Customer{
		Email:         "ada@example.com",
		ActiveLoans:   1,
		TotalBorrowed: decimal.NewFromInt(300000),
		Outstanding:   decimal.RequireFromString("120000.5"),
	})
	assert.Equal(t, "300000.00", resp.TotalBorrowed)
	assert.Equal(t, "120000.50", resp.Outstanding)
	assert.Equal(t, []string{}, resp.LoanIDs)
}
