package loan

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal int64
		rate      float64
		months    int
		want      string
	}{
		{"standard 12 month loan", 200000, 15, 12, "18051.66"},
		{"smaller principal", 100000, 15, 12, "9025.83"},
		{"two year loan", 500000, 10, 24, "23072.46"},
		{"zero rate splits evenly", 120000, 0, 12, "10000.00"},
		{"zero months", 120000, 15, 0, "0.00"},
		{"negative rate", 120000, -5, 12, "0.00"},
		{"NaN rate", 120000, math.NaN(), 12, "0.00"},
		{"infinite rate", 120000, math.Inf(1), 12, "0.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateMonthlyPayment(decimal.NewFromInt(tc.principal), tc.rate, tc.months)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestCalculateMonthlyPayment_PrincipalBeyondFloatRange(t *testing.T) {
	principal := decimal.RequireFromString("1e400")

	var got decimal.Decimal
	require.NotPanics(t, func() { got = CalculateMonthlyPayment(principal, 15, 12) })
	assert.True(t, got.GreaterThan(principal.Div(decimal.NewFromInt(12))))
	assert.True(t, got.LessThan(principal))
}

func TestNewQuote(t *testing.T) {
	q := NewQuote(decimal.NewFromInt(200000), 15, 12)

	assert.Equal(t, "18051.66", q.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "216619.95", q.TotalRepayment.StringFixed(2))
	assert.Equal(t, "16619.95", q.TotalInterest.StringFixed(2))
	assert.Equal(t, 12, q.DurationMonths)
	assert.True(t, q.LoanAmount.Equal(decimal.NewFromInt(200000)))
}

func TestGenerateSchedule(t *testing.T) {
	created := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	principal := decimal.NewFromInt(200000)
	l := Loan{
		Principal:      principal,
		InterestRate:   15,
		DurationMonths: 12,
		MonthlyPayment: CalculateMonthlyPayment(principal, 15, 12),
		CreatedAt:      created,
	}

	schedule := GenerateSchedule(l)
	require.Len(t, schedule, 12)

	totalPrincipal := decimal.Zero
	for i, entry := range schedule {
		assert.Equal(t, i+1, entry.Month)
		assert.Equal(t, created.AddDate(0, i+1, 0), entry.DueDate)
		assert.True(t, entry.Payment.Equal(entry.PrincipalPart.Add(entry.InterestPart)), "month %d", entry.Month)
		totalPrincipal = totalPrincipal.Add(entry.PrincipalPart)
	}

	assert.True(t, totalPrincipal.Equal(principal), "principal parts sum to %s", totalPrincipal)
	assert.True(t, schedule[11].BalanceAfter.IsZero())
	assert.Equal(t, "2500.00", schedule[0].InterestPart.StringFixed(2))
	assert.Equal(t, "18051.66", schedule[0].Payment.StringFixed(2))
}

func TestGenerateSchedule_ZeroRate(t *testing.T) {
	principal := decimal.NewFromInt(100000)
	l := Loan{
		Principal:      principal,
		DurationMonths: 3,
		MonthlyPayment: CalculateMonthlyPayment(principal, 0, 3),
	}

	schedule := GenerateSchedule(l)
	require.Len(t, schedule, 3)
	assert.Equal(t, "33333.33", schedule[0].PrincipalPart.StringFixed(2))
	assert.Equal(t, "33333.34", schedule[2].PrincipalPart.StringFixed(2))
	for _, entry := range schedule {
		assert.True(t, entry.InterestPart.IsZero())
	}
}

func TestGenerateSchedule_NoDuration(t *testing.T) {
	assert.Nil(t, GenerateSchedule(Loan{}))
}
