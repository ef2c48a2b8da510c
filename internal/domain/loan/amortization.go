package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// CalculateMonthlyPayment returns the level monthly installment for a fully amortizing
// loan. annualRatePercent is a percentage (15 means 15 %). A zero rate splits the
// principal evenly. Non-finite or negative rates yield zero.
//
// Only the payment factor r·(1+r)^n / ((1+r)^n − 1) is computed in floating point; it
// stays within (1/n, 1+r] so the principal itself never leaves decimal.
func CalculateMonthlyPayment(principal decimal.Decimal, annualRatePercent float64, months int) decimal.Decimal {
	if months <= 0 || math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) || annualRatePercent < 0 {
		return decimal.Zero
	}
	monthlyRate := annualRatePercent / 100 / 12
	if monthlyRate == 0 {
		return principal.Div(decimal.NewFromInt(int64(months)))
	}

	factor := monthlyRate / -math.Expm1(-float64(months)*math.Log1p(monthlyRate))
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return decimal.Zero
	}
	return principal.Mul(decimal.NewFromFloat(factor))
}

func CalculateTotalRepayment(principal decimal.Decimal, annualRatePercent float64, months int) decimal.Decimal {
	return CalculateMonthlyPayment(principal, annualRatePercent, months).Mul(decimal.NewFromInt(int64(months)))
}

type Quote struct {
	LoanAmount     decimal.Decimal
	InterestRate   float64
	DurationMonths int
	MonthlyPayment decimal.Decimal
	TotalRepayment decimal.Decimal
	TotalInterest  decimal.Decimal
}

func NewQuote(principal decimal.Decimal, annualRatePercent float64, months int) Quote {
	monthly := CalculateMonthlyPayment(principal, annualRatePercent, months)
	total := monthly.Mul(decimal.NewFromInt(int64(months)))
	return Quote{
		LoanAmount:     principal,
		InterestRate:   annualRatePercent,
		DurationMonths: months,
		MonthlyPayment: monthly,
		TotalRepayment: total,
		TotalInterest:  total.Sub(principal),
	}
}

type ScheduleEntry struct {
	Month         int
	DueDate       time.Time
	Payment       decimal.Decimal
	PrincipalPart decimal.Decimal
	InterestPart  decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// GenerateSchedule lays out the amortization table in cents. The final row absorbs
// rounding so the principal parts always sum to the loan principal.
func GenerateSchedule(l Loan) []ScheduleEntry {
	if l.DurationMonths <= 0 {
		return nil
	}

	monthly := l.MonthlyPayment.Round(2)
	monthlyRate := decimal.NewFromFloat(l.InterestRate / 100 / 12)
	balance := l.Principal
	schedule := make([]ScheduleEntry, 0, l.DurationMonths)

	for month := 1; month <= l.DurationMonths; month++ {
		interest := balance.Mul(monthlyRate).Round(2)
		principalPart := monthly.Sub(interest)
		if principalPart.IsNegative() {
			principalPart = decimal.Zero
		}

		payment := monthly
		if month == l.DurationMonths || principalPart.GreaterThan(balance) {
			principalPart = balance
			payment = principalPart.Add(interest)
		}
		balance = balance.Sub(principalPart)

		schedule = append(schedule, ScheduleEntry{
			Month:         month,
			DueDate:       l.CreatedAt.AddDate(0, month, 0),
			Payment:       payment,
			PrincipalPart: principalPart,
			InterestPart:  interest,
			BalanceAfter:  balance,
		})
	}

	return schedule
}
