package seed

import (
	"context"
	"fmt"
	"loan-ledger/internal/domain/loan"
	"log/slog"
	"math/rand"

	"github.com/shopspring/decimal"
)

var sampleOwners = []string{
	"adaeze.okafor@example.com",
	"tunde.bakare@example.com",
	"ngozi.eze@example.com",
	"emeka.obi@example.com",
	"funke.adeyemi@example.com",
}

var sampleMethods = []string{loan.DefaultPaymentMethod, "Bank Transfer", "Card"}

// Ledger is the subset of the ledger used to generate sample data.
type Ledger interface {
	CreateLoan(ctx context.Context, req loan.CreateLoanRequest) (loan.CreateLoanResult, error)
	MakePayment(ctx context.Context, req loan.MakePaymentRequest) (loan.PaymentResult, error)
	GetLoans(ctx context.Context, filter loan.LoanFilter) ([]loan.Loan, error)
	Terms() loan.Terms
}

// Populate creates count sample loans with a few payments each. The same seed
// always yields the same amounts, purposes, durations and payments. A ledger
// that already holds loans is left untouched.
func Populate(ctx context.Context, ledger Ledger, count int, randomSeed int64, logger *slog.Logger) (int, error) {
	existing, err := ledger.GetLoans(ctx, loan.LoanFilter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		logger.InfoContext(ctx, "Ledger already has loans, skipping seed", slog.Int("loans", len(existing)))
		return 0, nil
	}

	terms := ledger.Terms()
	durations := terms.AvailableDurations
	if len(durations) == 0 {
		durations = []int{12}
	}
	purposes := terms.Purposes
	if len(purposes) == 0 {
		purposes = []string{"Personal"}
	}

	rng := rand.New(rand.NewSource(randomSeed))
	minAmount := terms.MinLoanAmount.IntPart()

	created := 0
	for i := 0; i < count; i++ {
		amount := minAmount + int64(rng.Intn(20))*25000
		res, err := ledger.CreateLoan(ctx, loan.CreateLoanRequest{
			Amount:   fmt.Sprint(amount),
			Duration: fmt.Sprint(durations[rng.Intn(len(durations))]),
			Purpose:  purposes[rng.Intn(len(purposes))],
			OwnerID:  sampleOwners[rng.Intn(len(sampleOwners))],
		})
		if err != nil {
			return created, fmt.Errorf("seed loan %d: %w", i+1, err)
		}
		created++

		payments := rng.Intn(4)
		installment := res.Loan.MonthlyPayment.Round(2)
		balance := res.Loan.RemainingBalance
		for p := 0; p < payments && balance.IsPositive(); p++ {
			amt := decimal.Min(installment, balance)
			_, err := ledger.MakePayment(ctx, loan.MakePaymentRequest{
				LoanID: res.Loan.ID,
				Amount: amt.StringFixed(2),
				Method: sampleMethods[rng.Intn(len(sampleMethods))],
			})
			if err != nil {
				return created, fmt.Errorf("seed payment for %s: %w", res.Loan.ID, err)
			}
			balance = balance.Sub(amt)
		}
	}

	logger.InfoContext(ctx, "Seeded sample loans", slog.Int("loans", created), slog.Int64("seed", randomSeed))
	return created, nil
}
