package sqlite

import (
	"context"
	"errors"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/pkg/apperrors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

var fixedTime = time.Date(2025, 3, 1, 9, 0, 0, 123000, time.UTC)

func openTestRepo(t *testing.T, path string) *LedgerRepository {
	t.Helper()
	repo, err := NewLedgerRepository(path, testLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleMutation() loan.Mutation {
	l := loan.Loan{
		ID:               "LOAN-1",
		OwnerID:          "ada",
		Principal:        decimal.NewFromInt(200000),
		InterestRate:     15,
		DurationMonths:   12,
		Purpose:          "Business",
		MonthlyPayment:   decimal.RequireFromString("18051.662469031446"),
		TotalRepayment:   decimal.RequireFromString("216619.949628377352"),
		RemainingBalance: decimal.NewFromInt(200000),
		Status:           loan.StatusApproved,
		CreatedAt:        fixedTime,
		DueDate:          fixedTime.AddDate(0, 12, 0),
		UpdatedAt:        fixedTime,
	}
	tx := loan.Transaction{
		ID:          "TX-1",
		Type:        loan.TypeTakeLoan,
		Amount:      l.Principal,
		Description: "Take Loan (Business)",
		ReferenceID: l.ID,
		CreatedAt:   fixedTime,
	}
	return loan.Mutation{Loans: []loan.Loan{l}, Transactions: []loan.Transaction{tx}}
}

func TestNewLedgerRepository_EmptyPath(t *testing.T) {
	_, err := NewLedgerRepository("", testLogger)
	assert.Error(t, err)
}

func TestLedgerRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "ledger.db")
	repo := openTestRepo(t, path)

	m := sampleMutation()
	require.NoError(t, repo.Apply(ctx, m))

	paid := m.Loans[0]
	paid.RemainingBalance = decimal.NewFromInt(150000)
	paid.Status = loan.StatusActive
	paid.UpdatedAt = fixedTime.Add(time.Hour)
	payment := loan.Payment{ID: "PAY-1", LoanID: paid.ID, Amount: decimal.NewFromInt(50000), Method: "Card", CreatedAt: paid.UpdatedAt}
	payTx := loan.Transaction{ID: "TX-2", Type: loan.TypePayLoan, Amount: decimal.NewFromInt(-50000), Description: "Pay Loan (Card)", ReferenceID: paid.ID, CreatedAt: paid.UpdatedAt}
	require.NoError(t, repo.Apply(ctx, loan.Mutation{Loans: []loan.Loan{paid}, Payment: &payment, Transactions: []loan.Transaction{payTx}}))

	require.NoError(t, repo.Close())
	reopened := openTestRepo(t, path)

	loans, err := reopened.LoadLoans(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	got := loans[0]
	assert.Equal(t, loan.StatusActive, got.Status)
	assert.Equal(t, "150000", got.RemainingBalance.String())
	assert.True(t, got.MonthlyPayment.Equal(m.Loans[0].MonthlyPayment))
	assert.True(t, got.CreatedAt.Equal(fixedTime))
	assert.True(t, got.UpdatedAt.Equal(fixedTime.Add(time.Hour)))
	require.Len(t, got.Payments, 1)
	assert.Equal(t, "Card", got.Payments[0].Method)

	txs, err := reopened.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "TX-1", txs[0].ID)
	assert.Equal(t, "-50000", txs[1].Amount.String())
}

func TestLedgerRepository_ApplyIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t, filepath.Join(t.TempDir(), "ledger.db"))

	require.NoError(t, repo.Apply(ctx, sampleMutation()))

	second := sampleMutation()
	second.Loans[0].ID = "LOAN-2"
	err := repo.Apply(ctx, second)
	require.Error(t, err, "TX-1 already exists")
	assert.True(t, errors.Is(err, apperrors.ErrDatabase))

	loans, err := repo.LoadLoans(ctx)
	require.NoError(t, err)
	assert.Len(t, loans, 1, "the loan from the failed mutation must not be stored")
}

func TestLedgerRepository_BacksLedger(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")
	repo := openTestRepo(t, path)

	ledger, err := loan.NewLedger(ctx, repo, loan.DefaultTerms(), testLogger)
	require.NoError(t, err)
	created, err := ledger.CreateLoan(ctx, loan.CreateLoanRequest{Amount: "200000", Duration: "12", Purpose: "Education"})
	require.NoError(t, err)
	_, err = ledger.MakePayment(ctx, loan.MakePaymentRequest{LoanID: created.Loan.ID, Amount: "20000"})
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	restarted, err := loan.NewLedger(ctx, openTestRepo(t, path), loan.DefaultTerms(), testLogger)
	require.NoError(t, err)

	got, err := restarted.GetLoan(ctx, created.Loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusActive, got.Status)
	assert.Equal(t, "180000.00", got.RemainingBalance.StringFixed(2))

	balance, err := restarted.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "180000.00", balance.StringFixed(2))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))
}
