package postgres

import (
	"context"
	"errors"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/pkg/apperrors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

var fixedTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *LedgerRepository) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool, NewLedgerRepository(mockPool, testLogger)
}

func sampleLoan() loan.Loan {
	return loan.Loan{
		ID:               "LOAN-1",
		OwnerID:          "ada",
		Principal:        decimal.NewFromInt(200000),
		InterestRate:     15,
		DurationMonths:   12,
		Purpose:          "Business",
		MonthlyPayment:   decimal.RequireFromString("18051.662469031446"),
		TotalRepayment:   decimal.RequireFromString("216619.949628377352"),
		RemainingBalance: decimal.NewFromInt(150000),
		Status:           loan.StatusActive,
		CreatedAt:        fixedTime,
		DueDate:          fixedTime.AddDate(0, 12, 0),
		UpdatedAt:        fixedTime,
	}
}

func TestLedgerRepository_LoadLoans(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	ctx := context.Background()

	loanRows := pgxmock.NewRows([]string{
		"id", "owner_id", "principal", "interest_rate", "duration_months", "purpose",
		"monthly_payment", "total_repayment", "remaining_balance", "status", "created_at", "due_date", "updated_at",
	}).
		AddRow("LOAN-1", "ada", "200000", 15.0, 12, "Business", "18051.662469031446", "216619.949628377352", "150000", "Active", fixedTime, fixedTime.AddDate(0, 12, 0), fixedTime).
		AddRow("LOAN-2", "grace", "100000", 10.0, 6, "Medical", "17156.14", "102936.84", "100000", "Approved", fixedTime, fixedTime.AddDate(0, 6, 0), fixedTime)
	paymentRows := pgxmock.NewRows([]string{"id", "loan_id", "amount", "method", "created_at"}).
		AddRow("PAY-1", "LOAN-1", "50000.00", "Account Balance", fixedTime).
		AddRow("PAY-9", "LOAN-404", "1.00", "Card", fixedTime)

	mockPool.ExpectQuery("FROM loans").WillReturnRows(loanRows)
	mockPool.ExpectQuery("FROM payments").WillReturnRows(paymentRows)

	loans, err := repo.LoadLoans(ctx)
	require.NoError(t, err)
	require.Len(t, loans, 2)

	assert.Equal(t, "LOAN-1", loans[0].ID)
	assert.Equal(t, loan.StatusActive, loans[0].Status)
	assert.Equal(t, "18051.66", loans[0].MonthlyPayment.StringFixed(2))
	assert.Equal(t, "150000.00", loans[0].RemainingBalance.StringFixed(2))
	require.Len(t, loans[0].Payments, 1)
	assert.Equal(t, "PAY-1", loans[0].Payments[0].ID)
	assert.Empty(t, loans[1].Payments)
	assert.NotNil(t, loans[1].Payments)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestLedgerRepository_LoadLoans_QueryError(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	mockPool.ExpectQuery("FROM loans").WillReturnError(errors.New("connection refused"))

	_, err := repo.LoadLoans(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDatabase))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestLedgerRepository_LoadLoans_BadNumeric(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	rows := pgxmock.NewRows([]string{
		"id", "owner_id", "principal", "interest_rate", "duration_months", "purpose",
		"monthly_payment", "total_repayment", "remaining_balance", "status", "created_at", "due_date", "updated_at",
	}).AddRow("LOAN-1", "ada", "not-a-number", 15.0, 12, "Business", "1", "1", "1", "Active", fixedTime, fixedTime, fixedTime)
	mockPool.ExpectQuery("FROM loans").WillReturnRows(rows)

	_, err := repo.LoadLoans(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDatabase))
}

func TestLedgerRepository_LoadTransactions(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	rows := pgxmock.NewRows([]string{"id", "type", "amount", "description", "reference_id", "created_at"}).
		AddRow("TX-1", "Take Loan", "200000.00", "Take Loan (Business)", "LOAN-1", fixedTime).
		AddRow("TX-2", "Pay Loan", "-50000.00", "Pay Loan (Account Balance)", "LOAN-1", fixedTime)
	mockPool.ExpectQuery("FROM transactions").WillReturnRows(rows)

	txs, err := repo.LoadTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, loan.TypeTakeLoan, txs[0].Type)
	assert.Equal(t, "-50000.00", txs[1].Amount.StringFixed(2))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestLedgerRepository_Apply(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	ctx := context.Background()

	l := sampleLoan()
	payment := loan.Payment{ID: "PAY-1", LoanID: l.ID, Amount: decimal.NewFromInt(50000), Method: "Account Balance", CreatedAt: fixedTime}
	tx := loan.Transaction{ID: "TX-2", Type: loan.TypePayLoan, Amount: decimal.NewFromInt(-50000), Description: "Pay Loan (Account Balance)", ReferenceID: l.ID, CreatedAt: fixedTime}

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO loans").
		WithArgs(l.ID, l.OwnerID, "200000", 15.0, 12, "Business", l.MonthlyPayment.String(), l.TotalRepayment.String(), "150000", "Active", l.CreatedAt, l.DueDate, l.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO payments").
		WithArgs("PAY-1", "LOAN-1", "50000", "Account Balance", fixedTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO transactions").
		WithArgs("TX-2", "Pay Loan", "-50000", "Pay Loan (Account Balance)", "LOAN-1", fixedTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	err := repo.Apply(ctx, loan.Mutation{Loans: []loan.Loan{l}, Payment: &payment, Transactions: []loan.Transaction{tx}})
	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestLedgerRepository_Apply_RollsBackOnFailure(t *testing.T) {
	mockPool, repo := newMockRepo(t)
	ctx := context.Background()

	l := sampleLoan()
	tx := loan.Transaction{ID: "TX-1", Type: loan.TypeTakeLoan, Amount: l.Principal, Description: "Take Loan (Business)", ReferenceID: l.ID, CreatedAt: fixedTime}

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO loans").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO transactions").WillReturnError(errors.New("duplicate key"))
	mockPool.ExpectRollback()

	err := repo.Apply(ctx, loan.Mutation{Loans: []loan.Loan{l}, Transactions: []loan.Transaction{tx}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDatabase))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestLedgerRepository_Apply_BeginFails(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	mockPool.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	err := repo.Apply(context.Background(), loan.Mutation{Loans: []loan.Loan{sampleLoan()}})
	assert.True(t, errors.Is(err, apperrors.ErrDatabase))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestLedgerRepository_Apply_EmptyMutation(t *testing.T) {
	mockPool, repo := newMockRepo(t)

	require.NoError(t, repo.Apply(context.Background(), loan.Mutation{}))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectExec("CREATE TABLE IF NOT EXISTS loans").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	require.NoError(t, EnsureSchema(context.Background(), mockPool, testLogger))

	mockPool.ExpectExec("CREATE TABLE IF NOT EXISTS loans").WillReturnError(errors.New("permission denied"))
	assert.Error(t, EnsureSchema(context.Background(), mockPool, testLogger))

	assert.NoError(t, mockPool.ExpectationsWereMet())
}
