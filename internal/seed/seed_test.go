package seed

import (
	"context"
	"fmt"
	"io"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/infrastructure/database/memory"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newLedger(t *testing.T) *loan.Ledger {
	t.Helper()
	counter := 0
	l, err := loan.NewLedger(context.Background(), memory.NewLedgerRepository(), loan.DefaultTerms(), discardLogger,
		loan.WithClock(func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }),
		loan.WithIDGenerator(func(prefix string) string {
			counter++
			return fmt.Sprintf("%s-%d", prefix, counter)
		}),
	)
	require.NoError(t, err)
	return l
}

func TestPopulate_IsDeterministic(t *testing.T) {
	ctx := context.Background()
	first, second := newLedger(t), newLedger(t)

	n, err := Populate(ctx, first, 6, 42, discardLogger)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	_, err = Populate(ctx, second, 6, 42, discardLogger)
	require.NoError(t, err)

	a, _ := first.GetLoans(ctx, loan.LoanFilter{})
	b, _ := second.GetLoans(ctx, loan.LoanFilter{})
	require.Len(t, a, 6)
	assert.Equal(t, a, b)

	for _, l := range a {
		assert.True(t, l.Principal.GreaterThanOrEqual(loan.DefaultTerms().MinLoanAmount))
		assert.Contains(t, loan.DefaultTerms().Purposes, l.Purpose)
		assert.Contains(t, sampleOwners, l.OwnerID)
	}
}

func TestPopulate_SkipsNonEmptyLedger(t *testing.T) {
	ctx := context.Background()
	l := newLedger(t)
	_, err := l.CreateLoan(ctx, loan.CreateLoanRequest{Amount: "100000", Duration: "3", Purpose: "Personal"})
	require.NoError(t, err)

	n, err := Populate(ctx, l, 5, 1, discardLogger)
	require.NoError(t, err)
	assert.Zero(t, n)

	loans, _ := l.GetLoans(ctx, loan.LoanFilter{})
	assert.Len(t, loans, 1)
}
