package customer

import (
	"context"
	"errors"
	"io"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/pkg/apperrors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLoan(id, owner string, principal, balance int64, status loan.Status) loan.Loan {
	return loan.Loan{
		ID:               id,
		OwnerID:          owner,
		Principal:        decimal.NewFromInt(principal),
		RemainingBalance: decimal.NewFromInt(balance),
		Status:           status,
	}
}

func sampleLoans() []loan.Loan {
	return []loan.Loan{
		testLoan("LOAN-1", "zara@example.com", 200000, 150000, loan.StatusActive),
		testLoan("LOAN-2", "ada@example.com", 100000, 0, loan.StatusCompleted),
		testLoan("LOAN-3", "Zara@example.com", 300000, 300000, loan.StatusOverdue),
		testLoan("LOAN-4", "ada@example.com", 150000, 150000, loan.StatusCancelled),
	}
}

func TestProject(t *testing.T) {
	customers := Project(sampleLoans())
	require.Len(t, customers, 2)

	ada := customers[0]
	assert.Equal(t, "ada@example.com", ada.Email)
	assert.Equal(t, 0, ada.ActiveLoans)
	assert.Equal(t, "250000", ada.TotalBorrowed.String())
	assert.True(t, ada.Outstanding.IsZero())
	assert.Equal(t, []string{"LOAN-2", "LOAN-4"}, ada.LoanIDs)

	zara := customers[1]
	assert.Equal(t, "zara@example.com", zara.Email)
	assert.Equal(t, 2, zara.ActiveLoans)
	assert.Equal(t, "450000", zara.Outstanding.String())
}

func TestProject_Empty(t *testing.T) {
	assert.Empty(t, Project(nil))
}

type MockLoanLister struct {
	mock.Mock
}

func (m *MockLoanLister) GetLoans(ctx context.Context, filter loan.LoanFilter) ([]loan.Loan, error) {
	args := m.Called(ctx, filter)
	if loans, ok := args.Get(0).([]loan.Loan); ok {
		return loans, args.Error(1)
	}
	return nil, args.Error(1)
}

func newService(lister LoanLister) CustomerService {
	return NewCustomerService(lister, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCustomerService_ListCustomers(t *testing.T) {
	lister := new(MockLoanLister)
	lister.On("GetLoans", mock.Anything, loan.LoanFilter{}).Return(sampleLoans(), nil)

	customers, err := newService(lister).ListCustomers(context.Background())
	require.NoError(t, err)
	assert.Len(t, customers, 2)
	lister.AssertExpectations(t)
}

func TestCustomerService_GetCustomer(t *testing.T) {
	lister := new(MockLoanLister)
	lister.On("GetLoans", mock.Anything, loan.LoanFilter{OwnerID: "ada@example.com"}).
		Return([]loan.Loan{sampleLoans()[1]}, nil)
	lister.On("GetLoans", mock.Anything, loan.LoanFilter{OwnerID: "nobody@example.com"}).
		Return([]loan.Loan{}, nil)
	svc := newService(lister)

	c, err := svc.GetCustomer(context.Background(), " ada@example.com ")
	require.NoError(t, err)
	assert.Equal(t, []string{"LOAN-2"}, c.LoanIDs)

	_, err = svc.GetCustomer(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = svc.GetCustomer(context.Background(), "")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestCustomerService_PropagatesErrors(t *testing.T) {
	lister := new(MockLoanLister)
	lister.On("GetLoans", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := newService(lister).ListCustomers(context.Background())
	assert.Error(t, err)
}
