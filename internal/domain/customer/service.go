package customer

import (
	"context"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/pkg/apperrors"
	"log/slog"
	"strings"
)

type LoanLister interface {
	GetLoans(ctx context.Context, filter loan.LoanFilter) ([]loan.Loan, error)
}

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]Customer, error)
	GetCustomer(ctx context.Context, email string) (Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	loans  LoanLister
	logger *slog.Logger
}

func NewCustomerService(loans LoanLister, logger *slog.Logger) CustomerService {
	if loans == nil {
		panic("loan lister cannot be nil")
	}
	return &customerService{loans: loans, logger: logger.With(slog.String("component", "customerService"))}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]Customer, error) {
	loans, err := s.loans.GetLoans(ctx, loan.LoanFilter{})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans for customer projection", "error", err)
		return nil, err
	}
	return Project(loans), nil
}

func (s *customerService) GetCustomer(ctx context.Context, email string) (Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Customer{}, apperrors.NewValidationError("email", "email is required")
	}

	loans, err := s.loans.GetLoans(ctx, loan.LoanFilter{OwnerID: email})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list loans for customer", "email", email, "error", err)
		return Customer{}, err
	}
	customers := Project(loans)
	if len(customers) == 0 {
		s.logger.DebugContext(ctx, "Customer not found", "email", email)
		return Customer{}, apperrors.NewNotFoundError("customer", email)
	}
	return customers[0], nil
}
