package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultOwnerID       = "anonymous"
	DefaultPaymentMethod = "Account Balance"
	MaxInterestRate      = 100.0
)

type TransactionType string

const (
	TypeTakeLoan   TransactionType = "Take Loan"
	TypePayLoan    TransactionType = "Pay Loan"
	TypeBuyAirtime TransactionType = "Buy Airtime"
)

// IsLoanType reports whether t is reserved for ledger-generated loan entries.
func (t TransactionType) IsLoanType() bool {
	return t == TypeTakeLoan || t == TypePayLoan
}

type Loan struct {
	ID               string
	OwnerID          string
	Principal        decimal.Decimal
	InterestRate     float64
	DurationMonths   int
	Purpose          string
	MonthlyPayment   decimal.Decimal
	TotalRepayment   decimal.Decimal
	RemainingBalance decimal.Decimal
	Status           Status
	Payments         []Payment
	CreatedAt        time.Time
	DueDate          time.Time
	UpdatedAt        time.Time
}

type Payment struct {
	ID        string
	LoanID    string
	Amount    decimal.Decimal
	Method    string
	CreatedAt time.Time
}

// Transaction is an append-only ledger entry. Amount is signed: credits to the
// account balance are positive, debits negative.
type Transaction struct {
	ID          string
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	ReferenceID string
	CreatedAt   time.Time
}

func (l Loan) clone() Loan {
	c := l
	if l.Payments != nil {
		c.Payments = make([]Payment, len(l.Payments))
		copy(c.Payments, l.Payments)
	}
	return c
}

// TotalPaid sums every payment applied to the loan.
func (l Loan) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// TotalInterest is the interest portion of the total repayment.
func (l Loan) TotalInterest() decimal.Decimal {
	return l.TotalRepayment.Sub(l.Principal)
}

// IsActive matches the dashboard's definition of an active loan.
func (l Loan) IsActive() bool {
	return (l.Status == StatusApproved || l.Status == StatusActive) && l.RemainingBalance.IsPositive()
}

// Terms are the lending parameters a ledger enforces.
type Terms struct {
	MinLoanAmount       decimal.Decimal
	DefaultInterestRate float64
	AvailableDurations  []int
	Purposes            []string
	Currency            string
	MaxDurationMonths   int
	DefaultAfterDays    int
	OpeningBalance      decimal.Decimal
}

func DefaultTerms() Terms {
	return Terms{
		MinLoanAmount:       decimal.NewFromInt(100000),
		DefaultInterestRate: 15,
		AvailableDurations:  []int{3, 6, 12, 24, 36},
		Purposes:            []string{"Business", "Education", "Personal", "Home Improvement", "Medical", "Debt Consolidation"},
		Currency:            "NGN",
		MaxDurationMonths:   360,
		DefaultAfterDays:    90,
		OpeningBalance:      decimal.Zero,
	}
}
