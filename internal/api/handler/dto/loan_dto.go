package dto

import (
	"fmt"
	"loan-ledger/internal/domain/loan"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type CreateLoanRequest struct {
	Amount       NumericString `json:"amount"`
	InterestRate NumericString `json:"interestRate,omitempty"`
	Duration     NumericString `json:"duration"`
	Purpose      string        `json:"purpose"`
	UserID       string        `json:"userId,omitempty"`
}

// ToDomain passes raw values through; the ledger owns presence and range checks.
func (r CreateLoanRequest) ToDomain(ownerID, idempotencyKey string) loan.CreateLoanRequest {
	return loan.CreateLoanRequest{
		Amount:         r.Amount.String(),
		InterestRate:   r.InterestRate.String(),
		Duration:       r.Duration.String(),
		Purpose:        r.Purpose,
		OwnerID:        ownerID,
		IdempotencyKey: idempotencyKey,
	}
}

type MakePaymentRequest struct {
	Amount NumericString `json:"amount"`
	Method string        `json:"method,omitempty"`
}

func (r MakePaymentRequest) Validate() error {
	if r.Amount.IsZero() {
		return fmt.Errorf("missing payment amount")
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	if strings.TrimSpace(r.Status) == "" {
		return fmt.Errorf("missing status parameter")
	}
	return nil
}

type PaymentResponse struct {
	ID        string    `json:"id"`
	LoanID    string    `json:"loanId"`
	Amount    string    `json:"amount"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"date"`
}

type LoanResponse struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	Amount           string            `json:"amount"`
	InterestRate     float64           `json:"interestRate"`
	Duration         int               `json:"duration"`
	Purpose          string            `json:"purpose"`
	MonthlyPayment   string            `json:"monthlyPayment"`
	TotalRepayment   string            `json:"totalRepayment"`
	RemainingBalance string            `json:"remainingBalance"`
	TotalPaid        string            `json:"totalPaid"`
	Status           string            `json:"status"`
	Payments         []PaymentResponse `json:"payments"`
	CreationDate     time.Time         `json:"creationDate"`
	DueDate          time.Time         `json:"dueDate"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

type CreateLoanResponse struct {
	Loan          LoanResponse `json:"loan"`
	TransactionID string       `json:"transactionId"`
}

type MakePaymentResponse struct {
	Payment       PaymentResponse `json:"payment"`
	Loan          LoanResponse    `json:"loan"`
	TransactionID string          `json:"transactionId"`
}

type ScheduleEntryResponse struct {
	Month         int    `json:"month"`
	DueDate       string `json:"dueDate"`
	Payment       string `json:"payment"`
	PrincipalPart string `json:"principal"`
	InterestPart  string `json:"interest"`
	BalanceAfter  string `json:"balance"`
}

type StatementResponse struct {
	LoanID         string            `json:"loanId"`
	StartDate      string            `json:"startDate"`
	EndDate        string            `json:"endDate"`
	Payments       []PaymentResponse `json:"payments"`
	TotalPaid      string            `json:"totalPaid"`
	OpeningBalance string            `json:"openingBalance"`
	ClosingBalance string            `json:"closingBalance"`
	Status         string            `json:"status"`
}

type LoanConfigResponse struct {
	MinLoanAmount       string   `json:"minLoanAmount"`
	DefaultInterestRate float64  `json:"defaultInterestRate"`
	AvailableDurations  []int    `json:"availableDurations"`
	LoanPurposes        []string `json:"loanPurposes"`
	Currency            string   `json:"currency"`
}

type CalculateLoanRequest struct {
	Amount       NumericString `json:"amount"`
	InterestRate NumericString `json:"interestRate,omitempty"`
	Duration     NumericString `json:"duration"`
}

func (r CalculateLoanRequest) Validate() error {
	if r.Amount.IsZero() || r.Duration.IsZero() {
		return fmt.Errorf("missing required calculation parameters")
	}
	return nil
}

func (r CalculateLoanRequest) ToDomain() loan.QuoteRequest {
	return loan.QuoteRequest{
		Amount:       r.Amount.String(),
		InterestRate: r.InterestRate.String(),
		Duration:     r.Duration.String(),
	}
}

type QuoteResponse struct {
	LoanAmount     string  `json:"loanAmount"`
	InterestRate   float64 `json:"interestRate"`
	DurationMonths int     `json:"durationMonths"`
	MonthlyPayment string  `json:"monthlyPayment"`
	TotalRepayment string  `json:"totalRepayment"`
	TotalInterest  string  `json:"totalInterest"`
}

func NewPaymentResponse(p loan.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		LoanID:    p.LoanID,
		Amount:    p.Amount.StringFixed(2),
		Method:    p.Method,
		CreatedAt: p.CreatedAt,
	}
}

func newPaymentResponses(payments []loan.Payment) []PaymentResponse {
	resp := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = NewPaymentResponse(p)
	}
	return resp
}

func NewLoanResponse(l loan.Loan) LoanResponse {
	return LoanResponse{
		ID:               l.ID,
		UserID:           l.OwnerID,
		Amount:           l.Principal.StringFixed(2),
		InterestRate:     l.InterestRate,
		Duration:         l.DurationMonths,
		Purpose:          l.Purpose,
		MonthlyPayment:   l.MonthlyPayment.StringFixed(2),
		TotalRepayment:   l.TotalRepayment.StringFixed(2),
		RemainingBalance: l.RemainingBalance.StringFixed(2),
		TotalPaid:        l.TotalPaid().StringFixed(2),
		Status:           string(l.Status),
		Payments:         newPaymentResponses(l.Payments),
		CreationDate:     l.CreatedAt,
		DueDate:          l.DueDate,
		UpdatedAt:        l.UpdatedAt,
	}
}

func NewLoanResponses(loans []loan.Loan) []LoanResponse {
	resp := make([]LoanResponse, len(loans))
	for i, l := range loans {
		resp[i] = NewLoanResponse(l)
	}
	return resp
}

func NewCreateLoanResponse(r loan.CreateLoanResult) CreateLoanResponse {
	return CreateLoanResponse{Loan: NewLoanResponse(r.Loan), TransactionID: r.TransactionID}
}

func NewMakePaymentResponse(r loan.PaymentResult) MakePaymentResponse {
	return MakePaymentResponse{
		Payment:       NewPaymentResponse(r.Payment),
		Loan:          NewLoanResponse(r.Loan),
		TransactionID: r.TransactionID,
	}
}

func NewScheduleResponse(entries []loan.ScheduleEntry) []ScheduleEntryResponse {
	resp := make([]ScheduleEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = ScheduleEntryResponse{
			Month:         e.Month,
			DueDate:       e.DueDate.Format(dateLayout),
			Payment:       e.Payment.StringFixed(2),
			PrincipalPart: e.PrincipalPart.StringFixed(2),
			InterestPart:  e.InterestPart.StringFixed(2),
			BalanceAfter:  e.BalanceAfter.StringFixed(2),
		}
	}
	return resp
}

func NewStatementResponse(s loan.Statement) StatementResponse {
	return StatementResponse{
		LoanID:         s.Loan.ID,
		StartDate:      s.From.Format(dateLayout),
		EndDate:        s.To.Format(dateLayout),
		Payments:       newPaymentResponses(s.Payments),
		TotalPaid:      s.TotalPaid.StringFixed(2),
		OpeningBalance: s.OpeningBalance.StringFixed(2),
		ClosingBalance: s.ClosingBalance.StringFixed(2),
		Status:         string(s.Loan.Status),
	}
}

func NewLoanConfigResponse(t loan.Terms) LoanConfigResponse {
	return LoanConfigResponse{
		MinLoanAmount:       t.MinLoanAmount.StringFixed(2),
		DefaultInterestRate: t.DefaultInterestRate,
		AvailableDurations:  t.AvailableDurations,
		LoanPurposes:        t.Purposes,
		Currency:            t.Currency,
	}
}

func NewQuoteResponse(q loan.Quote) QuoteResponse {
	return QuoteResponse{
		LoanAmount:     q.LoanAmount.StringFixed(2),
		InterestRate:   q.InterestRate,
		DurationMonths: q.DurationMonths,
		MonthlyPayment: q.MonthlyPayment.StringFixed(2),
		TotalRepayment: q.TotalRepayment.StringFixed(2),
		TotalInterest:  q.TotalInterest.StringFixed(2),
	}
}
