package event

import (
	"context"
	"time"
)

const (
	RoutingKeyLoanCreated       = "loan.created"
	RoutingKeyLoanPaymentMade   = "loan.payment.made"
	RoutingKeyLoanStatusChanged = "loan.status.changed"
)

// EventPublisher announces ledger changes after they have been persisted.
type EventPublisher interface {
	PublishLoanCreated(ctx context.Context, event LoanCreatedEvent) error
	PublishPaymentMade(ctx context.Context, event PaymentMadeEvent) error
	PublishLoanStatusChanged(ctx context.Context, event LoanStatusChangedEvent) error
}

// Money fields are fixed two-decimal strings.
type LoanCreatedEvent struct {
	LoanID         string    `json:"loanId"`
	OwnerID        string    `json:"ownerId"`
	Purpose        string    `json:"purpose"`
	Principal      string    `json:"principal"`
	MonthlyPayment string    `json:"monthlyPayment"`
	DurationMonths int       `json:"durationMonths"`
	TransactionID  string    `json:"transactionId"`
	Timestamp      time.Time `json:"timestamp"`
}

type PaymentMadeEvent struct {
	LoanID           string    `json:"loanId"`
	OwnerID          string    `json:"ownerId"`
	PaymentID        string    `json:"paymentId"`
	Amount           string    `json:"amount"`
	RemainingBalance string    `json:"remainingBalance"`
	Status           string    `json:"status"`
	TransactionID    string    `json:"transactionId"`
	Timestamp        time.Time `json:"timestamp"`
}

type LoanStatusChangedEvent struct {
	LoanID    string    `json:"loanId"`
	OwnerID   string    `json:"ownerId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishLoanCreated(context.Context, LoanCreatedEvent) error { return nil }

func (NoopPublisher) PublishPaymentMade(context.Context, PaymentMadeEvent) error { return nil }

func (NoopPublisher) PublishLoanStatusChanged(context.Context, LoanStatusChangedEvent) error {
	return nil
}
