package loan

import (
	"context"
)

// Mutation is the unit of persistence: every ledger operation writes its changed
// loans, at most one new payment and its new transactions in a single Apply.
type Mutation struct {
	Loans        []Loan
	Payment      *Payment
	Transactions []Transaction
}

func (m Mutation) IsEmpty() bool {
	return len(m.Loans) == 0 && m.Payment == nil && len(m.Transactions) == 0
}

// Repository is the storage backing a Ledger. Apply must be all-or-nothing.
// LoadLoans returns loans with their payments in creation order; LoadTransactions
// returns transactions in insertion order.
type Repository interface {
	LoadLoans(ctx context.Context) ([]Loan, error)

	LoadTransactions(ctx context.Context) ([]Transaction, error)

	Apply(ctx context.Context, m Mutation) error
}
