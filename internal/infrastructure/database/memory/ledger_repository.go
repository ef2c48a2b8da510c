package memory

import (
	"context"
	"loan-ledger/internal/domain/loan"
	"sync"
)

// LedgerRepository keeps the ledger in process memory. State is lost on restart.
type LedgerRepository struct {
	mu           sync.Mutex
	loans        []loan.Loan
	loanIndex    map[string]int
	transactions []loan.Transaction
}

var _ loan.Repository = (*LedgerRepository)(nil)

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{loanIndex: make(map[string]int)}
}

func (r *LedgerRepository) LoadLoans(ctx context.Context) ([]loan.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]loan.Loan, len(r.loans))
	for i, l := range r.loans {
		out[i] = l
		out[i].Payments = append([]loan.Payment{}, l.Payments...)
	}
	return out, nil
}

func (r *LedgerRepository) LoadTransactions(ctx context.Context) ([]loan.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]loan.Transaction{}, r.transactions...), nil
}

func (r *LedgerRepository) Apply(ctx context.Context, m loan.Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range m.Loans {
		stored := l
		stored.Payments = append([]loan.Payment{}, l.Payments...)
		if idx, ok := r.loanIndex[l.ID]; ok {
			r.loans[idx] = stored
			continue
		}
		r.loanIndex[l.ID] = len(r.loans)
		r.loans = append(r.loans, stored)
	}
	r.transactions = append(r.transactions, m.Transactions...)
	return nil
}
