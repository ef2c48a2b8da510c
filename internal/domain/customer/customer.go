package customer

import (
	"loan-ledger/internal/domain/loan"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Customer is a read model derived from the loans a borrower owns. It is never stored.
type Customer struct {
	Email         string
	ActiveLoans   int
	TotalBorrowed decimal.Decimal
	Outstanding   decimal.Decimal
	LoanIDs       []string
}

// Project groups loans by owner. Owner ids are compared case-insensitively and the
// spelling of the first loan wins. The result is sorted by email.
func Project(loans []loan.Loan) []Customer {
	byKey := make(map[string]*Customer)
	keys := make([]string, 0)

	for _, l := range loans {
		key := strings.ToLower(l.OwnerID)
		c, ok := byKey[key]
		if !ok {
			c = &Customer{Email: l.OwnerID, TotalBorrowed: decimal.Zero, Outstanding: decimal.Zero, LoanIDs: []string{}}
			byKey[key] = c
			keys = append(keys, key)
		}
		c.LoanIDs = append(c.LoanIDs, l.ID)
		c.TotalBorrowed = c.TotalBorrowed.Add(l.Principal)
		if l.Status.IsPayable() && l.RemainingBalance.IsPositive() {
			c.ActiveLoans++
			c.Outstanding = c.Outstanding.Add(l.RemainingBalance)
		}
	}

	sort.Strings(keys)
	out := make([]Customer, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}
