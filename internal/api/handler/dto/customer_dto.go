package dto

import "loan-ledger/internal/domain/customer"

type CustomerResponse struct {
	Email         string   `json:"email"`
	ActiveLoans   int      `json:"activeLoans"`
	TotalBorrowed string   `json:"totalBorrowed"`
	Outstanding   string   `json:"outstanding"`
	LoanIDs       []string `json:"loanIds"`
}

func NewCustomerResponse(c customer.Customer) CustomerResponse {
	loanIDs := c.LoanIDs
	if loanIDs == nil {
		loanIDs = []string{}
	}
	return CustomerResponse{
		Email:         c.Email,
		ActiveLoans:   c.ActiveLoans,
		TotalBorrowed: c.TotalBorrowed.StringFixed(2),
		Outstanding:   c.Outstanding.StringFixed(2),
		LoanIDs:       loanIDs,
	}
}

func NewCustomerResponses(customers []customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		resp[i] = NewCustomerResponse(c)
	}
	return resp
}
