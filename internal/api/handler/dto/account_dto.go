package dto

import (
	"fmt"
	"loan-ledger/internal/domain/loan"
	"loan-ledger/internal/pkg/apperrors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var numberCleaner = strings.NewReplacer(",", "", "_", "", " ", "")

type TransactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	ReferenceID string    `json:"referenceId,omitempty"`
	CreatedAt   time.Time `json:"date"`
}

func NewTransactionResponse(tx loan.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      tx.Amount.StringFixed(2),
		Description: tx.Description,
		ReferenceID: tx.ReferenceID,
		CreatedAt:   tx.CreatedAt,
	}
}

func NewTransactionResponses(txs []loan.Transaction) []TransactionResponse {
	resp := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = NewTransactionResponse(tx)
	}
	return resp
}

type BalanceResponse struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type DebitRequest struct {
	Type        string        `json:"type"`
	Amount      NumericString `json:"amount"`
	Description string        `json:"description,omitempty"`
	ReferenceID string        `json:"referenceId,omitempty"`
}

func (r DebitRequest) Validate() error {
	if strings.TrimSpace(r.Type) == "" {
		return fmt.Errorf("missing transaction type")
	}
	if r.Amount.IsZero() {
		return fmt.Errorf("missing transaction amount")
	}
	return nil
}

func (r DebitRequest) ToDomain(idempotencyKey string) loan.DebitRequest {
	return loan.DebitRequest{
		Type:           r.Type,
		Amount:         r.Amount.String(),
		Description:    r.Description,
		ReferenceID:    r.ReferenceID,
		IdempotencyKey: idempotencyKey,
	}
}

// EligibilityRequest fields are all optional.
type EligibilityRequest struct {
	Income           NumericString `json:"income,omitempty"`
	CreditScore      NumericString `json:"creditScore,omitempty"`
	EmploymentStatus string        `json:"employmentStatus,omitempty"`
	ExistingDebts    NumericString `json:"existingDebts,omitempty"`
	AccountAgeDays   NumericString `json:"accountAgeDays,omitempty"`
}

func (r EligibilityRequest) ToDomain() (loan.EligibilityProfile, error) {
	var profile loan.EligibilityProfile
	profile.EmploymentStatus = strings.TrimSpace(r.EmploymentStatus)

	if !r.Income.IsZero() {
		income, err := decimal.NewFromString(numberCleaner.Replace(r.Income.String()))
		if err != nil {
			return profile, apperrors.NewValidationError("income", "income must be a number")
		}
		profile.Income = &income
	}
	if !r.ExistingDebts.IsZero() {
		if _, err := decimal.NewFromString(numberCleaner.Replace(r.ExistingDebts.String())); err != nil {
			return profile, apperrors.NewValidationError("existingDebts", "existingDebts must be a number")
		}
	}

	var err error
	if profile.CreditScore, err = optionalInt(r.CreditScore, "creditScore"); err != nil {
		return profile, err
	}
	if profile.AccountAgeDays, err = optionalInt(r.AccountAgeDays, "accountAgeDays"); err != nil {
		return profile, err
	}
	return profile, nil
}

func optionalInt(raw NumericString, field string) (*int, error) {
	if raw.IsZero() {
		return nil, nil
	}
	n, err := strconv.Atoi(numberCleaner.Replace(raw.String()))
	if err != nil {
		return nil, apperrors.NewValidationError(field, field+" must be a whole number")
	}
	return &n, nil
}

type EligibilityResponse struct {
	IsEligible              bool    `json:"isEligible"`
	MaxLoanAmount           string  `json:"maxLoanAmount"`
	RecommendedInterestRate float64 `json:"recommendedInterestRate"`
	RecommendedDuration     int     `json:"recommendedDuration"`
	Reason                  string  `json:"reason"`
}

func NewEligibilityResponse(a loan.EligibilityAssessment) EligibilityResponse {
	return EligibilityResponse{
		IsEligible:              a.IsEligible,
		MaxLoanAmount:           a.MaxLoanAmount.StringFixed(2),
		RecommendedInterestRate: a.RecommendedInterestRate,
		RecommendedDuration:     a.RecommendedDuration,
		Reason:                  a.Reason,
	}
}
