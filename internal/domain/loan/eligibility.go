package loan

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	defaultProfileIncome      = 500000
	defaultProfileCreditScore = 700
	defaultEmploymentStatus   = "Employed"
	defaultAccountAgeDays     = 365
	recommendedDurationMonths = 12
	minRecommendedRate        = 5.0
	maxRecommendedRate        = 25.0
)

// EligibilityProfile describes an applicant. Nil fields fall back to the
// defaults of a typical salaried customer.
type EligibilityProfile struct {
	Income           *decimal.Decimal
	CreditScore      *int
	EmploymentStatus string
	AccountAgeDays   *int
}

type EligibilityAssessment struct {
	IsEligible              bool
	MaxLoanAmount           decimal.Decimal
	RecommendedInterestRate float64
	RecommendedDuration     int
	Reason                  string
}

type resolvedProfile struct {
	income           decimal.Decimal
	creditScore      int
	employmentStatus string
	accountAgeDays   int
}

func (p EligibilityProfile) resolve() resolvedProfile {
	r := resolvedProfile{
		income:           decimal.NewFromInt(defaultProfileIncome),
		creditScore:      defaultProfileCreditScore,
		employmentStatus: defaultEmploymentStatus,
		accountAgeDays:   defaultAccountAgeDays,
	}
	if p.Income != nil {
		r.income = *p.Income
	}
	if p.CreditScore != nil {
		r.creditScore = *p.CreditScore
	}
	if p.EmploymentStatus != "" {
		r.employmentStatus = p.EmploymentStatus
	}
	if p.AccountAgeDays != nil {
		r.accountAgeDays = *p.AccountAgeDays
	}
	return r
}

// AssessEligibility is a pure scoring rule: the applicant may borrow up to three
// times their income, and qualifies when income exceeds a tenth of the minimum loan.
func AssessEligibility(profile EligibilityProfile, terms Terms) EligibilityAssessment {
	p := profile.resolve()

	eligible := p.income.GreaterThan(terms.MinLoanAmount.Mul(decimal.NewFromFloat(0.1)))
	reason := "Based on your profile"
	if !eligible {
		reason = "Income too low"
	}

	return EligibilityAssessment{
		IsEligible:              eligible,
		MaxLoanAmount:           p.income.Mul(decimal.NewFromInt(3)),
		RecommendedInterestRate: recommendedRate(p, terms.DefaultInterestRate),
		RecommendedDuration:     recommendedDurationMonths,
		Reason:                  reason,
	}
}

func recommendedRate(p resolvedProfile, base float64) float64 {
	rate := base
	switch {
	case p.creditScore >= 800:
		rate -= 3
	case p.creditScore >= 700:
		rate -= 1.5
	case p.creditScore < 600:
		rate += 2
	}
	if p.employmentStatus != defaultEmploymentStatus {
		rate++
	}
	if p.accountAgeDays < 180 {
		rate++
	}
	return math.Max(minRecommendedRate, math.Min(maxRecommendedRate, rate))
}
