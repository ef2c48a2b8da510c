package loan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestAssessEligibility_Defaults(t *testing.T) {
	got := AssessEligibility(EligibilityProfile{}, DefaultTerms())

	assert.True(t, got.IsEligible)
	assert.True(t, got.MaxLoanAmount.Equal(decimal.NewFromInt(1500000)))
	assert.Equal(t, 13.5, got.RecommendedInterestRate)
	assert.Equal(t, 12, got.RecommendedDuration)
	assert.Equal(t, "Based on your profile", got.Reason)
}

func TestAssessEligibility_RateAdjustments(t *testing.T) {
	tests := []struct {
		name    string
		profile EligibilityProfile
		want    float64
	}{
		{
			name:    "excellent score new unemployed customer",
			profile: EligibilityProfile{CreditScore: intPtr(820), EmploymentStatus: "Unemployed", AccountAgeDays: intPtr(30)},
			want:    14,
		},
		{
			name:    "poor score",
			profile: EligibilityProfile{CreditScore: intPtr(550)},
			want:    17,
		},
		{
			name:    "fair score",
			profile: EligibilityProfile{CreditScore: intPtr(650)},
			want:    15,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AssessEligibility(tc.profile, DefaultTerms())
			assert.Equal(t, tc.want, got.RecommendedInterestRate)
		})
	}
}

func TestAssessEligibility_RateIsClamped(t *testing.T) {
	terms := DefaultTerms()

	terms.DefaultInterestRate = 4
	low := AssessEligibility(EligibilityProfile{CreditScore: intPtr(850)}, terms)
	assert.Equal(t, 5.0, low.RecommendedInterestRate)

	terms.DefaultInterestRate = 30
	high := AssessEligibility(EligibilityProfile{CreditScore: intPtr(400)}, terms)
	assert.Equal(t, 25.0, high.RecommendedInterestRate)
}

func TestAssessEligibility_IncomeTooLow(t *testing.T) {
	got := AssessEligibility(EligibilityProfile{Income: decPtr(5000)}, DefaultTerms())

	assert.False(t, got.IsEligible)
	assert.Equal(t, "Income too low", got.Reason)
	assert.True(t, got.MaxLoanAmount.Equal(decimal.NewFromInt(15000)))
}
