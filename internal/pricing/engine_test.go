package pricing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbrook/dscrgo/internal/domain"
)

func adjustmentFor(result domain.PricingResult, factor string) (domain.RateAdjustment, bool) {
	for _, a := range result.Adjustments {
		if a.Factor == factor {
			return a, true
		}
	}
	return domain.RateAdjustment{}, false
}

func TestPriceExcellentLoan(t *testing.T) {
	result := New().Price(domain.PricingInput{
		ApplicationID: "app-001",
		DSCR:          1.55,
		LTV:           60.0,
		CreditScore:   770,
		LoanAmount:    domain.NewMoney(45000000),
		PropertyType:  domain.PropertySFR,
	})

	assert.True(t, result.Eligible)
	assert.Empty(t, result.IneligibilityReasons)
	assert.Equal(t, domain.TierExcellent, result.Tier)
	assert.True(t, result.BaseRate.Equal(decimal.RequireFromString("6.50")), "base rate %s", result.BaseRate)

	// Three -25bps credits; SFR carries no property adjustment.
	require.Len(t, result.Adjustments, 3)
	assert.Equal(t, -75, result.TotalAdjustmentBPS)
	assert.True(t, result.FinalRate.Equal(decimal.RequireFromString("5.75")), "final rate %s", result.FinalRate)

	dscr, ok := adjustmentFor(result, "DSCR")
	require.True(t, ok)
	assert.Equal(t, -25, dscr.BasisPoints)
	assert.Equal(t, "DSCR of 1.55", dscr.Description)

	_, ok = adjustmentFor(result, "Property Type")
	assert.False(t, ok)
}

func TestPriceGoodLoan(t *testing.T) {
	result := New().Price(domain.PricingInput{
		ApplicationID: "app-002",
		DSCR:          1.30,
		LTV:           75.0,
		CreditScore:   740,
		LoanAmount:    domain.NewMoney(45000000),
		PropertyType:  domain.PropertySFR,
	})

	assert.True(t, result.Eligible)
	assert.Equal(t, domain.TierGood, result.Tier)
	assert.True(t, result.BaseRate.Equal(decimal.RequireFromString("6.875")))

	// DSCR 1.30 and credit 740 both land in zero-adjustment bands and are
	// omitted; only the LTV band contributes.
	require.Len(t, result.Adjustments, 1)
	assert.Equal(t, "LTV", result.Adjustments[0].Factor)
	assert.Equal(t, 50, result.Adjustments[0].BasisPoints)
	assert.Equal(t, "LTV of 75.0%", result.Adjustments[0].Description)
	assert.Equal(t, 50, result.TotalAdjustmentBPS)
	assert.True(t, result.FinalRate.Equal(decimal.RequireFromString("7.375")), "final rate %s", result.FinalRate)
}

func TestPriceIneligibleLoan(t *testing.T) {
	result := New().Price(domain.PricingInput{
		ApplicationID: "app-003",
		DSCR:          0.70,
		LTV:           85.0,
		CreditScore:   640,
		LoanAmount:    domain.NewMoney(45000000),
		PropertyType:  domain.PropertyCondo,
		IsCashOut:     true,
	})

	assert.False(t, result.Eligible)
	require.Len(t, result.IneligibilityReasons, 3)
	assert.Equal(t, "Credit score 640 below minimum 660", result.IneligibilityReasons[0])
	assert.Equal(t, "LTV 85.0% exceeds maximum 80%", result.IneligibilityReasons[1])
	assert.Equal(t, "DSCR 0.70 below minimum 0.75", result.IneligibilityReasons[2])

	// Indicative pricing is still produced.
	assert.Equal(t, domain.TierHighRisk, result.Tier)
	assert.True(t, result.BaseRate.Equal(decimal.RequireFromString("8.50")))

	// DSCR +125, LTV +100, condo +25, cash out +50; credit 640 is below
	// every band and takes no adjustment.
	require.Len(t, result.Adjustments, 4)
	assert.Equal(t, 300, result.TotalAdjustmentBPS)
	assert.True(t, result.FinalRate.Equal(decimal.RequireFromString("11.50")), "final rate %s", result.FinalRate)

	_, ok := adjustmentFor(result, "Credit Score")
	assert.False(t, ok)
	cashOut, ok := adjustmentFor(result, "Cash Out")
	require.True(t, ok)
	assert.Equal(t, "Cash-out refinance", cashOut.Description)
}

func TestRiskTierScoring(t *testing.T) {
	tests := []struct {
		name   string
		dscr   float64
		ltv    float64
		credit int
		want   domain.PricingTier
	}{
		{"all top bands", 1.55, 60, 770, domain.TierExcellent},
		{"all boundary top bands", 1.50, 65, 760, domain.TierExcellent},
		{"score ten", 1.25, 70, 760, domain.TierExcellent},
		{"score nine", 1.25, 70, 740, domain.TierGood},
		{"score seven", 1.10, 70, 720, domain.TierGood},
		{"score six", 1.10, 75, 720, domain.TierAcceptable},
		{"score four", 1.00, 75, 700, domain.TierAcceptable},
		{"score three", 1.00, 80, 700, domain.TierMarginal},
		{"score two", 0.90, 75, 650, domain.TierMarginal},
		{"score one", 0.90, 80, 650, domain.TierHighRisk},
		{"score zero", 0.70, 85, 640, domain.TierHighRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := riskTier(domain.PricingInput{DSCR: tt.dscr, LTV: tt.ltv, CreditScore: tt.credit})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBandBoundaries(t *testing.T) {
	t.Run("dscr at 1.25 takes no adjustment", func(t *testing.T) {
		bps, ok := bandBPS(dscrBands, 1.25)
		require.True(t, ok)
		assert.Equal(t, 0, bps)
	})

	t.Run("ltv at 80 is eligible but takes the top adjustment", func(t *testing.T) {
		result := New().Price(domain.PricingInput{
			DSCR: 1.30, LTV: 80.0, CreditScore: 740,
			PropertyType: domain.PropertySFR,
		})
		assert.True(t, result.Eligible)
		ltv, ok := adjustmentFor(result, "LTV")
		require.True(t, ok)
		assert.Equal(t, 100, ltv.BasisPoints)
	})

	t.Run("credit at 660 takes the bottom band", func(t *testing.T) {
		bps, ok := bandBPS(creditBands, 660)
		require.True(t, ok)
		assert.Equal(t, 150, bps)
	})

	t.Run("infinite dscr misses every band", func(t *testing.T) {
		_, ok := bandBPS(dscrBands, math.Inf(1))
		assert.False(t, ok)
	})

	t.Run("negative dscr misses every band", func(t *testing.T) {
		_, ok := bandBPS(dscrBands, -0.5)
		assert.False(t, ok)
	})
}

func TestPropertyTypeAdjustments(t *testing.T) {
	tests := []struct {
		propertyType domain.PropertyType
		want         int
	}{
		{domain.PropertySFR, 0},
		{domain.PropertyCondo, 25},
		{domain.PropertyTownhouse, 25},
		{domain.PropertyDuplex, 50},
		{domain.PropertyTriplex, 75},
		{domain.PropertyFourplex, 75},
		{domain.PropertyMultifamily5Plus, 125},
		{domain.PropertyType("LOG_CABIN"), 50},
	}

	for _, tt := range tests {
		t.Run(string(tt.propertyType), func(t *testing.T) {
			assert.Equal(t, tt.want, propertyBPS(tt.propertyType))
		})
	}
}

func TestPriceInfiniteDSCR(t *testing.T) {
	// A zero-debt-service calculation yields +Inf coverage. It prices at
	// the top of the tier scale with no DSCR adjustment.
	result := New().Price(domain.PricingInput{
		DSCR: math.Inf(1), LTV: 60.0, CreditScore: 770,
		PropertyType: domain.PropertySFR,
	})

	assert.True(t, result.Eligible)
	assert.Equal(t, domain.TierExcellent, result.Tier)
	_, ok := adjustmentFor(result, "DSCR")
	assert.False(t, ok)
	assert.Equal(t, -50, result.TotalAdjustmentBPS)
}

func TestPriceDeterministic(t *testing.T) {
	in := domain.PricingInput{
		ApplicationID: "app-004",
		DSCR:          1.18, LTV: 72.5, CreditScore: 715,
		PropertyType: domain.PropertyDuplex, IsCashOut: true,
	}
	engine := New()
	first := engine.Price(in)
	second := engine.Price(in)
	assert.Equal(t, first, second)
}
