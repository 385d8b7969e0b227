// Package pricing turns risk factors into a note rate.
//
// A loan prices in three steps: eligibility screens, risk tier selection,
// then additive basis-point adjustments over the tier's base rate. Rates
// are decimal percentages; an ineligible loan still receives indicative
// pricing so the full rate stack is visible on referrals.
package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/logging"
)

// Program eligibility floors and ceilings.
const (
	MinDSCR        = 0.75
	MinCreditScore = 660
	MaxLTV         = 80.0
)

const cashOutBPS = 50

var baseRates = map[domain.PricingTier]decimal.Decimal{
	domain.TierExcellent:  decimal.RequireFromString("6.50"),
	domain.TierGood:       decimal.RequireFromString("6.875"),
	domain.TierAcceptable: decimal.RequireFromString("7.25"),
	domain.TierMarginal:   decimal.RequireFromString("7.75"),
	domain.TierHighRisk:   decimal.RequireFromString("8.50"),
}

// band is a half-open interval [low, high) mapping to a basis-point
// adjustment. Bands are scanned in order; no match means no adjustment.
// An infinite value misses every band, unbounded tops included.
type band struct {
	low, high float64
	bps       int
}

func (b band) contains(v float64) bool {
	return b.low <= v && v < b.high
}

var unbounded = math.Inf(1)

var dscrBands = []band{
	{1.50, unbounded, -25},
	{1.25, 1.50, 0},
	{1.10, 1.25, 25},
	{1.00, 1.10, 50},
	{0.0, 1.00, 125},
}

var ltvBands = []band{
	{0, 65, -25},
	{65, 70, 0},
	{70, 75, 25},
	{75, 80, 50},
	{80, unbounded, 100},
}

// creditBands stop at 660; scores below that are screened out and take no
// adjustment.
var creditBands = []band{
	{760, unbounded, -25},
	{740, 760, 0},
	{720, 740, 25},
	{700, 720, 50},
	{680, 700, 100},
	{660, 680, 150},
}

const unknownPropertyBPS = 50

var propertyTypeBPS = map[domain.PropertyType]int{
	domain.PropertySFR:              0,
	domain.PropertyCondo:            25,
	domain.PropertyTownhouse:        25,
	domain.PropertyDuplex:           50,
	domain.PropertyTriplex:          75,
	domain.PropertyFourplex:         75,
	domain.PropertyMultifamily5Plus: 125,
}

// Engine prices loans off the static rate sheet above.
type Engine struct {
	logger logging.Logger
}

// New creates a pricing engine.
func New() *Engine {
	return &Engine{logger: logging.NopLogger{}}
}

// SetLogger sets the logger used during pricing.
func (e *Engine) SetLogger(l logging.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Price calculates the rate stack for one loan.
func (e *Engine) Price(in domain.PricingInput) domain.PricingResult {
	var reasons []string
	if in.CreditScore < MinCreditScore {
		reasons = append(reasons, fmt.Sprintf("Credit score %d below minimum %d", in.CreditScore, MinCreditScore))
	}
	if in.LTV > MaxLTV {
		reasons = append(reasons, fmt.Sprintf("LTV %.1f%% exceeds maximum %.0f%%", in.LTV, MaxLTV))
	}
	if in.DSCR < MinDSCR {
		reasons = append(reasons, fmt.Sprintf("DSCR %.2f below minimum %.2f", in.DSCR, MinDSCR))
	}

	tier := riskTier(in)
	baseRate := baseRates[tier]

	var adjustments []domain.RateAdjustment
	if bps, ok := bandBPS(dscrBands, in.DSCR); ok && bps != 0 {
		adjustments = append(adjustments, domain.RateAdjustment{
			Factor:      "DSCR",
			Description: fmt.Sprintf("DSCR of %.2f", in.DSCR),
			BasisPoints: bps,
		})
	}
	if bps, ok := bandBPS(ltvBands, in.LTV); ok && bps != 0 {
		adjustments = append(adjustments, domain.RateAdjustment{
			Factor:      "LTV",
			Description: fmt.Sprintf("LTV of %.1f%%", in.LTV),
			BasisPoints: bps,
		})
	}
	if bps, ok := bandBPS(creditBands, float64(in.CreditScore)); ok && bps != 0 {
		adjustments = append(adjustments, domain.RateAdjustment{
			Factor:      "Credit Score",
			Description: fmt.Sprintf("Credit score of %d", in.CreditScore),
			BasisPoints: bps,
		})
	}
	if bps := propertyBPS(in.PropertyType); bps != 0 {
		adjustments = append(adjustments, domain.RateAdjustment{
			Factor:      "Property Type",
			Description: fmt.Sprintf("Property type: %s", in.PropertyType),
			BasisPoints: bps,
		})
	}
	if in.IsCashOut {
		adjustments = append(adjustments, domain.RateAdjustment{
			Factor:      "Cash Out",
			Description: "Cash-out refinance",
			BasisPoints: cashOutBPS,
		})
	}

	totalBPS := 0
	for _, a := range adjustments {
		totalBPS += a.BasisPoints
	}
	finalRate := baseRate.Add(decimal.NewFromInt(int64(totalBPS)).Div(decimal.NewFromInt(100))).Round(3)

	e.logger.Infof("priced application %s: tier=%s base=%s adjustments=%+dbps final=%s eligible=%t",
		in.ApplicationID, tier, baseRate, totalBPS, finalRate, len(reasons) == 0)

	return domain.PricingResult{
		ApplicationID:        in.ApplicationID,
		Eligible:             len(reasons) == 0,
		IneligibilityReasons: reasons,
		Tier:                 tier,
		BaseRate:             baseRate,
		Adjustments:          adjustments,
		TotalAdjustmentBPS:   totalBPS,
		FinalRate:            finalRate,
	}
}

// riskTier scores DSCR, credit, and LTV on a 0-4 scale each and maps the
// sum to a tier.
func riskTier(in domain.PricingInput) domain.PricingTier {
	score := 0

	switch {
	case in.DSCR >= 1.50:
		score += 4
	case in.DSCR >= 1.25:
		score += 3
	case in.DSCR >= 1.10:
		score += 2
	case in.DSCR >= 1.00:
		score += 1
	}

	switch {
	case in.CreditScore >= 760:
		score += 4
	case in.CreditScore >= 740:
		score += 3
	case in.CreditScore >= 720:
		score += 2
	case in.CreditScore >= 700:
		score += 1
	}

	switch {
	case in.LTV <= 65:
		score += 4
	case in.LTV <= 70:
		score += 3
	case in.LTV <= 75:
		score += 2
	case in.LTV <= 80:
		score += 1
	}

	switch {
	case score >= 10:
		return domain.TierExcellent
	case score >= 7:
		return domain.TierGood
	case score >= 4:
		return domain.TierAcceptable
	case score >= 2:
		return domain.TierMarginal
	default:
		return domain.TierHighRisk
	}
}

func bandBPS(bands []band, v float64) (int, bool) {
	for _, b := range bands {
		if b.contains(v) {
			return b.bps, true
		}
	}
	return 0, false
}

func propertyBPS(p domain.PropertyType) int {
	if bps, ok := propertyTypeBPS[p]; ok {
		return bps
	}
	return unknownPropertyBPS
}
