package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingTier is the risk tier a loan prices into.
type PricingTier string

const (
	TierExcellent  PricingTier = "EXCELLENT"
	TierGood       PricingTier = "GOOD"
	TierAcceptable PricingTier = "ACCEPTABLE"
	TierMarginal   PricingTier = "MARGINAL"
	TierHighRisk   PricingTier = "HIGH_RISK"
)

// PricingInput carries the risk factors the pricing engine reads.
type PricingInput struct {
	ApplicationID string       `yaml:"application_id" json:"application_id"`
	DSCR          float64      `yaml:"dscr" json:"dscr"`
	LTV           float64      `yaml:"ltv" json:"ltv"`
	CreditScore   int          `yaml:"credit_score" json:"credit_score"`
	LoanAmount    Money        `yaml:"loan_amount" json:"loan_amount"`
	PropertyType  PropertyType `yaml:"property_type" json:"property_type"`
	IsCashOut     bool         `yaml:"is_cash_out" json:"is_cash_out"`
}

// RateAdjustment is one additive basis-point adjustment applied to the base
// rate, tagged with the risk factor that produced it.
type RateAdjustment struct {
	Factor      string `yaml:"factor" json:"factor"`
	Description string `yaml:"description" json:"description"`
	BasisPoints int    `yaml:"basis_points" json:"basis_points"`
}

// PricingResult is the priced outcome for one application. An ineligible
// result still carries indicative tier and rate fields alongside the
// reasons. ID and PricedAt are attached by the caller.
type PricingResult struct {
	ID            string `yaml:"id,omitempty" json:"id,omitempty"`
	ApplicationID string `yaml:"application_id" json:"application_id"`

	Eligible             bool     `yaml:"eligible" json:"eligible"`
	IneligibilityReasons []string `yaml:"ineligibility_reasons,omitempty" json:"ineligibility_reasons,omitempty"`

	Tier               PricingTier      `yaml:"tier,omitempty" json:"tier,omitempty"`
	BaseRate           decimal.Decimal  `yaml:"base_rate" json:"base_rate"`
	Adjustments        []RateAdjustment `yaml:"adjustments,omitempty" json:"adjustments,omitempty"`
	TotalAdjustmentBPS int              `yaml:"total_adjustment_bps" json:"total_adjustment_bps"`
	FinalRate          decimal.Decimal  `yaml:"final_rate" json:"final_rate"`

	PricedAt time.Time `yaml:"priced_at,omitempty" json:"priced_at,omitempty"`
}
