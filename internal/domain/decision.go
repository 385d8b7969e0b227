package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DecisionType is the final underwriting outcome.
type DecisionType string

const (
	DecisionApproved              DecisionType = "APPROVED"
	DecisionConditionallyApproved DecisionType = "CONDITIONALLY_APPROVED"
	DecisionReferred              DecisionType = "REFERRED" // needs manual review
	DecisionDeclined              DecisionType = "DECLINED"
	DecisionSuspended             DecisionType = "SUSPENDED"
)

// DecisionReason explains which branch of the resolution order fired.
type DecisionReason string

const (
	ReasonMeetsGuidelines      DecisionReason = "MEETS_GUIDELINES"
	ReasonHardStopViolation    DecisionReason = "HARD_STOP_VIOLATION"
	ReasonPricingIneligible    DecisionReason = "PRICING_INELIGIBLE"
	ReasonExceptionRequired    DecisionReason = "EXCEPTION_REQUIRED"
	ReasonHighRisk             DecisionReason = "HIGH_RISK"
	ReasonManualReviewRequired DecisionReason = "MANUAL_REVIEW_REQUIRED"
)

// ConditionCategory is the stage at which a condition must clear.
type ConditionCategory string

const (
	ConditionPriorToDocs    ConditionCategory = "PTD"
	ConditionPriorToClose   ConditionCategory = "PTC"
	ConditionPriorToFunding ConditionCategory = "PTF"
)

// ConditionSourceAutomated marks conditions generated by the decision
// service rather than entered by an underwriter.
const ConditionSourceAutomated = "AUTOMATED"

// Condition is one stipulation attached to a decision. ID is attached by
// the caller.
type Condition struct {
	ID          string            `yaml:"id,omitempty" json:"id,omitempty"`
	Category    ConditionCategory `yaml:"category" json:"category"`
	Description string            `yaml:"description" json:"description"`
	Required    bool              `yaml:"required" json:"required"`
	Source      string            `yaml:"source" json:"source"`
}

// Decision is the resolved underwriting decision with its full supporting
// evidence. ID and DecidedAt are attached by the caller.
type Decision struct {
	ID            string `yaml:"id,omitempty" json:"id,omitempty"`
	ApplicationID string `yaml:"application_id" json:"application_id"`

	Type   DecisionType   `yaml:"decision" json:"decision"`
	Reason DecisionReason `yaml:"reason" json:"reason"`

	Rules   *RulesEvaluation `yaml:"rules,omitempty" json:"rules,omitempty"`
	Pricing *PricingResult   `yaml:"pricing,omitempty" json:"pricing,omitempty"`

	RulesPassed        bool             `yaml:"rules_passed" json:"rules_passed"`
	EligibleForPricing bool             `yaml:"eligible_for_pricing" json:"eligible_for_pricing"`
	FinalRate          *decimal.Decimal `yaml:"final_rate,omitempty" json:"final_rate,omitempty"`

	HardStopCount  int `yaml:"hard_stop_count" json:"hard_stop_count"`
	ExceptionCount int `yaml:"exception_count" json:"exception_count"`
	WarningCount   int `yaml:"warning_count" json:"warning_count"`

	Conditions []Condition `yaml:"conditions,omitempty" json:"conditions,omitempty"`
	Notes      []string    `yaml:"notes,omitempty" json:"notes,omitempty"`

	DecidedAt time.Time `yaml:"decided_at,omitempty" json:"decided_at,omitempty"`
}
