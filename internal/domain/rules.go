package domain

import "time"

// RuleCategory groups eligibility rules by underwriting concern.
type RuleCategory string

const (
	CategoryEligibility RuleCategory = "ELIGIBILITY"
	CategoryCredit      RuleCategory = "CREDIT"
	CategoryProperty    RuleCategory = "PROPERTY"
	CategoryIncome      RuleCategory = "INCOME"
	CategoryCollateral  RuleCategory = "COLLATERAL"
)

// RuleSeverity is the consequence of failing a rule.
type RuleSeverity string

const (
	SeverityHardStop          RuleSeverity = "HARD_STOP"          // automatic decline
	SeverityExceptionRequired RuleSeverity = "EXCEPTION_REQUIRED" // needs exception approval
	SeverityWarning           RuleSeverity = "WARNING"            // proceed with caution
	SeverityInfo              RuleSeverity = "INFO"
)

// RuleStatus is the outcome of evaluating one rule.
type RuleStatus string

const (
	StatusPass          RuleStatus = "PASS"
	StatusFail          RuleStatus = "FAIL"
	StatusWarning       RuleStatus = "WARNING"
	StatusNotApplicable RuleStatus = "NOT_APPLICABLE"
)

// RuleResult is one rule's evaluation outcome.
type RuleResult struct {
	RuleID            string       `yaml:"rule_id" json:"rule_id"`
	RuleName          string       `yaml:"rule_name" json:"rule_name"`
	Category          RuleCategory `yaml:"category" json:"category"`
	Severity          RuleSeverity `yaml:"severity" json:"severity"`
	Status            RuleStatus   `yaml:"status" json:"status"`
	Message           string       `yaml:"message" json:"message"`
	ExceptionEligible bool         `yaml:"exception_eligible" json:"exception_eligible"`
}

// RulesEvaluation is the aggregate outcome of running the full rule table
// against one application. ID and EvaluatedAt are attached by the caller.
type RulesEvaluation struct {
	ID            string `yaml:"id,omitempty" json:"id,omitempty"`
	ApplicationID string `yaml:"application_id" json:"application_id"`

	Results []RuleResult `yaml:"results" json:"results"`

	PassedCount  int `yaml:"passed_count" json:"passed_count"`
	FailedCount  int `yaml:"failed_count" json:"failed_count"`
	WarningCount int `yaml:"warning_count" json:"warning_count"`

	HardStops          []RuleResult `yaml:"hard_stops,omitempty" json:"hard_stops,omitempty"`
	ExceptionsRequired []RuleResult `yaml:"exceptions_required,omitempty" json:"exceptions_required,omitempty"`
	Warnings           []RuleResult `yaml:"warnings,omitempty" json:"warnings,omitempty"`

	OverallStatus RuleStatus `yaml:"overall_status" json:"overall_status"`
	EvaluatedAt   time.Time  `yaml:"evaluated_at,omitempty" json:"evaluated_at,omitempty"`
}
