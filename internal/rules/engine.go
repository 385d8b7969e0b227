// Package rules evaluates underwriting guidelines against loan facts.
//
// The rule set is a static table evaluated in declaration order. Each rule
// produces a RuleResult; the engine aggregates them into a RulesEvaluation
// with hard stops, required exceptions, and warnings split out. Evaluation
// is pure: identifiers and timestamps are stamped by the caller.
package rules

import (
	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/logging"
)

// Engine evaluates the underwriting rule table.
type Engine struct {
	logger logging.Logger
}

// New creates a rules engine.
func New() *Engine {
	return &Engine{logger: logging.NopLogger{}}
}

// SetLogger sets the logger used during evaluation.
func (e *Engine) SetLogger(l logging.Logger) {
	if l != nil {
		e.logger = l
	}
}

// Evaluate runs every rule against the loan facts and aggregates the results.
func (e *Engine) Evaluate(facts domain.LoanFacts) domain.RulesEvaluation {
	e.logger.Debugf("evaluating %d underwriting rules for application %s", len(table), facts.ApplicationID)

	results := make([]domain.RuleResult, 0, len(table))
	for _, r := range table {
		results = append(results, evaluateRule(r, facts))
	}

	eval := domain.RulesEvaluation{
		ApplicationID: facts.ApplicationID,
		Results:       results,
	}
	for _, r := range results {
		switch r.Status {
		case domain.StatusPass:
			eval.PassedCount++
		case domain.StatusFail:
			eval.FailedCount++
			switch r.Severity {
			case domain.SeverityHardStop:
				eval.HardStops = append(eval.HardStops, r)
			case domain.SeverityExceptionRequired:
				eval.ExceptionsRequired = append(eval.ExceptionsRequired, r)
			}
		case domain.StatusWarning:
			eval.WarningCount++
			eval.Warnings = append(eval.Warnings, r)
		}
	}

	switch {
	case len(eval.HardStops) > 0:
		eval.OverallStatus = domain.StatusFail
	case len(eval.ExceptionsRequired) > 0:
		eval.OverallStatus = domain.StatusWarning
	default:
		eval.OverallStatus = domain.StatusPass
	}

	e.logger.Infof("rules evaluation for %s: %s (%d passed, %d failed, %d warnings)",
		facts.ApplicationID, eval.OverallStatus, eval.PassedCount, eval.FailedCount, eval.WarningCount)
	return eval
}

// evaluateRule runs a single rule. A check error marks the rule
// NOT_APPLICABLE rather than failing the evaluation.
func evaluateRule(r rule, facts domain.LoanFacts) domain.RuleResult {
	result := domain.RuleResult{
		RuleID:            r.id,
		RuleName:          r.name,
		Category:          r.category,
		Severity:          r.severity,
		ExceptionEligible: r.severity == domain.SeverityExceptionRequired,
	}

	passed, err := r.check(facts)
	if err != nil {
		result.Status = domain.StatusNotApplicable
		result.Message = "Rule evaluation error: " + err.Error()
		return result
	}

	switch {
	case passed:
		result.Status = domain.StatusPass
	case r.severity == domain.SeverityWarning:
		result.Status = domain.StatusWarning
	default:
		result.Status = domain.StatusFail
	}
	result.Message = r.message(facts, passed)
	return result
}

// CatalogEntry describes one rule for display purposes.
type CatalogEntry struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Category domain.RuleCategory `json:"category"`
	Severity domain.RuleSeverity `json:"severity"`
}

// Catalog returns the rule table in evaluation order.
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(table))
	for _, r := range table {
		entries = append(entries, CatalogEntry{ID: r.id, Name: r.name, Category: r.category, Severity: r.severity})
	}
	return entries
}
