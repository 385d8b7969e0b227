// Package decision synthesizes rules and pricing results into a single
// underwriting decision.
//
// Resolution is ordered and first-match-wins: hard stops decline, pricing
// ineligibility declines, required exceptions refer, a HIGH_RISK tier
// refers, and anything left is conditionally approved. Every decision
// carries the generated condition set so declined files show what would
// have been required.
package decision

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/logging"
)

// RulesEngine evaluates the underwriting rule table.
type RulesEngine interface {
	Evaluate(domain.LoanFacts) domain.RulesEvaluation
}

// PricingEngine prices a loan off the rate sheet.
type PricingEngine interface {
	Price(domain.PricingInput) domain.PricingResult
}

// Service runs both engines and resolves their outputs into a decision.
type Service struct {
	rules   RulesEngine
	pricing PricingEngine
	logger  logging.Logger
}

// New creates a decision service over the given engines.
func New(rules RulesEngine, pricing PricingEngine) *Service {
	return &Service{rules: rules, pricing: pricing, logger: logging.NopLogger{}}
}

// SetLogger sets the logger used during decisioning.
func (s *Service) SetLogger(l logging.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Decide evaluates rules and, when pricing input is supplied, pricing, then
// resolves the decision. The two engines have no data dependency and run
// concurrently. ID and DecidedAt on the returned decision are left for the
// caller to stamp.
func (s *Service) Decide(ctx context.Context, facts domain.LoanFacts, pricingInput *domain.PricingInput) (domain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return domain.Decision{}, err
	}

	var (
		eval   domain.RulesEvaluation
		priced *domain.PricingResult
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		eval = s.rules.Evaluate(facts)
		return nil
	})
	if pricingInput != nil {
		in := *pricingInput
		g.Go(func() error {
			result := s.pricing.Price(in)
			priced = &result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Decision{}, err
	}

	decisionType, reason := resolve(eval, priced)
	conditions := generateConditions(eval, facts.Units)

	var notes []string
	if len(eval.HardStops) > 0 {
		notes = append(notes, fmt.Sprintf("Hard stop violations: %d", len(eval.HardStops)))
		for _, hs := range eval.HardStops {
			notes = append(notes, fmt.Sprintf("  - %s: %s", hs.RuleName, hs.Message))
		}
	}
	if len(eval.ExceptionsRequired) > 0 {
		notes = append(notes, fmt.Sprintf("Exceptions required: %d", len(eval.ExceptionsRequired)))
	}

	d := domain.Decision{
		ApplicationID:      facts.ApplicationID,
		Type:               decisionType,
		Reason:             reason,
		Rules:              &eval,
		Pricing:            priced,
		RulesPassed:        eval.OverallStatus == domain.StatusPass,
		EligibleForPricing: priced != nil && priced.Eligible,
		HardStopCount:      len(eval.HardStops),
		ExceptionCount:     len(eval.ExceptionsRequired),
		WarningCount:       len(eval.Warnings),
		Conditions:         conditions,
		Notes:              notes,
	}
	if priced != nil {
		rate := priced.FinalRate
		d.FinalRate = &rate
	}

	s.logger.Infof("decision for %s: %s (%s), %d conditions", facts.ApplicationID, d.Type, d.Reason, len(d.Conditions))
	return d, nil
}

func resolve(eval domain.RulesEvaluation, priced *domain.PricingResult) (domain.DecisionType, domain.DecisionReason) {
	switch {
	case len(eval.HardStops) > 0:
		return domain.DecisionDeclined, domain.ReasonHardStopViolation
	case priced != nil && !priced.Eligible:
		return domain.DecisionDeclined, domain.ReasonPricingIneligible
	case len(eval.ExceptionsRequired) > 0:
		return domain.DecisionReferred, domain.ReasonExceptionRequired
	case priced != nil && priced.Tier == domain.TierHighRisk:
		return domain.DecisionReferred, domain.ReasonHighRisk
	default:
		return domain.DecisionConditionallyApproved, domain.ReasonMeetsGuidelines
	}
}

// generateConditions builds the baseline stipulation set, the multi-unit
// rent roll when applicable, and one non-required condition per rule
// warning.
func generateConditions(eval domain.RulesEvaluation, units int) []domain.Condition {
	conditions := []domain.Condition{
		automated(domain.ConditionPriorToDocs, "Verify borrower identity"),
		automated(domain.ConditionPriorToDocs, "Obtain credit report"),
		automated(domain.ConditionPriorToDocs, "Verify property ownership/purchase contract"),
		automated(domain.ConditionPriorToDocs, "Obtain rent schedule or lease agreements"),
	}
	if units > 1 {
		conditions = append(conditions, automated(domain.ConditionPriorToDocs, "Obtain rent roll for all units"))
	}
	conditions = append(conditions,
		automated(domain.ConditionPriorToClose, "Obtain satisfactory appraisal"),
		automated(domain.ConditionPriorToFunding, "Clear title with no liens"),
		automated(domain.ConditionPriorToFunding, "Proof of hazard insurance"),
	)
	for _, w := range eval.Warnings {
		c := automated(domain.ConditionPriorToDocs, "Address: "+w.Message)
		c.Required = false
		conditions = append(conditions, c)
	}
	return conditions
}

func automated(category domain.ConditionCategory, description string) domain.Condition {
	return domain.Condition{
		Category:    category,
		Description: description,
		Required:    true,
		Source:      domain.ConditionSourceAutomated,
	}
}
