// Package service wires the calculator, rules, pricing and decision engines
// into the underwriting boundary the CLI drives. The engines underneath are
// deterministic; this layer owns everything that is not: identifiers,
// timestamps, the evaluation cache and pipeline state.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finbrook/dscrgo/internal/decision"
	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/dscr"
	"github.com/finbrook/dscrgo/internal/logging"
	"github.com/finbrook/dscrgo/internal/pricing"
	"github.com/finbrook/dscrgo/internal/rules"
	"github.com/finbrook/dscrgo/internal/store"
	"github.com/finbrook/dscrgo/internal/valuation"
	"github.com/finbrook/dscrgo/internal/workflow"
)

// Evaluation is the assembled output of one full underwriting pass. Rules
// and Pricing alias the evidence the decision carries, so formatters can
// read each section without walking the decision.
type Evaluation struct {
	ID          string              `yaml:"id" json:"id"`
	Application *domain.Application `yaml:"application" json:"application"`

	DSCR      domain.CalculationResult `yaml:"dscr" json:"dscr"`
	Scenarios []domain.Scenario        `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
	Rules     *domain.RulesEvaluation  `yaml:"rules,omitempty" json:"rules,omitempty"`
	Pricing   *domain.PricingResult    `yaml:"pricing,omitempty" json:"pricing,omitempty"`
	Decision  domain.Decision          `yaml:"decision" json:"decision"`

	EvaluatedAt time.Time `yaml:"evaluated_at" json:"evaluated_at"`
	FromCache   bool      `yaml:"-" json:"-"`
}

// EvaluateOptions tunes a single evaluation pass.
type EvaluateOptions struct {
	// SkipPricing evaluates rules and the decision without running the
	// pricing engine, for files that only need an eligibility read.
	SkipPricing bool
	// BypassCache forces a fresh evaluation even when a cached one exists.
	BypassCache bool
}

// Config carries the injectable pieces of an Underwriter. Zero fields fall
// back to production defaults.
type Config struct {
	// Calculator overrides the default DSCR calculator, typically to apply
	// guideline overlays.
	Calculator *dscr.Calculator
	// Cache enables evaluation caching when non-nil.
	Cache store.EvaluationCache
	// CacheTTL bounds cached evaluations; zero means store.DefaultTTL.
	CacheTTL time.Duration
	Clock    func() time.Time
	NewID    func() string
}

// Underwriter orchestrates one application's path through the pipeline:
// calculate, evaluate rules, price, decide, then stamp and cache the result.
type Underwriter struct {
	calc      *dscr.Calculator
	rules     *rules.Engine
	pricing   *pricing.Engine
	decisions *decision.Service
	pipeline  *workflow.Engine
	cache     store.EvaluationCache
	cacheTTL  time.Duration
	clock     func() time.Time
	newID     func() string
	logger    logging.Logger
}

// New returns an Underwriter with default engines and no cache.
func New() *Underwriter {
	return NewWithConfig(Config{})
}

// NewWithConfig returns an Underwriter built from cfg.
func NewWithConfig(cfg Config) *Underwriter {
	calc := cfg.Calculator
	if calc == nil {
		calc = dscr.New()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = store.DefaultTTL
	}

	ruleEngine := rules.New()
	priceEngine := pricing.New()
	return &Underwriter{
		calc:      calc,
		rules:     ruleEngine,
		pricing:   priceEngine,
		decisions: decision.New(ruleEngine, priceEngine),
		pipeline: workflow.NewWithConfig(workflow.Config{
			Clock: clock,
			NewID: newID,
		}),
		cache:    cfg.Cache,
		cacheTTL: ttl,
		clock:    clock,
		newID:    newID,
		logger:   logging.NopLogger{},
	}
}

// SetLogger routes this service's and every owned engine's log output
// through l.
func (u *Underwriter) SetLogger(l logging.Logger) {
	u.logger = l
	u.calc.SetLogger(l)
	u.rules.SetLogger(l)
	u.pricing.SetLogger(l)
	u.decisions.SetLogger(l)
	u.pipeline.SetLogger(l)
}

// Calculator exposes the configured calculator for solver subcommands.
func (u *Underwriter) Calculator() *dscr.Calculator {
	return u.calc
}

// Workflow exposes the pipeline engine for milestone operations.
func (u *Underwriter) Workflow() *workflow.Engine {
	return u.pipeline
}

// EvaluateApplication runs the full pipeline with default options.
func (u *Underwriter) EvaluateApplication(ctx context.Context, app *domain.Application) (*Evaluation, error) {
	return u.Evaluate(ctx, app, EvaluateOptions{})
}

// Evaluate runs the full pipeline for one application document: DSCR
// calculation, stress scenarios, rules, pricing and the decision, stamped
// with identifiers and timestamps. When a cache is configured the result is
// served from and written back to it, keyed by a fingerprint of the
// document.
func (u *Underwriter) Evaluate(ctx context.Context, app *domain.Application, opts EvaluateOptions) (*Evaluation, error) {
	key := u.cacheKey(app, opts)
	if key != "" && !opts.BypassCache {
		if cached, ok := u.cachedEvaluation(ctx, key); ok {
			u.logger.Infof("application %s: served from cache", app.ApplicationID)
			return cached, nil
		}
	}

	in := app.CalculationInput()
	result := u.calc.Calculate(in)
	scenarios := u.calc.Scenarios(in)

	ratio := float64(result.DSCRRatio)
	facts := app.LoanFacts(ratio)

	var pricingInput *domain.PricingInput
	if !opts.SkipPricing {
		pi := app.PricingInput(ratio)
		pricingInput = &pi
	}

	dec, err := u.decisions.Decide(ctx, facts, pricingInput)
	if err != nil {
		return nil, fmt.Errorf("failed to decide application %s: %w", app.ApplicationID, err)
	}
	if note := valuationNote(app); note != "" {
		dec.Notes = append(dec.Notes, note)
	}

	eval := &Evaluation{
		ID:          u.newID(),
		Application: app,
		DSCR:        result,
		Scenarios:   scenarios,
		Decision:    dec,
		EvaluatedAt: u.clock(),
	}
	u.stamp(eval)

	u.logger.Infof("application %s: dscr=%s decision=%s", app.ApplicationID, result.DSCRRatio, dec.Type)

	if key != "" {
		u.storeEvaluation(ctx, key, eval)
	}
	return eval, nil
}

// stamp attaches identifiers and the evaluation timestamp to every record
// in the result, and lifts the decision's evidence into the top-level
// aliases.
func (u *Underwriter) stamp(eval *Evaluation) {
	now := eval.EvaluatedAt

	eval.DSCR.ID = u.newID()
	eval.DSCR.CalculatedAt = now

	if eval.Decision.Rules != nil {
		eval.Decision.Rules.ID = u.newID()
		eval.Decision.Rules.EvaluatedAt = now
	}
	if eval.Decision.Pricing != nil {
		eval.Decision.Pricing.ID = u.newID()
		eval.Decision.Pricing.PricedAt = now
	}
	eval.Decision.ID = u.newID()
	eval.Decision.DecidedAt = now
	for i := range eval.Decision.Conditions {
		eval.Decision.Conditions[i].ID = u.newID()
	}

	eval.Rules = eval.Decision.Rules
	eval.Pricing = eval.Decision.Pricing
}

// valuationNote reconciles the AVM estimate against the appraisal when the
// document carries both, and phrases the outcome for the decision notes.
func valuationNote(app *domain.Application) string {
	if app.Property.AVMValue == nil || app.Property.AppraisedValue == nil {
		return ""
	}

	rec, err := valuation.Reconcile(
		domain.MoneyFromDecimal(*app.Property.AVMValue),
		domain.MoneyFromDecimal(*app.Property.AppraisedValue),
		valuation.DefaultTolerance,
	)
	if err != nil {
		return ""
	}

	if rec.WithinTolerance {
		return fmt.Sprintf("AVM %s corroborates appraisal %s (%.2f%% %s)",
			rec.AVMValue, rec.AppraisalValue, rec.VariancePct, rec.Direction)
	}
	return fmt.Sprintf("AVM %s is %.2f%% %s appraisal %s, outside tolerance; appraised value controls",
		rec.AVMValue, rec.VariancePct, rec.Direction, rec.AppraisalValue)
}

// cacheKey returns the cache key for this evaluation, or "" when caching
// does not apply. Pricing-skipped runs are keyed separately from full runs.
func (u *Underwriter) cacheKey(app *domain.Application, opts EvaluateOptions) string {
	if u.cache == nil {
		return ""
	}
	key, err := store.EvaluationKey(app)
	if err != nil {
		u.logger.Warnf("application %s: fingerprint failed, caching disabled for this run: %v", app.ApplicationID, err)
		return ""
	}
	if opts.SkipPricing {
		key += ":no-pricing"
	}
	return key
}

func (u *Underwriter) cachedEvaluation(ctx context.Context, key string) (*Evaluation, bool) {
	data, found, err := u.cache.Get(ctx, key)
	if err != nil {
		u.logger.Warnf("cache get failed: %v", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	var eval Evaluation
	if err := json.Unmarshal(data, &eval); err != nil {
		u.logger.Warnf("cache entry for %s is unreadable, recomputing: %v", key, err)
		return nil, false
	}
	eval.FromCache = true
	return &eval, true
}

func (u *Underwriter) storeEvaluation(ctx context.Context, key string, eval *Evaluation) {
	data, err := json.Marshal(eval)
	if err != nil {
		u.logger.Warnf("failed to serialize evaluation for cache: %v", err)
		return
	}
	if err := u.cache.Set(ctx, key, data, u.cacheTTL); err != nil {
		u.logger.Warnf("cache set failed: %v", err)
	}
}

// DecisionMilestone maps a decision outcome to the pipeline milestone it
// implies. The second return is false for outcomes that hold the file where
// it is until an underwriter acts (REFERRED, SUSPENDED).
func DecisionMilestone(t domain.DecisionType) (workflow.Milestone, bool) {
	switch t {
	case domain.DecisionConditionallyApproved:
		return workflow.MilestoneConditionallyApproved, true
	case domain.DecisionApproved:
		return workflow.MilestoneApproved, true
	case domain.DecisionDeclined:
		return workflow.MilestoneDenied, true
	default:
		return "", false
	}
}

// RecordDecision advances the application's pipeline state to the milestone
// implied by the decision. Files the engine has not seen yet are registered
// at SUBMITTED first, which is the stage automated decisioning runs in.
func (u *Underwriter) RecordDecision(applicationID string, t domain.DecisionType, by string) (workflow.Transition, error) {
	milestone, ok := DecisionMilestone(t)
	if !ok {
		return workflow.Transition{}, fmt.Errorf("decision %s does not advance the pipeline", t)
	}

	current := workflow.MilestoneSubmitted
	if history := u.pipeline.History(applicationID); len(history) > 0 {
		current = history[len(history)-1].To
	} else {
		u.pipeline.Register(applicationID, workflow.MilestoneSubmitted, by)
	}

	return u.pipeline.Transition(applicationID, current, milestone, by, "automated decision: "+string(t))
}
