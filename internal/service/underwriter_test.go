package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/store"
	mock_store "github.com/finbrook/dscrgo/internal/store/mocks"
	"github.com/finbrook/dscrgo/internal/workflow"
)

// testApplication prices out cleanly: DSCR about 1.41, LTV 75, credit 740.
func testApplication() *domain.Application {
	rent := decimal.NewFromInt(7000)
	tax := decimal.NewFromInt(7200)
	insurance := decimal.NewFromInt(1800)
	return &domain.Application{
		ApplicationID: "app-001",
		PropertyID:    "prop-001",
		Property: domain.PropertyDetails{
			Type:  domain.PropertySFR,
			State: "TX",
			Units: 1,
			Value: decimal.NewFromInt(600000),
		},
		Borrower: domain.BorrowerProfile{
			CreditScore:    740,
			MonthsReserves: 12,
		},
		Loan: domain.LoanRequest{
			Amount:       decimal.NewFromInt(450000),
			InterestRate: 0.0725,
			TermMonths:   360,
			Purpose:      domain.PurposePurchase,
			Occupancy:    domain.OccupancyInvestment,
		},
		Income: domain.RentalIncome{
			GrossMonthlyRent: &rent,
		},
		Expenses: domain.PropertyExpenses{
			AnnualPropertyTax: &tax,
			AnnualInsurance:   &insurance,
		},
	}
}

// weakApplication carries too little rent for its debt: DSCR about 0.60.
func weakApplication() *domain.Application {
	app := testApplication()
	rent := decimal.NewFromInt(3500)
	app.Income.GrossMonthlyRent = &rent
	return app
}

func testUnderwriter(cache store.EvaluationCache) *Underwriter {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return NewWithConfig(Config{
		Cache: cache,
		Clock: func() time.Time { return now },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
}

func TestEvaluateApplication(t *testing.T) {
	u := testUnderwriter(nil)

	eval, err := u.EvaluateApplication(context.Background(), testApplication())
	require.NoError(t, err)

	assert.Equal(t, "app-001", eval.DSCR.ApplicationID)
	assert.InDelta(t, 1.4053, float64(eval.DSCR.DSCRRatio), 0.0001)
	assert.NotEmpty(t, eval.Scenarios, "Evaluation should include stress scenarios")

	require.NotNil(t, eval.Rules)
	assert.Same(t, eval.Decision.Rules, eval.Rules, "Rules should alias the decision's evidence")
	assert.Equal(t, domain.StatusPass, eval.Rules.OverallStatus)

	require.NotNil(t, eval.Pricing)
	assert.Same(t, eval.Decision.Pricing, eval.Pricing)
	assert.True(t, eval.Pricing.Eligible)
	assert.Equal(t, domain.TierGood, eval.Pricing.Tier)

	assert.Equal(t, domain.DecisionConditionallyApproved, eval.Decision.Type)
	assert.Equal(t, domain.ReasonMeetsGuidelines, eval.Decision.Reason)
	require.NotNil(t, eval.Decision.FinalRate)
	assert.Equal(t, "7.375", eval.Decision.FinalRate.String())

	assert.False(t, eval.FromCache)
}

func TestEvaluateStampsIdentifiersAndTimestamps(t *testing.T) {
	u := testUnderwriter(nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	eval, err := u.EvaluateApplication(context.Background(), testApplication())
	require.NoError(t, err)

	assert.Equal(t, "id-1", eval.ID)
	assert.Equal(t, "id-2", eval.DSCR.ID)
	assert.Equal(t, "id-3", eval.Rules.ID)
	assert.Equal(t, "id-4", eval.Pricing.ID)
	assert.Equal(t, "id-5", eval.Decision.ID)

	assert.Equal(t, now, eval.EvaluatedAt)
	assert.Equal(t, now, eval.DSCR.CalculatedAt)
	assert.Equal(t, now, eval.Rules.EvaluatedAt)
	assert.Equal(t, now, eval.Pricing.PricedAt)
	assert.Equal(t, now, eval.Decision.DecidedAt)

	require.NotEmpty(t, eval.Decision.Conditions)
	seen := map[string]bool{}
	for _, c := range eval.Decision.Conditions {
		assert.NotEmpty(t, c.ID, "Every condition should carry an identifier")
		assert.False(t, seen[c.ID], "Condition identifiers should be unique")
		seen[c.ID] = true
	}
}

func TestEvaluateDeclinedApplication(t *testing.T) {
	u := testUnderwriter(nil)

	eval, err := u.EvaluateApplication(context.Background(), weakApplication())
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionDeclined, eval.Decision.Type)
	assert.Equal(t, domain.ReasonHardStopViolation, eval.Decision.Reason)
	assert.InDelta(t, 0.6045, float64(eval.DSCR.DSCRRatio), 0.001)

	require.NotNil(t, eval.Pricing)
	assert.False(t, eval.Pricing.Eligible, "Indicative pricing should still be attached to a decline")
	assert.False(t, eval.Decision.EligibleForPricing)
	assert.NotEmpty(t, eval.Decision.Conditions, "Declines still carry the baseline conditions")
}

func TestEvaluateSkipPricing(t *testing.T) {
	u := testUnderwriter(nil)

	eval, err := u.Evaluate(context.Background(), testApplication(), EvaluateOptions{SkipPricing: true})
	require.NoError(t, err)

	assert.Nil(t, eval.Pricing)
	assert.Nil(t, eval.Decision.Pricing)
	assert.Nil(t, eval.Decision.FinalRate)
	assert.False(t, eval.Decision.EligibleForPricing)
	assert.Equal(t, domain.DecisionConditionallyApproved, eval.Decision.Type)
}

func TestEvaluateCacheMissThenHit(t *testing.T) {
	cache := store.NewMemoryCache()
	u := testUnderwriter(cache)
	ctx := context.Background()

	first, err := u.EvaluateApplication(ctx, testApplication())
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 1, cache.Len(), "Evaluation should be written back to the cache")

	second, err := u.EvaluateApplication(ctx, testApplication())
	require.NoError(t, err)
	assert.True(t, second.FromCache)

	assert.Equal(t, first.ID, second.ID, "A cache hit should replay the stored evaluation")
	assert.Equal(t, first.Decision.Type, second.Decision.Type)
	assert.Equal(t, first.DSCR.DSCRRatio, second.DSCR.DSCRRatio)
	require.NotNil(t, second.Decision.FinalRate)
	assert.True(t, first.Decision.FinalRate.Equal(*second.Decision.FinalRate))
}

func TestEvaluateCacheKeyTracksDocumentEdits(t *testing.T) {
	cache := store.NewMemoryCache()
	u := testUnderwriter(cache)
	ctx := context.Background()

	first, err := u.EvaluateApplication(ctx, testApplication())
	require.NoError(t, err)

	edited := testApplication()
	edited.Borrower.CreditScore = 700
	second, err := u.EvaluateApplication(ctx, edited)
	require.NoError(t, err)

	assert.False(t, second.FromCache, "An edited document should miss the cache")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, cache.Len())
}

func TestEvaluateBypassCache(t *testing.T) {
	cache := store.NewMemoryCache()
	u := testUnderwriter(cache)
	ctx := context.Background()

	first, err := u.EvaluateApplication(ctx, testApplication())
	require.NoError(t, err)

	second, err := u.Evaluate(ctx, testApplication(), EvaluateOptions{BypassCache: true})
	require.NoError(t, err)

	assert.False(t, second.FromCache)
	assert.NotEqual(t, first.ID, second.ID, "Bypassing the cache should recompute and restamp")
}

func TestEvaluateCacheFailuresAreNonFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mock_store.NewMockEvaluationCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, errors.New("connection refused"))
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	u := testUnderwriter(cache)
	eval, err := u.EvaluateApplication(context.Background(), testApplication())
	require.NoError(t, err, "A broken cache should degrade to uncached evaluation")
	assert.Equal(t, domain.DecisionConditionallyApproved, eval.Decision.Type)
	assert.False(t, eval.FromCache)
}

func TestEvaluateCacheKeySeparatesPricingModes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var keys []string
	cache := mock_store.NewMockEvaluationCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, key string) ([]byte, bool, error) {
			keys = append(keys, key)
			return nil, false, nil
		}).Times(2)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	u := testUnderwriter(cache)
	ctx := context.Background()

	_, err := u.EvaluateApplication(ctx, testApplication())
	require.NoError(t, err)
	_, err = u.Evaluate(ctx, testApplication(), EvaluateOptions{SkipPricing: true})
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1], "Full and pricing-skipped runs must not share a cache entry")
	assert.True(t, strings.HasSuffix(keys[1], ":no-pricing"))
}

func TestEvaluateCacheSetUsesConfiguredTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mock_store.NewMockEvaluationCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), 5*time.Minute).Return(nil)

	u := NewWithConfig(Config{Cache: cache, CacheTTL: 5 * time.Minute})
	_, err := u.EvaluateApplication(context.Background(), testApplication())
	require.NoError(t, err)
}

func TestRecordDecisionAdvancesPipeline(t *testing.T) {
	u := testUnderwriter(nil)

	tr, err := u.RecordDecision("app-001", domain.DecisionConditionallyApproved, "system")
	require.NoError(t, err)
	assert.Equal(t, workflow.MilestoneSubmitted, tr.From)
	assert.Equal(t, workflow.MilestoneConditionallyApproved, tr.To)

	history := u.Workflow().History("app-001")
	require.Len(t, history, 2, "Should register at SUBMITTED before the decision transition")
	assert.Equal(t, workflow.Milestone(""), history[0].From)

	tr, err = u.RecordDecision("app-001", domain.DecisionApproved, "underwriter")
	require.NoError(t, err)
	assert.Equal(t, workflow.MilestoneConditionallyApproved, tr.From)
	assert.Equal(t, workflow.MilestoneApproved, tr.To)
}

func TestRecordDecisionDecline(t *testing.T) {
	u := testUnderwriter(nil)

	tr, err := u.RecordDecision("app-002", domain.DecisionDeclined, "system")
	require.NoError(t, err)
	assert.Equal(t, workflow.MilestoneDenied, tr.To)
}

func TestRecordDecisionHoldsReferrals(t *testing.T) {
	u := testUnderwriter(nil)

	_, err := u.RecordDecision("app-003", domain.DecisionReferred, "system")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not advance the pipeline")
	assert.Empty(t, u.Workflow().History("app-003"), "A held decision should not register the file")
}

func TestEvaluateReconcilesValuations(t *testing.T) {
	app := testApplication()
	avm := decimal.NewFromInt(610000)
	appraisal := decimal.NewFromInt(600000)
	app.Property.AVMValue = &avm
	app.Property.AppraisedValue = &appraisal

	eval, err := testUnderwriter(nil).EvaluateApplication(context.Background(), app)
	require.NoError(t, err)

	require.Len(t, eval.Decision.Notes, 1)
	assert.Equal(t, "AVM $610,000.00 corroborates appraisal $600,000.00 (1.67% over)", eval.Decision.Notes[0])
}

func TestEvaluateFlagsValuationVariance(t *testing.T) {
	app := testApplication()
	avm := decimal.NewFromInt(500000)
	appraisal := decimal.NewFromInt(600000)
	app.Property.AVMValue = &avm
	app.Property.AppraisedValue = &appraisal

	eval, err := testUnderwriter(nil).EvaluateApplication(context.Background(), app)
	require.NoError(t, err)

	require.Len(t, eval.Decision.Notes, 1)
	assert.Contains(t, eval.Decision.Notes[0], "16.67% under")
	assert.Contains(t, eval.Decision.Notes[0], "appraised value controls")
}

func TestEvaluateWithoutValuationsLeavesNoNotes(t *testing.T) {
	eval, err := testUnderwriter(nil).EvaluateApplication(context.Background(), testApplication())
	require.NoError(t, err)
	assert.Empty(t, eval.Decision.Notes)
}
