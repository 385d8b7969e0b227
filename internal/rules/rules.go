package rules

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/finbrook/dscrgo/internal/domain"
)

// Program thresholds. Loan amount bounds are cents.
const (
	minDSCRHardStop    = 0.75
	minDSCRException   = 1.0
	maxLTVHardStop     = 80.0
	maxLTVPreferred    = 75.0
	minCreditHardStop  = 660
	minCreditPreferred = 700
	minLoanCents       = 10000000  // $100,000
	maxLoanCents       = 300000000 // $3,000,000
	minMonthsReserves  = 6
)

type checkFunc func(domain.LoanFacts) (bool, error)
type messageFunc func(domain.LoanFacts, bool) string

// rule is one row of the underwriting rule table.
type rule struct {
	id       string
	name     string
	category domain.RuleCategory
	severity domain.RuleSeverity
	check    checkFunc
	message  messageFunc
}

var errRatioUnusable = errors.New("ratio is not a number")

func finiteOrError(v float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, errRatioUnusable
	}
	return v, nil
}

// table holds every underwriting rule, evaluated in declaration order.
var table = []rule{
	{
		id:       "DSCR-001",
		name:     "Minimum DSCR",
		category: domain.CategoryIncome,
		severity: domain.SeverityHardStop,
		check: func(f domain.LoanFacts) (bool, error) {
			dscr, err := finiteOrError(f.DSCR)
			if err != nil {
				return false, err
			}
			return dscr >= minDSCRHardStop, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			return fmt.Sprintf("DSCR of %.2f %s minimum 0.75 requirement", f.DSCR, meets(passed))
		},
	},
	{
		id:       "DSCR-002",
		name:     "DSCR Below 1.0",
		category: domain.CategoryIncome,
		severity: domain.SeverityExceptionRequired,
		check: func(f domain.LoanFacts) (bool, error) {
			dscr, err := finiteOrError(f.DSCR)
			if err != nil {
				return false, err
			}
			return dscr >= minDSCRException, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			if passed {
				return fmt.Sprintf("DSCR of %.2f is above 1.0 threshold", f.DSCR)
			}
			return fmt.Sprintf("DSCR of %.2f is below 1.0 threshold", f.DSCR)
		},
	},
	{
		id:       "LTV-001",
		name:     "Maximum LTV",
		category: domain.CategoryCollateral,
		severity: domain.SeverityHardStop,
		check: func(f domain.LoanFacts) (bool, error) {
			ltv, err := finiteOrError(f.LTV)
			if err != nil {
				return false, err
			}
			return ltv <= maxLTVHardStop, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			if passed {
				return fmt.Sprintf("LTV of %.1f%% is within 80%% maximum", f.LTV)
			}
			return fmt.Sprintf("LTV of %.1f%% exceeds 80%% maximum", f.LTV)
		},
	},
	{
		id:       "LTV-002",
		name:     "High LTV Warning",
		category: domain.CategoryCollateral,
		severity: domain.SeverityWarning,
		check: func(f domain.LoanFacts) (bool, error) {
			ltv, err := finiteOrError(f.LTV)
			if err != nil {
				return false, err
			}
			return ltv <= maxLTVPreferred, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			return fmt.Sprintf("LTV of %.1f%% %s within preferred 75%% threshold", f.LTV, is(passed))
		},
	},
	{
		id:       "CREDIT-001",
		name:     "Minimum Credit Score",
		category: domain.CategoryCredit,
		severity: domain.SeverityHardStop,
		check: func(f domain.LoanFacts) (bool, error) {
			return f.CreditScore >= minCreditHardStop, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			return fmt.Sprintf("Credit score of %d %s minimum 660 requirement", f.CreditScore, meets(passed))
		},
	},
	{
		id:       "CREDIT-002",
		name:     "Credit Score Warning",
		category: domain.CategoryCredit,
		severity: domain.SeverityWarning,
		check: func(f domain.LoanFacts) (bool, error) {
			return f.CreditScore >= minCreditPreferred, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			return fmt.Sprintf("Credit score of %d %s above preferred 700 threshold", f.CreditScore, is(passed))
		},
	},
	{
		id:       "CREDIT-003",
		name:     "Recent Bankruptcy",
		category: domain.CategoryCredit,
		severity: domain.SeverityHardStop,
		check: func(f domain.LoanFacts) (bool, error) {
			return f.PriorBankruptcies == 0, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			if passed {
				return "No bankruptcy seasoning issues"
			}
			return fmt.Sprintf("Borrower has %d prior bankruptcy(ies)", f.PriorBankruptcies)
		},
	},
	{
		id:       "CREDIT-004",
		name:     "Recent Foreclosure",
		category: domain.CategoryCredit,
		severity: domain.SeverityHardStop,
		check: func(f domain.LoanFacts) (bool, error) {
			return f.PriorForeclosures == 0, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			if passed {
				return "No foreclosure seasoning issues"
			}
			return fmt.Sprintf("Borrower has %d prior foreclosure(s)", f.PriorForeclosures)
		},
	},
	{
		id:       "PROP-001",
		name:     "Eligible Property Type",
		category: domain.CategoryProperty,
		severity: domain.SeverityHardStop,
		check: func(f domain.LoanFacts) (bool, error) {
			return f.PropertyType.Eligible(), nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			return fmt.Sprintf("Property type %s %s eligible", f.PropertyType, is(passed))
		},
	},
	{
		id:       "PROP-002",
		name:     "Rural Property",
		category: domain.CategoryProperty,
		severity: domain.SeverityExceptionRequired,
		check: func(f domain.LoanFacts) (bool, error) {
			return !f.IsRural, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			if passed {
				return "Property is not in a rural area"
			}
			return "Property is in a rural area - exception required"
		},
	},
	{
		id:       "LOAN-001",
		name:     "Minimum Loan Amount",
		category: domain.CategoryEligibility,
		severity: domain.SeverityHardStop,
		check: func(f domain.LoanFacts) (bool, error) {
			return f.LoanAmount.AmountCents >= minLoanCents, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			return fmt.Sprintf("Loan amount %s %s minimum $100,000", wholeDollars(f.LoanAmount), meets(passed))
		},
	},
	{
		id:       "LOAN-002",
		name:     "Maximum Loan Amount",
		category: domain.CategoryEligibility,
		severity: domain.SeverityHardStop,
		check: func(f domain.LoanFacts) (bool, error) {
			return f.LoanAmount.AmountCents <= maxLoanCents, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			if passed {
				return fmt.Sprintf("Loan amount %s is within maximum $3,000,000", wholeDollars(f.LoanAmount))
			}
			return fmt.Sprintf("Loan amount %s exceeds maximum $3,000,000", wholeDollars(f.LoanAmount))
		},
	},
	{
		id:       "RESERVE-001",
		name:     "Minimum Reserves",
		category: domain.CategoryEligibility,
		severity: domain.SeverityExceptionRequired,
		check: func(f domain.LoanFacts) (bool, error) {
			return f.MonthsReserves >= minMonthsReserves, nil
		},
		message: func(f domain.LoanFacts, passed bool) string {
			return fmt.Sprintf("%d months reserves %s 6 month minimum", f.MonthsReserves, meets(passed))
		},
	},
}

func meets(passed bool) string {
	if passed {
		return "meets"
	}
	return "does not meet"
}

func is(passed bool) string {
	if passed {
		return "is"
	}
	return "is not"
}

// wholeDollars formats an amount without the cents, e.g. "$450,000".
func wholeDollars(m domain.Money) string {
	s := m.String()
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}
