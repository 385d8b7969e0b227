package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// WarningLevel grades an advisory finding on a calculation result.
type WarningLevel string

const (
	LevelInfo    WarningLevel = "INFO"
	LevelWarning WarningLevel = "WARNING"
	LevelError   WarningLevel = "ERROR"
)

// Warning codes attached by the DSCR calculator.
const (
	WarnNoRentData         = "NO_RENT_DATA"
	WarnRentDiscrepancy    = "RENT_DISCREPANCY"
	WarnHighExpenseRatio   = "HIGH_EXPENSE_RATIO"
	WarnBelowMinimumDSCR   = "BELOW_MINIMUM_DSCR"
	WarnBelowPreferredDSCR = "BELOW_PREFERRED_DSCR"
	WarnUnusuallyHighDSCR  = "UNUSUALLY_HIGH_DSCR"
)

// CalculationWarning is an advisory finding attached to a calculation
// result. Warnings never abort a calculation; even an ERROR-level warning
// produces a usable (if degenerate) result.
type CalculationWarning struct {
	Code    string       `yaml:"code" json:"code"`
	Level   WarningLevel `yaml:"level" json:"level"`
	Message string       `yaml:"message" json:"message"`
}

// Ratio is a coverage ratio. It is a plain float64 except that it survives
// JSON round trips when infinite or NaN (a zero-PITIA loan has ratio +Inf).
type Ratio float64

// IsFinite reports whether the ratio is an ordinary number.
func (r Ratio) IsFinite() bool {
	f := float64(r)
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// String renders the ratio to three decimal places, or a symbolic form for
// non-finite values.
func (r Ratio) String() string {
	f := float64(r)
	switch {
	case math.IsInf(f, +1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return fmt.Sprintf("%.3f", f)
}

// MarshalJSON encodes non-finite ratios as the strings "Infinity",
// "-Infinity" and "NaN", which encoding/json cannot represent as numbers.
func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	switch {
	case math.IsInf(f, +1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON accepts either a JSON number or the symbolic strings
// produced by MarshalJSON.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*r = Ratio(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("ratio: %w", err)
	}
	switch s {
	case "Infinity":
		*r = Ratio(math.Inf(+1))
	case "-Infinity":
		*r = Ratio(math.Inf(-1))
	case "NaN":
		*r = Ratio(math.NaN())
	default:
		return fmt.Errorf("ratio: unrecognized value %q", s)
	}
	return nil
}

// RentRollUnit is one unit's row in a property rent roll.
type RentRollUnit struct {
	Unit        string `yaml:"unit" json:"unit"`
	MonthlyRent Money  `yaml:"monthly_rent" json:"monthly_rent"`
	Occupied    bool   `yaml:"occupied" json:"occupied"`
}

// CalculationInput carries everything the DSCR calculator needs for one
// rental-property loan. Pointer fields are optional; a nil rate pointer
// applies the calculator default while an explicit zero is honored.
type CalculationInput struct {
	ApplicationID string `yaml:"application_id" json:"application_id"`
	PropertyID    string `yaml:"property_id" json:"property_id"`

	// Income
	GrossMonthlyRent    *Money         `yaml:"gross_monthly_rent,omitempty" json:"gross_monthly_rent,omitempty"`
	RentRoll            []RentRollUnit `yaml:"rent_roll,omitempty" json:"rent_roll,omitempty"`
	OtherMonthlyIncome  *Money         `yaml:"other_monthly_income,omitempty" json:"other_monthly_income,omitempty"`
	VacancyRate         *float64       `yaml:"vacancy_rate,omitempty" json:"vacancy_rate,omitempty"`
	IsShortTermRental   bool           `yaml:"is_short_term_rental,omitempty" json:"is_short_term_rental,omitempty"`
	STRAnnualizedIncome *Money         `yaml:"str_annualized_income,omitempty" json:"str_annualized_income,omitempty"`

	// Operating expenses
	AnnualPropertyTax     *Money   `yaml:"annual_property_tax,omitempty" json:"annual_property_tax,omitempty"`
	AnnualInsurance       *Money   `yaml:"annual_insurance,omitempty" json:"annual_insurance,omitempty"`
	MonthlyHOA            *Money   `yaml:"monthly_hoa,omitempty" json:"monthly_hoa,omitempty"`
	ManagementFeeRate     *float64 `yaml:"management_fee_rate,omitempty" json:"management_fee_rate,omitempty"`
	MonthlyFloodInsurance *Money   `yaml:"monthly_flood_insurance,omitempty" json:"monthly_flood_insurance,omitempty"`
	OtherMonthlyExpenses  *Money   `yaml:"other_monthly_expenses,omitempty" json:"other_monthly_expenses,omitempty"`

	// Loan terms
	LoanAmount         Money   `yaml:"loan_amount" json:"loan_amount"`
	InterestRate       float64 `yaml:"interest_rate" json:"interest_rate"` // annual fraction, e.g. 0.0725
	TermMonths         int     `yaml:"term_months" json:"term_months"`
	InterestOnlyMonths int     `yaml:"interest_only_months,omitempty" json:"interest_only_months,omitempty"`
}

// IncomeBreakdown shows how gross rent became effective income.
// TotalGrossIncome (effective rent plus other income) is the base for the
// management fee and the expense-ratio screen.
type IncomeBreakdown struct {
	GrossMonthlyRent   Money   `yaml:"gross_monthly_rent" json:"gross_monthly_rent"`
	VacancyRate        float64 `yaml:"vacancy_rate" json:"vacancy_rate"`
	EffectiveGrossRent Money   `yaml:"effective_gross_rent" json:"effective_gross_rent"`
	OtherMonthlyIncome Money   `yaml:"other_monthly_income" json:"other_monthly_income"`
	TotalGrossIncome   Money   `yaml:"total_gross_income" json:"total_gross_income"`
}

// ExpenseBreakdown itemizes monthly operating expenses.
type ExpenseBreakdown struct {
	MonthlyTaxes     Money `yaml:"monthly_taxes" json:"monthly_taxes"`
	MonthlyInsurance Money `yaml:"monthly_insurance" json:"monthly_insurance"`
	MonthlyHOA       Money `yaml:"monthly_hoa" json:"monthly_hoa"`
	ManagementFee    Money `yaml:"management_fee" json:"management_fee"`
	FloodInsurance   Money `yaml:"flood_insurance" json:"flood_insurance"`
	OtherExpenses    Money `yaml:"other_expenses" json:"other_expenses"`
	TotalMonthly     Money `yaml:"total_monthly" json:"total_monthly"`
}

// NOIBreakdown is net operating income on monthly and annual bases.
type NOIBreakdown struct {
	Monthly Money `yaml:"monthly" json:"monthly"`
	Annual  Money `yaml:"annual" json:"annual"`
}

// DebtServiceBreakdown itemizes the monthly housing obligation (PITIA).
// Flood and discretionary expenses are operating costs, not debt service,
// so they appear in ExpenseBreakdown only.
type DebtServiceBreakdown struct {
	MonthlyPrincipalAndInterest Money `yaml:"monthly_principal_and_interest" json:"monthly_principal_and_interest"`
	MonthlyTaxes                Money `yaml:"monthly_taxes" json:"monthly_taxes"`
	MonthlyInsurance            Money `yaml:"monthly_insurance" json:"monthly_insurance"`
	MonthlyHOA                  Money `yaml:"monthly_hoa" json:"monthly_hoa"`
	TotalMonthlyPITIA           Money `yaml:"total_monthly_pitia" json:"total_monthly_pitia"`
	InterestOnly                bool  `yaml:"interest_only" json:"interest_only"`
}

// CalculationResult is the full output of one DSCR calculation. ID and
// CalculatedAt are attached by the caller; the calculator itself is
// deterministic and leaves them zero.
type CalculationResult struct {
	ID            string `yaml:"id,omitempty" json:"id,omitempty"`
	ApplicationID string `yaml:"application_id" json:"application_id"`
	PropertyID    string `yaml:"property_id" json:"property_id"`

	Income      IncomeBreakdown      `yaml:"income" json:"income"`
	Expenses    ExpenseBreakdown     `yaml:"expenses" json:"expenses"`
	NOI         NOIBreakdown         `yaml:"noi" json:"noi"`
	DebtService DebtServiceBreakdown `yaml:"debt_service" json:"debt_service"`

	DSCRRatio       Ratio   `yaml:"dscr_ratio" json:"dscr_ratio"`
	MeetsMinimum    bool    `yaml:"meets_minimum" json:"meets_minimum"`
	MinimumRequired float64 `yaml:"minimum_required" json:"minimum_required"`

	Warnings []CalculationWarning `yaml:"warnings,omitempty" json:"warnings,omitempty"`

	CalculatorVersion string    `yaml:"calculator_version" json:"calculator_version"`
	CalculatedAt      time.Time `yaml:"calculated_at,omitempty" json:"calculated_at,omitempty"`
}

// Scenario is one stress variant of a calculation: the adjustments applied
// and the recalculated coverage ratio.
type Scenario struct {
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description" json:"description"`
	Adjustments map[string]float64 `yaml:"adjustments" json:"adjustments"`
	DSCR        Ratio              `yaml:"dscr_result" json:"dscr_result"`
}
