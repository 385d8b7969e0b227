package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Application is the on-disk underwriting input document. Monetary fields
// are authored in dollars and converted to Money at the flattening step.
type Application struct {
	ApplicationID string `yaml:"application_id" json:"application_id"`
	PropertyID    string `yaml:"property_id" json:"property_id"`
	LoanNumber    string `yaml:"loan_number,omitempty" json:"loan_number,omitempty"`

	Property PropertyDetails   `yaml:"property" json:"property"`
	Borrower BorrowerProfile   `yaml:"borrower" json:"borrower"`
	Loan     LoanRequest       `yaml:"loan" json:"loan"`
	Income   RentalIncome      `yaml:"income" json:"income"`
	Expenses PropertyExpenses  `yaml:"expenses" json:"expenses"`
	Targets  *EvaluationTarget `yaml:"targets,omitempty" json:"targets,omitempty"`
}

// PropertyDetails describes the collateral.
type PropertyDetails struct {
	Type           PropertyType     `yaml:"type" json:"type"`
	State          string           `yaml:"state" json:"state"`
	Units          int              `yaml:"units" json:"units"`
	Rural          bool             `yaml:"rural,omitempty" json:"rural,omitempty"`
	Value          decimal.Decimal  `yaml:"value" json:"value"`
	AppraisedValue *decimal.Decimal `yaml:"appraised_value,omitempty" json:"appraised_value,omitempty"`
	AVMValue       *decimal.Decimal `yaml:"avm_value,omitempty" json:"avm_value,omitempty"`
}

// BorrowerProfile is the credit-side fact set.
type BorrowerProfile struct {
	CreditScore         int `yaml:"credit_score" json:"credit_score"`
	MonthsReserves      int `yaml:"months_reserves" json:"months_reserves"`
	PriorBankruptcies   int `yaml:"prior_bankruptcies,omitempty" json:"prior_bankruptcies,omitempty"`
	PriorForeclosures   int `yaml:"prior_foreclosures,omitempty" json:"prior_foreclosures,omitempty"`
	MortgageDelinquency int `yaml:"mortgage_delinquency,omitempty" json:"mortgage_delinquency,omitempty"`
}

// LoanRequest is the requested loan structure.
type LoanRequest struct {
	Amount             decimal.Decimal  `yaml:"amount" json:"amount"`
	InterestRate       float64          `yaml:"interest_rate" json:"interest_rate"` // annual fraction
	TermMonths         int              `yaml:"term_months" json:"term_months"`
	InterestOnlyMonths int              `yaml:"interest_only_months,omitempty" json:"interest_only_months,omitempty"`
	SubordinateBalance *decimal.Decimal `yaml:"subordinate_balance,omitempty" json:"subordinate_balance,omitempty"`
	Purpose            LoanPurpose      `yaml:"purpose" json:"purpose"`
	Occupancy          OccupancyType    `yaml:"occupancy" json:"occupancy"`
}

// RentalIncome is the income side of the property operating statement.
type RentalIncome struct {
	GrossMonthlyRent    *decimal.Decimal `yaml:"gross_monthly_rent,omitempty" json:"gross_monthly_rent,omitempty"`
	RentRoll            []RentRollRow    `yaml:"rent_roll,omitempty" json:"rent_roll,omitempty"`
	OtherMonthlyIncome  *decimal.Decimal `yaml:"other_monthly_income,omitempty" json:"other_monthly_income,omitempty"`
	VacancyRate         *float64         `yaml:"vacancy_rate,omitempty" json:"vacancy_rate,omitempty"`
	ShortTermRental     bool             `yaml:"short_term_rental,omitempty" json:"short_term_rental,omitempty"`
	STRAnnualizedIncome *decimal.Decimal `yaml:"str_annualized_income,omitempty" json:"str_annualized_income,omitempty"`
}

// RentRollRow is one unit's row as authored in the input document.
type RentRollRow struct {
	Unit        string          `yaml:"unit" json:"unit"`
	MonthlyRent decimal.Decimal `yaml:"monthly_rent" json:"monthly_rent"`
	Occupied    bool            `yaml:"occupied" json:"occupied"`
}

// PropertyExpenses is the expense side of the operating statement.
type PropertyExpenses struct {
	AnnualPropertyTax     *decimal.Decimal `yaml:"annual_property_tax,omitempty" json:"annual_property_tax,omitempty"`
	AnnualInsurance       *decimal.Decimal `yaml:"annual_insurance,omitempty" json:"annual_insurance,omitempty"`
	MonthlyHOA            *decimal.Decimal `yaml:"monthly_hoa,omitempty" json:"monthly_hoa,omitempty"`
	ManagementFeeRate     *float64         `yaml:"management_fee_rate,omitempty" json:"management_fee_rate,omitempty"`
	MonthlyFloodInsurance *decimal.Decimal `yaml:"monthly_flood_insurance,omitempty" json:"monthly_flood_insurance,omitempty"`
	OtherMonthlyExpenses  *decimal.Decimal `yaml:"other_monthly_expenses,omitempty" json:"other_monthly_expenses,omitempty"`
}

// EvaluationTarget holds optional solver targets for the application.
type EvaluationTarget struct {
	TargetDSCR *float64 `yaml:"target_dscr,omitempty" json:"target_dscr,omitempty"`
}

func optionalMoney(d *decimal.Decimal) *Money {
	if d == nil {
		return nil
	}
	m := MoneyFromDecimal(*d)
	return &m
}

// CalculationInput flattens the document into the DSCR calculator's input.
func (a *Application) CalculationInput() CalculationInput {
	in := CalculationInput{
		ApplicationID:       a.ApplicationID,
		PropertyID:          a.PropertyID,
		GrossMonthlyRent:    optionalMoney(a.Income.GrossMonthlyRent),
		OtherMonthlyIncome:  optionalMoney(a.Income.OtherMonthlyIncome),
		VacancyRate:         a.Income.VacancyRate,
		IsShortTermRental:   a.Income.ShortTermRental,
		STRAnnualizedIncome: optionalMoney(a.Income.STRAnnualizedIncome),

		AnnualPropertyTax:     optionalMoney(a.Expenses.AnnualPropertyTax),
		AnnualInsurance:       optionalMoney(a.Expenses.AnnualInsurance),
		MonthlyHOA:            optionalMoney(a.Expenses.MonthlyHOA),
		ManagementFeeRate:     a.Expenses.ManagementFeeRate,
		MonthlyFloodInsurance: optionalMoney(a.Expenses.MonthlyFloodInsurance),
		OtherMonthlyExpenses:  optionalMoney(a.Expenses.OtherMonthlyExpenses),

		LoanAmount:         MoneyFromDecimal(a.Loan.Amount),
		InterestRate:       a.Loan.InterestRate,
		TermMonths:         a.Loan.TermMonths,
		InterestOnlyMonths: a.Loan.InterestOnlyMonths,
	}
	for _, row := range a.Income.RentRoll {
		in.RentRoll = append(in.RentRoll, RentRollUnit{
			Unit:        row.Unit,
			MonthlyRent: MoneyFromDecimal(row.MonthlyRent),
			Occupied:    row.Occupied,
		})
	}
	return in
}

// LTV is the first-lien loan-to-value percentage. A non-positive property
// value yields NaN, which downstream rules report as not applicable.
func (a *Application) LTV() float64 {
	if !a.Property.Value.IsPositive() {
		return math.NaN()
	}
	ratio, _ := a.Loan.Amount.Div(a.Property.Value).Mul(decimal.NewFromInt(100)).Float64()
	return ratio
}

// CLTV is the combined loan-to-value percentage including any subordinate
// balance. Without subordinate financing it equals LTV.
func (a *Application) CLTV() float64 {
	if a.Loan.SubordinateBalance == nil {
		return a.LTV()
	}
	if !a.Property.Value.IsPositive() {
		return math.NaN()
	}
	total := a.Loan.Amount.Add(*a.Loan.SubordinateBalance)
	ratio, _ := total.Div(a.Property.Value).Mul(decimal.NewFromInt(100)).Float64()
	return ratio
}

// LoanFacts flattens the document plus a computed DSCR ratio into the fact
// set the rules engine evaluates.
func (a *Application) LoanFacts(dscr float64) LoanFacts {
	return LoanFacts{
		ApplicationID:       a.ApplicationID,
		DSCR:                dscr,
		LTV:                 a.LTV(),
		CLTV:                a.CLTV(),
		CreditScore:         a.Borrower.CreditScore,
		PropertyType:        a.Property.Type,
		PropertyState:       a.Property.State,
		Units:               a.Property.Units,
		IsRural:             a.Property.Rural,
		LoanAmount:          MoneyFromDecimal(a.Loan.Amount),
		LoanPurpose:         a.Loan.Purpose,
		OccupancyType:       a.Loan.Occupancy,
		MonthsReserves:      a.Borrower.MonthsReserves,
		PriorBankruptcies:   a.Borrower.PriorBankruptcies,
		PriorForeclosures:   a.Borrower.PriorForeclosures,
		MortgageDelinquency: a.Borrower.MortgageDelinquency,
	}
}

// PricingInput flattens the document plus a computed DSCR ratio into the
// pricing engine's input.
func (a *Application) PricingInput(dscr float64) PricingInput {
	return PricingInput{
		ApplicationID: a.ApplicationID,
		DSCR:          dscr,
		LTV:           a.LTV(),
		CreditScore:   a.Borrower.CreditScore,
		LoanAmount:    MoneyFromDecimal(a.Loan.Amount),
		PropertyType:  a.Property.Type,
		IsCashOut:     a.Loan.Purpose.IsCashOut(),
	}
}

// TargetDSCR returns the solver target, falling back to the supplied
// default when the document does not set one.
func (a *Application) TargetDSCR(fallback float64) float64 {
	if a.Targets != nil && a.Targets.TargetDSCR != nil {
		return *a.Targets.TargetDSCR
	}
	return fallback
}
