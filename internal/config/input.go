package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/dscr"
)

// InputParser handles parsing of application and guideline files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadApplication loads an underwriting application from a YAML or JSON file
func (ip *InputParser) LoadApplication(filename string) (*domain.Application, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var app domain.Application
	if err := yaml.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateApplication(&app); err != nil {
		return nil, fmt.Errorf("application validation failed: %w", err)
	}

	return &app, nil
}

// LoadApplicationWithGuidelines loads an application plus an optional
// guidelines overlay. An empty guidelines filename yields nil guidelines.
func (ip *InputParser) LoadApplicationWithGuidelines(appFile, guidelinesFile string) (*domain.Application, *Guidelines, error) {
	app, err := ip.LoadApplication(appFile)
	if err != nil {
		return nil, nil, err
	}
	if guidelinesFile == "" {
		return app, nil, nil
	}
	guidelines, err := ip.LoadGuidelines(guidelinesFile)
	if err != nil {
		return nil, nil, err
	}
	return app, guidelines, nil
}

// ValidateApplication validates the loaded application document
func (ip *InputParser) ValidateApplication(app *domain.Application) error {
	if app.ApplicationID == "" {
		return fmt.Errorf("application_id is required")
	}
	if err := ip.validateProperty(&app.Property); err != nil {
		return fmt.Errorf("property validation failed: %w", err)
	}
	if err := ip.validateBorrower(&app.Borrower); err != nil {
		return fmt.Errorf("borrower validation failed: %w", err)
	}
	if err := ip.validateLoan(&app.Loan); err != nil {
		return fmt.Errorf("loan validation failed: %w", err)
	}
	if err := ip.validateIncome(&app.Income); err != nil {
		return fmt.Errorf("income validation failed: %w", err)
	}
	if err := ip.validateExpenses(&app.Expenses); err != nil {
		return fmt.Errorf("expenses validation failed: %w", err)
	}
	if app.Targets != nil && app.Targets.TargetDSCR != nil && *app.Targets.TargetDSCR <= 0 {
		return fmt.Errorf("target DSCR must be positive")
	}
	return nil
}

func (ip *InputParser) validateProperty(p *domain.PropertyDetails) error {
	if p.Type == "" {
		return fmt.Errorf("property type is required")
	}
	if p.State == "" {
		return fmt.Errorf("state is required")
	}
	if p.Units <= 0 {
		return fmt.Errorf("units must be positive")
	}
	if p.Value.LessThan(decimal.Zero) {
		return fmt.Errorf("property value cannot be negative")
	}
	if p.AppraisedValue != nil && p.AppraisedValue.LessThan(decimal.Zero) {
		return fmt.Errorf("appraised value cannot be negative")
	}
	if p.AVMValue != nil && p.AVMValue.LessThan(decimal.Zero) {
		return fmt.Errorf("AVM value cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateBorrower(b *domain.BorrowerProfile) error {
	if b.CreditScore < 300 || b.CreditScore > 850 {
		return fmt.Errorf("credit score must be between 300 and 850")
	}
	if b.MonthsReserves < 0 {
		return fmt.Errorf("months reserves cannot be negative")
	}
	if b.PriorBankruptcies < 0 {
		return fmt.Errorf("prior bankruptcies cannot be negative")
	}
	if b.PriorForeclosures < 0 {
		return fmt.Errorf("prior foreclosures cannot be negative")
	}
	if b.MortgageDelinquency < 0 {
		return fmt.Errorf("mortgage delinquency count cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateLoan(l *domain.LoanRequest) error {
	if l.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("loan amount must be positive")
	}
	if l.InterestRate < 0 || l.InterestRate >= 1 {
		return fmt.Errorf("interest rate must be an annual fraction between 0 and 1")
	}
	if l.TermMonths <= 0 {
		return fmt.Errorf("term months must be positive")
	}
	if l.InterestOnlyMonths < 0 {
		return fmt.Errorf("interest-only months cannot be negative")
	}
	if l.InterestOnlyMonths > l.TermMonths {
		return fmt.Errorf("interest-only period cannot exceed the loan term")
	}
	if l.SubordinateBalance != nil && l.SubordinateBalance.LessThan(decimal.Zero) {
		return fmt.Errorf("subordinate balance cannot be negative")
	}
	validPurposes := map[domain.LoanPurpose]bool{
		domain.PurposePurchase:          true,
		domain.PurposeRateTermRefinance: true,
		domain.PurposeCashOutRefinance:  true,
	}
	if !validPurposes[l.Purpose] {
		return fmt.Errorf("loan purpose must be 'PURCHASE', 'RATE_TERM_REFINANCE', or 'CASH_OUT_REFINANCE'")
	}
	if l.Occupancy != "" {
		validOccupancies := map[domain.OccupancyType]bool{
			domain.OccupancyInvestment: true,
			domain.OccupancySecondHome: true,
			domain.OccupancyPrimary:    true,
		}
		if !validOccupancies[l.Occupancy] {
			return fmt.Errorf("occupancy must be 'INVESTMENT', 'SECOND_HOME', or 'PRIMARY'")
		}
	}
	return nil
}

func (ip *InputParser) validateIncome(inc *domain.RentalIncome) error {
	if inc.GrossMonthlyRent != nil && inc.GrossMonthlyRent.LessThan(decimal.Zero) {
		return fmt.Errorf("gross monthly rent cannot be negative")
	}
	if inc.OtherMonthlyIncome != nil && inc.OtherMonthlyIncome.LessThan(decimal.Zero) {
		return fmt.Errorf("other monthly income cannot be negative")
	}
	if inc.STRAnnualizedIncome != nil && inc.STRAnnualizedIncome.LessThan(decimal.Zero) {
		return fmt.Errorf("STR annualized income cannot be negative")
	}
	if inc.VacancyRate != nil && (*inc.VacancyRate < 0 || *inc.VacancyRate >= 1) {
		return fmt.Errorf("vacancy rate must be at least 0 and less than 1")
	}
	for i, row := range inc.RentRoll {
		if row.MonthlyRent.LessThan(decimal.Zero) {
			return fmt.Errorf("rent roll entry %d: monthly rent cannot be negative", i)
		}
	}
	return nil
}

func (ip *InputParser) validateExpenses(exp *domain.PropertyExpenses) error {
	if exp.AnnualPropertyTax != nil && exp.AnnualPropertyTax.LessThan(decimal.Zero) {
		return fmt.Errorf("annual property tax cannot be negative")
	}
	if exp.AnnualInsurance != nil && exp.AnnualInsurance.LessThan(decimal.Zero) {
		return fmt.Errorf("annual insurance cannot be negative")
	}
	if exp.MonthlyHOA != nil && exp.MonthlyHOA.LessThan(decimal.Zero) {
		return fmt.Errorf("monthly HOA cannot be negative")
	}
	if exp.ManagementFeeRate != nil && (*exp.ManagementFeeRate < 0 || *exp.ManagementFeeRate >= 1) {
		return fmt.Errorf("management fee rate must be at least 0 and less than 1")
	}
	if exp.MonthlyFloodInsurance != nil && exp.MonthlyFloodInsurance.LessThan(decimal.Zero) {
		return fmt.Errorf("monthly flood insurance cannot be negative")
	}
	if exp.OtherMonthlyExpenses != nil && exp.OtherMonthlyExpenses.LessThan(decimal.Zero) {
		return fmt.Errorf("other monthly expenses cannot be negative")
	}
	return nil
}

// Guidelines is an optional overlay file tuning calculator defaults and
// solver targets without touching the application document.
type Guidelines struct {
	DefaultVacancyRate       *float64 `yaml:"default_vacancy_rate,omitempty" json:"default_vacancy_rate,omitempty"`
	DefaultManagementFeeRate *float64 `yaml:"default_management_fee_rate,omitempty" json:"default_management_fee_rate,omitempty"`
	MinimumDSCR              *float64 `yaml:"minimum_dscr,omitempty" json:"minimum_dscr,omitempty"`
	PreferredDSCR            *float64 `yaml:"preferred_dscr,omitempty" json:"preferred_dscr,omitempty"`
	TargetDSCR               *float64 `yaml:"target_dscr,omitempty" json:"target_dscr,omitempty"`
}

// LoadGuidelines loads a guidelines overlay from a YAML or JSON file
func (ip *InputParser) LoadGuidelines(filename string) (*Guidelines, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var g Guidelines
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.validateGuidelines(&g); err != nil {
		return nil, fmt.Errorf("guidelines validation failed: %w", err)
	}

	return &g, nil
}

func (ip *InputParser) validateGuidelines(g *Guidelines) error {
	if g.DefaultVacancyRate != nil && (*g.DefaultVacancyRate < 0 || *g.DefaultVacancyRate >= 1) {
		return fmt.Errorf("default vacancy rate must be at least 0 and less than 1")
	}
	if g.DefaultManagementFeeRate != nil && (*g.DefaultManagementFeeRate < 0 || *g.DefaultManagementFeeRate >= 1) {
		return fmt.Errorf("default management fee rate must be at least 0 and less than 1")
	}
	if g.MinimumDSCR != nil && *g.MinimumDSCR <= 0 {
		return fmt.Errorf("minimum DSCR must be positive")
	}
	if g.PreferredDSCR != nil && *g.PreferredDSCR <= 0 {
		return fmt.Errorf("preferred DSCR must be positive")
	}
	if g.MinimumDSCR != nil && g.PreferredDSCR != nil && *g.PreferredDSCR < *g.MinimumDSCR {
		return fmt.Errorf("preferred DSCR cannot be less than minimum DSCR")
	}
	if g.TargetDSCR != nil && *g.TargetDSCR <= 0 {
		return fmt.Errorf("target DSCR must be positive")
	}
	return nil
}

// CalculatorConfig produces a calculator configuration with the overlay's
// overrides applied to the defaults. A nil receiver yields the defaults.
func (g *Guidelines) CalculatorConfig() dscr.Config {
	cfg := dscr.DefaultConfig()
	if g == nil {
		return cfg
	}
	if g.DefaultVacancyRate != nil {
		cfg.DefaultVacancyRate = *g.DefaultVacancyRate
	}
	if g.DefaultManagementFeeRate != nil {
		cfg.DefaultManagementFeeRate = *g.DefaultManagementFeeRate
	}
	if g.MinimumDSCR != nil {
		cfg.MinimumDSCR = *g.MinimumDSCR
	}
	if g.PreferredDSCR != nil {
		cfg.PreferredDSCR = *g.PreferredDSCR
	}
	return cfg
}

// SolverTarget returns the overlay's solver target, falling back to the
// given default.
func (g *Guidelines) SolverTarget(fallback float64) float64 {
	if g == nil || g.TargetDSCR == nil {
		return fallback
	}
	return *g.TargetDSCR
}
