// Package dscr computes debt service coverage for rental-property loans:
// income normalization, operating expenses, NOI, amortized debt service,
// the DSCR ratio with advisory warnings, stress scenarios, and the inverse
// solvers (required rent, maximum loan).
//
// The calculator is pure: no I/O, no clock, no identifiers. Identical
// inputs produce bit-identical results.
package dscr

import (
	"fmt"
	"math"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/logging"
)

// CalculatorVersion is recorded on every result so stored calculations can
// be traced to the arithmetic that produced them.
const CalculatorVersion = "2.0.0"

// Default policy knobs.
const (
	DefaultVacancyRate       = 0.05
	DefaultManagementFeeRate = 0.08
	MinimumDSCR              = 1.0
	PreferredDSCR            = 1.25
)

// unusuallyHighDSCR flags ratios that usually indicate bad income data.
const unusuallyHighDSCR = 3.0

// expenseRatioCeiling flags operating costs out of proportion to income.
const expenseRatioCeiling = 0.50

// Config tunes the calculator's policy knobs. Zero values are taken
// literally; use DefaultConfig as the starting point.
type Config struct {
	DefaultVacancyRate       float64 `yaml:"default_vacancy_rate" json:"default_vacancy_rate"`
	DefaultManagementFeeRate float64 `yaml:"default_management_fee_rate" json:"default_management_fee_rate"`
	MinimumDSCR              float64 `yaml:"minimum_dscr" json:"minimum_dscr"`
	PreferredDSCR            float64 `yaml:"preferred_dscr" json:"preferred_dscr"`
}

// DefaultConfig returns the standard program guidelines.
func DefaultConfig() Config {
	return Config{
		DefaultVacancyRate:       DefaultVacancyRate,
		DefaultManagementFeeRate: DefaultManagementFeeRate,
		MinimumDSCR:              MinimumDSCR,
		PreferredDSCR:            PreferredDSCR,
	}
}

// Calculator performs DSCR calculations under a fixed set of guidelines.
type Calculator struct {
	cfg    Config
	logger logging.Logger
}

// New creates a calculator with the default guidelines.
func New() *Calculator {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a calculator with custom guidelines.
func NewWithConfig(cfg Config) *Calculator {
	return &Calculator{cfg: cfg, logger: logging.NopLogger{}}
}

// SetLogger attaches a logger for calculation tracing.
func (c *Calculator) SetLogger(l logging.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Calculate runs the full DSCR pipeline for one loan.
func (c *Calculator) Calculate(in domain.CalculationInput) domain.CalculationResult {
	var warnings []domain.CalculationWarning

	grossRent := c.grossMonthlyRent(in, &warnings)

	vacancyRate := c.vacancyRate(in)
	effectiveRent := grossRent.Scale(1 - vacancyRate)

	otherIncome := moneyOrZero(in.OtherMonthlyIncome)
	totalGrossIncome := effectiveRent.Add(otherIncome)

	expenses := c.operatingExpenses(in, totalGrossIncome, &warnings)

	noiMonthly := totalGrossIncome.Sub(expenses.TotalMonthly)
	noi := domain.NOIBreakdown{Monthly: noiMonthly, Annual: noiMonthly.Scale(12)}

	debtService := c.debtService(in)

	ratio := coverageRatio(noiMonthly, debtService.TotalMonthlyPITIA)
	c.appendRatioWarnings(ratio, &warnings)

	c.logger.Debugf("dscr: app=%s noi=%s pitia=%s ratio=%s",
		in.ApplicationID, noiMonthly, debtService.TotalMonthlyPITIA, domain.Ratio(ratio))

	return domain.CalculationResult{
		ApplicationID: in.ApplicationID,
		PropertyID:    in.PropertyID,
		Income: domain.IncomeBreakdown{
			GrossMonthlyRent:   grossRent,
			VacancyRate:        vacancyRate,
			EffectiveGrossRent: effectiveRent,
			OtherMonthlyIncome: otherIncome,
			TotalGrossIncome:   totalGrossIncome,
		},
		Expenses:          expenses,
		NOI:               noi,
		DebtService:       debtService,
		DSCRRatio:         domain.Ratio(ratio),
		MeetsMinimum:      ratio >= c.cfg.MinimumDSCR,
		MinimumRequired:   c.cfg.MinimumDSCR,
		Warnings:          warnings,
		CalculatorVersion: CalculatorVersion,
	}
}

func (c *Calculator) vacancyRate(in domain.CalculationInput) float64 {
	if in.VacancyRate != nil {
		return *in.VacancyRate
	}
	return c.cfg.DefaultVacancyRate
}

func (c *Calculator) managementFeeRate(in domain.CalculationInput) float64 {
	if in.ManagementFeeRate != nil {
		return *in.ManagementFeeRate
	}
	return c.cfg.DefaultManagementFeeRate
}

// grossMonthlyRent selects the income source by priority: short-term-rental
// annualized income, then rent roll, then stated rent, then nothing.
func (c *Calculator) grossMonthlyRent(in domain.CalculationInput, warnings *[]domain.CalculationWarning) domain.Money {
	if in.IsShortTermRental && in.STRAnnualizedIncome != nil {
		return in.STRAnnualizedIncome.Div(12)
	}

	if len(in.RentRoll) > 0 {
		total := domain.ZeroMoney()
		for _, unit := range in.RentRoll {
			if unit.Occupied {
				total = total.Add(unit.MonthlyRent)
			}
		}

		// Rent roll wins, but a large gap against the stated rent is worth
		// flagging for the underwriter.
		if in.GrossMonthlyRent != nil && in.GrossMonthlyRent.AmountCents > 0 {
			stated := *in.GrossMonthlyRent
			diff := total.AmountCents - stated.AmountCents
			if diff < 0 {
				diff = -diff
			}
			pctDiff := float64(diff) / float64(stated.AmountCents)
			if pctDiff > 0.10 {
				*warnings = append(*warnings, domain.CalculationWarning{
					Code:  domain.WarnRentDiscrepancy,
					Level: domain.LevelWarning,
					Message: fmt.Sprintf("Rent roll total (%s) differs from stated rent (%s) by %.1f%%",
						total, stated, pctDiff*100),
				})
			}
		}
		return total
	}

	if in.GrossMonthlyRent != nil {
		return *in.GrossMonthlyRent
	}

	*warnings = append(*warnings, domain.CalculationWarning{
		Code:    domain.WarnNoRentData,
		Level:   domain.LevelError,
		Message: "No rental income data provided",
	})
	return domain.ZeroMoney()
}

// operatingExpenses itemizes monthly costs. The management fee and the
// expense-ratio screen are both based on totalGrossIncome; flood and
// discretionary expenses count toward the total but not the ratio.
func (c *Calculator) operatingExpenses(in domain.CalculationInput, totalGrossIncome domain.Money, warnings *[]domain.CalculationWarning) domain.ExpenseBreakdown {
	taxes := moneyOrZero(in.AnnualPropertyTax).Div(12)
	insurance := moneyOrZero(in.AnnualInsurance).Div(12)
	hoa := moneyOrZero(in.MonthlyHOA)
	managementFee := totalGrossIncome.Scale(c.managementFeeRate(in))
	flood := moneyOrZero(in.MonthlyFloodInsurance)
	other := moneyOrZero(in.OtherMonthlyExpenses)

	screened := taxes.Add(insurance).Add(hoa).Add(managementFee)
	if totalGrossIncome.AmountCents > 0 {
		ratio := float64(screened.AmountCents) / float64(totalGrossIncome.AmountCents)
		if ratio > expenseRatioCeiling {
			*warnings = append(*warnings, domain.CalculationWarning{
				Code:    domain.WarnHighExpenseRatio,
				Level:   domain.LevelWarning,
				Message: fmt.Sprintf("Operating expense ratio of %.1f%% is unusually high", ratio*100),
			})
		}
	}

	return domain.ExpenseBreakdown{
		MonthlyTaxes:     taxes,
		MonthlyInsurance: insurance,
		MonthlyHOA:       hoa,
		ManagementFee:    managementFee,
		FloodInsurance:   flood,
		OtherExpenses:    other,
		TotalMonthly:     screened.Add(flood).Add(other),
	}
}

// debtService computes P&I and the full monthly housing obligation.
func (c *Calculator) debtService(in domain.CalculationInput) domain.DebtServiceBreakdown {
	interestOnly := in.InterestOnlyMonths > 0
	pi := domain.NewMoney(monthlyPaymentCents(
		in.LoanAmount.AmountCents, in.InterestRate, in.TermMonths, interestOnly))

	taxes := moneyOrZero(in.AnnualPropertyTax).Div(12)
	insurance := moneyOrZero(in.AnnualInsurance).Div(12)
	hoa := moneyOrZero(in.MonthlyHOA)

	return domain.DebtServiceBreakdown{
		MonthlyPrincipalAndInterest: pi,
		MonthlyTaxes:                taxes,
		MonthlyInsurance:            insurance,
		MonthlyHOA:                  hoa,
		TotalMonthlyPITIA:           pi.Add(taxes).Add(insurance).Add(hoa),
		InterestOnly:                interestOnly,
	}
}

func (c *Calculator) appendRatioWarnings(ratio float64, warnings *[]domain.CalculationWarning) {
	if ratio < c.cfg.MinimumDSCR {
		*warnings = append(*warnings, domain.CalculationWarning{
			Code:    domain.WarnBelowMinimumDSCR,
			Level:   domain.LevelError,
			Message: fmt.Sprintf("DSCR of %.3f is below minimum requirement of %.2f", ratio, c.cfg.MinimumDSCR),
		})
	} else if ratio < c.cfg.PreferredDSCR {
		*warnings = append(*warnings, domain.CalculationWarning{
			Code:    domain.WarnBelowPreferredDSCR,
			Level:   domain.LevelWarning,
			Message: fmt.Sprintf("DSCR of %.3f is below preferred level of %.2f", ratio, c.cfg.PreferredDSCR),
		})
	}

	if ratio > unusuallyHighDSCR {
		*warnings = append(*warnings, domain.CalculationWarning{
			Code:    domain.WarnUnusuallyHighDSCR,
			Level:   domain.LevelInfo,
			Message: fmt.Sprintf("DSCR of %.3f is unusually high - verify income data", ratio),
		})
	}
}

// coverageRatio divides NOI by debt service. Zero debt service means the
// loan carries no housing obligation; coverage is infinite by convention.
func coverageRatio(noi, debtService domain.Money) float64 {
	if debtService.AmountCents == 0 {
		return math.Inf(+1)
	}
	return float64(noi.AmountCents) / float64(debtService.AmountCents)
}

func moneyOrZero(m *domain.Money) domain.Money {
	if m == nil {
		return domain.ZeroMoney()
	}
	return *m
}
