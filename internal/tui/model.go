// Package tui implements the interactive what-if dashboard. Arrow keys move
// between the parameter sliders and nudge their values; every change reruns
// the calculator, rules and pricing engines so the coverage, tier and
// decision readouts track the cursor live.
package tui

import (
	"context"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/finbrook/dscrgo/internal/decision"
	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/dscr"
	"github.com/finbrook/dscrgo/internal/pricing"
	"github.com/finbrook/dscrgo/internal/rules"
	"github.com/finbrook/dscrgo/internal/tui/components"
)

// Slider order, top to bottom.
const (
	sliderRate = iota
	sliderVacancy
	sliderRent
	sliderLoan
)

// sensitivitySamples is how many stops the sensitivity ribbon sweeps across
// the focused slider's range.
const sensitivitySamples = 32

// Model holds the dashboard state: the immutable baseline application, the
// engines, the sliders and the latest evaluation of the adjusted document.
type Model struct {
	base *domain.Application

	calc      *dscr.Calculator
	decisions *decision.Service

	sliders []*components.ParameterSlider
	focused int

	result    domain.CalculationResult
	scenarios []domain.Scenario
	outcome   domain.Decision

	sensitivity    []float64
	sensitivityPos int

	err    error
	width  int
	height int
}

// NewModel creates the dashboard model for an application. A nil calculator
// falls back to the default guideline configuration.
func NewModel(app *domain.Application, calc *dscr.Calculator) Model {
	if calc == nil {
		calc = dscr.New()
	}

	m := Model{
		base:      app,
		calc:      calc,
		decisions: decision.New(rules.New(), pricing.New()),
	}
	m.buildSliders()
	m.recalculate()
	return m
}

// Init implements tea.Model. The initial evaluation happens in NewModel, so
// there is nothing to kick off.
func (m Model) Init() tea.Cmd {
	return nil
}

// buildSliders derives the slider baselines from the document, running the
// calculator once so the rent and vacancy sliders start at whatever source
// the calculator actually used (stated rent, rent roll or STR income).
func (m *Model) buildSliders() {
	baseline := m.calc.Calculate(m.base.CalculationInput())

	rate := m.base.Loan.InterestRate * 100
	vacancy := baseline.Income.VacancyRate * 100
	rent := baseline.Income.GrossMonthlyRent.Dollars().InexactFloat64()
	loan, _ := m.base.Loan.Amount.Float64()

	rentMax := math.Max(1000, roundUpTo(rent*2, 100))
	loanMax := math.Max(100000, roundUpTo(loan*2, 25000))

	m.sliders = []*components.ParameterSlider{
		components.NewParameterSlider("Note Rate", rate, 3, 12, 0.125, "%.3f", "%"),
		components.NewParameterSlider("Vacancy", vacancy, 0, 25, 0.5, "%.1f", "%"),
		components.NewParameterSlider("Gross Rent", rent, 0, rentMax, 50, "$%.0f", "/mo"),
		components.NewParameterSlider("Loan Amount", loan, 50000, loanMax, 5000, "$%.0f", ""),
	}
	m.sliders[m.focused].Focused = true
}

// whatIfApplication builds the adjusted document from the current slider
// positions.
func (m Model) whatIfApplication() domain.Application {
	return m.applicationWith(
		m.sliders[sliderRate].Value,
		m.sliders[sliderVacancy].Value,
		m.sliders[sliderRent].Value,
		m.sliders[sliderLoan].Value,
	)
}

// applicationWith copies the baseline and overrides the four what-if inputs.
// The rent slider replaces every income source, so the rent roll and STR
// fields are cleared to keep them from outranking the override.
func (m Model) applicationWith(ratePct, vacancyPct, rent, loan float64) domain.Application {
	app := *m.base

	gross := decimal.NewFromFloat(rent)
	vacancy := vacancyPct / 100
	app.Income.GrossMonthlyRent = &gross
	app.Income.RentRoll = nil
	app.Income.ShortTermRental = false
	app.Income.STRAnnualizedIncome = nil
	app.Income.VacancyRate = &vacancy

	app.Loan.InterestRate = ratePct / 100
	app.Loan.Amount = decimal.NewFromFloat(loan)
	return app
}

// recalculate reruns the full evaluation for the current slider positions.
func (m *Model) recalculate() {
	app := m.whatIfApplication()
	in := app.CalculationInput()
	m.result = m.calc.Calculate(in)
	m.scenarios = m.calc.Scenarios(in)

	ratio := float64(m.result.DSCRRatio)
	pricingInput := app.PricingInput(ratio)
	outcome, err := m.decisions.Decide(context.Background(), app.LoanFacts(ratio), &pricingInput)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.outcome = outcome
	m.resample()
}

// resample sweeps the focused parameter across its range and records the
// coverage ratio at each stop for the sensitivity ribbon.
func (m *Model) resample() {
	s := m.sliders[m.focused]
	m.sensitivity = make([]float64, 0, sensitivitySamples)
	m.sensitivityPos = 0

	values := [4]float64{
		m.sliders[sliderRate].Value,
		m.sliders[sliderVacancy].Value,
		m.sliders[sliderRent].Value,
		m.sliders[sliderLoan].Value,
	}
	for i := 0; i < sensitivitySamples; i++ {
		v := s.Min + (s.Max-s.Min)*float64(i)/float64(sensitivitySamples-1)
		if v <= s.Value {
			m.sensitivityPos = i
		}
		values[m.focused] = v
		app := m.applicationWith(values[sliderRate], values[sliderVacancy], values[sliderRent], values[sliderLoan])
		m.sensitivity = append(m.sensitivity, float64(m.calc.Calculate(app.CalculationInput()).DSCRRatio))
	}
}

// anyModified reports whether any slider has moved off its baseline.
func (m Model) anyModified() bool {
	for _, s := range m.sliders {
		if s.Modified() {
			return true
		}
	}
	return false
}

func roundUpTo(v, step float64) float64 {
	return math.Ceil(v/step) * step
}
