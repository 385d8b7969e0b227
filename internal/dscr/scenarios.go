package dscr

import "github.com/finbrook/dscrgo/internal/domain"

// Scenarios recalculates the loan under the standard stress variants. Each
// scenario is a full recalculation with one input overridden; the base case
// always comes first. The rent stress applies only when a stated rent is
// present, since rent-roll and short-term-rental incomes are observed
// figures rather than estimates.
func (c *Calculator) Scenarios(in domain.CalculationInput) []domain.Scenario {
	base := c.Calculate(in)
	scenarios := []domain.Scenario{{
		Name:        "Base Case",
		Description: "Current inputs",
		Adjustments: map[string]float64{},
		DSCR:        base.DSCRRatio,
	}}

	highVacancy := in
	stressedVacancy := 0.10
	highVacancy.VacancyRate = &stressedVacancy
	scenarios = append(scenarios, domain.Scenario{
		Name:        "High Vacancy",
		Description: "10% vacancy rate",
		Adjustments: map[string]float64{"vacancy_rate": stressedVacancy},
		DSCR:        c.Calculate(highVacancy).DSCRRatio,
	})

	rateUp := in
	rateUp.InterestRate = in.InterestRate + 0.01
	scenarios = append(scenarios, domain.Scenario{
		Name:        "Rate +1%",
		Description: "Interest rate increase of 1%",
		Adjustments: map[string]float64{"interest_rate": rateUp.InterestRate},
		DSCR:        c.Calculate(rateUp).DSCRRatio,
	})

	if in.GrossMonthlyRent != nil {
		rentDown := in
		reduced := in.GrossMonthlyRent.Scale(0.90)
		rentDown.GrossMonthlyRent = &reduced
		scenarios = append(scenarios, domain.Scenario{
			Name:        "Rent -10%",
			Description: "Rent decrease of 10%",
			Adjustments: map[string]float64{"rent_adjustment": -0.10},
			DSCR:        c.Calculate(rentDown).DSCRRatio,
		})
	}

	return scenarios
}
