package dscr

import "github.com/finbrook/dscrgo/internal/domain"

// RequiredRent solves for the gross monthly rent that would put the loan at
// targetDSCR: the required NOI is grossed back up through fixed expenses,
// vacancy, and the management fee. A non-positive target falls back to the
// configured minimum.
func (c *Calculator) RequiredRent(in domain.CalculationInput, targetDSCR float64) domain.Money {
	target := targetDSCR
	if target <= 0 {
		target = c.cfg.MinimumDSCR
	}

	debtService := c.debtService(in)
	requiredNOI := debtService.TotalMonthlyPITIA.Scale(target)

	beforeVacancy := requiredNOI.Add(c.fixedExpenses(in))
	beforeManagement := beforeVacancy.Div(1 - c.vacancyRate(in))
	required := beforeManagement.Div(1 - c.managementFeeRate(in))

	c.logger.Debugf("dscr: required rent for target %.2f = %s", target, required)
	return required
}

// MaxLoanAmount solves for the largest loan the property's income supports
// at targetDSCR. Other income is excluded: the sizing question is what the
// property itself carries. A non-positive target falls back to the
// configured minimum; if fixed costs alone exhaust the supportable PITIA
// the answer is zero.
func (c *Calculator) MaxLoanAmount(in domain.CalculationInput, targetDSCR float64) domain.Money {
	target := targetDSCR
	if target <= 0 {
		target = c.cfg.MinimumDSCR
	}

	grossRent := moneyOrZero(in.GrossMonthlyRent)
	effectiveRent := grossRent.Scale(1 - c.vacancyRate(in))

	var discard []domain.CalculationWarning
	expenses := c.operatingExpenses(in, effectiveRent, &discard)
	noiMonthly := effectiveRent.Sub(expenses.TotalMonthly)

	maxPITIA := noiMonthly.Div(target)
	fixedTI := expenses.MonthlyTaxes.Add(expenses.MonthlyInsurance).Add(expenses.MonthlyHOA)
	maxPI := maxPITIA.Sub(fixedTI)

	if maxPI.AmountCents <= 0 {
		return domain.ZeroMoney()
	}

	maxLoan := domain.NewMoney(maxLoanCents(maxPI.AmountCents, in.InterestRate, in.TermMonths))
	c.logger.Debugf("dscr: max loan for target %.2f = %s", target, maxLoan)
	return maxLoan
}

// fixedExpenses sums the carrying costs that do not scale with income:
// taxes, insurance, HOA and flood premiums.
func (c *Calculator) fixedExpenses(in domain.CalculationInput) domain.Money {
	taxes := moneyOrZero(in.AnnualPropertyTax).Div(12)
	insurance := moneyOrZero(in.AnnualInsurance).Div(12)
	hoa := moneyOrZero(in.MonthlyHOA)
	flood := moneyOrZero(in.MonthlyFloodInsurance)
	return taxes.Add(insurance).Add(hoa).Add(flood)
}
