package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/service"
)

// ConsoleFormatter renders the full underwriting report: income and debt
// service breakdowns, coverage, stress scenarios, rule findings, pricing
// and the decision with its conditions.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(eval *service.Evaluation) ([]byte, error) {
	var buf bytes.Buffer

	banner(&buf, "DSCR UNDERWRITING ANALYSIS")
	if app := eval.Application; app != nil {
		fmt.Fprintf(&buf, "Application: %s    Property: %s\n", app.ApplicationID, app.PropertyID)
		fmt.Fprintf(&buf, "Collateral:  %s, %d unit(s), %s\n", app.Property.Type, app.Property.Units, app.Property.State)
		fmt.Fprintf(&buf, "Loan:        %s at %.3f%% for %d months (%s)\n",
			FormatCurrency(domain.MoneyFromDecimal(app.Loan.Amount)),
			app.Loan.InterestRate*100,
			app.Loan.TermMonths,
			app.Loan.Purpose)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY CONVENTIONS:")
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	writeIncome(&buf, eval.DSCR)
	writeDebtService(&buf, eval.DSCR)
	writeCoverage(&buf, eval.DSCR)
	writeScenarioStrip(&buf, eval.DSCR.DSCRRatio, eval.Scenarios)
	writeRules(&buf, eval.Rules)
	writePricing(&buf, eval.Pricing)
	writeDecision(&buf, eval.Decision)

	return buf.Bytes(), nil
}

func banner(buf *bytes.Buffer, title string) {
	rule := strings.Repeat("=", 72)
	fmt.Fprintln(buf, rule)
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, rule)
	fmt.Fprintln(buf)
}

func section(buf *bytes.Buffer, title string) {
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, strings.Repeat("=", len(title)))
}

func row(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "  %-26s %s\n", label, value)
}

func writeIncome(buf *bytes.Buffer, result domain.CalculationResult) {
	inc := result.Income
	vacancyLoss := inc.GrossMonthlyRent.Sub(inc.EffectiveGrossRent)

	section(buf, "MONTHLY INCOME")
	row(buf, "Gross Rent", FormatCurrency(inc.GrossMonthlyRent))
	row(buf, fmt.Sprintf("Vacancy (%s)", FormatPercent(inc.VacancyRate)), "-"+FormatCurrency(vacancyLoss))
	row(buf, "Effective Rent", FormatCurrency(inc.EffectiveGrossRent))
	row(buf, "Other Income", FormatCurrency(inc.OtherMonthlyIncome))
	row(buf, "Total Gross Income", FormatCurrency(inc.TotalGrossIncome))
	fmt.Fprintln(buf)

	exp := result.Expenses
	section(buf, "OPERATING EXPENSES")
	row(buf, "Taxes", FormatCurrency(exp.MonthlyTaxes))
	row(buf, "Insurance", FormatCurrency(exp.MonthlyInsurance))
	row(buf, "HOA", FormatCurrency(exp.MonthlyHOA))
	row(buf, "Management Fee", FormatCurrency(exp.ManagementFee))
	row(buf, "Flood Insurance", FormatCurrency(exp.FloodInsurance))
	row(buf, "Other", FormatCurrency(exp.OtherExpenses))
	row(buf, "Total", FormatCurrency(exp.TotalMonthly))
	fmt.Fprintln(buf)

	section(buf, "NET OPERATING INCOME")
	row(buf, "Monthly", FormatCurrency(result.NOI.Monthly))
	row(buf, "Annual", FormatCurrency(result.NOI.Annual))
	fmt.Fprintln(buf)
}

func writeDebtService(buf *bytes.Buffer, result domain.CalculationResult) {
	ds := result.DebtService

	section(buf, "DEBT SERVICE (PITIA)")
	pi := FormatCurrency(ds.MonthlyPrincipalAndInterest)
	if ds.InterestOnly {
		pi += "  (interest-only)"
	}
	row(buf, "Principal & Interest", pi)
	row(buf, "Taxes", FormatCurrency(ds.MonthlyTaxes))
	row(buf, "Insurance", FormatCurrency(ds.MonthlyInsurance))
	row(buf, "HOA", FormatCurrency(ds.MonthlyHOA))
	row(buf, "Total PITIA", FormatCurrency(ds.TotalMonthlyPITIA))
	fmt.Fprintln(buf)
}

func writeCoverage(buf *bytes.Buffer, result domain.CalculationResult) {
	section(buf, "COVERAGE")
	row(buf, "DSCR", result.DSCRRatio.String())
	row(buf, "Minimum Required", fmt.Sprintf("%.2f", result.MinimumRequired))
	if result.MeetsMinimum {
		row(buf, "Meets Minimum", "YES")
	} else {
		row(buf, "Meets Minimum", "NO")
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(buf, "  [%s] %s\n", w.Level, w.Message)
	}
	fmt.Fprintln(buf)
}

func writeScenarioStrip(buf *bytes.Buffer, base domain.Ratio, scenarios []domain.Scenario) {
	if len(scenarios) == 0 {
		return
	}

	section(buf, "STRESS SCENARIOS")
	fmt.Fprintf(buf, "  %-28s %-8s %s\n", "Scenario", "DSCR", "vs Base")
	for _, sc := range scenarios {
		delta := "n/a"
		if sc.DSCR.IsFinite() && base.IsFinite() {
			delta = fmt.Sprintf("%+.3f", float64(sc.DSCR)-float64(base))
		}
		fmt.Fprintf(buf, "  %-28s %-8s %s\n", sc.Name, sc.DSCR, delta)
	}
	fmt.Fprintln(buf)
}

func writeRules(buf *bytes.Buffer, rules *domain.RulesEvaluation) {
	if rules == nil {
		return
	}

	section(buf, "ELIGIBILITY RULES")
	row(buf, "Overall", string(rules.OverallStatus))
	row(buf, "Passed / Failed / Warnings", fmt.Sprintf("%d / %d / %d", rules.PassedCount, rules.FailedCount, rules.WarningCount))
	for _, r := range rules.Results {
		if r.Status == domain.StatusPass {
			continue
		}
		fmt.Fprintf(buf, "  [%s %s] %s: %s\n", r.Status, r.Severity, r.RuleID, r.Message)
	}
	fmt.Fprintln(buf)
}

func writePricing(buf *bytes.Buffer, pricing *domain.PricingResult) {
	if pricing == nil {
		return
	}

	section(buf, "PRICING")
	if pricing.Eligible {
		row(buf, "Eligible", "YES")
	} else {
		row(buf, "Eligible", "NO")
		for _, reason := range pricing.IneligibilityReasons {
			fmt.Fprintf(buf, "    - %s\n", reason)
		}
	}
	row(buf, "Risk Tier", string(pricing.Tier))
	row(buf, "Base Rate", FormatRate(pricing.BaseRate))
	for _, adj := range pricing.Adjustments {
		fmt.Fprintf(buf, "    %-26s %s\n", adj.Description, FormatBPS(adj.BasisPoints))
	}
	row(buf, "Total Adjustment", FormatBPS(pricing.TotalAdjustmentBPS))
	row(buf, "Final Rate", FormatRate(pricing.FinalRate))
	fmt.Fprintln(buf)
}

func writeDecision(buf *bytes.Buffer, decision domain.Decision) {
	section(buf, "DECISION")
	row(buf, "Outcome", string(decision.Type))
	row(buf, "Reason", string(decision.Reason))
	for _, note := range decision.Notes {
		fmt.Fprintf(buf, "  %s\n", note)
	}

	if len(decision.Conditions) > 0 {
		fmt.Fprintf(buf, "\n  Conditions (%d):\n", len(decision.Conditions))
		for _, cond := range decision.Conditions {
			marker := " "
			if !cond.Required {
				marker = "~"
			}
			fmt.Fprintf(buf, "  %s [%s] %s\n", marker, cond.Category, cond.Description)
		}
	}
	fmt.Fprintln(buf)
}
