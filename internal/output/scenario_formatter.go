package output

import (
	"bytes"
	"fmt"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/rules"
	"github.com/finbrook/dscrgo/internal/valuation"
)

// FormatScenarioTable renders the stress scenario strip on its own, for the
// scenarios subcommand.
func FormatScenarioTable(base domain.CalculationResult, scenarios []domain.Scenario) []byte {
	var buf bytes.Buffer

	section(&buf, fmt.Sprintf("STRESS SCENARIOS (base DSCR %s)", base.DSCRRatio))
	fmt.Fprintf(&buf, "  %-28s %-8s %s\n", "Scenario", "DSCR", "Description")
	for _, sc := range scenarios {
		fmt.Fprintf(&buf, "  %-28s %-8s %s\n", sc.Name, sc.DSCR, sc.Description)
	}
	return buf.Bytes()
}

// FormatRequiredRent renders a required-rent solve.
func FormatRequiredRent(rent domain.Money, target float64) []byte {
	var buf bytes.Buffer

	section(&buf, "REQUIRED RENT")
	row(&buf, "Target DSCR", fmt.Sprintf("%.2f", target))
	row(&buf, "Required Gross Rent", FormatCurrency(rent))
	return buf.Bytes()
}

// FormatMaxLoan renders a maximum-loan solve.
func FormatMaxLoan(loan domain.Money, target float64) []byte {
	var buf bytes.Buffer

	section(&buf, "MAXIMUM LOAN")
	row(&buf, "Target DSCR", fmt.Sprintf("%.2f", target))
	row(&buf, "Maximum Loan Amount", FormatCurrency(loan))
	return buf.Bytes()
}

// FormatReconciliation renders an AVM/appraisal reconciliation.
func FormatReconciliation(rec valuation.Reconciliation) []byte {
	var buf bytes.Buffer

	section(&buf, "VALUATION RECONCILIATION")
	row(&buf, "AVM Value", FormatCurrency(rec.AVMValue))
	row(&buf, "Appraised Value", FormatCurrency(rec.AppraisalValue))
	row(&buf, "Variance", fmt.Sprintf("%.2f%% %s", rec.VariancePct, rec.Direction))
	if rec.WithinTolerance {
		row(&buf, "Within Tolerance", "YES")
	} else {
		row(&buf, "Within Tolerance", "NO")
	}
	row(&buf, "Recommended Value", FormatCurrency(rec.RecommendedValue))
	return buf.Bytes()
}

// FormatRuleCatalog renders the rule table for the rules subcommand.
func FormatRuleCatalog(entries []rules.CatalogEntry) []byte {
	var buf bytes.Buffer

	section(&buf, "RULE CATALOG")
	fmt.Fprintf(&buf, "  %-12s %-12s %-20s %s\n", "ID", "Category", "Severity", "Rule")
	for _, e := range entries {
		fmt.Fprintf(&buf, "  %-12s %-12s %-20s %s\n", e.ID, e.Category, e.Severity, e.Name)
	}
	return buf.Bytes()
}
