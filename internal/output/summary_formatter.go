package output

import (
	"bytes"
	"fmt"

	"github.com/finbrook/dscrgo/internal/service"
)

// SummaryFormatter renders a one-screen digest: coverage, outcome and rate.
type SummaryFormatter struct{}

func (s SummaryFormatter) Name() string { return "summary" }

func (s SummaryFormatter) Format(eval *service.Evaluation) ([]byte, error) {
	var buf bytes.Buffer

	section(&buf, "UNDERWRITING SUMMARY")
	row(&buf, "Application", eval.DSCR.ApplicationID)
	row(&buf, "DSCR", fmt.Sprintf("%s (minimum %.2f)", eval.DSCR.DSCRRatio, eval.DSCR.MinimumRequired))
	row(&buf, "NOI / PITIA", fmt.Sprintf("%s / %s",
		FormatCurrency(eval.DSCR.NOI.Monthly),
		FormatCurrency(eval.DSCR.DebtService.TotalMonthlyPITIA)))

	if eval.Pricing != nil {
		if eval.Pricing.Eligible {
			row(&buf, "Pricing", fmt.Sprintf("%s at %s", eval.Pricing.Tier, FormatRate(eval.Pricing.FinalRate)))
		} else {
			row(&buf, "Pricing", fmt.Sprintf("INELIGIBLE (indicative %s at %s)", eval.Pricing.Tier, FormatRate(eval.Pricing.FinalRate)))
		}
	}

	row(&buf, "Decision", fmt.Sprintf("%s (%s)", eval.Decision.Type, eval.Decision.Reason))
	row(&buf, "Findings", fmt.Sprintf("%d hard stops, %d exceptions, %d warnings",
		eval.Decision.HardStopCount, eval.Decision.ExceptionCount, eval.Decision.WarningCount))
	row(&buf, "Conditions", fmt.Sprintf("%d", len(eval.Decision.Conditions)))

	return buf.Bytes(), nil
}
