package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/finbrook/dscrgo/internal/service"
)

// CSVFormatter emits the summary CSV (one row per evaluation), the form the
// batch subcommand feeds into pipeline spreadsheets.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

var csvHeader = []string{
	"ApplicationID", "DSCR", "MonthlyNOI", "MonthlyPITIA", "LTV", "CreditScore",
	"RulesStatus", "HardStops", "Exceptions", "Warnings", "Tier", "FinalRate",
	"Decision", "Reason",
}

func (c CSVFormatter) Format(eval *service.Evaluation) ([]byte, error) {
	return c.FormatBatch([]*service.Evaluation{eval})
}

func (c CSVFormatter) FormatBatch(evals []*service.Evaluation) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	rows := append([]*service.Evaluation(nil), evals...)
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].DSCR.ApplicationID < rows[j].DSCR.ApplicationID
	})
	for _, eval := range rows {
		if err := w.Write(csvRow(eval)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func csvRow(eval *service.Evaluation) []string {
	ltv, credit := "", ""
	if app := eval.Application; app != nil {
		ltv = fmt.Sprintf("%.1f", app.LTV())
		credit = strconv.Itoa(app.Borrower.CreditScore)
	}

	tier, finalRate := "", ""
	if eval.Pricing != nil {
		tier = string(eval.Pricing.Tier)
		finalRate = eval.Pricing.FinalRate.StringFixed(3)
	}

	rulesStatus := ""
	if eval.Rules != nil {
		rulesStatus = string(eval.Rules.OverallStatus)
	}

	return []string{
		eval.DSCR.ApplicationID,
		eval.DSCR.DSCRRatio.String(),
		eval.DSCR.NOI.Monthly.Dollars().StringFixed(2),
		eval.DSCR.DebtService.TotalMonthlyPITIA.Dollars().StringFixed(2),
		ltv,
		credit,
		rulesStatus,
		strconv.Itoa(eval.Decision.HardStopCount),
		strconv.Itoa(eval.Decision.ExceptionCount),
		strconv.Itoa(eval.Decision.WarningCount),
		tier,
		finalRate,
		string(eval.Decision.Type),
		string(eval.Decision.Reason),
	}
}
