package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/rules"
	"github.com/finbrook/dscrgo/internal/service"
	"github.com/finbrook/dscrgo/internal/valuation"
)

func buildTestEvaluation(t *testing.T, applicationID string) *service.Evaluation {
	t.Helper()

	rent := decimal.NewFromInt(7000)
	tax := decimal.NewFromInt(7200)
	insurance := decimal.NewFromInt(1800)
	app := &domain.Application{
		ApplicationID: applicationID,
		PropertyID:    "prop-001",
		Property: domain.PropertyDetails{
			Type:  domain.PropertySFR,
			State: "TX",
			Units: 1,
			Value: decimal.NewFromInt(600000),
		},
		Borrower: domain.BorrowerProfile{
			CreditScore:    740,
			MonthsReserves: 12,
		},
		Loan: domain.LoanRequest{
			Amount:       decimal.NewFromInt(450000),
			InterestRate: 0.0725,
			TermMonths:   360,
			Purpose:      domain.PurposePurchase,
			Occupancy:    domain.OccupancyInvestment,
		},
		Income: domain.RentalIncome{
			GrossMonthlyRent: &rent,
		},
		Expenses: domain.PropertyExpenses{
			AnnualPropertyTax: &tax,
			AnnualInsurance:   &insurance,
		},
	}

	n := 0
	u := service.NewWithConfig(service.Config{
		Clock: func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("%s-id-%d", applicationID, n)
		},
	})

	eval, err := u.EvaluateApplication(context.Background(), app)
	require.NoError(t, err)
	return eval
}

func TestConsoleFormatter_Name(t *testing.T) {
	assert.Equal(t, "console", ConsoleFormatter{}.Name(), "Should return correct name")
}

func TestConsoleFormatter_Format(t *testing.T) {
	eval := buildTestEvaluation(t, "app-001")

	output, err := ConsoleFormatter{}.Format(eval)
	require.NoError(t, err, "Should not error")

	content := string(output)
	assert.Contains(t, content, "DSCR UNDERWRITING ANALYSIS", "Should have report header")
	assert.Contains(t, content, "Application: app-001", "Should show the application")
	assert.Contains(t, content, "MONTHLY INCOME", "Should have income section")
	assert.Contains(t, content, "$7,000.00", "Should show gross rent")
	assert.Contains(t, content, "Total PITIA", "Should have debt service section")
	assert.Contains(t, content, "$3,819.79", "Should show the PITIA figure")
	assert.Contains(t, content, "STRESS SCENARIOS", "Should have scenario strip")
	assert.Contains(t, content, "High Vacancy", "Should list stress scenarios")
	assert.Contains(t, content, "ELIGIBILITY RULES", "Should have rules section")
	assert.Contains(t, content, "PRICING", "Should have pricing section")
	assert.Contains(t, content, "7.375%", "Should show the final rate")
	assert.Contains(t, content, "CONDITIONALLY_APPROVED", "Should show the decision")
	assert.Contains(t, content, "[PTD] Verify borrower identity", "Should list conditions")
}

func TestConsoleFormatter_FormatWithoutPricing(t *testing.T) {
	eval := buildTestEvaluation(t, "app-001")
	eval.Pricing = nil
	eval.Decision.Pricing = nil

	output, err := ConsoleFormatter{}.Format(eval)
	require.NoError(t, err, "Should not error")
	assert.NotContains(t, string(output), "PRICING", "Should omit pricing when not run")
}

func TestSummaryFormatter_Format(t *testing.T) {
	eval := buildTestEvaluation(t, "app-001")

	output, err := SummaryFormatter{}.Format(eval)
	require.NoError(t, err, "Should not error")

	content := string(output)
	assert.Contains(t, content, "UNDERWRITING SUMMARY", "Should have summary header")
	assert.Contains(t, content, "app-001", "Should show the application")
	assert.Contains(t, content, "1.405", "Should show the coverage ratio")
	assert.Contains(t, content, "GOOD at 7.375%", "Should show tier and rate")
	assert.Contains(t, content, "CONDITIONALLY_APPROVED (MEETS_GUIDELINES)", "Should show the decision")
}

func TestJSONFormatter_Format(t *testing.T) {
	eval := buildTestEvaluation(t, "app-001")

	output, err := JSONFormatter{Pretty: true}.Format(eval)
	require.NoError(t, err, "Should not error")

	content := string(output)
	assert.Contains(t, content, `"dscr_ratio"`, "Should have coverage fields")
	assert.Contains(t, content, `"decision"`, "Should have decision fields")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(output, &decoded), "Should emit valid JSON")
	assert.Contains(t, decoded, "dscr")
	assert.Contains(t, decoded, "rules")
	assert.Contains(t, decoded, "pricing")
}

func TestJSONFormatter_FormatBatch(t *testing.T) {
	evals := []*service.Evaluation{
		buildTestEvaluation(t, "app-001"),
		buildTestEvaluation(t, "app-002"),
	}

	output, err := JSONFormatter{}.FormatBatch(evals)
	require.NoError(t, err, "Should not error")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(output, &decoded), "Batch output should be one JSON array")
	assert.Len(t, decoded, 2)
}

func TestCSVFormatter_Format(t *testing.T) {
	eval := buildTestEvaluation(t, "app-001")

	output, err := CSVFormatter{}.Format(eval)
	require.NoError(t, err, "Should not error")

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	require.Len(t, lines, 2, "Should emit a header and one row")
	assert.Contains(t, lines[0], "ApplicationID", "Should have CSV header")
	assert.Contains(t, lines[1], "app-001", "Should have the application row")
	assert.Contains(t, lines[1], "1.405", "Should show the coverage ratio")
	assert.Contains(t, lines[1], "CONDITIONALLY_APPROVED", "Should show the decision")
	assert.Contains(t, lines[1], "7.375", "Should show the final rate")
}

func TestCSVFormatter_FormatBatchSortsRows(t *testing.T) {
	evals := []*service.Evaluation{
		buildTestEvaluation(t, "app-002"),
		buildTestEvaluation(t, "app-001"),
	}

	output, err := CSVFormatter{}.FormatBatch(evals)
	require.NoError(t, err, "Should not error")

	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "app-001", "Rows should be sorted by application")
	assert.Contains(t, lines[2], "app-002")
}

func TestHTMLFormatter_Format(t *testing.T) {
	eval := buildTestEvaluation(t, "app-001")

	output, err := HTMLFormatter{}.Format(eval)
	require.NoError(t, err, "Should not error")

	content := string(output)
	assert.Contains(t, content, "<!DOCTYPE html>", "Should have HTML structure")
	assert.Contains(t, content, "DSCR Underwriting Report", "Should have main heading")
	assert.Contains(t, content, "CONDITIONALLY_APPROVED", "Should show the decision")
	assert.Contains(t, content, "$3,819.79", "Should show the PITIA figure")
}

func TestFormatterFunc_Format(t *testing.T) {
	called := false
	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(eval *service.Evaluation) ([]byte, error) {
			called = true
			return []byte("test output"), nil
		},
	}

	assert.Equal(t, "test-formatter", formatter.Name(), "Should return the ID")

	output, err := formatter.Format(buildTestEvaluation(t, "app-001"))
	assert.NoError(t, err, "Should not error")
	assert.True(t, called, "Should call the function")
	assert.Equal(t, []byte("test output"), output, "Should return the function output")
}

func TestGetFormatterByName(t *testing.T) {
	formatter := GetFormatterByName("console")
	require.NotNil(t, formatter, "Should return formatter")
	assert.Equal(t, "console", formatter.Name())

	alias := GetFormatterByName("table")
	require.NotNil(t, alias, "Should resolve aliases")
	assert.Equal(t, "console", alias.Name())

	assert.Nil(t, GetFormatterByName("non-existent"), "Should return nil for unknown names")
}

func TestAvailableFormatterNames(t *testing.T) {
	names := map[string]bool{}
	for _, name := range AvailableFormatterNames() {
		names[name] = true
	}

	assert.True(t, names["console"], "Should include console")
	assert.True(t, names["summary"], "Should include summary")
	assert.True(t, names["json"], "Should include json")
	assert.True(t, names["csv"], "Should include csv")
	assert.True(t, names["html"], "Should include html")
}

func TestAvailableFormatAliases(t *testing.T) {
	aliases := map[string]bool{}
	for _, alias := range AvailableFormatAliases() {
		aliases[alias] = true
	}

	assert.True(t, aliases["table"], "Should include table alias")
	assert.True(t, aliases["verbose"], "Should include verbose alias")
}

func TestWriteFormatted(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(originalDir)

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(eval *service.Evaluation) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, buildTestEvaluation(t, "app-001"), "txt")
	require.NoError(t, err, "Should not error")
	assert.Contains(t, filename, "underwriting_report_", "Should have correct prefix")
	assert.Contains(t, filename, ".txt", "Should have correct extension")

	content, err := os.ReadFile(filename)
	require.NoError(t, err, "Should be able to read the file")
	assert.Equal(t, "test output content", string(content), "Should have correct content")
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(eval *service.Evaluation) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, buildTestEvaluation(t, "app-001"), "txt")
	assert.Error(t, err, "Should error when formatter fails")
	assert.Empty(t, filename, "Should return empty filename on error")
}

func TestFormatBatchConcatenates(t *testing.T) {
	formatter := FormatterFunc{
		ID: "plain",
		F: func(eval *service.Evaluation) ([]byte, error) {
			return []byte(eval.DSCR.ApplicationID), nil
		},
	}

	output, err := FormatBatch(formatter, []*service.Evaluation{
		buildTestEvaluation(t, "app-001"),
		buildTestEvaluation(t, "app-002"),
	})
	require.NoError(t, err, "Should not error")
	assert.Equal(t, "app-001\napp-002", string(output), "Should join outputs without a native batch form")
}

func TestFormatScenarioTable(t *testing.T) {
	eval := buildTestEvaluation(t, "app-001")

	output := FormatScenarioTable(eval.DSCR, eval.Scenarios)
	content := string(output)
	assert.Contains(t, content, "STRESS SCENARIOS", "Should have section header")
	assert.Contains(t, content, "Base Case", "Should list the base case")
	assert.Contains(t, content, "Rate +1%", "Should list the rate stress")
}

func TestFormatReconciliation(t *testing.T) {
	rec, err := valuation.Reconcile(domain.NewMoney(61000000), domain.NewMoney(60000000), valuation.DefaultTolerance)
	require.NoError(t, err)

	content := string(FormatReconciliation(rec))
	assert.Contains(t, content, "VALUATION RECONCILIATION", "Should have section header")
	assert.Contains(t, content, "$610,000.00", "Should show the AVM value")
	assert.Contains(t, content, "1.67% over", "Should show the variance")
	assert.Contains(t, content, "YES", "Should show tolerance status")
}

func TestFormatRuleCatalog(t *testing.T) {
	content := string(FormatRuleCatalog(rules.Catalog()))
	assert.Contains(t, content, "RULE CATALOG", "Should have section header")
	assert.Contains(t, content, "DSCR-001", "Should list rule identifiers")
	assert.Contains(t, content, "Minimum DSCR", "Should list rule names")
}
