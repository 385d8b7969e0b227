package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadApplication_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	app, err := parser.LoadApplication("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, app, "Should return nil application")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadApplication_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644)
	assert.NoError(t, err)

	parser := NewInputParser()
	app, err := parser.LoadApplication(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, app, "Should return nil application")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadApplication_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "application.yaml")

	validYAML := `
application_id: "app-2024-0193"
property_id: "prop-77"
loan_number: "DSCR-000193"

property:
  type: "DUPLEX"
  state: "TX"
  units: 2
  value: 600000
  appraised_value: 595000
  avm_value: 610000

borrower:
  credit_score: 740
  months_reserves: 12

loan:
  amount: 450000
  interest_rate: 0.0725
  term_months: 360
  purpose: "PURCHASE"
  occupancy: "INVESTMENT"

income:
  rent_roll:
    - unit: "A"
      monthly_rent: 1800
      occupied: true
    - unit: "B"
      monthly_rent: 1750
      occupied: true
  vacancy_rate: 0.05

expenses:
  annual_property_tax: 7200
  annual_insurance: 1800
  monthly_hoa: 0

targets:
  target_dscr: 1.25
`

	err := os.WriteFile(validFile, []byte(validYAML), 0644)
	assert.NoError(t, err)

	parser := NewInputParser()
	app, err := parser.LoadApplication(validFile)

	require.NoError(t, err, "Should not error for valid YAML")
	require.NotNil(t, app, "Should return application")
	assert.Equal(t, "app-2024-0193", app.ApplicationID, "Should parse application id")
	assert.Equal(t, 2, app.Property.Units, "Should parse units")
	assert.Len(t, app.Income.RentRoll, 2, "Should parse rent roll")
	assert.Equal(t, "A", app.Income.RentRoll[0].Unit, "Should parse rent roll unit")
	assert.Equal(t, 740, app.Borrower.CreditScore, "Should parse credit score")
	require.NotNil(t, app.Targets)
	require.NotNil(t, app.Targets.TargetDSCR)
	assert.Equal(t, 1.25, *app.Targets.TargetDSCR, "Should parse solver target")
	require.NotNil(t, app.Income.VacancyRate)
	assert.Equal(t, 0.05, *app.Income.VacancyRate)

	// Flattening sanity: rent roll rows become calculator units in cents.
	in := app.CalculationInput()
	require.Len(t, in.RentRoll, 2)
	assert.Equal(t, int64(180000), in.RentRoll[0].MonthlyRent.AmountCents)
}

func TestInputParser_LoadApplication_ValidationFailure(t *testing.T) {
	tmpDir := t.TempDir()
	badFile := filepath.Join(tmpDir, "bad.yaml")

	badYAML := `
application_id: "app-1"
property:
  type: "SFR"
  state: "TX"
  units: 1
  value: 600000
borrower:
  credit_score: 740
loan:
  amount: 0
  interest_rate: 0.0725
  term_months: 360
  purpose: "PURCHASE"
`
	err := os.WriteFile(badFile, []byte(badYAML), 0644)
	assert.NoError(t, err)

	app, err := NewInputParser().LoadApplication(badFile)
	assert.Error(t, err)
	assert.Nil(t, app)
	assert.Contains(t, err.Error(), "application validation failed")
	assert.Contains(t, err.Error(), "loan amount must be positive")
}

func TestInputParser_LoadGuidelines(t *testing.T) {
	tmpDir := t.TempDir()
	guidelinesFile := filepath.Join(tmpDir, "guidelines.yaml")

	guidelinesYAML := `
default_vacancy_rate: 0.08
minimum_dscr: 1.10
preferred_dscr: 1.30
target_dscr: 1.30
`
	err := os.WriteFile(guidelinesFile, []byte(guidelinesYAML), 0644)
	assert.NoError(t, err)

	g, err := NewInputParser().LoadGuidelines(guidelinesFile)
	require.NoError(t, err)
	require.NotNil(t, g)

	cfg := g.CalculatorConfig()
	assert.Equal(t, 0.08, cfg.DefaultVacancyRate)
	assert.Equal(t, 0.08, cfg.DefaultManagementFeeRate, "management fee keeps default")
	assert.Equal(t, 1.10, cfg.MinimumDSCR)
	assert.Equal(t, 1.30, cfg.PreferredDSCR)
	assert.Equal(t, 1.30, g.SolverTarget(1.25))
}

func TestInputParser_LoadApplicationWithGuidelines(t *testing.T) {
	tmpDir := t.TempDir()
	appFile := filepath.Join(tmpDir, "application.yaml")
	guidelinesFile := filepath.Join(tmpDir, "guidelines.yaml")

	appYAML := `
application_id: "app-1"
property:
  type: "SFR"
  state: "AZ"
  units: 1
  value: 500000
borrower:
  credit_score: 720
  months_reserves: 9
loan:
  amount: 350000
  interest_rate: 0.07
  term_months: 360
  purpose: "PURCHASE"
income:
  gross_monthly_rent: 2900
expenses:
  annual_property_tax: 5400
  annual_insurance: 1500
`
	require.NoError(t, os.WriteFile(appFile, []byte(appYAML), 0644))
	require.NoError(t, os.WriteFile(guidelinesFile, []byte("minimum_dscr: 1.05\n"), 0644))

	parser := NewInputParser()

	app, g, err := parser.LoadApplicationWithGuidelines(appFile, guidelinesFile)
	require.NoError(t, err)
	require.NotNil(t, app)
	require.NotNil(t, g)
	assert.Equal(t, 1.05, g.CalculatorConfig().MinimumDSCR)

	// Without a guidelines path the overlay is absent.
	app, g, err = parser.LoadApplicationWithGuidelines(appFile, "")
	require.NoError(t, err)
	assert.NotNil(t, app)
	assert.Nil(t, g)
}
