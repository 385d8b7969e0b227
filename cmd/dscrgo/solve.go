package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finbrook/dscrgo/internal/config"
	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/dscr"
	"github.com/finbrook/dscrgo/internal/output"
)

var requiredRentCmd = &cobra.Command{
	Use:   "required-rent [application-file]",
	Short: "Solve for the monthly rent that reaches a target DSCR",
	Long: `Invert the coverage calculation: given the application's loan terms and
expenses, find the gross monthly rent that would put the DSCR at the
target. The target comes from --target, the application document, the
guidelines overlay or the program default, in that order.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, guidelines := loadApplication(cmd, args[0])
		calc := newCalculator(guidelines)
		target := resolveTarget(cmd, app, guidelines)

		rent := calc.RequiredRent(app.CalculationInput(), target)
		fmt.Print(string(output.FormatRequiredRent(rent, target)))
	},
}

var maxLoanCmd = &cobra.Command{
	Use:   "max-loan [application-file]",
	Short: "Solve for the largest loan the property's income supports",
	Long: `Invert the coverage calculation the other way: given the property's
income and expenses, find the largest loan amount whose payment keeps the
DSCR at or above the target.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, guidelines := loadApplication(cmd, args[0])
		calc := newCalculator(guidelines)
		target := resolveTarget(cmd, app, guidelines)

		loan := calc.MaxLoanAmount(app.CalculationInput(), target)
		fmt.Print(string(output.FormatMaxLoan(loan, target)))
	},
}

// resolveTarget picks the solver target: the --target flag when set, then
// the application document, then the guidelines overlay, then the program
// default.
func resolveTarget(cmd *cobra.Command, app *domain.Application, guidelines *config.Guidelines) float64 {
	if target, _ := cmd.Flags().GetFloat64("target"); target > 0 {
		return target
	}
	return app.TargetDSCR(guidelines.SolverTarget(dscr.PreferredDSCR))
}

func init() {
	for _, cmd := range []*cobra.Command{requiredRentCmd, maxLoanCmd} {
		cmd.Flags().Float64P("target", "t", 0, "Target DSCR (default: document target, guidelines target or 1.25)")
		cmd.Flags().String("guidelines", "", "Path to a guidelines overlay file (default: guidelines.yaml if it exists)")
		rootCmd.AddCommand(cmd)
	}
}
