package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finbrook/dscrgo/internal/output"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios [application-file]",
	Short: "Stress the coverage ratio across standard adverse scenarios",
	Long: `Recompute the DSCR under the standard stress set: higher vacancy, a one
point rate shock and a rent haircut. The base calculation is shown for
comparison.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, guidelines := loadApplication(cmd, args[0])
		calc := newCalculator(guidelines)

		in := app.CalculationInput()
		base := calc.Calculate(in)
		fmt.Print(string(output.FormatScenarioTable(base, calc.Scenarios(in))))
	},
}

func init() {
	scenariosCmd.Flags().String("guidelines", "", "Path to a guidelines overlay file (default: guidelines.yaml if it exists)")

	rootCmd.AddCommand(scenariosCmd)
}
