package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finbrook/dscrgo/internal/pricing"
)

var priceCmd = &cobra.Command{
	Use:   "price [application-file]",
	Short: "Price an application without running the full decision",
	Long: `Compute the coverage ratio and run risk-based pricing on its own: tier
assignment, base rate and the itemized rate adjustments. Ineligible loans
still show indicative pricing.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, guidelines := loadApplication(cmd, args[0])
		calc := newCalculator(guidelines)

		result := calc.Calculate(app.CalculationInput())
		priced := pricing.New().Price(app.PricingInput(float64(result.DSCRRatio)))

		fmt.Println("RISK-BASED PRICING")
		fmt.Println("==================")
		fmt.Printf("Application: %s\n", app.ApplicationID)
		fmt.Printf("DSCR: %s\n", result.DSCRRatio)
		fmt.Printf("LTV: %.1f%%\n", app.LTV())
		fmt.Println()

		if !priced.Eligible {
			fmt.Println("NOT ELIGIBLE for pricing:")
			for _, reason := range priced.IneligibilityReasons {
				fmt.Printf("  - %s\n", reason)
			}
			fmt.Println()
			fmt.Println("Indicative pricing:")
		}

		fmt.Printf("Risk Tier: %s\n", priced.Tier)
		fmt.Printf("Base Rate: %s%%\n", priced.BaseRate.StringFixed(3))
		for _, adj := range priced.Adjustments {
			fmt.Printf("  %-30s %+d bps\n", adj.Description, adj.BasisPoints)
		}
		fmt.Printf("Total Adjustment: %+d bps\n", priced.TotalAdjustmentBPS)
		fmt.Printf("Final Rate: %s%%\n", priced.FinalRate.StringFixed(3))
	},
}

func init() {
	priceCmd.Flags().String("guidelines", "", "Path to a guidelines overlay file (default: guidelines.yaml if it exists)")

	rootCmd.AddCommand(priceCmd)
}
