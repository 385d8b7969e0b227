package main

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/output"
	"github.com/finbrook/dscrgo/internal/valuation"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile an AVM estimate against an appraised value",
	Long: `Compare an automated valuation model estimate to an appraisal and report
the variance against the tolerance. The appraised value is always the
recommended value.

Example:
  dscrgo reconcile --avm 610000 --appraisal 600000`,
	Run: func(cmd *cobra.Command, args []string) {
		avmStr, _ := cmd.Flags().GetString("avm")
		appraisalStr, _ := cmd.Flags().GetString("appraisal")
		tolerance, _ := cmd.Flags().GetFloat64("tolerance")

		avm, err := decimal.NewFromString(avmStr)
		if err != nil {
			log.Fatalf("invalid --avm value %q: %v", avmStr, err)
		}
		appraisal, err := decimal.NewFromString(appraisalStr)
		if err != nil {
			log.Fatalf("invalid --appraisal value %q: %v", appraisalStr, err)
		}

		rec, err := valuation.Reconcile(domain.MoneyFromDecimal(avm), domain.MoneyFromDecimal(appraisal), tolerance)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(output.FormatReconciliation(rec)))
	},
}

func init() {
	reconcileCmd.Flags().String("avm", "", "AVM estimate in dollars (required)")
	reconcileCmd.Flags().String("appraisal", "", "Appraised value in dollars (required)")
	reconcileCmd.Flags().Float64("tolerance", valuation.DefaultTolerance, "Accepted variance as a fraction of the appraisal")
	_ = reconcileCmd.MarkFlagRequired("avm")
	_ = reconcileCmd.MarkFlagRequired("appraisal")

	rootCmd.AddCommand(reconcileCmd)
}
