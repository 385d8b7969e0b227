package main

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/finbrook/dscrgo/internal/tui"
)

var whatifCmd = &cobra.Command{
	Use:   "whatif [application-file]",
	Short: "Open the interactive what-if dashboard",
	Long: `Open a terminal dashboard over the application. Sliders adjust the note
rate, vacancy, gross rent and loan amount; the coverage metrics, rules
tally, pricing tier and decision re-evaluate on every change.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, guidelines := loadApplication(cmd, args[0])

		program := tea.NewProgram(
			tui.NewModel(app, newCalculator(guidelines)),
			tea.WithAltScreen(),
		)
		if _, err := program.Run(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	whatifCmd.Flags().String("guidelines", "", "Path to a guidelines overlay file (default: guidelines.yaml if it exists)")

	rootCmd.AddCommand(whatifCmd)
}
