package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finbrook/dscrgo/internal/config"
	"github.com/finbrook/dscrgo/internal/domain"
	"github.com/finbrook/dscrgo/internal/dscr"
	"github.com/finbrook/dscrgo/internal/output"
	"github.com/finbrook/dscrgo/internal/rules"
	"github.com/finbrook/dscrgo/internal/service"
	"github.com/finbrook/dscrgo/internal/store"
)

// simpleCLILogger implements logging.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "dscrgo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

var rootCmd = &cobra.Command{
	Use:   "dscrgo",
	Short: "DSCR rental loan underwriting CLI",
	Long:  "Debt service coverage underwriting for rental property loans: coverage calculation, eligibility rules, risk-based pricing and automated decisioning",
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [application-file]",
	Short: "Run the full underwriting pipeline on an application",
	Long: `Run the full pipeline: DSCR calculation, stress scenarios, eligibility
rules, risk-based pricing and the automated decision.

Examples:
  dscrgo evaluate application.yaml
  dscrgo evaluate application.yaml --format json
  dscrgo evaluate application.yaml --no-pricing
  dscrgo evaluate application.yaml --cache-addr localhost:6379`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app, guidelines := loadApplication(cmd, args[0])
		underwriter := newUnderwriter(cmd, guidelines)

		noPricing, _ := cmd.Flags().GetBool("no-pricing")
		refresh, _ := cmd.Flags().GetBool("refresh")
		eval, err := underwriter.Evaluate(context.Background(), app, service.EvaluateOptions{
			SkipPricing: noPricing,
			BypassCache: refresh,
		})
		if err != nil {
			log.Fatal(err)
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(outputFormat)
		if f == nil {
			log.Fatalf("unknown output format: %s (valid: %s)",
				outputFormat, strings.Join(output.AvailableFormatterNames(), ", "))
		}

		if write, _ := cmd.Flags().GetBool("write"); write {
			filename, err := output.WriteFormatted(f, eval, extensionFor(f.Name()))
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Report written to %s\n", filename)
			return
		}

		data, err := f.Format(eval)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(data))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [application-file]",
	Short: "Validate an application file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		app, err := parser.LoadApplication(args[0])
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Application file %s is valid (application %s, property %s)\n",
			args[0], app.ApplicationID, app.PropertyID)
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the eligibility rule catalog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(string(output.FormatRuleCatalog(rules.Catalog())))
	},
}

// loadApplication reads an application document, layering in guidelines from
// --guidelines or a guidelines.yaml in the working directory when present.
func loadApplication(cmd *cobra.Command, path string) (*domain.Application, *config.Guidelines) {
	parser := config.NewInputParser()

	guidelinesFile, _ := cmd.Flags().GetString("guidelines")
	if guidelinesFile == "" && fileExists("guidelines.yaml") {
		guidelinesFile = "guidelines.yaml"
	}

	app, guidelines, err := parser.LoadApplicationWithGuidelines(path, guidelinesFile)
	if err != nil {
		log.Fatal(err)
	}
	return app, guidelines
}

// newCalculator builds a calculator from the guidelines overlay, or the
// default program guidelines without one.
func newCalculator(guidelines *config.Guidelines) *dscr.Calculator {
	if guidelines == nil {
		return dscr.New()
	}
	return dscr.NewWithConfig(guidelines.CalculatorConfig())
}

// newUnderwriter wires the service layer for a command, honoring the
// --cache-addr and --verbose flags.
func newUnderwriter(cmd *cobra.Command, guidelines *config.Guidelines) *service.Underwriter {
	cfg := service.Config{Calculator: newCalculator(guidelines)}
	if addr, _ := cmd.Flags().GetString("cache-addr"); addr != "" {
		cfg.Cache = store.NewRedisCache(addr)
	}

	underwriter := service.NewWithConfig(cfg)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		underwriter.SetLogger(simpleCLILogger{})
	}
	return underwriter
}

// extensionFor maps a formatter name to its report file extension.
func extensionFor(name string) string {
	switch name {
	case "json":
		return "json"
	case "csv":
		return "csv"
	case "html":
		return "html"
	}
	return "txt"
}

func init() {
	evaluateCmd.Flags().StringP("format", "f", "console", "Output format (console, summary, json, csv, html)")
	evaluateCmd.Flags().BoolP("verbose", "v", false, "Verbose engine logging")
	evaluateCmd.Flags().Bool("no-pricing", false, "Skip the pricing pass (rules and decision only)")
	evaluateCmd.Flags().Bool("refresh", false, "Bypass the evaluation cache and recompute")
	evaluateCmd.Flags().String("cache-addr", "", "Redis address for the evaluation cache (for example localhost:6379)")
	evaluateCmd.Flags().String("guidelines", "", "Path to a guidelines overlay file (default: guidelines.yaml if it exists)")
	evaluateCmd.Flags().Bool("write", false, "Write the report to a timestamped file instead of stdout")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
