package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/finbrook/dscrgo/internal/config"
	"github.com/finbrook/dscrgo/internal/output"
	"github.com/finbrook/dscrgo/internal/service"
)

var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Evaluate every application file in a directory",
	Long: `Evaluate all application files (.yaml, .yml, .json) in a directory with
bounded concurrency and emit one combined report. The csv format gives one
row per application, sorted by application id.

Examples:
  dscrgo batch ./pipeline --concurrency 8
  dscrgo batch ./pipeline --format json > decisions.json`,
	Args: cobra.ExactArgs(1),
	Run:  runBatch,
}

var (
	batchConcurrency int
	batchFormat      string
	batchNoPricing   bool
)

func init() {
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 4, "Number of applications evaluated in parallel")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "csv", "Output format (csv, json, console, summary, html)")
	batchCmd.Flags().BoolVar(&batchNoPricing, "no-pricing", false, "Skip the pricing pass (rules and decision only)")
	batchCmd.Flags().String("cache-addr", "", "Redis address for the evaluation cache (for example localhost:6379)")
	batchCmd.Flags().String("guidelines", "", "Path to a guidelines overlay file (default: guidelines.yaml if it exists)")
	batchCmd.Flags().BoolP("verbose", "v", false, "Verbose engine logging")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) {
	dir := args[0]

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatal(err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		log.Fatalf("no application files found in %s", dir)
	}

	guidelines := loadBatchGuidelines(cmd)
	underwriter := newUnderwriter(cmd, guidelines)
	opts := service.EvaluateOptions{SkipPricing: batchNoPricing}

	if batchConcurrency < 1 {
		batchConcurrency = 1
	}

	evals := make([]*service.Evaluation, len(files))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(batchConcurrency)
	for i, file := range files {
		i, file := i, file // per-iteration copies; required while go.mod targets go < 1.22
		g.Go(func() error {
			app, err := config.NewInputParser().LoadApplication(file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			eval, err := underwriter.Evaluate(ctx, app, opts)
			if err != nil {
				return err
			}
			evals[i] = eval
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	f := output.GetFormatterByName(batchFormat)
	if f == nil {
		log.Fatalf("unknown output format: %s (valid: %s)",
			batchFormat, strings.Join(output.AvailableFormatterNames(), ", "))
	}
	data, err := output.FormatBatch(f, evals)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(data))
}

// loadBatchGuidelines loads the guidelines overlay once for the whole run.
func loadBatchGuidelines(cmd *cobra.Command) *config.Guidelines {
	guidelinesFile, _ := cmd.Flags().GetString("guidelines")
	if guidelinesFile == "" && fileExists("guidelines.yaml") {
		guidelinesFile = "guidelines.yaml"
	}
	if guidelinesFile == "" {
		return nil
	}

	guidelines, err := config.NewInputParser().LoadGuidelines(guidelinesFile)
	if err != nil {
		log.Fatal(err)
	}
	return guidelines
}
