package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rkarpau/veritext/internal/pipeline"
	"github.com/rkarpau/veritext/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple payload files in parallel",
	Long: `Batch verifies multiple payloads concurrently:
- Read payload paths from a list file (one per line, # comments allowed)
- Verify payloads in parallel with a configurable worker count
- Write an individual JSON report per payload

Example:
  veritext batch payloads.txt
  veritext batch payloads.txt --concurrency 8 --output-dir ./reports
  veritext batch payloads.txt --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (0 = config default)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./veritext-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Inherit flags from verify command
	batchCmd.Flags().StringVar(&scorerURL, "scorer-url", "", "similarity scorer base URL (overrides config)")
	batchCmd.Flags().IntVar(&maxRuns, "max-runs", 0, "max candidates to verify per payload (0 = config default)")
	batchCmd.Flags().StringVar(&minTier, "min-tier", "", "weakest statement match tier to accept")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable scorer response cache")
	batchCmd.Flags().BoolVar(&noFragments, "no-fragments", false, "omit per-fragment lists from reports")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM report summaries")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	// Build configuration from file/env, then apply flag overrides
	cfg := loadConfig()
	if scorerURL != "" {
		cfg.Scorer.BaseURL = scorerURL
	}
	if maxRuns > 0 {
		cfg.Verification.MaxRuns = maxRuns
	}
	if minTier != "" {
		cfg.Verification.MinMatchTier = minTier
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFragments {
		cfg.Output.IncludeFragments = false
	}
	if concurrency > 0 {
		cfg.Concurrency.BatchWorkers = concurrency
	}
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Veritext Batch Verification\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.BatchWorkers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, verbose)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.BatchWorkers)

	results, err := processor.ProcessList(ctx, file)
	if err != nil {
		return fmt.Errorf("process list: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFragments)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		jsonPath := filepath.Join(outputDir, reportName(result.Path))
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write report: %v\n", result.Path, err)
			continue
		}

		successCount++
		best := result.Report.BestRun()
		if best != nil {
			fmt.Fprintf(os.Stderr, "✓ %s (score: %.3f, coverage: %.1f%%)\n",
				result.Path, best.Scores.OverallWeightedContentScore, best.Scores.OverallCoveragePercentage)
		} else {
			fmt.Fprintf(os.Stderr, "✓ %s (all runs failed)\n", result.Path)
		}
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d payloads\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// reportName derives the report filename from the payload path
func reportName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".report.json"
}
