package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rkarpau/veritext/internal/model"
	"github.com/rkarpau/veritext/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	scorerURL   string
	maxRuns     int
	runBudget   time.Duration
	minTier     string
	noCache     bool
	noFragments bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <payload>",
	Short: "Verify that generated candidates preserve the payload's facts",
	Long: `Verify loads a payload file (YAML or JSON) holding the structured
generation input and one or more candidate outputs, then for each candidate:
- Extracts typed fragments (dates, numbers, identifiers, phrases, statements)
- Checks literal and pattern containment on both sides
- Compares statements through the external similarity scorer
- Scores the run and builds a corrected, annotated document

Candidates are ranked by weighted content score; the report lists missing
and unsupported facts per run.

Example:
  veritext verify case.yaml
  veritext verify case.yaml --json report.json --max-runs 3
  veritext verify case.yaml --llm --llm-provider ollama --llm-model llama3`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	verifyCmd.Flags().BoolVar(&noFragments, "no-fragments", false, "omit per-fragment lists from the report")

	// Verification flags
	verifyCmd.Flags().StringVar(&scorerURL, "scorer-url", "", "similarity scorer base URL (overrides config)")
	verifyCmd.Flags().IntVar(&maxRuns, "max-runs", 0, "max candidates to verify (0 = config default)")
	verifyCmd.Flags().DurationVar(&runBudget, "budget", 0, "wall-clock budget for the whole sweep (0 = config default)")
	verifyCmd.Flags().StringVar(&minTier, "min-tier", "", "weakest statement match tier to accept (exact_match, strong_match, moderate_match, weak_match)")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable scorer response cache")

	// LLM flags
	verifyCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM report summary")
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]

	// Build configuration from file/env, then apply flag overrides
	cfg := loadConfig()
	if scorerURL != "" {
		cfg.Scorer.BaseURL = scorerURL
	}
	if maxRuns > 0 {
		cfg.Verification.MaxRuns = maxRuns
	}
	if runBudget > 0 {
		cfg.Verification.RunBudget = runBudget
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
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Verification.RunBudget)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n", path)
		fmt.Fprintf(os.Stderr, "Scorer: %s\n", cfg.Scorer.BaseURL)
		fmt.Fprintf(os.Stderr, "Budget: %v\n", cfg.Verification.RunBudget)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, verbose)
	report, err := p.VerifyFile(ctx, path)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Ranked %d runs (%d failed)\n", len(report.Runs), len(report.FailedRuns))
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM summary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFragments)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	renderer.PrintSummary(os.Stdout, report)

	return nil
}

// applyLLMFlags wires the LLM flags and provider credentials into cfg
func applyLLMFlags(cfg *model.Config) error {
	if !llmEnabled {
		cfg.LLM.Provider = ""
		return nil
	}

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}
