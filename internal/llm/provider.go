// Package llm generates an optional plain-language summary of a
// verification report. The summary runs strictly after scoring and never
// affects verification results.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rkarpau/veritext/internal/model"
)

// Provider is one LLM backend.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a summary of the verification report
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest is the input for report summarization.
type SummarizeRequest struct {
	// Report is the scored verification report
	Report model.Report

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the provider-specific model name
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse is the provider's output.
type SummarizeResponse struct {
	Summary    string
	Model      string
	TokensUsed int
}

// NewProvider creates a provider from configuration. An empty provider name
// means summarization is disabled and returns (nil, nil).
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "ollama":
		return NewOllamaProvider(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}

// BuildPrompt constructs the default summarization prompt. The model only
// sees what the verifier measured; it must describe coverage, never judge
// the truth of the underlying facts.
func BuildPrompt(report model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are summarizing a fact-preservation verification report. The verifier checks whether generated text preserves the factual details of its structured input. It measures coverage, it never asserts truth.

RULES:
1. Only reference fragments listed below. Do not invent facts or values.
2. Describe coverage quality: what was preserved, what is missing, what is unsupported.
3. Never say a fact "is true" or "is false"; say it is present, missing, or unsupported.

Subject: %s
Status: %s
`, report.Subject, report.Status)

	if best := report.BestRun(); best != nil {
		fmt.Fprintf(&b, `Best run: %d of %d
Overall weighted score: %.3f / 10
Overall coverage: %.1f%%
Missing input fragments: %d
Unsupported output fragments: %d
`, best.RunNumber, len(report.Runs),
			best.Scores.OverallWeightedContentScore,
			best.Scores.OverallCoveragePercentage,
			len(best.Missing), len(best.False))

		listFragments(&b, "Missing", best.Missing)
		listFragments(&b, "Unsupported", best.False)
	} else {
		fmt.Fprintf(&b, "All %d runs failed; no scores are available.\n", len(report.FailedRuns))
	}

	b.WriteString("\nProvide a 3-4 sentence summary of the coverage findings.")
	return b.String()
}

func listFragments(b *strings.Builder, label string, frags []model.Fragment) {
	if len(frags) == 0 {
		return
	}
	fmt.Fprintf(b, "%s fragments:\n", label)
	for i, f := range frags {
		if i >= 20 {
			fmt.Fprintf(b, "... and %d more\n", len(frags)-20)
			break
		}
		fmt.Fprintf(b, "- [%s] %s\n", f.Type, f.Text)
	}
}
