package llm

import (
	"context"
	"fmt"

	"github.com/rkarpau/veritext/internal/model"
)

// Summarizer attaches an optional plain-language summary to a report.
// Failures degrade to warnings; the report's verification results are
// never touched.
type Summarizer struct {
	provider Provider
	cfg      model.LLMConfig
}

// NewSummarizer creates a summarizer. A nil provider disables it.
func NewSummarizer(provider Provider, cfg model.LLMConfig) *Summarizer {
	return &Summarizer{provider: provider, cfg: cfg}
}

// Summarize fills report.LLM. With no provider configured the report is
// left untouched.
func (s *Summarizer) Summarize(ctx context.Context, report *model.Report) {
	if s.provider == nil {
		return
	}

	summary := &model.LLMSummary{
		Enabled:  true,
		Provider: s.provider.Name(),
	}
	report.LLM = summary

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("%s provider unavailable, summary skipped", s.provider.Name()))
		return
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:    *report,
		Model:     s.cfg.Model,
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("summarization failed: %v", err))
		return
	}

	summary.Model = resp.Model
	summary.SummaryMD = resp.Summary
}
