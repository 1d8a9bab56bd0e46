package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rkarpau/veritext/internal/model"
)

// Renderer writes verification reports to their output formats
type Renderer struct {
	includeFragments bool
}

// NewRenderer creates a renderer. When includeFragments is false the
// per-fragment lists are stripped from rendered runs and only scores,
// missing/false entities and the corrected document remain.
func NewRenderer(includeFragments bool) *Renderer {
	return &Renderer{includeFragments: includeFragments}
}

// RenderJSON writes the report as indented JSON to the given path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	out := report
	if !r.includeFragments {
		trimmed := *report
		trimmed.Runs = make([]model.RunReport, len(report.Runs))
		for i, run := range report.Runs {
			run.InputFragments = nil
			run.OutputFragments = nil
			trimmed.Runs[i] = run
		}
		out = &trimmed
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// PrintSummary writes a human-readable run summary to w
func (r *Renderer) PrintSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "Subject:  %s\n", report.Subject)
	fmt.Fprintf(w, "Status:   %s\n", report.Status)

	if report.Status == model.StatusVerificationFailed {
		fmt.Fprintf(w, "Runs:     all %d failed\n", len(report.FailedRuns))
		for _, run := range report.FailedRuns {
			fmt.Fprintf(w, "  run %d: %s\n", run.Number, run.Error)
		}
		return
	}

	fmt.Fprintf(w, "Runs:     %d ranked, %d failed\n", len(report.Runs), len(report.FailedRuns))
	for _, run := range report.Runs {
		fmt.Fprintf(w, "  #%d run %d: score %.3f, coverage %.1f%% (missing %d, unsupported %d)\n",
			run.Rank, run.RunNumber,
			run.Scores.OverallWeightedContentScore,
			run.Scores.OverallCoveragePercentage,
			len(run.Missing), len(run.False))
	}

	if best := report.BestRun(); best != nil && len(best.Missing) > 0 {
		fmt.Fprintf(w, "Best run is missing:\n")
		for _, f := range best.Missing {
			fmt.Fprintf(w, "  [%s] %s\n", f.Type, f.Text)
		}
	}
}
