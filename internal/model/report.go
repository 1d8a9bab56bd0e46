package model

import "time"

// VerificationStatus is the sweep-level outcome
type VerificationStatus string

const (
	StatusVerified           VerificationStatus = "verified"
	StatusVerificationFailed VerificationStatus = "verification_failed"
)

// RunReport is one completed run in rank order
type RunReport struct {
	Rank      int         `json:"rank"`
	RunNumber int         `json:"run_number"`
	Scores    ScoreRecord `json:"scores"`
	Document  *Node       `json:"corrected_document,omitempty"`

	// Per-fragment outcomes, included when output.include_fragments is set
	InputFragments  []Fragment `json:"input_fragments,omitempty"`
	OutputFragments []Fragment `json:"output_fragments,omitempty"`

	Missing []Fragment `json:"missing_entities,omitempty"`
	False   []Fragment `json:"false_entities,omitempty"`
}

// Report is the complete result of a multi-candidate verification sweep.
// Runs are ordered by descending (weighted score, coverage); index 0 is the
// best run. Failed runs are excluded from ranking and listed separately.
type Report struct {
	Subject    string             `json:"subject"`
	VerifiedAt time.Time          `json:"verified_at"`
	Status     VerificationStatus `json:"status"`
	Runs       []RunReport        `json:"runs"`
	FailedRuns []Run              `json:"failed_runs,omitempty"`

	// RawCandidates carries the unverified candidate texts when every run
	// failed, so the caller is never blocked from seeing output.
	RawCandidates []string `json:"raw_candidates,omitempty"`

	LLM *LLMSummary `json:"llm,omitempty"`
}

// BestRun returns the highest-ranked run, or nil if all runs failed.
func (r *Report) BestRun() *RunReport {
	if len(r.Runs) == 0 {
		return nil
	}
	return &r.Runs[0]
}

// LLMSummary contains the optional plain-language summary of the report.
// It is generated after scoring and never affects verification results.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
