// Package verify drives the verification sweep: one run per candidate
// output, each run walking extraction, deduplication, containment,
// statement classification, scoring, and correction in sequence.
package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rkarpau/veritext/internal/contain"
	"github.com/rkarpau/veritext/internal/correct"
	"github.com/rkarpau/veritext/internal/match"
	"github.com/rkarpau/veritext/internal/model"
	"github.com/rkarpau/veritext/internal/pattern"
	"github.com/rkarpau/veritext/internal/registry"
)

var (
	// ErrNoInputFragments short-circuits a run whose input yielded nothing
	// verifiable. The run is not scored.
	ErrNoInputFragments = errors.New("no input fragments detected")

	// ErrNoOutputFragments short-circuits a run whose candidate output
	// yielded nothing verifiable.
	ErrNoOutputFragments = errors.New("no output fragments detected")
)

// Teardowner is the scorer-resource surface the session releases on
// cancellation. Satisfied by *scorer.Client.
type Teardowner interface {
	Close()
}

// Session owns one verification sweep: its registry, run counter, matcher,
// and retry budget. Sessions are isolated; nothing is shared between two
// sessions verifying different reports.
type Session struct {
	reg      *registry.Registry
	detector *pattern.Detector
	matcher  *match.Matcher
	scorer   Teardowner
	cfg      model.VerificationConfig
	verbose  bool
}

// NewSession creates a session over the given scorer-backed matcher.
// teardown may be nil when the caller manages the scorer lifetime itself.
func NewSession(cfg model.VerificationConfig, matcher *match.Matcher, teardown Teardowner, verbose bool) *Session {
	return &Session{
		reg:      registry.New(),
		detector: pattern.NewDetector(),
		matcher:  matcher,
		scorer:   teardown,
		cfg:      cfg,
		verbose:  verbose,
	}
}

// Verify runs the sweep over every candidate output, bounded by the run
// count and wall-clock budget, and returns the ranked report. Context
// cancellation aborts the pending scorer call and tears the client down.
func (s *Session) Verify(ctx context.Context, in model.VerificationInput) (*model.Report, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	report := &model.Report{
		Subject:    in.Subject,
		VerifiedAt: time.Now().UTC(),
		Status:     model.StatusVerified,
	}

	deadline := time.Now().Add(s.cfg.RunBudget)
	var ranked []model.RunReport

	for i, candidate := range in.Candidates {
		if err := ctx.Err(); err != nil {
			s.teardown()
			return nil, fmt.Errorf("verification cancelled: %w", err)
		}
		if i >= s.cfg.MaxRuns {
			fmt.Fprintf(os.Stderr, "Warning: run budget of %d exhausted, %d candidates skipped\n",
				s.cfg.MaxRuns, len(in.Candidates)-i)
			break
		}
		if s.cfg.RunBudget > 0 && time.Now().After(deadline) {
			fmt.Fprintf(os.Stderr, "Warning: time budget exhausted after %d runs\n", i)
			break
		}

		run, doc, err := s.runOne(ctx, in.Blocks, candidate)
		if err != nil {
			if ctx.Err() != nil {
				s.teardown()
				return nil, fmt.Errorf("verification cancelled: %w", ctx.Err())
			}
			fmt.Fprintf(os.Stderr, "Warning: run %d failed: %v\n", run.Number, err)
			run.Failed = true
			run.Error = err.Error()
			report.FailedRuns = append(report.FailedRuns, run)
			continue
		}

		ranked = append(ranked, model.RunReport{
			RunNumber:       run.Number,
			Scores:          *run.Scores,
			Document:        doc,
			InputFragments:  run.InputFragments,
			OutputFragments: run.OutputFragments,
			Missing:         notDetected(run.InputFragments),
			False:           notDetected(run.OutputFragments),
		})
	}

	if len(ranked) == 0 {
		report.Status = model.StatusVerificationFailed
		report.RawCandidates = in.Candidates
		return report, nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[j].Scores.Less(ranked[i].Scores)
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	report.Runs = ranked

	return report, nil
}

// runOne executes a single run over one candidate output. Panics anywhere
// in the classification or correction stages are caught at this boundary
// and surfaced as run errors so the sweep can continue.
func (s *Session) runOne(ctx context.Context, blocks []model.ContentBlock, candidate string) (run model.Run, doc *model.Node, err error) {
	run.Number = s.reg.BeginRun()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("run %d panicked: %v", run.Number, r)
		}
	}()

	if s.verbose {
		fmt.Fprintf(os.Stderr, "Run %d: extracting fragments\n", run.Number)
	}

	for _, block := range blocks {
		text := block.Flatten()
		s.reg.AppendContent(model.SideInput, text)
		s.reg.AppendFragments(model.SideInput, s.detector.Fragments(text, model.SideInput, block.Location))
	}
	s.reg.AppendContent(model.SideOutput, candidate)
	s.reg.AppendFragments(model.SideOutput, s.detector.Fragments(candidate, model.SideOutput, model.LocGeneratedOutput))

	if len(s.reg.Fragments(model.SideInput)) == 0 {
		return run, nil, ErrNoInputFragments
	}
	if len(s.reg.Fragments(model.SideOutput)) == 0 {
		return run, nil, ErrNoOutputFragments
	}

	s.reg.Dedupe(model.SideInput)
	s.reg.Dedupe(model.SideOutput)

	input := s.reg.Fragments(model.SideInput)
	output := s.reg.Fragments(model.SideOutput)

	// Containment first: definitive types by literal substring, phrases by
	// compiled regex against the other side's combined content.
	input = checkContainment(input, output, s.reg.Content(model.SideOutput))
	output = checkContainment(output, input, s.reg.Content(model.SideInput))

	// Statements go through the scorer round trip.
	s.matcher.CompareAllStatements(ctx, input, output)

	s.reg.ReplaceFragments(model.SideInput, input)
	s.reg.ReplaceFragments(model.SideOutput, output)

	scores := computeScores(input, output)
	run.Scores = &scores
	run.InputFragments = input
	run.OutputFragments = output
	s.reg.MarkScored()

	if s.verbose {
		fmt.Fprintf(os.Stderr, "Run %d: weighted score %.3f, coverage %.1f%%\n",
			run.Number, scores.OverallWeightedContentScore, scores.OverallCoveragePercentage)
	}

	doc = correct.Build(candidate, notDetected(input), notDetected(output), input)
	return run, doc, nil
}

// Close releases the session's scorer resources.
func (s *Session) Close() {
	s.teardown()
}

func (s *Session) teardown() {
	if s.scorer != nil {
		s.scorer.Close()
	}
}

// checkContainment runs the per-type containment checks for one side's
// fragments against the other side.
func checkContainment(frags, others []model.Fragment, otherContent model.Content) []model.Fragment {
	var literal, phrases, rest []model.Fragment
	for _, f := range frags {
		switch {
		case f.Type.Definitive():
			literal = append(literal, f)
		case f.Type == model.TypePhrase:
			phrases = append(phrases, f)
		default:
			rest = append(rest, f)
		}
	}

	checked := contain.CheckLiteral(literal, others)
	checked = append(checked, contain.CheckRegex(phrases, otherContent.Raw)...)
	checked = append(checked, rest...)
	return checked
}

func notDetected(frags []model.Fragment) []model.Fragment {
	var out []model.Fragment
	for _, f := range frags {
		if f.Status == model.StatusNotDetected {
			out = append(out, f)
		}
	}
	return out
}
