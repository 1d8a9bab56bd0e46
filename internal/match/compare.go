package match

import (
	"context"

	"github.com/rkarpau/veritext/internal/model"
	"github.com/rkarpau/veritext/internal/scorer"
)

// Comparer is the similarity-scorer surface the matcher needs. Satisfied by
// *scorer.Client.
type Comparer interface {
	TestConnection(ctx context.Context) bool
	Compare(ctx context.Context, pairs []scorer.Pair) []model.ComparisonResult
}

// Matcher classifies statement fragments by round-tripping the cross-product
// of input and output statements through the scorer. Non-statement fragments
// pass through untouched.
type Matcher struct {
	comparer Comparer
	table    []TierRule
	minTier  model.MatchType
	verbose  bool
}

// NewMatcher creates a matcher over the given scorer client.
func NewMatcher(comparer Comparer, minTier model.MatchType, verbose bool) *Matcher {
	return &Matcher{
		comparer: comparer,
		table:    DefaultTable(),
		minTier:  minTier,
		verbose:  verbose,
	}
}

// CompareAllStatements classifies the statement fragments of both sides in
// place. When the scorer is unreachable both sides are marked not_processed
// with empty representations; when the compare call degrades to an empty
// result set the statements are marked not_detected.
func (m *Matcher) CompareAllStatements(ctx context.Context, input, output []model.Fragment) {
	inIdx := statementIndexes(input)
	outIdx := statementIndexes(output)
	if len(inIdx) == 0 && len(outIdx) == 0 {
		return
	}

	if !m.comparer.TestConnection(ctx) {
		markNotProcessed(input, inIdx)
		markNotProcessed(output, outIdx)
		return
	}

	if len(inIdx) == 0 || len(outIdx) == 0 {
		// No pairs to form; the populated side has nothing to match against.
		markNotDetected(input, inIdx)
		markNotDetected(output, outIdx)
		return
	}

	pairs := make([]scorer.Pair, 0, len(inIdx)*len(outIdx))
	for _, i := range inIdx {
		for _, j := range outIdx {
			pairs = append(pairs, scorer.Pair{
				Input:  input[i].Text,
				Output: output[j].Text,
			})
		}
	}

	results := m.comparer.Compare(ctx, pairs)
	if len(results) == 0 {
		markNotDetected(input, inIdx)
		markNotDetected(output, outIdx)
		return
	}

	// Results are index-aligned with the cross-product: row per input
	// statement, column per output statement.
	for row, i := range inIdx {
		matches := make([]scoredMatch, 0, len(outIdx))
		for col := range outIdx {
			r := results[row*len(outIdx)+col]
			tier, conf := Classify(r, m.table)
			matches = append(matches, scoredMatch{
				otherText:  r.OutputText,
				tier:       tier,
				confidence: conf,
				result:     r,
			})
		}
		resolveFragment(&input[i], matches, m.minTier, m.verbose)
	}

	for col, j := range outIdx {
		matches := make([]scoredMatch, 0, len(inIdx))
		for row := range inIdx {
			r := results[row*len(outIdx)+col]
			tier, conf := Classify(r, m.table)
			matches = append(matches, scoredMatch{
				otherText:  r.InputText,
				tier:       tier,
				confidence: conf,
				result:     r,
			})
		}
		resolveFragment(&output[j], matches, m.minTier, m.verbose)
	}
}

func statementIndexes(fragments []model.Fragment) []int {
	var idx []int
	for i, f := range fragments {
		if f.Type == model.TypeStatement {
			idx = append(idx, i)
		}
	}
	return idx
}

func markNotProcessed(fragments []model.Fragment, idx []int) {
	for _, i := range idx {
		fragments[i].Status = model.StatusNotProcessed
		fragments[i].Representations = nil
	}
}

func markNotDetected(fragments []model.Fragment, idx []int) {
	for _, i := range idx {
		fragments[i].Status = model.StatusNotDetected
	}
}
