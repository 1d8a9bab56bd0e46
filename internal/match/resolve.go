package match

import (
	"fmt"
	"sort"

	"github.com/rkarpau/veritext/internal/model"
)

// scoredMatch is one classified pairwise result from a fragment's viewpoint.
type scoredMatch struct {
	otherText  string
	tier       model.MatchType
	confidence float64
	result     model.ComparisonResult
}

// resolveFragment attaches the surviving matches for one statement fragment.
// Matches below minTier are discarded; the rest are sorted by (tier,
// confidence) descending and written into the fragment's representations.
// A fragment with no surviving match is marked not_detected.
func resolveFragment(f *model.Fragment, matches []scoredMatch, minTier model.MatchType, verbose bool) {
	kept := matches[:0]
	for _, m := range matches {
		if m.tier == model.NoMatch || m.tier < minTier {
			continue
		}
		kept = append(kept, m)
	}

	if len(kept) == 0 {
		f.Status = model.StatusNotDetected
		f.Representations = []string{f.Text}
		return
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].tier != kept[j].tier {
			return kept[i].tier > kept[j].tier
		}
		return kept[i].confidence > kept[j].confidence
	})

	reps := []string{f.Text}
	for _, m := range kept {
		reps = append(reps, formatMatch(m, verbose))
	}
	f.Representations = reps
	f.MarkDetected(model.LocContent)
}

// formatMatch renders a match as a representation string. Verbose mode
// includes the full metric vector for diagnostics.
func formatMatch(m scoredMatch, verbose bool) string {
	if !verbose {
		return fmt.Sprintf("%s [%s %.0f%%]", m.otherText, m.tier, m.confidence)
	}
	return fmt.Sprintf("%s [%s %.0f%% tfidf=%.2f euclidean=%.2f manhattan=%.2f domain=%.2f overlap=%.0f%%]",
		m.otherText, m.tier, m.confidence,
		m.result.Metrics.TFIDF, m.result.Metrics.Euclidean, m.result.Metrics.Manhattan,
		m.result.Metrics.Domain, m.result.OverlapPercent)
}
