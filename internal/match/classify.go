package match

import "github.com/rkarpau/veritext/internal/model"

// keywordOverrideScore is the common-keyword similarity needed for the
// full-overlap override to force strong_match.
const keywordOverrideScore = 0.95

// Classify evaluates one comparison result against the tier table and
// returns the match tier plus a 0-100 confidence for it. Override rules run
// before the table; an unsatisfied table yields (no_match, 0).
func Classify(r model.ComparisonResult, table []TierRule) (model.MatchType, float64) {
	if tier, conf, ok := classifyOverride(r, table); ok {
		return tier, conf
	}

	for i, rule := range table {
		if r.CombinedScore < rule.MinCombined || r.Confidence < rule.MinConfidence {
			continue
		}
		if !rule.Cond.Eval(r) {
			continue
		}
		return rule.Tier, tierConfidence(r, table, i)
	}

	return model.NoMatch, 0
}

// classifyOverride checks the forced-tier rules. Full keyword overlap where
// every word of the smaller set recurs, with at least one common keyword
// scored near-identical, is a strong match no matter what the table says.
func classifyOverride(r model.ComparisonResult, table []TierRule) (model.MatchType, float64, bool) {
	if r.KeywordOverlap() < 1 {
		return model.NoMatch, 0, false
	}
	for _, kw := range r.Keywords.Common {
		if kw.Score >= keywordOverrideScore {
			idx := tierIndex(table, model.StrongMatch)
			if idx < 0 {
				return model.StrongMatch, 100, true
			}
			return model.StrongMatch, tierConfidence(r, table, idx), true
		}
	}
	return model.NoMatch, 0, false
}

// tierConfidence interpolates the combined score between this tier's
// threshold and the next tier's onto [base, 100]. The top tier has no
// ceiling above it, so it clamps the raw confidence instead.
func tierConfidence(r model.ComparisonResult, table []TierRule, idx int) float64 {
	rule := table[idx]
	if idx == 0 {
		return clamp(r.Confidence, rule.BaseConfidence, 100)
	}

	lower := rule.MinCombined
	upper := table[idx-1].MinCombined
	if upper <= lower {
		return rule.BaseConfidence
	}

	frac := (r.CombinedScore - lower) / (upper - lower)
	conf := rule.BaseConfidence + frac*(100-rule.BaseConfidence)
	return clamp(conf, rule.BaseConfidence, 100)
}

func tierIndex(table []TierRule, tier model.MatchType) int {
	for i, rule := range table {
		if rule.Tier == tier {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
