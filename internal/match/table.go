package match

import "github.com/rkarpau/veritext/internal/model"

// TierRule gates one match tier. A result lands in the tier when its
// combined score and raw confidence meet the minimums and the boolean
// condition holds. Rules are evaluated highest tier first.
type TierRule struct {
	Tier           model.MatchType
	MinCombined    float64
	MinConfidence  float64
	Cond           Expr
	BaseConfidence float64
}

// DefaultTable is the decision table from exact_match down to weak_match.
// Conditions reference only the metrics vector, never the combined score,
// which keeps classification monotone in the combined score.
func DefaultTable() []TierRule {
	return []TierRule{
		{
			Tier:           model.ExactMatch,
			MinCombined:    0.95,
			MinConfidence:  90,
			BaseConfidence: 90,
			Cond: Or{
				Cmp{MetricTFIDF, GTE, 0.95},
				Cmp{MetricOverlap, GTE, 95},
			},
		},
		{
			Tier:           model.StrongMatch,
			MinCombined:    0.80,
			MinConfidence:  75,
			BaseConfidence: 75,
			Cond: Or{
				And{
					Cmp{MetricTFIDF, GTE, 0.75},
					Cmp{MetricDomain, GTE, 0.70},
				},
				Cmp{MetricOverlap, GTE, 80},
				Cmp{MetricKeywordOverlap, GTE, 0.85},
			},
		},
		{
			Tier:           model.ModerateMatch,
			MinCombined:    0.60,
			MinConfidence:  50,
			BaseConfidence: 50,
			Cond: Or{
				Cmp{MetricTFIDF, GTE, 0.50},
				Cmp{MetricDomain, GTE, 0.55},
				And{
					Cmp{MetricEuclidean, LTE, 0.60},
					Cmp{MetricOverlap, GTE, 40},
				},
			},
		},
		{
			Tier:           model.WeakMatch,
			MinCombined:    0.35,
			MinConfidence:  25,
			BaseConfidence: 25,
			Cond: Or{
				Cmp{MetricTFIDF, GTE, 0.25},
				Cmp{MetricOverlap, GTE, 20},
				Cmp{MetricKeywordOverlap, GTE, 0.30},
			},
		},
	}
}
