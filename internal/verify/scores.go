package verify

import (
	"math"

	"github.com/rkarpau/veritext/internal/model"
)

// computeScores builds the per-run score record from the classified
// fragment lists of both sides.
func computeScores(input, output []model.Fragment) model.ScoreRecord {
	inCov := coverage(input)
	outCov := coverage(output)

	return model.ScoreRecord{
		InputCoveragePercentage:     round3(inCov),
		OutputCoveragePercentage:    round3(outCov),
		OverallCoveragePercentage:   round3((inCov + outCov) / 2),
		InputWeightedContentScore:   weightedScore(input),
		OutputWeightedContentScore:  weightedScore(output),
		OverallWeightedContentScore: round3((weightedScore(input) + weightedScore(output)) / 2),
	}
}

// weightedScore is the 0-10 per-side content score. Each fragment type
// present on the side contributes its detected ratio times its weight; the
// sum is normalized by the weights of the types actually present. A side
// with no applicable fragments passes vacuously with 10.0.
func weightedScore(frags []model.Fragment) float64 {
	totals := make(map[model.FragmentType]int)
	missing := make(map[model.FragmentType]int)
	for _, f := range frags {
		totals[f.Type]++
		if f.Status == model.StatusNotDetected {
			missing[f.Type]++
		}
	}

	var sum, weightSum float64
	for typ, total := range totals {
		weight := model.TypeWeights[typ]
		if total == 0 || weight == 0 {
			continue
		}
		sum += float64(total-missing[typ]) / float64(total) * weight
		weightSum += weight
	}

	if weightSum == 0 {
		return 10.0
	}
	return round3(sum / weightSum * 10)
}

// coverage is the 0-100 detected percentage for one side. An empty side
// counts as fully covered.
func coverage(frags []model.Fragment) float64 {
	if len(frags) == 0 {
		return 100
	}
	missing := 0
	for _, f := range frags {
		if f.Status == model.StatusNotDetected {
			missing++
		}
	}
	return 100 * (1 - float64(missing)/float64(len(frags)))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
