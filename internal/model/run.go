package model

// ScoreRecord is the per-run scoring breakdown. Weighted scores live on a
// 0-10 scale, coverage percentages on 0-100.
type ScoreRecord struct {
	InputCoveragePercentage     float64 `json:"input_coverage_percentage"`
	OutputCoveragePercentage    float64 `json:"output_coverage_percentage"`
	OverallCoveragePercentage   float64 `json:"overall_coverage_percentage"`
	InputWeightedContentScore   float64 `json:"input_weighted_content_score"`
	OutputWeightedContentScore  float64 `json:"output_weighted_content_score"`
	OverallWeightedContentScore float64 `json:"overall_weighted_content_score"`
}

// RankKey is the tuple runs are ordered by, lexicographically descending.
func (s ScoreRecord) RankKey() [2]float64 {
	return [2]float64{s.OverallWeightedContentScore, s.OverallCoveragePercentage}
}

// Less reports whether s ranks strictly below other.
func (s ScoreRecord) Less(other ScoreRecord) bool {
	a, b := s.RankKey(), other.RankKey()
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// Content holds one side's concatenated raw content along with the
// lowercased variant used for case-insensitive containment.
type Content struct {
	Raw   []string `json:"raw"`
	Lower []string `json:"lower"`
}

// Run is one complete verification pass over one candidate output.
// Fragment lists are mutated only by the orchestrator and the
// matcher/classifier stages; after scoring a run is immutable.
type Run struct {
	Number          int          `json:"run_number"`
	InputFragments  []Fragment   `json:"input_fragments"`
	OutputFragments []Fragment   `json:"output_fragments"`
	InputContent    Content      `json:"-"`
	OutputContent   Content      `json:"-"`
	Scores          *ScoreRecord `json:"scores,omitempty"`
	Failed          bool         `json:"failed,omitempty"`
	Error           string       `json:"error,omitempty"`
}

// TypeWeights are the per-type importance weights for the weighted
// content score.
var TypeWeights = map[FragmentType]float64{
	TypeDate:       1.5,
	TypeNumber:     1.5,
	TypeIdentifier: 1.2,
	TypeStatement:  1.0,
	TypePhrase:     0.8,
}
