package model

// MatchType is the ordered classification bucket for statement-pair
// similarity. The numeric order is total: it breaks ties and selects the
// best match among several candidates for one fragment.
type MatchType int

const (
	NoMatch       MatchType = 0
	WeakMatch     MatchType = 1
	ModerateMatch MatchType = 2
	StrongMatch   MatchType = 3
	ExactMatch    MatchType = 4
)

func (m MatchType) String() string {
	switch m {
	case ExactMatch:
		return "exact_match"
	case StrongMatch:
		return "strong_match"
	case ModerateMatch:
		return "moderate_match"
	case WeakMatch:
		return "weak_match"
	default:
		return "no_match"
	}
}

// Metrics is the similarity vector returned by the scorer for one pair
type Metrics struct {
	TFIDF     float64 `json:"tfidf"`
	Euclidean float64 `json:"euclidean"`
	Manhattan float64 `json:"manhattan"`
	Domain    float64 `json:"domain"`
}

// WeightedKeyword is a keyword annotated with a similarity score
type WeightedKeyword struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Keywords holds the keyword sets from both statements of a pair
type Keywords struct {
	Side1  []string          `json:"side1"`
	Side2  []string          `json:"side2"`
	Common []WeightedKeyword `json:"common"`
}

// ComparisonResult is produced per (input-statement, output-statement) pair
type ComparisonResult struct {
	InputText      string   `json:"input_text"`
	OutputText     string   `json:"output_text"`
	CombinedScore  float64  `json:"combined_score"`
	Confidence     float64  `json:"confidence"`
	BasicScore     float64  `json:"basic_score"`
	OverlapPercent float64  `json:"overlap_percent"`
	Metrics        Metrics  `json:"metrics"`
	Keywords       Keywords `json:"keywords"`
}

// KeywordOverlap is the fraction of the smaller keyword set covered by the
// common set, in [0,1]. Empty keyword sets yield 0.
func (r ComparisonResult) KeywordOverlap() float64 {
	n := len(r.Keywords.Side1)
	if len(r.Keywords.Side2) < n {
		n = len(r.Keywords.Side2)
	}
	if n == 0 {
		return 0
	}
	common := len(r.Keywords.Common)
	if common > n {
		common = n
	}
	return float64(common) / float64(n)
}
