package scorer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rkarpau/veritext/internal/model"
)

type compareRequest struct {
	Pairs []Pair `json:"pairs"`
}

type compareResponse struct {
	Results []wireResult `json:"results"`
}

type wireResult struct {
	CombinedScore  float64       `json:"combined_score"`
	Confidence     float64       `json:"confidence"`
	BasicScore     float64       `json:"basic_score"`
	OverlapPercent float64       `json:"overlap_percent"`
	Metrics        model.Metrics `json:"metrics"`
	Keywords       wireKeywords  `json:"keywords"`
}

type wireKeywords struct {
	Side1  []string      `json:"side1"`
	Side2  []string      `json:"side2"`
	Common []wireKeyword `json:"common"`
}

// wireKeyword accepts either a bare string or a {text, score} object. Some
// scorer versions emit unweighted common keywords; those default to score 1.
type wireKeyword struct {
	Text  string
	Score float64
}

func (k *wireKeyword) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		k.Text = s
		k.Score = 1
		return nil
	}

	var obj struct {
		Text  string  `json:"text"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		k.Text = obj.Text
		k.Score = obj.Score
		return nil
	}

	// Unrecognized shape, drop the entry rather than fail the batch.
	k.Text = ""
	k.Score = 0
	return nil
}

// decodeResults converts the wire response to model results, index-aligned
// with the request pairs. A short response is padded with zero results so
// the classifier sees no_match rather than the caller seeing a hard error.
func decodeResults(data []byte, pairs []Pair) ([]model.ComparisonResult, error) {
	var resp compareResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]model.ComparisonResult, len(pairs))
	for i, pair := range pairs {
		results[i] = model.ComparisonResult{
			InputText:  pair.Input,
			OutputText: pair.Output,
		}
		if i >= len(resp.Results) {
			continue
		}
		w := resp.Results[i]
		results[i].CombinedScore = w.CombinedScore
		results[i].Confidence = w.Confidence
		results[i].BasicScore = w.BasicScore
		results[i].OverlapPercent = w.OverlapPercent
		results[i].Metrics = w.Metrics
		results[i].Keywords = model.Keywords{
			Side1:  repairStrings(w.Keywords.Side1),
			Side2:  repairStrings(w.Keywords.Side2),
			Common: repairKeywords(w.Keywords.Common),
		}
	}
	return results, nil
}

// repairStrings drops empty entries and fixes invalid UTF-8 byte sequences.
func repairStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToValidUTF8(s, "�")
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func repairKeywords(in []wireKeyword) []model.WeightedKeyword {
	out := make([]model.WeightedKeyword, 0, len(in))
	for _, k := range in {
		text := strings.ToValidUTF8(k.Text, "�")
		if text == "" {
			continue
		}
		out = append(out, model.WeightedKeyword{Text: text, Score: k.Score})
	}
	return out
}
