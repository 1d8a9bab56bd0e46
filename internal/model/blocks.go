package model

import (
	"fmt"
	"sort"
)

// ContentBlock is one labeled block of the generation-input contract.
// Metadata and party-statement payloads are keyed maps, prior-content is a
// map of chapter number to summary, everything else is a plain string.
type ContentBlock struct {
	Location Location          `json:"location" yaml:"location"`
	Side     Side              `json:"side" yaml:"side"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty"`
	Fields   map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Chapters map[int]string    `json:"chapters,omitempty" yaml:"chapters,omitempty"`
}

// Flatten renders the block payload as plain text for fragment extraction.
// Keyed maps are rendered one "key: value" line per entry in key order so
// repeated runs see identical content.
func (b ContentBlock) Flatten() string {
	switch {
	case len(b.Fields) > 0:
		keys := make([]string, 0, len(b.Fields))
		for k := range b.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := ""
		for _, k := range keys {
			out += fmt.Sprintf("%s: %s\n", k, b.Fields[k])
		}
		return out
	case len(b.Chapters) > 0:
		nums := make([]int, 0, len(b.Chapters))
		for n := range b.Chapters {
			nums = append(nums, n)
		}
		sort.Ints(nums)
		out := ""
		for _, n := range nums {
			out += fmt.Sprintf("%d: %s\n", n, b.Chapters[n])
		}
		return out
	default:
		return b.Text
	}
}

// VerificationInput is the on-disk payload a verification session consumes:
// the labeled input blocks plus one or more candidate generated outputs.
type VerificationInput struct {
	Subject    string         `json:"subject" yaml:"subject"`
	Blocks     []ContentBlock `json:"input" yaml:"input"`
	Candidates []string       `json:"candidates" yaml:"candidates"`
}

// Validate checks the minimal shape requirements.
func (in VerificationInput) Validate() error {
	if len(in.Blocks) == 0 {
		return fmt.Errorf("payload has no input blocks")
	}
	if len(in.Candidates) == 0 {
		return fmt.Errorf("payload has no candidate outputs")
	}
	for i, b := range in.Blocks {
		if b.Location == "" {
			return fmt.Errorf("input block %d has no location", i)
		}
	}
	return nil
}
