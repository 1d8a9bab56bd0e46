package pattern

import "sort"

// Span is a matched literal region of the source text
type Span struct {
	Start int
	End   int // exclusive
	Text  string
}

// Len returns the span length in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one position
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// ResolveOverlaps keeps the longest, earliest-starting match out of every
// overlapping group. The result is deterministic and contains no two
// overlapping spans.
func ResolveOverlaps(spans []Span) []Span {
	if len(spans) <= 1 {
		return append([]Span(nil), spans...)
	}

	// Longest first, ties broken by earliest start
	sorted := append([]Span(nil), spans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Len() != sorted[j].Len() {
			return sorted[i].Len() > sorted[j].Len()
		}
		return sorted[i].Start < sorted[j].Start
	})

	var kept []Span
	for _, cand := range sorted {
		conflict := false
		for _, k := range kept {
			if cand.Overlaps(k) {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, cand)
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}

// FilterOverlapping removes spans that overlap any span in priority.
// Used to let dates win conflicts against numbers and identifiers.
func FilterOverlapping(spans, priority []Span) []Span {
	var kept []Span
	for _, s := range spans {
		conflict := false
		for _, p := range priority {
			if s.Overlaps(p) {
				conflict = true
				break
			}
		}
		if !conflict {
			kept = append(kept, s)
		}
	}
	return kept
}

// CoverageMask marks every byte position covered by the given spans.
type CoverageMask []bool

// NewCoverageMask builds a mask of the given length from spans.
func NewCoverageMask(length int, spans []Span) CoverageMask {
	mask := make(CoverageMask, length)
	for _, s := range spans {
		for i := s.Start; i < s.End && i < length; i++ {
			mask[i] = true
		}
	}
	return mask
}

// CoveredRatio returns the fraction of non-whitespace positions of
// [start,end) already covered by the mask. Whitespace positions are
// excluded from both numerator and denominator.
func (m CoverageMask) CoveredRatio(text string, start, end int) float64 {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	total, covered := 0, 0
	for i := start; i < end; i++ {
		c := text[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			continue
		}
		total++
		if i < len(m) && m[i] {
			covered++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(covered) / float64(total)
}
