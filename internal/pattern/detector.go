package pattern

import (
	"strings"

	"github.com/rkarpau/veritext/internal/model"
)

// Detection is one typed fragment detected in a text blob, with its
// derivation set (excluding the literal text itself).
type Detection struct {
	Type            model.FragmentType
	Span            Span
	Text            string
	Representations []string
}

// Detector runs the full pattern and derivation engine over a text blob.
type Detector struct{}

// NewDetector creates a detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns deduplicated matches of a single fragment type, with
// overlaps resolved but without cross-type filtering.
func (d *Detector) Detect(text string, typ model.FragmentType) []Detection {
	switch typ {
	case model.TypeDate:
		return toDetections(model.TypeDate, detectDates(text), DeriveDate)
	case model.TypeNumber:
		return toDetections(model.TypeNumber, detectNumbers(text), DeriveNumber)
	case model.TypeIdentifier:
		return toDetections(model.TypeIdentifier, detectIdentifiers(text), DeriveIdentifier)
	case model.TypePhrase, model.TypeStatement:
		all := d.DetectAll(text)
		var out []Detection
		for _, det := range all {
			if det.Type == typ {
				out = append(out, det)
			}
		}
		return out
	}
	return nil
}

// DetectAll runs the complete engine over one blob: dates first, then
// numbers and identifiers with dates taking overlap priority, then either a
// phrase candidate (short blobs) or statement candidates, both filtered by
// how much of their text is already covered by definitive matches.
func (d *Detector) DetectAll(text string) []Detection {
	dates := detectDates(text)
	numbers := FilterOverlapping(detectNumbers(text), dates)
	idents := FilterOverlapping(detectIdentifiers(text), dates)

	// Numbers and identifiers claiming the same region resolve by the
	// longest-earliest rule as well.
	numbers, idents = resolveAcross(numbers, idents)

	var out []Detection
	out = append(out, toDetections(model.TypeDate, dates, DeriveDate)...)
	out = append(out, toDetections(model.TypeNumber, numbers, DeriveNumber)...)
	out = append(out, toDetections(model.TypeIdentifier, idents, DeriveIdentifier)...)

	definitive := append(append(append([]Span(nil), dates...), numbers...), idents...)
	mask := NewCoverageMask(len(text), definitive)

	if n := wordCount(text); n > 0 && n < phraseWordLimit {
		out = append(out, phraseDetections(text, mask)...)
	} else {
		out = append(out, statementDetections(text, mask)...)
	}
	return out
}

// Fragments detects all fragments in a blob and materializes them as model
// fragments for the given side and location.
func (d *Detector) Fragments(text string, side model.Side, loc model.Location) []model.Fragment {
	var frags []model.Fragment
	for _, det := range d.DetectAll(text) {
		f := model.NewFragment(det.Type, side, loc, det.Text)
		f.AddRepresentations(det.Representations...)
		frags = append(frags, f)
	}
	return frags
}

// phraseDetections yields at most one phrase candidate: the blob itself,
// accepted only when under 60% of its non-whitespace characters are already
// covered by definitive matches.
func phraseDetections(text string, mask CoverageMask) []Detection {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if mask.CoveredRatio(text, 0, len(text)) >= phraseCoverageLimit {
		return nil
	}
	return []Detection{{
		Type:            model.TypePhrase,
		Span:            Span{Start: 0, End: len(text), Text: trimmed},
		Text:            trimmed,
		Representations: DerivePhrase(trimmed),
	}}
}

// statementDetections segments the blob and keeps valid candidates that
// would still add verifiable information (under 40% prior coverage).
// Statements carry no derivations; the literal text is the sole
// representation.
func statementDetections(text string, mask CoverageMask) []Detection {
	var out []Detection
	seen := make(map[string]bool)
	for _, cand := range splitStatements(text) {
		if !validStatement(cand.Text) {
			continue
		}
		if mask.CoveredRatio(text, cand.Span.Start, cand.Span.End) >= statementCoverageLimit {
			continue
		}
		key := strings.ToLower(cand.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Detection{
			Type: model.TypeStatement,
			Span: cand.Span,
			Text: cand.Text,
		})
	}
	return out
}

// toDetections wraps raw spans with their derivations, dropping duplicate
// literal texts.
func toDetections(typ model.FragmentType, spans []Span, derive func(string) []string) []Detection {
	var out []Detection
	seen := make(map[string]bool)
	for _, s := range spans {
		if seen[s.Text] {
			continue
		}
		seen[s.Text] = true
		out = append(out, Detection{
			Type:            typ,
			Span:            s,
			Text:            s.Text,
			Representations: derive(s.Text),
		})
	}
	return out
}

// resolveAcross resolves overlaps between two span sets with the
// longest-earliest rule, preserving which set each survivor came from.
func resolveAcross(a, b []Span) ([]Span, []Span) {
	type tagged struct {
		Span
		fromA bool
	}
	all := make([]tagged, 0, len(a)+len(b))
	for _, s := range a {
		all = append(all, tagged{s, true})
	}
	for _, s := range b {
		all = append(all, tagged{s, false})
	}

	spans := make([]Span, len(all))
	for i, t := range all {
		spans[i] = t.Span
	}
	kept := ResolveOverlaps(spans)

	keep := make(map[Span]bool, len(kept))
	for _, s := range kept {
		keep[s] = true
	}
	var outA, outB []Span
	for _, t := range all {
		if !keep[t.Span] {
			continue
		}
		if t.fromA {
			outA = append(outA, t.Span)
		} else {
			outB = append(outB, t.Span)
		}
		delete(keep, t.Span) // identical spans from both sets stay unique
	}
	return outA, outB
}
