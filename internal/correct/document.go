package correct

import (
	"sort"
	"strings"

	"github.com/rkarpau/veritext/internal/model"
)

// segment is one typed piece of the output text. Annotated segments carry
// the entity attributes for their span; literal segments are plain text.
type segment struct {
	text  string
	attrs *model.EntityAttrs
}

// BuildDocument renders the output text plus the correction plan as the
// document tree the editor consumes. Annotated spans are substituted
// longest-target-first so nested or overlapping targets never split each
// other; the unresolved fragments are appended as a trailing list block.
func BuildDocument(outputText string, plan Plan) *model.Node {
	segments := annotate(outputText, plan.Inline)

	doc := &model.Node{Type: model.NodeDoc}
	doc.Content = paragraphs(segments)

	if len(plan.Unresolved) > 0 {
		doc.Content = append(doc.Content, unresolvedList(plan.Unresolved))
	}

	return doc
}

// span is a chosen annotation occurrence inside the output text.
type span struct {
	start, end int
	attrs      *model.EntityAttrs
}

// annotate splits the text into literal and annotated segments. Targets are
// placed longest first; an occurrence is skipped when it overlaps a span
// already claimed by a longer target.
func annotate(text string, annotations []Annotation) []segment {
	ordered := append([]Annotation(nil), annotations...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Target) > len(ordered[j].Target)
	})

	var chosen []span
	for i := range ordered {
		target := ordered[i].Target
		if target == "" {
			continue
		}
		from := 0
		for {
			idx := strings.Index(text[from:], target)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(target)
			from = end
			if overlapsAny(chosen, start, end) {
				continue
			}
			chosen = append(chosen, span{start: start, end: end, attrs: &ordered[i].Attrs})
		}
	}

	sort.Slice(chosen, func(i, j int) bool { return chosen[i].start < chosen[j].start })

	var segments []segment
	pos := 0
	for _, s := range chosen {
		if s.start > pos {
			segments = append(segments, segment{text: text[pos:s.start]})
		}
		segments = append(segments, segment{text: text[s.start:s.end], attrs: s.attrs})
		pos = s.end
	}
	if pos < len(text) {
		segments = append(segments, segment{text: text[pos:]})
	}
	return segments
}

func overlapsAny(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// paragraphs builds the document body. Blank lines separate paragraphs;
// single newlines inside a paragraph become hardBreak nodes.
func paragraphs(segments []segment) []model.Node {
	var out []model.Node
	current := model.Node{Type: model.NodeParagraph}

	flush := func() {
		if len(current.Content) > 0 {
			out = append(out, current)
		}
		current = model.Node{Type: model.NodeParagraph}
	}

	for _, seg := range segments {
		if seg.attrs != nil {
			current.Content = append(current.Content, model.AnnotatedTextNode(seg.text, *seg.attrs))
			continue
		}

		lines := strings.Split(seg.text, "\n")
		for i, line := range lines {
			if i > 0 {
				// A blank line in the source means two consecutive
				// newlines: close the paragraph instead of stacking breaks.
				if line == "" && len(current.Content) > 0 {
					flush()
					continue
				}
				if len(current.Content) > 0 {
					current.Content = append(current.Content, model.Node{Type: model.NodeHardBreak})
				}
			}
			if line != "" {
				current.Content = append(current.Content, model.TextNode(line))
			}
		}
	}
	flush()

	if len(out) == 0 {
		out = append(out, model.Node{Type: model.NodeParagraph})
	}
	return out
}

// unresolvedList renders the missing input fragments as the trailing list
// block with the selection_list mark. Each entry keeps the red color of an
// unresolved value and starts unconfirmed.
func unresolvedList(unresolved []model.Fragment) model.Node {
	list := model.Node{
		Type:  model.NodeList,
		Marks: []model.Mark{{Type: model.MarkSelectionList}},
	}
	for _, f := range unresolved {
		list.Content = append(list.Content, model.AnnotatedTextNode(f.Text, model.EntityAttrs{
			EntityType:     string(f.Type),
			EntityColor:    model.ColorRed,
			EntityCategory: model.CategoryUnresolved,
			OriginalText:   f.Text,
			DisplayText:    f.Text,
			EntityID:       f.ID,
			Confirmed:      false,
		}))
	}
	return list
}
