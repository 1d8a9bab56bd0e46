// Package correct turns verification results into an annotated corrected
// document: replacement spans, alternative-value menus, and a trailing list
// of unresolved input fragments.
package correct

import (
	"strings"

	"github.com/rkarpau/veritext/internal/model"
)

// ReplacePair is an unambiguous correction: a definitive-type input value
// with exactly one occurrence, paired with the disagreeing output value.
type ReplacePair struct {
	InputEntity  model.Fragment `json:"input_entity"`
	OutputEntity model.Fragment `json:"output_entity"`
}

// Annotation marks one span of the output text for the document builder.
type Annotation struct {
	Target string
	Attrs  model.EntityAttrs
}

// Plan is the correction decision set computed from the missing and false
// fragment sets before any text is touched.
type Plan struct {
	ToReplace  []ReplacePair
	Inline     []Annotation
	Unresolved []model.Fragment
}

// BuildPlan decides what to do with each missing input fragment and each
// false output fragment.
func BuildPlan(missing, falseFrags, inputFrags []model.Fragment) Plan {
	var plan Plan
	paired := make(map[string]bool)
	consumed := make(map[string]bool)

	// Direct replacements: a definitive type with exactly one missing input
	// occurrence and a disagreeing false output value is an unambiguous fix.
	for _, typ := range []model.FragmentType{model.TypeDate, model.TypeNumber, model.TypeIdentifier} {
		missingOfType := fragmentsOfType(missing, typ)
		if len(missingOfType) != 1 {
			continue
		}
		in := missingOfType[0]
		for _, out := range fragmentsOfType(falseFrags, typ) {
			if out.Text == in.Text {
				continue
			}
			plan.ToReplace = append(plan.ToReplace, ReplacePair{InputEntity: in, OutputEntity: out})
			plan.Inline = append(plan.Inline, Annotation{
				Target: out.Text,
				Attrs: model.EntityAttrs{
					EntityType:     string(typ),
					EntityColor:    model.ColorViolet,
					EntityCategory: model.CategoryReplaced,
					OriginalText:   out.Text,
					DisplayText:    in.Text,
					Replacements:   []string{in.Text},
					EntityID:       out.ID,
				},
			})
			paired[out.ID] = true
			consumed[in.ID] = true
			break
		}
	}

	for _, out := range falseFrags {
		if paired[out.ID] {
			continue
		}
		inputsOfType := fragmentsOfType(inputFrags, out.Type)

		if out.Type.Definitive() {
			if containsLiteral(inputsOfType, out.Text) {
				// The value does exist on the input side; the fragment is
				// ambiguous rather than wrong.
				plan.Inline = append(plan.Inline, Annotation{
					Target: out.Text,
					Attrs: model.EntityAttrs{
						EntityType:     string(out.Type),
						EntityColor:    model.ColorGreen,
						EntityCategory: model.CategoryAlternatives,
						OriginalText:   out.Text,
						DisplayText:    out.Text,
						EntityID:       out.ID,
					},
				})
				continue
			}
			plan.Inline = append(plan.Inline, Annotation{
				Target: out.Text,
				Attrs: model.EntityAttrs{
					EntityType:     string(out.Type),
					EntityColor:    model.ColorRed,
					EntityCategory: model.CategoryFalse,
					OriginalText:   out.Text,
					DisplayText:    out.Text,
					Replacements:   fragmentTexts(inputsOfType),
					EntityID:       out.ID,
				},
			})
			continue
		}

		// Phrase/statement mismatches only get a menu when at least two
		// alternatives exist; a single candidate would suggest false
		// confidence in a fuzzy match.
		if len(inputsOfType) >= 2 {
			plan.Inline = append(plan.Inline, Annotation{
				Target: out.Text,
				Attrs: model.EntityAttrs{
					EntityType:     string(out.Type),
					EntityColor:    model.ColorOrange,
					EntityCategory: model.CategoryInconclusive,
					OriginalText:   out.Text,
					DisplayText:    out.Text,
					Replacements:   fragmentTexts(inputsOfType),
					EntityID:       out.ID,
				},
			})
		} else {
			plan.Inline = append(plan.Inline, Annotation{
				Target: out.Text,
				Attrs: model.EntityAttrs{
					EntityType:     string(out.Type),
					EntityColor:    model.ColorRed,
					EntityCategory: model.CategoryFalse,
					OriginalText:   out.Text,
					DisplayText:    out.Text,
					EntityID:       out.ID,
				},
			})
		}
	}

	// Missing input fragments have no output span to anchor to; they end up
	// in the trailing unresolved list.
	for _, in := range missing {
		if consumed[in.ID] {
			continue
		}
		plan.Unresolved = append(plan.Unresolved, in)
	}

	return plan
}

// Build is the convenience entry point: plan the corrections and render the
// annotated document in one call.
func Build(outputText string, missing, falseFrags, inputFrags []model.Fragment) *model.Node {
	plan := BuildPlan(missing, falseFrags, inputFrags)
	return BuildDocument(outputText, plan)
}

func fragmentsOfType(frags []model.Fragment, typ model.FragmentType) []model.Fragment {
	var out []model.Fragment
	for _, f := range frags {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

func fragmentTexts(frags []model.Fragment) []string {
	out := make([]string, 0, len(frags))
	for _, f := range frags {
		out = append(out, f.Text)
	}
	return out
}

// containsLiteral reports whether text appears, case-insensitively, in any
// representation of the given fragments.
func containsLiteral(frags []model.Fragment, text string) bool {
	needle := strings.ToLower(text)
	for _, f := range frags {
		for _, rep := range f.Representations {
			if strings.Contains(strings.ToLower(rep), needle) {
				return true
			}
		}
	}
	return false
}
