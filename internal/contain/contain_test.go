package contain

import (
	"testing"

	"github.com/rkarpau/veritext/internal/model"
	"github.com/rkarpau/veritext/internal/pattern"
)

func TestCheckLiteral_DateAcrossLocales(t *testing.T) {
	input := model.NewFragment(model.TypeDate, model.SideInput, model.LocChapterBrief, "14. März 2023")
	input.AddRepresentations(pattern.DeriveDate("14. März 2023")...)

	output := model.NewFragment(model.TypeDate, model.SideOutput, model.LocGeneratedOutput, "14.03.2023")
	output.AddRepresentations(pattern.DeriveDate("14.03.2023")...)

	got := CheckLiteral([]model.Fragment{input}, []model.Fragment{output})

	if got[0].Status != model.StatusDetected {
		t.Fatalf("expected detected, got %s", got[0].Status)
	}
	if len(got[0].DetectedIn) == 0 || got[0].DetectedIn[0] != model.LocGeneratedOutput {
		t.Errorf("expected detected_in generated-output, got %v", got[0].DetectedIn)
	}
}

func TestCheckLiteral_NotDetected(t *testing.T) {
	input := model.NewFragment(model.TypeNumber, model.SideInput, model.LocMetadata, "7777")
	output := model.NewFragment(model.TypeNumber, model.SideOutput, model.LocGeneratedOutput, "1234")

	got := CheckLiteral([]model.Fragment{input}, []model.Fragment{output})
	if got[0].Status != model.StatusNotDetected {
		t.Errorf("expected not_detected, got %s", got[0].Status)
	}
}

func TestCheckLiteral_CaseInsensitive(t *testing.T) {
	input := model.NewFragment(model.TypeIdentifier, model.SideInput, model.LocMetadata, "az-2023/114")
	output := model.NewFragment(model.TypeIdentifier, model.SideOutput, model.LocGeneratedOutput, "AZ-2023/114")

	got := CheckLiteral([]model.Fragment{input}, []model.Fragment{output})
	if got[0].Status != model.StatusDetected {
		t.Errorf("expected case-insensitive detection, got %s", got[0].Status)
	}
}

func TestCheckLiteral_DetectionIndependentOfDerivationOrder(t *testing.T) {
	// If the exact text appears verbatim on the other side, detection must
	// hold regardless of the order of derivations.
	a := model.NewFragment(model.TypeDate, model.SideInput, model.LocMetadata, "14.03.2023")
	a.AddRepresentations("2023-03-14", "14. März 2023")

	b := model.NewFragment(model.TypeDate, model.SideInput, model.LocMetadata, "14.03.2023")
	b.AddRepresentations("14. März 2023", "2023-03-14")

	output := model.NewFragment(model.TypeDate, model.SideOutput, model.LocGeneratedOutput, "am 14.03.2023 wurde")

	gotA := CheckLiteral([]model.Fragment{a}, []model.Fragment{output})
	gotB := CheckLiteral([]model.Fragment{b}, []model.Fragment{output})

	if gotA[0].Status != model.StatusDetected || gotB[0].Status != model.StatusDetected {
		t.Errorf("detection depends on derivation order: %s vs %s", gotA[0].Status, gotB[0].Status)
	}
}

func TestCheckRegex_PhraseSkeleton(t *testing.T) {
	frag := model.NewFragment(model.TypePhrase, model.SideInput, model.LocMetadata, "Landgericht München")
	frag.AddRepresentations(pattern.DerivePhrase("Landgericht München")...)

	content := []string{"Das Urteil wurde vom Landgerichte München gesprochen."}
	got := CheckRegex([]model.Fragment{frag}, content)

	if got[0].Status != model.StatusDetected {
		t.Fatalf("expected detected, got %s", got[0].Status)
	}
	if len(got[0].DetectedIn) != 1 || got[0].DetectedIn[0] != model.LocContent {
		t.Errorf("expected content sentinel, got %v", got[0].DetectedIn)
	}
}

func TestCheckRegex_InvalidPatternIsNonMatching(t *testing.T) {
	frag := model.NewFragment(model.TypePhrase, model.SideInput, model.LocMetadata, "((unbalanced")

	got := CheckRegex([]model.Fragment{frag}, []string{"((unbalanced"})
	if got[0].Status != model.StatusNotDetected {
		t.Errorf("invalid pattern must be treated as non-matching, got %s", got[0].Status)
	}
}
