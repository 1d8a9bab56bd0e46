package correct

import (
	"testing"

	"github.com/rkarpau/veritext/internal/model"
)

func TestBuildDocument_ReplacesSpanInline(t *testing.T) {
	input := fragment("number-1", model.TypeNumber, model.SideInput, "23.298,00")
	output := fragment("number-2", model.TypeNumber, model.SideOutput, "23298")

	doc := Build(
		"Der Beklagte zahlte 23298 EUR an den Kläger.",
		[]model.Fragment{input},
		[]model.Fragment{output},
		[]model.Fragment{input},
	)

	if doc.Type != model.NodeDoc || len(doc.Content) != 1 {
		t.Fatalf("Expected doc with 1 paragraph, got %+v", doc)
	}
	para := doc.Content[0]
	if para.Type != model.NodeParagraph || len(para.Content) != 3 {
		t.Fatalf("Expected 3 nodes in paragraph, got %d", len(para.Content))
	}

	if para.Content[0].Text != "Der Beklagte zahlte " {
		t.Errorf("Leading text wrong: %q", para.Content[0].Text)
	}

	annotated := para.Content[1]
	if annotated.Text != "23298" {
		t.Errorf("Annotated span wrong: %q", annotated.Text)
	}
	if len(annotated.Marks) != 1 || annotated.Marks[0].Type != model.MarkColoredEntity {
		t.Fatalf("Expected coloredEntity mark, got %+v", annotated.Marks)
	}
	attrs := annotated.Marks[0].Attrs
	if attrs.EntityColor != model.ColorViolet || attrs.DisplayText != "23.298,00" {
		t.Errorf("Replacement attrs wrong: %+v", attrs)
	}

	if para.Content[2].Text != " EUR an den Kläger." {
		t.Errorf("Trailing text wrong: %q", para.Content[2].Text)
	}
}

func TestAnnotate_LongestTargetWins(t *testing.T) {
	// "2023" is contained in "14.03.2023"; the longer target must claim the
	// span and the shorter one must not split it.
	annotations := []Annotation{
		{Target: "2023", Attrs: model.EntityAttrs{EntityID: "short"}},
		{Target: "14.03.2023", Attrs: model.EntityAttrs{EntityID: "long"}},
	}

	segments := annotate("Urteil vom 14.03.2023 im Jahr 2023.", annotations)

	var ids []string
	for _, seg := range segments {
		if seg.attrs != nil {
			ids = append(ids, seg.attrs.EntityID)
		}
	}
	if len(ids) != 2 || ids[0] != "long" || ids[1] != "short" {
		t.Errorf("Expected [long short], got %v", ids)
	}
	for _, seg := range segments {
		if seg.attrs != nil && seg.attrs.EntityID == "long" && seg.text != "14.03.2023" {
			t.Errorf("Long span was split: %q", seg.text)
		}
	}
}

func TestBuildDocument_NewlineHandling(t *testing.T) {
	doc := BuildDocument("Zeile eins\nZeile zwei\n\nAbsatz zwei", Plan{})

	if len(doc.Content) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d", len(doc.Content))
	}

	first := doc.Content[0]
	if len(first.Content) != 3 {
		t.Fatalf("Expected text/hardBreak/text, got %d nodes", len(first.Content))
	}
	if first.Content[1].Type != model.NodeHardBreak {
		t.Errorf("Expected hardBreak between lines, got %s", first.Content[1].Type)
	}

	second := doc.Content[1]
	if len(second.Content) != 1 || second.Content[0].Text != "Absatz zwei" {
		t.Errorf("Second paragraph wrong: %+v", second.Content)
	}
}

func TestBuildDocument_UnresolvedList(t *testing.T) {
	missing := fragment("date-1", model.TypeDate, model.SideInput, "14.03.2023")

	doc := Build("Kein Datum im Text.", []model.Fragment{missing}, nil, []model.Fragment{missing})

	last := doc.Content[len(doc.Content)-1]
	if last.Type != model.NodeList {
		t.Fatalf("Expected trailing list node, got %s", last.Type)
	}
	if len(last.Marks) != 1 || last.Marks[0].Type != model.MarkSelectionList {
		t.Errorf("Expected selection_list mark, got %+v", last.Marks)
	}
	if len(last.Content) != 1 {
		t.Fatalf("Expected 1 unresolved entry, got %d", len(last.Content))
	}
	entry := last.Content[0].Marks[0].Attrs
	if entry.EntityCategory != model.CategoryUnresolved || entry.EntityColor != model.ColorRed {
		t.Errorf("Unresolved entry attrs wrong: %+v", entry)
	}
	if entry.Confirmed {
		t.Error("Unresolved entries must start unconfirmed")
	}
}
