package pattern

import "testing"

func TestDetectIdentifiers(t *testing.T) {
	spans := detectIdentifiers("Im Verfahren AZ-2023/114 wurde Anlage K7 geprüft.")

	var texts []string
	for _, s := range spans {
		texts = append(texts, s.Text)
	}

	for _, want := range []string{"AZ-2023/114", "K7"} {
		found := false
		for _, got := range texts {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected identifier %q, got %v", want, texts)
		}
	}
}

func TestDetectIdentifiers_RequireLetterAndDigit(t *testing.T) {
	spans := detectIdentifiers("nur Worte und 12/34 Zahlen")
	for _, s := range spans {
		t.Errorf("unexpected identifier %q: candidates need a letter and a digit", s.Text)
	}
}

func TestDeriveIdentifier_SeparatorSwaps(t *testing.T) {
	derivations := DeriveIdentifier("AZ-2023/114")

	wants := []string{
		"AZ_2023_114",
		"AZ.2023.114",
		"AZ/2023/114",
		"AZ 2023 114",
		"AZ--2023--114",
		"AZ2023114",
		"az-2023/114",
	}
	for _, want := range wants {
		found := false
		for _, d := range derivations {
			if d == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("derivations of AZ-2023/114 missing %q (got %v)", want, derivations)
		}
	}
}

func TestDeriveIdentifier_SegmentSplit(t *testing.T) {
	derivations := DeriveIdentifier("AB1234")

	found := false
	for _, d := range derivations {
		if d == "AB-1234" || d == "AB 1234" {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected segment-split variant of AB1234, got %v", derivations)
	}
}

func TestDeriveIdentifier_SimilarityFloor(t *testing.T) {
	core := alnumCore("AZ-2023/114")
	for _, d := range DeriveIdentifier("AZ-2023/114") {
		if r := sharedCharRatio(d, core); r < 0.6 {
			t.Errorf("derivation %q has similarity %.2f, below 0.6", d, r)
		}
	}
}
