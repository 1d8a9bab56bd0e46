package pattern

import (
	"testing"
)

func TestParseDate_Formats(t *testing.T) {
	tests := []struct {
		text string
		want Date
	}{
		{"2023-03-14", Date{14, 3, 2023}},
		{"14.03.2023", Date{14, 3, 2023}},
		{"14.3.23", Date{14, 3, 2023}},
		{"14/03/2023", Date{14, 3, 2023}},
		{"03/14/2023", Date{14, 3, 2023}}, // month-first swaps
		{"14. März 2023", Date{14, 3, 2023}},
		{"14. märz 2023", Date{14, 3, 2023}},
		{"March 14, 2023", Date{14, 3, 2023}},
		{"14 March 2023", Date{14, 3, 2023}},
		{"14. März", Date{14, 3, 0}},
		{"March 14", Date{14, 3, 0}},
		{"14.03.", Date{14, 3, 0}},
		{"März 2023", Date{0, 3, 2023}},
		{"October 1999", Date{0, 10, 1999}},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.text)
		if !ok {
			t.Errorf("ParseDate(%q): no parse", tt.text)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDate(%q) = %+v, want %+v", tt.text, got, tt.want)
		}
	}
}

func TestParseDate_Rejects(t *testing.T) {
	for _, text := range []string{"99.99.2023", "0.13.2023", "hello", "23298", "23.298,00"} {
		if d, ok := ParseDate(text); ok {
			t.Errorf("ParseDate(%q) = %+v, want no parse", text, d)
		}
	}
}

func TestDeriveDate_RoundTrip(t *testing.T) {
	originals := []string{
		"14. März 2023",
		"2023-03-14",
		"1. Dezember 1987",
		"March 14, 2023",
		"14.03.",
		"März 2023",
		"31.12.49",
	}

	for _, orig := range originals {
		want, ok := ParseDate(orig)
		if !ok {
			t.Fatalf("ParseDate(%q): no parse", orig)
		}
		derivations := DeriveDate(orig)
		if len(derivations) == 0 {
			t.Errorf("DeriveDate(%q): no derivations", orig)
		}
		for _, der := range derivations {
			got, ok := ParseDate(der)
			if !ok {
				t.Errorf("derivation %q of %q does not re-parse", der, orig)
				continue
			}
			if got != want {
				t.Errorf("derivation %q of %q = %+v, want %+v", der, orig, got, want)
			}
		}
	}
}

func TestDeriveDate_LocalePermutations(t *testing.T) {
	derivations := DeriveDate("14. März 2023")

	for _, want := range []string{"2023-03-14", "14.03.2023", "14.03.23", "March 14, 2023", "14 March 2023"} {
		found := false
		for _, d := range derivations {
			if d == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("derivations of '14. März 2023' missing %q (got %v)", want, derivations)
		}
	}
}

func TestDeriveDate_TwoDigitYearOnlyWhenPivotSafe(t *testing.T) {
	// 1930 does not survive the 2-digit pivot (30 -> 2030), so no 2-digit
	// variant may be generated.
	for _, d := range DeriveDate("14.03.1930") {
		if d == "14.03.30" {
			t.Errorf("derivations of 14.03.1930 must not contain 14.03.30")
		}
	}
}

func TestDetectDates_PrefersLongestMatch(t *testing.T) {
	spans := detectDates("Verhandlung am 14. März 2023 in München.")
	if len(spans) != 1 {
		t.Fatalf("expected 1 date span, got %d: %v", len(spans), spans)
	}
	if spans[0].Text != "14. März 2023" {
		t.Errorf("expected '14. März 2023', got %q", spans[0].Text)
	}
}
