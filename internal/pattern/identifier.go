package pattern

import (
	"regexp"
	"strings"
)

var (
	// AZ-2023/114, doc_7.3, XK 99/7
	reIdentSeparated = regexp.MustCompile(`\b[A-Za-z0-9]+(?:[-_./][A-Za-z0-9]+)+\b`)
	// AB1234
	reIdentCompact = regexp.MustCompile(`\b[A-Za-z]+\d+[A-Za-z0-9]*\b`)

	reIdentSplit = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)
)

var identSeparators = []string{"-", "_", ".", "/", " "}

// detectIdentifiers finds identifier-shaped spans: alphanumeric segments
// joined by separators or a letter prefix with a digit suffix. Candidates
// must contain both a letter and a digit. The caller filters spans
// overlapping previously detected dates.
func detectIdentifiers(text string) []Span {
	var spans []Span
	for _, re := range []*regexp.Regexp{reIdentSeparated, reIdentCompact} {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			s := Span{Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]}
			if hasLetter(s.Text) && hasDigit(s.Text) {
				spans = append(spans, s)
			}
		}
	}
	return ResolveOverlaps(spans)
}

// DeriveIdentifier generates separator-swap, case, and segment-split
// variants of an identifier. Every variant must keep at least 60%
// character-level similarity to the alphanumeric core of the original.
func DeriveIdentifier(text string) []string {
	core := alnumCore(text)
	if core == "" {
		return nil
	}
	segments := splitSegments(text)

	var out []string
	seen := map[string]bool{text: true}
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		if sharedCharRatio(s, core) < 0.6 {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	// Separator swaps, doubled primary separator, no separator
	if len(segments) > 1 {
		for _, sep := range identSeparators {
			add(strings.Join(segments, sep))
			add(strings.Join(segments, sep+sep))
		}
		add(strings.Join(segments, ""))
	}

	// Case variants
	add(strings.ToUpper(text))
	add(strings.ToLower(text))

	// Segment split when a letter-prefix/number-suffix structure exists
	if m := reIdentSplit.FindStringSubmatch(core); m != nil {
		for _, sep := range identSeparators {
			add(m[1] + sep + m[2])
		}
	}

	return out
}

// splitSegments splits an identifier on its separator characters.
func splitSegments(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '-', '_', '.', '/', ' ':
			return true
		}
		return false
	})
}

// alnumCore strips every separator, leaving only letters and digits.
func alnumCore(text string) string {
	var b strings.Builder
	for _, r := range text {
		if isAlnumRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sharedCharRatio measures case-insensitive multiset character overlap of
// the variant's alphanumeric core against the original core, as a fraction
// of the original core's length.
func sharedCharRatio(variant, core string) float64 {
	if core == "" {
		return 0
	}
	counts := make(map[rune]int)
	for _, r := range strings.ToLower(core) {
		counts[r]++
	}
	shared := 0
	for _, r := range strings.ToLower(alnumCore(variant)) {
		if counts[r] > 0 {
			counts[r]--
			shared++
		}
	}
	return float64(shared) / float64(len([]rune(core)))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func isAlnumRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
