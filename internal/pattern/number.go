package pattern

import (
	"regexp"
	"strings"
)

// Number patterns, ordered from most to least specific. Grouped forms come
// first so overlap resolution prefers them over bare integers.
var (
	reNumberDE      = regexp.MustCompile(`\b\d{1,3}(?:\.\d{3})+(?:,\d+)?\b`) // 23.298,00
	reNumberEN      = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})+(?:\.\d+)?\b`) // 23,298.00
	reNumberSpace   = regexp.MustCompile(`\b\d{1,3}(?: \d{3})+(?:[.,]\d+)?\b`)
	reNumberDecimal = regexp.MustCompile(`\b\d+[.,]\d+\b`)
	reNumberInteger = regexp.MustCompile(`\b\d+\b`)
)

var numberScanRes = []*regexp.Regexp{
	reNumberDE, reNumberEN, reNumberSpace, reNumberDecimal, reNumberInteger,
}

// detectNumbers finds all numeric spans in text. The caller filters spans
// that overlap previously detected dates.
func detectNumbers(text string) []Span {
	var spans []Span
	for _, re := range numberScanRes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, Span{Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]})
		}
	}
	return ResolveOverlaps(spans)
}

// parseNumber splits a numeric literal into canonical integer and decimal
// digit strings, undoing locale grouping. Grouped interpretations are tried
// before plain decimals, so "23.298" reads as 23298, not 23.298.
func parseNumber(text string) (intPart, decPart string, ok bool) {
	text = strings.TrimSpace(text)
	switch {
	case fullMatch(reNumberDE, text):
		parts := strings.SplitN(text, ",", 2)
		intPart = strings.ReplaceAll(parts[0], ".", "")
		if len(parts) == 2 {
			decPart = parts[1]
		}
	case fullMatch(reNumberEN, text):
		parts := strings.SplitN(text, ".", 2)
		intPart = strings.ReplaceAll(parts[0], ",", "")
		if len(parts) == 2 {
			decPart = parts[1]
		}
	case fullMatch(reNumberSpace, text):
		sep := strings.LastIndexAny(text, ".,")
		grouped := text
		if sep >= 0 {
			grouped, decPart = text[:sep], text[sep+1:]
		}
		intPart = strings.ReplaceAll(grouped, " ", "")
	case fullMatch(reNumberDecimal, text):
		sep := strings.IndexAny(text, ".,")
		intPart, decPart = text[:sep], text[sep+1:]
	case fullMatch(reNumberInteger, text):
		intPart = text
	default:
		return "", "", false
	}
	return intPart, decPart, true
}

// DeriveNumber generates the integer-only, decimal, and thousand-separator
// variants of a numeric literal. Variants that coincide with a recognized
// date pattern are excluded.
func DeriveNumber(text string) []string {
	intPart, decPart, ok := parseNumber(text)
	if !ok {
		return nil
	}

	var out []string
	add := func(s string) {
		if s == text || isDateLike(s) {
			return
		}
		out = append(out, s)
	}

	add(intPart)
	if decPart != "" {
		add(intPart + "." + decPart)
		add(intPart + "," + decPart)
	}
	if len(intPart) > 3 {
		suffixDE, suffixEN := "", ""
		if decPart != "" {
			suffixDE = "," + decPart
			suffixEN = "." + decPart
		}
		add(groupDigits(intPart, ".") + suffixDE)
		add(groupDigits(intPart, ",") + suffixEN)
		add(groupDigits(intPart, " ") + suffixDE)
	}
	return out
}

// groupDigits inserts sep every three digits from the right.
func groupDigits(digits, sep string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// fullMatch reports whether re matches the entire string.
func fullMatch(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}
