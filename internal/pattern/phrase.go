package pattern

import (
	"regexp"
	"strings"
	"unicode"
)

// phraseWordLimit: phrase derivations are only generated for short blobs.
const phraseWordLimit = 5

// phraseCoverageLimit rejects candidates whose non-whitespace characters
// are mostly covered by date/number/identifier matches already.
const phraseCoverageLimit = 0.6

// Noise words abstracted away when building the phrase skeleton (the two
// locales the pattern set targets).
var phraseStopwords = map[string]bool{
	// German
	"der": true, "die": true, "das": true, "den": true, "dem": true,
	"des": true, "ein": true, "eine": true, "einer": true, "einem": true,
	"und": true, "oder": true, "im": true, "in": true, "am": true,
	"an": true, "auf": true, "mit": true, "von": true, "vom": true,
	"für": true, "zu": true, "zum": true, "zur": true, "ist": true,
	"war": true, "bei": true, "nach": true, "aus": true,
	// English
	"the": true, "a": true, "and": true, "or": true,
	"of": true, "on": true, "at": true, "with": true, "for": true,
	"to": true, "is": true, "was": true, "by": true, "from": true,
}

var reWord = regexp.MustCompile(`[\p{L}\p{N}]+`)

// wordCount counts word tokens in a text blob.
func wordCount(text string) int {
	return len(reWord.FindAllString(text, -1))
}

// DerivePhrase collapses a short phrase into a stemmed, word-order-permuted
// regex skeleton with flexible inter-word gaps. When at least two
// capitalized tokens exist, a capitalized-noun-only variant is generated in
// parallel.
func DerivePhrase(text string) []string {
	words := reWord.FindAllString(text, -1)
	if len(words) == 0 || len(words) >= phraseWordLimit {
		return nil
	}

	var stems []string
	for _, w := range words {
		if phraseStopwords[strings.ToLower(w)] {
			continue
		}
		stems = append(stems, stemWord(w))
	}

	var out []string
	if len(stems) > 0 {
		out = append(out, permutedSkeleton(stems))
	}

	var capitalized []string
	for _, w := range words {
		r := []rune(w)
		if len(r) > 0 && unicode.IsUpper(r[0]) {
			capitalized = append(capitalized, w)
		}
	}
	if len(capitalized) >= 2 {
		out = append(out, orderedSkeleton(capitalized))
	}
	return out
}

// permutedSkeleton builds a single case-insensitive regex matching the
// stems in any order, each followed by trailing word characters, with up to
// three intervening words between stems.
func permutedSkeleton(stems []string) string {
	perms := permute(stems)
	alts := make([]string, 0, len(perms))
	for _, p := range perms {
		parts := make([]string, len(p))
		for i, s := range p {
			parts[i] = regexp.QuoteMeta(strings.ToLower(s)) + `[\p{L}\p{N}]*`
		}
		alts = append(alts, strings.Join(parts, wordGap))
	}
	return `(?i)(?:` + strings.Join(alts, "|") + `)`
}

// orderedSkeleton builds a case-sensitive regex matching the tokens in
// their original order with flexible gaps.
func orderedSkeleton(tokens []string) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = regexp.QuoteMeta(t) + `[\p{L}\p{N}]*`
	}
	return strings.Join(parts, wordGap)
}

// wordGap allows up to three intervening words between skeleton tokens.
const wordGap = `(?:[^\p{L}\p{N}]+[\p{L}\p{N}]+){0,3}[^\p{L}\p{N}]+`

// stemWord trims common inflection suffixes so morphological variants of
// the same word still match.
func stemWord(w string) string {
	lower := strings.ToLower(w)
	for _, suffix := range []string{"ungen", "ung", "ing", "en", "ed", "er", "es", "e", "n", "s"} {
		if strings.HasSuffix(lower, suffix) && len(lower)-len(suffix) >= 3 {
			return lower[:len(lower)-len(suffix)]
		}
	}
	return lower
}

// permute returns all orderings of items. Inputs are short (phrase blobs
// are under five words), so the factorial growth is bounded.
func permute(items []string) [][]string {
	if len(items) <= 1 {
		return [][]string{append([]string(nil), items...)}
	}
	var out [][]string
	for i := range items {
		rest := make([]string, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permute(rest) {
			out = append(out, append([]string{items[i]}, p...))
		}
	}
	return out
}
