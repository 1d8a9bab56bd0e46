package pattern

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Statement validity and coverage limits.
const (
	statementMinLength     = 5
	statementCoverageLimit = 0.4
	subClauseMinWords      = 3
)

// Candidate is a statement candidate: a region of the source text plus the
// candidate text itself. The text can differ from the raw region when a
// sub-clause was carved out of its sentence.
type Candidate struct {
	Span Span
	Text string
}

// splitStatements segments text into statement candidates: sentences split
// on terminators with abbreviation protection, bracketed content extracted
// as independent candidates, and embedded comma-delimited clauses of three
// or more words split into a main-clause/sub-clause pair.
func splitStatements(text string) []Candidate {
	var candidates []Candidate

	// Bracketed content becomes standalone candidates and is blanked from
	// the working copy so sentence splitting does not pick it up twice.
	working := []byte(text)
	for _, span := range bracketSpans(text) {
		inner := strings.TrimSpace(text[span.Start+1 : span.End-1])
		if inner != "" {
			candidates = append(candidates, Candidate{
				Span: Span{Start: span.Start + 1, End: span.End - 1, Text: inner},
				Text: inner,
			})
		}
		for i := span.Start; i < span.End; i++ {
			working[i] = ' '
		}
	}

	// Sentences come from the working copy, so blanked bracket content
	// does not reappear inside them.
	for _, sentence := range sentenceSpans(string(working)) {
		cand := Candidate{Span: sentence, Text: normalizeSpace(sentence.Text)}
		candidates = append(candidates, splitCommaClause(cand)...)
	}
	return candidates
}

// bracketSpans finds top-level (...) and [...] regions.
func bracketSpans(text string) []Span {
	var spans []Span
	depth := 0
	start := -1
	var open, close byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if depth == 0 && (c == '(' || c == '[') {
			depth = 1
			start = i
			open = c
			if c == '(' {
				close = ')'
			} else {
				close = ']'
			}
			continue
		}
		if depth > 0 {
			switch c {
			case open:
				depth++
			case close:
				depth--
				if depth == 0 {
					spans = append(spans, Span{Start: start, End: i + 1})
				}
			}
		}
	}
	return spans
}

// sentenceSpans splits on sentence terminators. A period followed by a
// space and a lowercase letter is treated as an abbreviation, not a
// sentence end.
func sentenceSpans(text string) []Span {
	var spans []Span
	start := 0
	flush := func(end int) {
		seg := strings.TrimSpace(text[start:end])
		if seg != "" {
			// Recompute trimmed bounds
			s := start + strings.Index(text[start:end], seg)
			spans = append(spans, Span{Start: s, End: s + len(seg), Text: seg})
		}
		start = end
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		// Only split when followed by whitespace or end of text
		if i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\t' && text[i+1] != '\n' {
			continue
		}
		if c == '.' && isAbbreviationPeriod(text, i) {
			continue
		}
		flush(i + 1)
	}
	if start < len(text) {
		flush(len(text))
	}
	return spans
}

// isAbbreviationPeriod: period + space + lowercase letter is not a
// sentence end ("z. B. wurde", "ca. 40").
func isAbbreviationPeriod(text string, i int) bool {
	j := i + 1
	for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
		j++
	}
	if j >= len(text) {
		return false
	}
	r := []rune(text[j:])[0]
	return unicode.IsLower(r)
}

// splitCommaClause splits a sentence containing an embedded comma-delimited
// clause of three or more words into a main clause and a sub-clause.
func splitCommaClause(sentence Candidate) []Candidate {
	text := sentence.Text
	first := strings.Index(text, ",")
	if first < 0 {
		return []Candidate{sentence}
	}
	second := strings.Index(text[first+1:], ",")
	if second < 0 {
		return []Candidate{sentence}
	}
	second += first + 1

	clause := strings.TrimSpace(text[first+1 : second])
	if wordCount(clause) < subClauseMinWords {
		return []Candidate{sentence}
	}

	main := strings.TrimSpace(text[:first]) + " " + strings.TrimSpace(text[second+1:])
	return []Candidate{
		{Span: sentence.Span, Text: strings.TrimSpace(main)},
		{
			Span: Span{Start: sentence.Span.Start + first + 1, End: sentence.Span.Start + second},
			Text: clause,
		},
	}
}

// normalizeSpace collapses interior whitespace runs to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// validStatement: at least five characters and one alphanumeric character.
func validStatement(text string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < statementMinLength {
		return false
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
