package pattern

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Date is a parsed calendar date. Zero means the component is unknown.
type Date struct {
	Day   int
	Month int
	Year  int
}

var monthsDE = []string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

var monthsEN = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var monthNumbers = buildMonthNumbers()

func buildMonthNumbers() map[string]int {
	m := make(map[string]int, 24)
	for i, name := range monthsDE {
		m[strings.ToLower(name)] = i + 1
	}
	for i, name := range monthsEN {
		m[strings.ToLower(name)] = i + 1
	}
	return m
}

var (
	deMonthAlt = strings.Join(monthsDE, "|")
	enMonthAlt = strings.Join(monthsEN, "|")
)

// Date pattern strings, ordered. Overlap resolution keeps the longest match
// when several alternatives hit the same region.
var datePatterns = []string{
	`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`,                                                // ISO
	`\b(\d{1,2})\.(\d{1,2})\.(\d{4}|\d{2})\b`,                                        // dotted
	`\b(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})\b`,                                          // slashed
	`\b(\d{1,2})\.(\d{1,2})\.`,                                                       // dotted, no year
	`(?i)\b(\d{1,2})\.\s*(` + deMonthAlt + `)(?:\s+(\d{4}|\d{2}))?\b`,                // 14. März 2023
	`(?i)\b(` + enMonthAlt + `)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,\s*(\d{4}|\d{2}))?\b`, // March 14, 2023
	`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + enMonthAlt + `)(?:\s+(\d{4}|\d{2}))?\b`,  // 14 March 2023
	`(?i)\b(` + deMonthAlt + `)\s+(\d{4})\b`,                                         // März 2023
	`(?i)\b(` + enMonthAlt + `)\s+(\d{4})\b`,                                         // March 2023
}

var (
	dateScanRes     []*regexp.Regexp
	dateAnchoredRes []*regexp.Regexp
)

func init() {
	for _, p := range datePatterns {
		dateScanRes = append(dateScanRes, regexp.MustCompile(p))
		dateAnchoredRes = append(dateAnchoredRes, regexp.MustCompile(`^(?:`+p+`)$`))
	}
}

// detectDates finds all date spans in text. Only spans that parse to a
// valid (partial) date survive.
func detectDates(text string) []Span {
	var spans []Span
	for _, re := range dateScanRes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			s := Span{Start: loc[0], End: loc[1], Text: text[loc[0]:loc[1]]}
			if _, ok := ParseDate(s.Text); ok {
				spans = append(spans, s)
			}
		}
	}
	return ResolveOverlaps(spans)
}

// ParseDate parses a date literal in any supported locale format and
// returns the (possibly partial) day/month/year tuple.
func ParseDate(text string) (Date, bool) {
	text = strings.TrimSpace(text)
	for i, re := range dateAnchoredRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d, ok := interpretDateMatch(i, m); ok {
			return d, true
		}
	}
	return Date{}, false
}

// interpretDateMatch maps the submatches of pattern index i to a Date.
func interpretDateMatch(i int, m []string) (Date, bool) {
	switch i {
	case 0: // ISO yyyy-mm-dd
		return validDate(atoi(m[3]), atoi(m[2]), atoi(m[1]), false)
	case 1: // dd.mm.yyyy
		return validDate(atoi(m[1]), atoi(m[2]), pivotYear(atoi(m[3])), true)
	case 2: // dd/mm/yyyy
		return validDate(atoi(m[1]), atoi(m[2]), pivotYear(atoi(m[3])), true)
	case 3: // dd.mm.
		return validDate(atoi(m[1]), atoi(m[2]), 0, true)
	case 4: // 14. März 2023 (year optional)
		return validDate(atoi(m[1]), monthNumbers[strings.ToLower(m[2])], pivotYear(atoi(m[3])), false)
	case 5: // March 14, 2023 (year optional)
		return validDate(atoi(m[2]), monthNumbers[strings.ToLower(m[1])], pivotYear(atoi(m[3])), false)
	case 6: // 14 March 2023 (year optional)
		return validDate(atoi(m[1]), monthNumbers[strings.ToLower(m[2])], pivotYear(atoi(m[3])), false)
	case 7, 8: // März 2023 / March 2023
		return validDate(0, monthNumbers[strings.ToLower(m[1])], atoi(m[2]), false)
	}
	return Date{}, false
}

// validDate validates components; numeric day/month formats may be swapped
// when the month position holds an impossible value (e.g. 03/14/2023).
func validDate(day, month, year int, allowSwap bool) (Date, bool) {
	if allowSwap && month > 12 && day >= 1 && day <= 12 {
		day, month = month, day
	}
	if month < 1 || month > 12 {
		return Date{}, false
	}
	if day < 0 || day > 31 {
		return Date{}, false
	}
	if year < 0 {
		return Date{}, false
	}
	return Date{Day: day, Month: month, Year: year}, true
}

// pivotYear expands two-digit years: 00-49 map into the 2000s, 50-99 into
// the 1900s. Zero (unknown) and four-digit years pass through.
func pivotYear(y int) int {
	if y == 0 || y >= 100 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

// DeriveDate generates every equivalent surface form for a date literal.
// Each derivation re-parses to the same (day, month, year) tuple.
func DeriveDate(text string) []string {
	d, ok := ParseDate(text)
	if !ok {
		return nil
	}

	gm := monthsDE[d.Month-1]
	em := monthsEN[d.Month-1]

	var out []string
	add := func(s string) {
		if s != text {
			out = append(out, s)
		}
	}

	switch {
	case d.Day > 0 && d.Year > 0:
		add(fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day))
		add(fmt.Sprintf("%02d.%02d.%d", d.Day, d.Month, d.Year))
		add(fmt.Sprintf("%d.%d.%d", d.Day, d.Month, d.Year))
		add(fmt.Sprintf("%02d/%02d/%d", d.Day, d.Month, d.Year))
		if yy := d.Year % 100; pivotYear(yy) == d.Year {
			add(fmt.Sprintf("%02d.%02d.%02d", d.Day, d.Month, yy))
		}
		add(fmt.Sprintf("%d. %s %d", d.Day, gm, d.Year))
		add(fmt.Sprintf("%s %d, %d", em, d.Day, d.Year))
		add(fmt.Sprintf("%d %s %d", d.Day, em, d.Year))
	case d.Day > 0:
		add(fmt.Sprintf("%02d.%02d.", d.Day, d.Month))
		add(fmt.Sprintf("%d. %s", d.Day, gm))
		add(fmt.Sprintf("%s %d", em, d.Day))
		add(fmt.Sprintf("%d %s", d.Day, em))
	case d.Year > 0:
		add(fmt.Sprintf("%s %d", gm, d.Year))
		add(fmt.Sprintf("%s %d", em, d.Year))
	}
	return out
}

// isDateLike reports whether s parses fully as a date in any format.
// Used to keep number derivations from colliding with date patterns.
func isDateLike(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
