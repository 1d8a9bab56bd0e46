// Package contain decides, per fragment type, whether a fragment is
// present on the other side of a verification run. Definitive types use
// substring containment over lowercased representations; phrases use
// compiled-regex matching against the other side's combined content.
package contain

import (
	"regexp"
	"strings"

	"github.com/rkarpau/veritext/internal/model"
)

// CheckLiteral marks each fragment detected when any of its lowercased
// representations is a substring of any lowercased representation of any
// fragment on the other side. The first match wins; containment is boolean,
// so no ranking is needed.
func CheckLiteral(frags []model.Fragment, others []model.Fragment) []model.Fragment {
	out := make([]model.Fragment, len(frags))
	for i, f := range frags {
		out[i] = checkOne(f, others)
	}
	return out
}

func checkOne(f model.Fragment, others []model.Fragment) model.Fragment {
	for _, rep := range f.Representations {
		needle := strings.ToLower(rep)
		if needle == "" {
			continue
		}
		for _, other := range others {
			for _, otherRep := range other.Representations {
				if strings.Contains(strings.ToLower(otherRep), needle) {
					f.MarkDetected(other.Location)
					return f
				}
			}
		}
	}
	f.Status = model.StatusNotDetected
	return f
}

// CheckRegex marks each phrase fragment detected when any of its
// representations, compiled as a regular expression, matches any blob of
// the other side's combined content. Invalid patterns are silently treated
// as non-matching. Because phrase matches are evaluated against the whole
// blob rather than fragment-to-fragment, detected_in carries the content
// sentinel instead of a specific location.
func CheckRegex(frags []model.Fragment, otherContent []string) []model.Fragment {
	out := make([]model.Fragment, len(frags))
	for i, f := range frags {
		out[i] = checkOneRegex(f, otherContent)
	}
	return out
}

func checkOneRegex(f model.Fragment, otherContent []string) model.Fragment {
	for _, rep := range f.Representations {
		re, err := regexp.Compile(rep)
		if err != nil {
			continue
		}
		for _, blob := range otherContent {
			if re.MatchString(blob) {
				f.MarkDetected(model.LocContent)
				return f
			}
		}
	}
	f.Status = model.StatusNotDetected
	return f
}
