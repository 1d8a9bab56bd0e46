package model

// FragmentType categorizes a detected factual span
type FragmentType string

const (
	TypeDate       FragmentType = "date"
	TypeNumber     FragmentType = "number"
	TypeIdentifier FragmentType = "identifier"
	TypePhrase     FragmentType = "phrase"
	TypeStatement  FragmentType = "statement"
)

// FragmentTypes lists all types in detection priority order.
// Dates win overlap conflicts against numbers and identifiers.
var FragmentTypes = []FragmentType{
	TypeDate,
	TypeNumber,
	TypeIdentifier,
	TypePhrase,
	TypeStatement,
}

// Definitive reports whether the type carries a single unambiguous value
// (dates, numbers, identifiers). Phrases and statements are fuzzy.
func (t FragmentType) Definitive() bool {
	switch t {
	case TypeDate, TypeNumber, TypeIdentifier:
		return true
	}
	return false
}

// Side identifies which side of the verification a fragment came from
type Side string

const (
	SideInput  Side = "input"
	SideOutput Side = "output"
)

// Other returns the opposite side
func (s Side) Other() Side {
	if s == SideInput {
		return SideOutput
	}
	return SideInput
}

// Location tags the originating field of a fragment
type Location string

const (
	LocMetadata        Location = "metadata"
	LocChapterBrief    Location = "chapter-brief"
	LocPriorContent    Location = "prior-content"
	LocPartyStatements Location = "party-statements"
	LocGeneratedOutput Location = "generated-output"

	// LocContent is the sentinel for matches evaluated against the other
	// side's combined content rather than a specific fragment.
	LocContent Location = "content"
)

// Status is the lifecycle state of a fragment
type Status string

const (
	StatusNotTested    Status = "not_tested"
	StatusDetected     Status = "detected"
	StatusNotDetected  Status = "not_detected"
	StatusNotProcessed Status = "not_processed"
)

// Fragment is a typed factual span detected in input or output text.
// Representations always contains at least Text itself; derivations
// extend it with equivalent surface forms (literals or regex patterns).
type Fragment struct {
	ID              string       `json:"id"`
	Type            FragmentType `json:"type"`
	Source          Side         `json:"source"`
	Location        Location     `json:"location"`
	Text            string       `json:"text"`
	Representations []string     `json:"representations"`
	Status          Status       `json:"status"`
	DetectedIn      []Location   `json:"detected_in,omitempty"`
}

// NewFragment creates a fragment in the not_tested state with the literal
// text as its first representation.
func NewFragment(typ FragmentType, source Side, location Location, text string) Fragment {
	return Fragment{
		Type:            typ,
		Source:          source,
		Location:        location,
		Text:            text,
		Representations: []string{text},
		Status:          StatusNotTested,
	}
}

// AddRepresentations appends derivations, skipping duplicates.
func (f *Fragment) AddRepresentations(reps ...string) {
	seen := make(map[string]bool, len(f.Representations))
	for _, r := range f.Representations {
		seen[r] = true
	}
	for _, r := range reps {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		f.Representations = append(f.Representations, r)
	}
}

// MarkDetected sets the detected status and records where the match was found.
func (f *Fragment) MarkDetected(in Location) {
	f.Status = StatusDetected
	for _, loc := range f.DetectedIn {
		if loc == in {
			return
		}
	}
	f.DetectedIn = append(f.DetectedIn, in)
}
