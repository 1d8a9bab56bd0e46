package model

// Corrected-document node types, consumed by the editor UI.
const (
	NodeDoc       = "doc"
	NodeParagraph = "paragraph"
	NodeText      = "text"
	NodeHardBreak = "hardBreak"
	NodeList      = "list"
)

// Mark types attached to text and list nodes.
const (
	MarkColoredEntity = "coloredEntity"
	MarkSelectionList = "selection_list"
)

// Entity colors carry fixed semantics in the editor UI.
const (
	ColorViolet = "violet" // replaced with input value
	ColorRed    = "red"    // false or unresolved in output
	ColorGreen  = "green"  // correct but ambiguous alternative
	ColorOrange = "orange" // inconclusive phrase/statement mismatch
)

// Entity categories describe why a span was annotated.
const (
	CategoryReplaced     = "replaced"
	CategoryFalse        = "false"
	CategoryAlternatives = "alternatives"
	CategoryInconclusive = "inconclusive"
	CategoryUnresolved   = "unresolved"
)

// EntityAttrs is the attribute payload of a coloredEntity mark
type EntityAttrs struct {
	EntityType     string   `json:"entityType"`
	EntityColor    string   `json:"entityColor"`
	EntityCategory string   `json:"entityCategory"`
	OriginalText   string   `json:"originalText"`
	DisplayText    string   `json:"displayText"`
	Replacements   []string `json:"replacements"`
	EntityID       string   `json:"entityId"`
	Deleted        bool     `json:"deleted"`
	Confirmed      bool     `json:"confirmed,omitempty"`
}

// Mark annotates a document node
type Mark struct {
	Type  string       `json:"type"`
	Attrs *EntityAttrs `json:"attrs,omitempty"`
}

// Node is one node of the corrected document tree
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []Node `json:"content,omitempty"`
	Marks   []Mark `json:"marks,omitempty"`
}

// TextNode builds a plain text node
func TextNode(text string) Node {
	return Node{Type: NodeText, Text: text}
}

// AnnotatedTextNode builds a text node carrying a coloredEntity mark
func AnnotatedTextNode(text string, attrs EntityAttrs) Node {
	return Node{
		Type:  NodeText,
		Text:  text,
		Marks: []Mark{{Type: MarkColoredEntity, Attrs: &attrs}},
	}
}
