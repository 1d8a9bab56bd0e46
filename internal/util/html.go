package util

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText parses HTML and returns its visible text content. Script,
// style, noscript, and iframe subtrees are skipped. Parse failures fall
// back to the raw input so payload content is never silently dropped.
func VisibleText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "br", "p", "div", "li":
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if buf.Len() > 0 && !strings.HasSuffix(buf.String(), "\n") {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String())
}

// LooksLikeHTML is a cheap check for markup in payload content.
func LooksLikeHTML(s string) bool {
	open := strings.IndexByte(s, '<')
	if open < 0 {
		return false
	}
	return strings.IndexByte(s[open:], '>') > 1
}
