package util

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup flattens any embedded HTML in an API text field to plain text.
// ClinicalTrials.gov titles and sponsor names occasionally carry tags and
// entities pasted in from registration forms.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}

	var sb strings.Builder
	collectText(doc, &sb)

	return strings.Join(strings.Fields(sb.String()), " ")
}

// collectText walks the node tree gathering text, skipping script and style
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
