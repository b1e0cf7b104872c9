// Package markup adapts goquery selections to the engine's OfferCard contract.
package markup

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// Card wraps the selection of one product tile. It never mutates the underlying nodes.
type Card struct {
	sel *goquery.Selection
}

// NewCard wraps a single-node selection
func NewCard(sel *goquery.Selection) *Card {
	return &Card{sel: sel}
}

// SelectText returns the cleaned text of every descendant matching selector.
// Selectors that fail to compile match nothing.
func (c *Card) SelectText(selector string) []string {
	var texts []string
	c.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			if text := elementText(n); text != "" {
				texts = append(texts, text)
			}
		}
	})
	return texts
}

// TextNodes returns every non-empty text node below the card in document order.
// Script and style contents are skipped.
func (c *Card) TextNodes() []string {
	var texts []string
	for _, n := range c.sel.Nodes {
		collectTextNodes(n, &texts)
	}
	return texts
}

// Attr returns an attribute of the card root
func (c *Card) Attr(name string) (string, bool) {
	return c.sel.Attr(name)
}

// elementText joins the text nodes below node with single spaces. Splash prices
// written as 19<sup>90</sup> become "19:90" so the öre survive normalization.
func elementText(node *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := cleanText(n.Data)
			if text == "" {
				return
			}
			if len(parts) > 0 && isSuperscriptCents(n, text) && endsWithDigit(parts[len(parts)-1]) {
				parts[len(parts)-1] += ":" + text
				return
			}
			parts = append(parts, text)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.Join(parts, " ")
}

func isSuperscriptCents(n *html.Node, text string) bool {
	if n.Parent == nil || n.Parent.Data != "sup" || len(text) != 2 {
		return false
	}
	return text[0] >= '0' && text[0] <= '9' && text[1] >= '0' && text[1] <= '9'
}

func endsWithDigit(s string) bool {
	return s != "" && s[len(s)-1] >= '0' && s[len(s)-1] <= '9'
}

func collectTextNodes(node *html.Node, out *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
		return
	}
	if node.Type == html.TextNode {
		if text := cleanText(node.Data); text != "" {
			*out = append(*out, text)
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectTextNodes(child, out)
	}
}

func cleanText(s string) string {
	s = removeNonPrintable(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func removeNonPrintable(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch {
		case unicode.IsPrint(c):
			b.WriteRune(c)
		case unicode.IsSpace(c):
			// keeps no-break and narrow spaces, used as thousands separators
			b.WriteRune(c)
		}
	}
	return b.String()
}
