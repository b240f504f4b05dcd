package gather

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// minBlockChars is the minimum text length for a block element to count as
// article content rather than navigation chrome.
const minBlockChars = 200

// maxContentChars caps extracted content per page
const maxContentChars = 10000

// boilerplateTags are subtrees dropped entirely before extraction
var boilerplateTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
	"aside":  true,
}

// contentTags are the block elements considered as article content candidates
var contentTags = map[string]bool{
	"article": true,
	"main":    true,
	"div":     true,
	"section": true,
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// ExtractContent pulls readable article text out of an HTML page. Boilerplate
// subtrees are dropped, then the text of every content block longer than
// minBlockChars is collected and whitespace-normalized. Returns an empty
// string when the page has no substantial content.
func ExtractContent(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	pruneBoilerplate(doc)

	var blocks strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && contentTags[n.Data] {
			text := strings.TrimSpace(nodeText(n))
			if len(text) > minBlockChars {
				blocks.WriteString(text)
				blocks.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	content := strings.TrimSpace(whitespaceRE.ReplaceAllString(blocks.String(), " "))
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	return content
}

// pruneBoilerplate removes boilerplate subtrees in place
func pruneBoilerplate(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode && boilerplateTags[c.Data] {
			n.RemoveChild(c)
			continue
		}
		pruneBoilerplate(c)
	}
}

// nodeText concatenates all text nodes under n
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
