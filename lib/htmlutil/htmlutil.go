package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// StrippedStrings walks the subtree in document order and returns every
// text node trimmed of surrounding whitespace, dropping empty ones.
func StrippedStrings(node *html.Node) []string {
	var out []string
	strippedStringsRecursive(node, &out)
	return out
}

func strippedStringsRecursive(node *html.Node, out *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		text := strings.TrimSpace(node.Data)
		if text != "" {
			*out = append(*out, text)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		strippedStringsRecursive(child, out)
		child = child.NextSibling
	}
}
