package royaleapi

import (
	"slices"
	"strings"

	"royalehelper/lib/htmlutil"
	"royalehelper/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TextDeck is a deck recovered from the visible text stream of a deck
// section: exactly 8 card names in display order plus the section's
// average elixir when one could be read.
type TextDeck struct {
	CardNames []string
	AvgElixir *float64
}

// TextConfig names the tokens the flat-text heuristic keys off of.
type TextConfig struct {
	// the label immediately following a section's card list
	Marker string
	// section headers and column labels that may precede the card
	// list and must never be mistaken for card names
	Stoplist []string
}

func DefaultTextConfig() TextConfig {
	return TextConfig{
		Marker: "Avg Elixir",
		Stoplist: []string{
			"Deck Stats",
			"4-Card Cycle",
			"Rating",
			"Usage",
			"Wins",
			"Draws",
			"Losses",
		},
	}
}

// ParseTextDecks recovers decks from a page exposing no structured
// markup, only an order-preserving stream of visible text per deck
// section. Card names are the last block of tokens before the marker
// label, so the scan runs in reverse with dedup and re-reverses the
// collected 8; anything that doesn't produce exactly 8 unique names
// drops the whole section rather than guessing.
func ParseTextDecks(htmlText string) []TextDeck {
	return ParseTextDecksWithConfig(htmlText, DefaultTextConfig())
}

func ParseTextDecksWithConfig(htmlText string, cfg TextConfig) []TextDeck {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return nil
	}

	stoplist := make(map[string]struct{}, len(cfg.Stoplist))
	for _, t := range cfg.Stoplist {
		stoplist[t] = struct{}{}
	}

	var decks []TextDeck
	for _, node := range doc.Nodes {
		for _, markerNode := range markerTextNodes(node, cfg.Marker) {
			container := closestAncestor(markerNode, "section")
			if container == nil {
				container = closestAncestor(markerNode, "div")
			}
			if container == nil {
				continue
			}

			deck, ok := deckFromSection(htmlutil.StrippedStrings(container), cfg, stoplist)
			if !ok {
				continue
			}
			decks = append(decks, deck)
		}
	}

	return decks
}

func deckFromSection(texts []string, cfg TextConfig, stoplist map[string]struct{}) (TextDeck, bool) {
	markerIdx := slices.Index(texts, cfg.Marker)
	if markerIdx < 0 {
		return TextDeck{}, false
	}

	var filtered []string
	for _, t := range texts[:markerIdx] {
		if _, bad := stoplist[t]; bad {
			continue
		}
		if textutil.IsNumber(t) {
			continue
		}
		if strings.HasSuffix(t, "%") {
			continue
		}
		filtered = append(filtered, t)
	}

	// card names are the trailing tokens, so walk backwards and
	// dedup until 8 unique names are in hand
	seen := make(map[string]struct{})
	var reversedNames []string
	for i := len(filtered) - 1; i >= 0; i-- {
		t := filtered[i]
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		reversedNames = append(reversedNames, t)
		if len(reversedNames) == 8 {
			break
		}
	}
	if len(reversedNames) != 8 {
		return TextDeck{}, false
	}
	slices.Reverse(reversedNames)

	var avgElixir *float64
	for _, t := range texts[markerIdx:] {
		if t == cfg.Marker {
			continue
		}
		value, ok := textutil.ParseLooseFloat(t)
		if !ok {
			continue
		}
		avgElixir = &value
		break
	}

	return TextDeck{
		CardNames: reversedNames,
		AvgElixir: avgElixir,
	}, true
}

func markerTextNodes(node *html.Node, marker string) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.TextNode {
			if strings.Contains(n.Data, marker) {
				out = append(out, n)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return out
}

func closestAncestor(node *html.Node, tag string) *html.Node {
	for cur := node.Parent; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && cur.Data == tag {
			return cur
		}
	}
	return nil
}
