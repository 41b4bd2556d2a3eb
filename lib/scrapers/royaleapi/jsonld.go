package royaleapi

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StructuredDeck is a deck recovered from the page's JSON-LD metadata
// block: a display name plus exactly 8 card slugs in page order.
type StructuredDeck struct {
	Name      string
	CardSlugs []string
}

// ParseStructuredDecks extracts decks from the JSON-LD ItemList the
// deck listing embeds in a script tag. The block missing or failing to
// decode is not an error: the result is simply empty and the caller
// may fall back to another extraction strategy.
func ParseStructuredDecks(html string) []StructuredDeck {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	script := doc.Find(`script[type="application/ld+json"]`).First()
	if script.Length() == 0 {
		return nil
	}

	var data any
	err = json.Unmarshal([]byte(script.Text()), &data)
	if err != nil {
		return nil
	}

	var decks []StructuredDeck
	for _, entity := range mainEntities(data) {
		if entity["@type"] != "ItemList" {
			continue
		}
		elements, _ := entity["itemListElement"].([]any)
		for _, elem := range elements {
			elemMap, ok := elem.(map[string]any)
			if !ok {
				continue
			}
			item, ok := elemMap["item"].(map[string]any)
			if !ok {
				continue
			}
			name, ok := item["name"].(string)
			if !ok {
				continue
			}
			pageUrl, ok := item["url"].(string)
			if !ok {
				continue
			}

			slugs := slugsFromDeckUrl(pageUrl)
			if len(slugs) != 8 {
				continue
			}

			decks = append(decks, StructuredDeck{
				Name:      name,
				CardSlugs: slugs,
			})
		}
	}

	return decks
}

// mainEntities normalizes the JSON-LD "mainEntity" field to a flat
// sequence of entities. The field may sit on the top-level object or
// on one element of a top-level array, and may itself be a single
// object or an array of objects.
func mainEntities(data any) []map[string]any {
	var raw any
	switch v := data.(type) {
	case map[string]any:
		raw = v["mainEntity"]
	case []any:
		for _, obj := range v {
			objMap, ok := obj.(map[string]any)
			if !ok {
				continue
			}
			if _, found := objMap["mainEntity"]; found {
				raw = objMap["mainEntity"]
				break
			}
		}
	}

	switch v := raw.(type) {
	case map[string]any:
		return []map[string]any{v}
	case []any:
		var entities []map[string]any
		for _, e := range v {
			eMap, ok := e.(map[string]any)
			if !ok {
				continue
			}
			entities = append(entities, eMap)
		}
		return entities
	}
	return nil
}

// slugsFromDeckUrl splits the final path segment of a deck stats URL
// ("…/decks/stats/card-1,card-2,…") into card slugs.
func slugsFromDeckUrl(pageUrl string) []string {
	trimmed := strings.TrimRight(pageUrl, "/")
	segment := trimmed[strings.LastIndex(trimmed, "/")+1:]

	var slugs []string
	for _, s := range strings.Split(segment, ",") {
		if s != "" {
			slugs = append(slugs, s)
		}
	}
	return slugs
}
