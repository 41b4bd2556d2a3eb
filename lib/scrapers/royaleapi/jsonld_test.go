package royaleapi

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const deckListJson = `{
	"@context": "https://schema.org",
	"@type": "WebPage",
	"mainEntity": {
		"@type": "ItemList",
		"itemListElement": [
			{
				"@type": "ListItem",
				"position": 1,
				"item": {
					"name": "Giant Beatdown",
					"url": "https://royaleapi.com/decks/stats/giant,musketeer,knight,archers,fireball,zap,cannon,skeletons"
				}
			},
			{
				"@type": "ListItem",
				"position": 2,
				"item": {
					"name": "Broken Deck",
					"url": "https://royaleapi.com/decks/stats/giant,musketeer,knight,archers,fireball,zap,cannon"
				}
			},
			{
				"@type": "ListItem",
				"position": 3,
				"item": {
					"name": "Log Bait",
					"url": "https://royaleapi.com/decks/stats/goblin-barrel,princess,knight,inferno-tower,rocket,the-log,goblin-gang,ice-spirit/"
				}
			}
		]
	}
}`

func jsonldPage(block string) string {
	return fmt.Sprintf(
		`<html><head><script type="application/ld+json">%s</script></head><body></body></html>`,
		block,
	)
}

func TestParseStructuredDecks(t *testing.T) {
	decks := ParseStructuredDecks(jsonldPage(deckListJson))

	expected := []StructuredDeck{
		{
			Name: "Giant Beatdown",
			CardSlugs: []string{
				"giant", "musketeer", "knight", "archers",
				"fireball", "zap", "cannon", "skeletons",
			},
		},
		{
			Name: "Log Bait",
			CardSlugs: []string{
				"goblin-barrel", "princess", "knight", "inferno-tower",
				"rocket", "the-log", "goblin-gang", "ice-spirit",
			},
		},
	}
	require.Empty(t, cmp.Diff(expected, decks))
}

// the mainEntity field may be a single object or an array holding that
// same object, both must parse identically
func TestParseStructuredDecksMainEntityShapes(t *testing.T) {
	single := `{
		"@type": "WebPage",
		"mainEntity": {
			"@type": "ItemList",
			"itemListElement": [
				{"item": {"name": "Deck", "url": "https://royaleapi.com/decks/stats/a,b,c,d,e,f,g,h"}}
			]
		}
	}`
	asArray := `{
		"@type": "WebPage",
		"mainEntity": [{
			"@type": "ItemList",
			"itemListElement": [
				{"item": {"name": "Deck", "url": "https://royaleapi.com/decks/stats/a,b,c,d,e,f,g,h"}}
			]
		}]
	}`
	topLevelList := `[
		{"@type": "BreadcrumbList"},
		{
			"@type": "WebPage",
			"mainEntity": {
				"@type": "ItemList",
				"itemListElement": [
					{"item": {"name": "Deck", "url": "https://royaleapi.com/decks/stats/a,b,c,d,e,f,g,h"}}
				]
			}
		}
	]`

	fromSingle := ParseStructuredDecks(jsonldPage(single))
	fromArray := ParseStructuredDecks(jsonldPage(asArray))
	fromTopLevelList := ParseStructuredDecks(jsonldPage(topLevelList))

	require.Empty(t, cmp.Diff(fromSingle, fromArray))
	require.Empty(t, cmp.Diff(fromSingle, fromTopLevelList))
	require.Len(t, fromSingle, 1)
	require.Equal(t, "Deck", fromSingle[0].Name)
}

func TestParseStructuredDecksMissingOrMalformedBlock(t *testing.T) {
	require.Empty(t, ParseStructuredDecks(`<html><body><p>no metadata</p></body></html>`))
	require.Empty(t, ParseStructuredDecks(jsonldPage(`{"mainEntity": truncated`)))
	require.Empty(t, ParseStructuredDecks(jsonldPage(`{"mainEntity": {"@type": "Person"}}`)))
}
