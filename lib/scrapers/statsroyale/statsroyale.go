package statsroyale

import (
	"fmt"
	"regexp"
	"strings"

	"royalehelper/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Config names the markup anchors the parser keys off of, so a site
// layout shift is a one-place fix.
type Config struct {
	// URI scheme prefix of the in-game "copy deck" share link
	DeckLinkPrefix string
	// src fragments identifying each statistic's icon image
	ElixirIcon  string
	WinRateIcon string
	CrownsIcon  string
}

func DefaultConfig() Config {
	return Config{
		DeckLinkPrefix: "clashroyale://copyDeck?deck=",
		ElixirIcon:     "images/elixir.png",
		WinRateIcon:    "images/battle.png",
		CrownsIcon:     "images/crown-blue.png",
	}
}

// Deck is one deck record recovered from the popular-decks page.
// Statistics are nil when their markup is missing or unparseable;
// only the card list is mandatory.
type Deck struct {
	CardIDs   []string
	Elixir    *float64
	WinRate   *float64
	AvgCrowns *float64
}

var deckParamRegex = regexp.MustCompile(`deck=([^&]+)`)

// ParseDecks recovers deck records from the statsroyale popular-decks
// page. A page with no recognizable decks yields an empty slice, not
// an error.
func ParseDecks(html string) []Deck {
	return ParseDecksWithConfig(html, DefaultConfig())
}

func ParseDecksWithConfig(html string, cfg Config) []Deck {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var decks []Deck
	doc.Find("div.content-box").Each(func(_ int, box *goquery.Selection) {
		link := box.Find(fmt.Sprintf("a[href^=%q]", cfg.DeckLinkPrefix)).First()
		if link.Length() == 0 {
			return
		}

		href := link.AttrOr("href", "")
		m := deckParamRegex.FindStringSubmatch(href)
		if m == nil {
			return
		}

		var cardIds []string
		for _, id := range strings.Split(m[1], ";") {
			if id != "" {
				cardIds = append(cardIds, id)
			}
		}
		if len(cardIds) != 8 {
			return
		}

		decks = append(decks, Deck{
			CardIDs:   cardIds,
			Elixir:    statByIcon(box, cfg.ElixirIcon),
			WinRate:   statByIcon(box, cfg.WinRateIcon),
			AvgCrowns: statByIcon(box, cfg.CrownsIcon),
		})
	})

	return decks
}

// statByIcon locates the statistic's icon image inside the deck
// container, walks up to its layout parent and reads the last
// text-bearing div as the statistic's value. Any missing piece of
// markup or parse failure yields nil, never an aborted deck.
func statByIcon(box *goquery.Selection, srcFragment string) *float64 {
	img := box.Find(fmt.Sprintf("img[src*=%q]", srcFragment)).First()
	if img.Length() == 0 {
		return nil
	}
	parent := img.Closest("div")
	if parent.Length() == 0 {
		return nil
	}
	textDivs := parent.Find("div")
	if textDivs.Length() == 0 {
		return nil
	}

	raw := strings.TrimSpace(textDivs.Last().Text())
	raw = strings.ReplaceAll(raw, "%", "")
	value, ok := textutil.ParseLooseFloat(raw)
	if !ok {
		return nil
	}
	return &value
}
