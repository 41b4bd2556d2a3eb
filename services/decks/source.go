package decks

import (
	"context"
	"log/slog"
	"strings"

	"royalehelper/lib/scrapers/royaleapi"
	"royalehelper/lib/scrapers/statsroyale"
)

// DeckSource is one site's fetch+parse pair. Supporting a new site
// means writing a new implementation, the importer stays unchanged.
type DeckSource interface {
	// Fetch downloads and parses the site's popular-decks page.
	Fetch(ctx context.Context) ([]RawDeck, error)
}

// Import pulls decks from a source and persists them.
func (im Importer) Import(ctx context.Context, source DeckSource, mode string) (Report, error) {
	ctx, span := tracer.Start(ctx, "Import")
	defer span.End()

	raw, err := source.Fetch(ctx)
	if err != nil {
		return Report{}, err
	}
	return im.importRaw(ctx, raw, mode)
}

// StatsRoyaleSource scrapes statsroyale.com. An empty URL means the
// default popular-decks page.
type StatsRoyaleSource struct {
	Client *statsroyale.Client
	URL    string
}

func (s StatsRoyaleSource) Fetch(ctx context.Context) ([]RawDeck, error) {
	html, err := s.Client.FetchPopularDecks(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	warnOnMissingMarkers(ctx, html)

	var raw []RawDeck
	for _, deck := range statsroyale.ParseDecks(html) {
		ids, ok := numericIDs(deck.CardIDs)
		if !ok {
			raw = append(raw, RawDeck{})
			continue
		}
		raw = append(raw, RawDeck{
			CardIDs:   ids,
			AvgElixir: deck.Elixir,
			WinRate:   deck.WinRate,
			AvgCrowns: deck.AvgCrowns,
		})
	}
	return raw, nil
}

// RoyaleAPISource scrapes royaleapi.com, preferring the page's JSON-LD
// deck list and falling back to the rendered card names when it is
// missing.
type RoyaleAPISource struct {
	Client *royaleapi.Client
	URL    string
}

func (s RoyaleAPISource) Fetch(ctx context.Context) ([]RawDeck, error) {
	html, err := s.Client.FetchPopularDecks(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	warnOnMissingMarkers(ctx, html)

	var raw []RawDeck
	for _, deck := range royaleapi.ParseStructuredDecks(html) {
		names := make([]string, len(deck.CardSlugs))
		for i, slug := range deck.CardSlugs {
			names[i] = strings.ReplaceAll(slug, "-", " ")
		}
		raw = append(raw, RawDeck{CardNames: names})
	}
	if len(raw) > 0 {
		return raw, nil
	}

	slog.InfoContext(ctx, "no structured deck data, falling back to page text")
	for _, deck := range royaleapi.ParseTextDecks(html) {
		raw = append(raw, RawDeck{
			CardNames: deck.CardNames,
			AvgElixir: deck.AvgElixir,
		})
	}
	return raw, nil
}

// pageMarkers are strings at least one of which appears on every known
// deck listing. Their absence usually means a bot-detection page.
var pageMarkers = []string{
	"Best Clash Royale Decks",
	"Popular Decks",
	"Deck Stats",
}

func warnOnMissingMarkers(ctx context.Context, html string) {
	for _, marker := range pageMarkers {
		if strings.Contains(html, marker) {
			return
		}
	}
	slog.WarnContext(ctx, "page has none of the expected deck markers, the site layout may have changed")
}
