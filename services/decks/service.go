package decks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"royalehelper/lib/clashroyale"
	"royalehelper/lib/deckstore"
	"royalehelper/lib/scrapers/royaleapi"
	"royalehelper/lib/scrapers/statsroyale"
	"royalehelper/lib/telemetry"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("services/decks")

// Importer turns scraped deck pages into persisted decks. Card
// resolution goes through the local catalog, so `cards sync` must
// have run at least once before importing.
type Importer struct {
	store deckstore.Store
}

func NewImporter(store deckstore.Store) Importer {
	return Importer{store: store}
}

// Report counts what happened to the decks found on one page. A deck
// is skipped, never partially written, when any of its cards cannot
// be resolved against the catalog.
type Report struct {
	Found   int
	Created int
	Skipped int
}

// RawDeck is one scraped deck before catalog resolution. Exactly one
// of CardIDs and CardNames is set, depending on what the source site
// exposes.
type RawDeck struct {
	CardIDs   []int64
	CardNames []string
	AvgElixir *float64
	WinRate   *float64
	AvgCrowns *float64
}

// ImportStatsRoyale parses a statsroyale popular-decks page and
// persists every deck whose card ids all resolve.
func (im Importer) ImportStatsRoyale(ctx context.Context, html, mode string) (Report, error) {
	ctx, span := tracer.Start(ctx, "ImportStatsRoyale")
	defer span.End()

	var raw []RawDeck
	for _, deck := range statsroyale.ParseDecks(html) {
		ids, ok := numericIDs(deck.CardIDs)
		if !ok {
			slog.WarnContext(ctx, "deck has a non-numeric card id, skipping",
				slog.Any("cardIds", deck.CardIDs))
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
	return im.importRaw(ctx, raw, mode)
}

// ImportRoyaleAPIStructured imports from the page's JSON-LD deck list.
// Card slugs are dash-separated lowercase names; the catalog lookup is
// case-insensitive, so replacing dashes with spaces is enough.
func (im Importer) ImportRoyaleAPIStructured(ctx context.Context, html, mode string) (Report, error) {
	ctx, span := tracer.Start(ctx, "ImportRoyaleAPIStructured")
	defer span.End()

	var raw []RawDeck
	for _, deck := range royaleapi.ParseStructuredDecks(html) {
		names := make([]string, len(deck.CardSlugs))
		for i, slug := range deck.CardSlugs {
			names[i] = strings.ReplaceAll(slug, "-", " ")
		}
		raw = append(raw, RawDeck{CardNames: names})
	}
	return im.importRaw(ctx, raw, mode)
}

// ImportRoyaleAPIText imports from the rendered card names on the
// page, the fallback for when the JSON-LD payload is missing.
func (im Importer) ImportRoyaleAPIText(ctx context.Context, html, mode string) (Report, error) {
	ctx, span := tracer.Start(ctx, "ImportRoyaleAPIText")
	defer span.End()

	var raw []RawDeck
	for _, deck := range royaleapi.ParseTextDecks(html) {
		raw = append(raw, RawDeck{
			CardNames: deck.CardNames,
			AvgElixir: deck.AvgElixir,
		})
	}
	return im.importRaw(ctx, raw, mode)
}

func (im Importer) importRaw(ctx context.Context, decks []RawDeck, mode string) (Report, error) {
	report := Report{Found: len(decks)}

	for _, deck := range decks {
		cardIDs, err := im.resolve(ctx, deck)
		if err != nil {
			return report, err
		}
		if cardIDs == nil {
			report.Skipped++
			continue
		}

		_, err = im.store.CreateDeck(ctx, deckstore.CreateDeckParams{
			Mode:      mode,
			AvgElixir: deck.AvgElixir,
			WinRate:   deck.WinRate,
			AvgCrowns: deck.AvgCrowns,
			CardIDs:   cardIDs,
		})
		if errors.Is(err, deckstore.ErrDeckShape) {
			slog.WarnContext(ctx, "resolved deck is malformed, skipping",
				slog.Any("cardIds", cardIDs))
			report.Skipped++
			continue
		}
		if err != nil {
			return report, fmt.Errorf("create deck: %w", err)
		}
		report.Created++
	}

	slog.InfoContext(ctx, "imported decks",
		slog.String("mode", mode),
		slog.Int("found", report.Found),
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped))
	return report, nil
}

// resolve maps a raw deck to ordered catalog card ids. A nil slice
// with a nil error means the deck should be skipped.
func (im Importer) resolve(ctx context.Context, deck RawDeck) ([]int64, error) {
	if len(deck.CardIDs) > 0 {
		return im.resolveByID(ctx, deck.CardIDs)
	}
	if len(deck.CardNames) > 0 {
		return im.resolveByName(ctx, deck.CardNames)
	}
	return nil, nil
}

func (im Importer) resolveByID(ctx context.Context, ids []int64) ([]int64, error) {
	for _, id := range ids {
		card, err := im.store.GetCardByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if card == nil {
			slog.WarnContext(ctx, "card id not in catalog, skipping deck",
				slog.Int64("cardId", id))
			return nil, nil
		}
	}
	return ids, nil
}

func (im Importer) resolveByName(ctx context.Context, names []string) ([]int64, error) {
	resolved := make([]int64, 0, len(names))
	for _, name := range names {
		card, err := im.store.GetCardByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if card == nil {
			hint, err := im.nearestCardName(ctx, name)
			if err != nil {
				return nil, err
			}
			slog.WarnContext(ctx, "card name not in catalog, skipping deck",
				slog.String("name", name),
				slog.String("closestMatch", hint))
			return nil, nil
		}
		resolved = append(resolved, card.ApiID)
	}
	return resolved, nil
}

// nearestCardName is a debugging aid for unresolvable names: usually
// the site renamed a card or shortened it for display.
func (im Importer) nearestCardName(ctx context.Context, name string) (string, error) {
	cards, err := im.store.ListCards(ctx)
	if err != nil {
		return "", err
	}

	var best string
	var bestScore float64
	for _, card := range cards {
		score := matchr.JaroWinkler(strings.ToLower(name), strings.ToLower(card.Name), false)
		if score > bestScore {
			bestScore = score
			best = card.Name
		}
	}
	return best, nil
}

// SyncReport counts catalog rows touched by SyncCards.
type SyncReport struct {
	Created int
	Updated int
}

// SyncCards refreshes the local card catalog from the official API.
// Existing rows are overwritten so level caps track balance changes.
func (im Importer) SyncCards(ctx context.Context, client *clashroyale.Client) (SyncReport, error) {
	ctx, span := tracer.Start(ctx, "SyncCards")
	defer span.End()

	cards, err := client.GetCards(ctx)
	if err != nil {
		return SyncReport{}, err
	}
	span.SetAttributes(attribute.Int("cards", len(cards)))

	var report SyncReport
	for _, card := range cards {
		created, err := im.store.UpsertCard(ctx, deckstore.Card{
			ApiID:             card.ID,
			Name:              card.Name,
			MaxLevel:          card.MaxLevel,
			MaxEvolutionLevel: card.MaxEvolutionLevel,
			MaxStarLevel:      card.MaxStarLevel,
			IconUrl:           card.IconUrl,
		})
		if err != nil {
			return report, fmt.Errorf("upsert card %q: %w", card.Name, err)
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	slog.InfoContext(ctx, "synced card catalog",
		slog.Int("created", report.Created),
		slog.Int("updated", report.Updated))
	return report, nil
}

func numericIDs(tokens []string) ([]int64, bool) {
	ids := make([]int64, len(tokens))
	for i, token := range tokens {
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}
