package recommend

import (
	"slices"

	"royalehelper/lib/clashroyale"
	"royalehelper/lib/deckstore"
)

const DefaultLimit = 3

// DefaultLevelCeiling is the common reference ceiling card levels are
// normalized onto, so a maxed common and a maxed legendary compare
// equally despite their different level caps.
const DefaultLevelCeiling = 16

type Options struct {
	// maximum number of decks returned, DefaultLimit when zero
	Limit int
	// normalization ceiling, DefaultLevelCeiling when zero
	LevelCeiling int64
}

// RecommendedCard pairs a deck card with the player's level for it.
// Both levels are nil when the player doesn't own the card.
type RecommendedCard struct {
	Card           deckstore.Card
	Level          *int64
	EffectiveLevel *int64
}

// RecommendedDeck is derived, never persisted: a stored deck scored
// against one player's collection.
type RecommendedDeck struct {
	Deck       deckstore.Deck
	OwnedCards int
	TotalLevel int64
	Cards      []RecommendedCard
}

// Recommend scores each deck by how much of it the player owns and
// how leveled the owned cards are, then returns the top decks. Decks
// sharing no cards with the player are never recommended. Inputs are
// not mutated; identical inputs produce identical output.
func Recommend(player clashroyale.PlayerProfile, decks []deckstore.Deck, opts Options) []RecommendedDeck {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	ceiling := opts.LevelCeiling
	if ceiling <= 0 {
		ceiling = DefaultLevelCeiling
	}

	levels := player.LevelByCardID()

	var scored []RecommendedDeck
	for _, deck := range decks {
		owned := 0
		var totalLevel int64
		cards := make([]RecommendedCard, 0, len(deck.Cards))

		for _, card := range deck.Cards {
			level, has := levels[card.ApiID]
			if !has {
				cards = append(cards, RecommendedCard{Card: card})
				continue
			}

			owned++
			effective := level
			if card.MaxLevel != nil {
				effective = ceiling - *card.MaxLevel + level
			}
			totalLevel += effective

			levelCopy := level
			cards = append(cards, RecommendedCard{
				Card:           card,
				Level:          &levelCopy,
				EffectiveLevel: &effective,
			})
		}

		if owned == 0 {
			continue
		}

		scored = append(scored, RecommendedDeck{
			Deck:       deck,
			OwnedCards: owned,
			TotalLevel: totalLevel,
			Cards:      cards,
		})
	}

	slices.SortStableFunc(scored, func(a, b RecommendedDeck) int {
		if a.OwnedCards != b.OwnedCards {
			return b.OwnedCards - a.OwnedCards
		}
		if a.TotalLevel != b.TotalLevel {
			if b.TotalLevel > a.TotalLevel {
				return 1
			}
			return -1
		}
		return 0
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
