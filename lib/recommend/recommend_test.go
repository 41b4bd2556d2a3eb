package recommend

import (
	"fmt"
	"testing"

	"royalehelper/lib/clashroyale"
	"royalehelper/lib/deckstore"

	"github.com/stretchr/testify/require"
)

func testDeck(id int64, cardIDs ...int64) deckstore.Deck {
	deck := deckstore.Deck{ID: id, Mode: "test"}
	for _, cardID := range cardIDs {
		deck.Cards = append(deck.Cards, deckstore.Card{
			ApiID: cardID,
			Name:  fmt.Sprintf("Card %d", cardID),
		})
	}
	return deck
}

func testPlayer(levels map[int64]int64) clashroyale.PlayerProfile {
	player := clashroyale.PlayerProfile{
		Tag:  "#PLAYER",
		Name: "Player",
	}
	for id, level := range levels {
		player.Cards = append(player.Cards, clashroyale.PlayerCard{
			ID:    id,
			Name:  fmt.Sprintf("Card %d", id),
			Level: level,
		})
	}
	return player
}

func TestRecommendPrefersDecksWithMoreOwnedCards(t *testing.T) {
	levels := map[int64]int64{}
	for id := int64(1); id <= 8; id++ {
		levels[id] = 10
	}
	player := testPlayer(levels)

	deckFull := testDeck(1, 1, 2, 3, 4, 5, 6, 7, 8)
	deckPartial := testDeck(2, 5, 6, 7, 8, 9, 10, 11, 12)

	result := Recommend(player, []deckstore.Deck{deckPartial, deckFull}, Options{})
	require.Len(t, result, 2)
	require.EqualValues(t, 1, result[0].Deck.ID)
	require.Equal(t, 8, result[0].OwnedCards)
	require.Equal(t, 4, result[1].OwnedCards)
}

func TestRecommendExcludesDecksWithNothingOwned(t *testing.T) {
	player := testPlayer(map[int64]int64{1: 10})
	strangerDeck := testDeck(1, 20, 21, 22, 23, 24, 25, 26, 27)

	for _, limit := range []int{1, 3, 100} {
		result := Recommend(player, []deckstore.Deck{strangerDeck}, Options{Limit: limit})
		require.Empty(t, result)
	}
}

func TestRecommendEffectiveLevelNormalization(t *testing.T) {
	// a maxed card lands on the ceiling regardless of its cap
	testCases := []struct {
		maxLevel int64
		level    int64
		expected int64
	}{
		{9, 9, 16},
		{14, 14, 16},
		{11, 9, 14},
	}

	for _, test := range testCases {
		deck := testDeck(1, 1, 2, 3, 4, 5, 6, 7, 8)
		deck.Cards[0].MaxLevel = &test.maxLevel

		player := testPlayer(map[int64]int64{1: test.level})
		result := Recommend(player, []deckstore.Deck{deck}, Options{})
		require.Len(t, result, 1)

		card := result[0].Cards[0]
		require.NotNil(t, card.EffectiveLevel)
		require.Equal(t, test.expected, *card.EffectiveLevel)
		require.Equal(t, test.expected, result[0].TotalLevel)
	}
}

func TestRecommendWithoutMaxLevelUsesRawLevel(t *testing.T) {
	deck := testDeck(1, 1, 2, 3, 4, 5, 6, 7, 8)
	player := testPlayer(map[int64]int64{1: 7})

	result := Recommend(player, []deckstore.Deck{deck}, Options{})
	require.Len(t, result, 1)
	require.EqualValues(t, 7, result[0].TotalLevel)

	// unowned cards contribute nothing and carry nil levels
	require.Nil(t, result[0].Cards[1].Level)
	require.Nil(t, result[0].Cards[1].EffectiveLevel)
	require.Equal(t, 1, result[0].OwnedCards)
}

func TestRecommendTieBreaksOnTotalLevel(t *testing.T) {
	weak := testDeck(1, 1, 2, 3, 4, 5, 6, 7, 8)
	strong := testDeck(2, 1, 2, 3, 4, 5, 6, 7, 9)

	levels := map[int64]int64{}
	for id := int64(1); id <= 8; id++ {
		levels[id] = 5
	}
	// same coverage for both decks, but card 9 is higher level than 8
	levels[9] = 11
	player := testPlayer(levels)

	result := Recommend(player, []deckstore.Deck{weak, strong}, Options{})
	require.Len(t, result, 2)
	require.Equal(t, result[0].OwnedCards, result[1].OwnedCards)
	require.EqualValues(t, 2, result[0].Deck.ID)
	require.Greater(t, result[0].TotalLevel, result[1].TotalLevel)
}

func TestRecommendRespectsLimit(t *testing.T) {
	player := testPlayer(map[int64]int64{1: 10})

	var decks []deckstore.Deck
	for i := int64(0); i < 10; i++ {
		decks = append(decks, testDeck(i, 1, 2, 3, 4, 5, 6, 7, 8))
	}

	require.Len(t, Recommend(player, decks, Options{}), DefaultLimit)
	require.Len(t, Recommend(player, decks, Options{Limit: 5}), 5)
	require.Len(t, Recommend(player, decks, Options{Limit: 100}), 10)

	// output is sorted non-increasing by (owned, total level)
	result := Recommend(player, decks, Options{Limit: 10})
	for i := 1; i < len(result); i++ {
		prev, cur := result[i-1], result[i]
		require.GreaterOrEqual(t, prev.OwnedCards, cur.OwnedCards)
		if prev.OwnedCards == cur.OwnedCards {
			require.GreaterOrEqual(t, prev.TotalLevel, cur.TotalLevel)
		}
	}
}
