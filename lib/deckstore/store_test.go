package deckstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"royalehelper/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) Store {
	t.Helper()

	cleanup := telemetry.SetupForTesting("test:deckstore")
	t.Cleanup(cleanup)

	database, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return NewStore(database)
}

func seedCards(t *testing.T, store Store, ids ...int64) {
	t.Helper()
	maxLevel := int64(14)
	for _, id := range ids {
		_, err := store.UpsertCard(context.Background(), Card{
			ApiID:    id,
			Name:     fmt.Sprintf("Card %d", id),
			MaxLevel: &maxLevel,
		})
		require.NoError(t, err)
	}
}

func TestUpsertCard(t *testing.T) {
	store := setupStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	maxLevel := int64(9)
	created, err := store.UpsertCard(ctx, Card{
		ApiID:    26000000,
		Name:     "Knight",
		MaxLevel: &maxLevel,
		IconUrl:  "https://example.com/knight.png",
	})
	require.NoError(t, err)
	require.True(t, created)

	// re-import overwrites by id, never duplicates
	newMax := int64(14)
	created, err = store.UpsertCard(ctx, Card{
		ApiID:    26000000,
		Name:     "Knight",
		MaxLevel: &newMax,
	})
	require.NoError(t, err)
	require.False(t, created)

	count, err := store.CountCards(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	card, err := store.GetCardByID(ctx, 26000000)
	require.NoError(t, err)
	require.NotNil(t, card)
	require.NotNil(t, card.MaxLevel)
	require.EqualValues(t, 14, *card.MaxLevel)
}

func TestGetCardByNameCaseInsensitive(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	_, err := store.UpsertCard(ctx, Card{ApiID: 1, Name: "Goblin Barrel"})
	require.NoError(t, err)

	card, err := store.GetCardByName(ctx, "goblin barrel")
	require.NoError(t, err)
	require.NotNil(t, card)
	require.EqualValues(t, 1, card.ApiID)

	missing, err := store.GetCardByName(ctx, "not a card")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestCreateDeck(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	seedCards(t, store, 1, 2, 3, 4, 5, 6, 7, 8)

	elixir := 3.4
	winRate := 78.9
	deck, err := store.CreateDeck(ctx, CreateDeckParams{
		Mode:      "path-of-legends",
		AvgElixir: &elixir,
		WinRate:   &winRate,
		CardIDs:   []int64{1, 2, 3, 4, 5, 6, 7, 8},
	})
	require.NoError(t, err)
	require.Len(t, deck.Cards, 8)

	decks, err := store.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)

	stored := decks[0]
	require.Equal(t, "path-of-legends", stored.Mode)
	require.NotNil(t, stored.AvgElixir)
	require.InDelta(t, 3.4, *stored.AvgElixir, 0.0001)
	require.NotNil(t, stored.WinRate)
	require.Nil(t, stored.AvgCrowns)

	// cards come back in position order
	require.Len(t, stored.Cards, 8)
	for i, card := range stored.Cards {
		require.EqualValues(t, i+1, card.ApiID)
	}
}

func TestCreateDeckRejectsBadShape(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	seedCards(t, store, 1, 2, 3, 4, 5, 6, 7, 8)

	_, err := store.CreateDeck(ctx, CreateDeckParams{
		CardIDs: []int64{1, 2, 3},
	})
	require.ErrorIs(t, err, ErrDeckShape)

	_, err = store.CreateDeck(ctx, CreateDeckParams{
		CardIDs: []int64{1, 2, 3, 4, 5, 6, 7, 1},
	})
	require.ErrorIs(t, err, ErrDeckShape)
}

func TestCreateDeckIsAtomic(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	seedCards(t, store, 1, 2, 3, 4, 5, 6, 7)

	// card 99 is unknown: nothing may be created
	_, err := store.CreateDeck(ctx, CreateDeckParams{
		CardIDs: []int64{1, 2, 3, 4, 5, 6, 7, 99},
	})
	require.ErrorIs(t, err, ErrUnknownCard)

	count, err := store.CountDecks(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestDeleteAll(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	seedCards(t, store, 1, 2, 3, 4, 5, 6, 7, 8)
	_, err := store.CreateDeck(ctx, CreateDeckParams{
		CardIDs: []int64{1, 2, 3, 4, 5, 6, 7, 8},
	})
	require.NoError(t, err)

	err = store.DeleteAllDecks(ctx)
	require.NoError(t, err)
	deckCount, err := store.CountDecks(ctx)
	require.NoError(t, err)
	require.Zero(t, deckCount)
	cardCount, err := store.CountCards(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 8, cardCount)

	err = store.DeleteAll(ctx)
	require.NoError(t, err)
	cardCount, err = store.CountCards(ctx)
	require.NoError(t, err)
	require.Zero(t, cardCount)
}
