package statsroyale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const popularDecksFixture = `
<html><body>
<div class="content-box">
	<a href="clashroyale://copyDeck?deck=26000010;26000014;26000024;27000004;28000001;26000030;26000041;28000008&amp;l=Royals">Copy</a>
	<div class="stat">
		<img src="https://cdn.statsroyale.com/images/elixir.png">
		<div>Avg elixir</div>
		<div>3,4</div>
	</div>
	<div class="stat">
		<img src="https://cdn.statsroyale.com/images/battle.png">
		<div>Win rate</div>
		<div>78,9%</div>
	</div>
	<div class="stat">
		<img src="https://cdn.statsroyale.com/images/crown-blue.png">
		<div>Crowns</div>
		<div>1.3</div>
	</div>
</div>
<div class="content-box">
	<a href="clashroyale://copyDeck?deck=26000000;26000001;26000002;26000003;26000004;26000005;26000006;26000007">Copy</a>
	<div class="stat">
		<img src="https://cdn.statsroyale.com/images/elixir.png">
		<div>Avg elixir</div>
		<div>4.1</div>
	</div>
</div>
<div class="content-box">
	<p>an advertisement box with no deck link</p>
</div>
<div class="content-box">
	<a href="clashroyale://copyDeck?deck=26000000;26000001;26000002">Copy</a>
</div>
</body></html>`

func TestParseDecks(t *testing.T) {
	decks := ParseDecks(popularDecksFixture)
	require.Len(t, decks, 2)

	first := decks[0]
	require.Equal(t, []string{
		"26000010", "26000014", "26000024", "27000004",
		"28000001", "26000030", "26000041", "28000008",
	}, first.CardIDs)
	require.NotNil(t, first.Elixir)
	require.InDelta(t, 3.4, *first.Elixir, 0.0001)
	require.NotNil(t, first.WinRate)
	require.InDelta(t, 78.9, *first.WinRate, 0.0001)
	require.NotNil(t, first.AvgCrowns)
	require.InDelta(t, 1.3, *first.AvgCrowns, 0.0001)

	second := decks[1]
	require.Len(t, second.CardIDs, 8)
	require.NotNil(t, second.Elixir)
	require.InDelta(t, 4.1, *second.Elixir, 0.0001)
	// missing icons degrade to nil without dropping the deck
	require.Nil(t, second.WinRate)
	require.Nil(t, second.AvgCrowns)
}

func TestParseDecksUnparseableStat(t *testing.T) {
	html := `
<div class="content-box">
	<a href="clashroyale://copyDeck?deck=1;2;3;4;5;6;7;8">Copy</a>
	<div class="stat">
		<img src="/images/battle.png">
		<div>Win rate</div>
		<div>n/a</div>
	</div>
</div>`

	decks := ParseDecks(html)
	require.Len(t, decks, 1)
	require.Nil(t, decks[0].WinRate)
}

func TestParseDecksEmptyPage(t *testing.T) {
	require.Empty(t, ParseDecks("<html><body></body></html>"))
	require.Empty(t, ParseDecks(""))
}

func TestParseDecksNoDuplicatePositions(t *testing.T) {
	// trailing separator must not produce an empty ninth token
	html := `
<div class="content-box">
	<a href="clashroyale://copyDeck?deck=1;2;3;4;5;6;7;8;">Copy</a>
</div>`

	decks := ParseDecks(html)
	require.Len(t, decks, 1)
	require.Len(t, decks[0].CardIDs, 8)
}
