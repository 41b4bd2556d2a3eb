package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Card struct {
	ApiID             int64
	Name              string
	MaxLevel          sql.NullInt64
	MaxEvolutionLevel sql.NullInt64
	MaxStarLevel      sql.NullInt64
	IconUrl           string
}

type Deck struct {
	ID        int64
	Mode      string
	AvgElixir sql.NullFloat64
	WinRate   sql.NullFloat64
	AvgCrowns sql.NullFloat64
	CreatedAt int64
}

const createCard = `
INSERT INTO cards (api_id, name, max_level, max_evolution_level, max_star_level, icon_url)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateCard(ctx context.Context, arg Card) error {
	_, err := q.db.ExecContext(ctx, createCard,
		arg.ApiID,
		arg.Name,
		arg.MaxLevel,
		arg.MaxEvolutionLevel,
		arg.MaxStarLevel,
		arg.IconUrl,
	)
	return err
}

const updateCard = `
UPDATE cards
SET name = ?, max_level = ?, max_evolution_level = ?, max_star_level = ?, icon_url = ?
WHERE api_id = ?
`

func (q *Queries) UpdateCard(ctx context.Context, arg Card) error {
	_, err := q.db.ExecContext(ctx, updateCard,
		arg.Name,
		arg.MaxLevel,
		arg.MaxEvolutionLevel,
		arg.MaxStarLevel,
		arg.IconUrl,
		arg.ApiID,
	)
	return err
}

const getCard = `
SELECT api_id, name, max_level, max_evolution_level, max_star_level, icon_url
FROM cards
WHERE api_id = ?
`

func (q *Queries) GetCard(ctx context.Context, apiID int64) (Card, error) {
	row := q.db.QueryRowContext(ctx, getCard, apiID)
	var c Card
	err := row.Scan(&c.ApiID, &c.Name, &c.MaxLevel, &c.MaxEvolutionLevel, &c.MaxStarLevel, &c.IconUrl)
	return c, err
}

const getCardByName = `
SELECT api_id, name, max_level, max_evolution_level, max_star_level, icon_url
FROM cards
WHERE name = ? COLLATE NOCASE
LIMIT 1
`

func (q *Queries) GetCardByName(ctx context.Context, name string) (Card, error) {
	row := q.db.QueryRowContext(ctx, getCardByName, name)
	var c Card
	err := row.Scan(&c.ApiID, &c.Name, &c.MaxLevel, &c.MaxEvolutionLevel, &c.MaxStarLevel, &c.IconUrl)
	return c, err
}

const listCards = `
SELECT api_id, name, max_level, max_evolution_level, max_star_level, icon_url
FROM cards
ORDER BY name
`

func (q *Queries) ListCards(ctx context.Context) ([]Card, error) {
	rows, err := q.db.QueryContext(ctx, listCards)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		var c Card
		err := rows.Scan(&c.ApiID, &c.Name, &c.MaxLevel, &c.MaxEvolutionLevel, &c.MaxStarLevel, &c.IconUrl)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

const createDeck = `
INSERT INTO decks (mode, avg_elixir, win_rate, avg_crowns, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id
`

type CreateDeckParams struct {
	Mode      string
	AvgElixir sql.NullFloat64
	WinRate   sql.NullFloat64
	AvgCrowns sql.NullFloat64
	CreatedAt int64
}

func (q *Queries) CreateDeck(ctx context.Context, arg CreateDeckParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createDeck,
		arg.Mode,
		arg.AvgElixir,
		arg.WinRate,
		arg.AvgCrowns,
		arg.CreatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createDeckCard = `
INSERT INTO deck_cards (deck_id, position, card_api_id)
VALUES (?, ?, ?)
`

type CreateDeckCardParams struct {
	DeckID    int64
	Position  int64
	CardApiID int64
}

func (q *Queries) CreateDeckCard(ctx context.Context, arg CreateDeckCardParams) error {
	_, err := q.db.ExecContext(ctx, createDeckCard, arg.DeckID, arg.Position, arg.CardApiID)
	return err
}

const listDecks = `
SELECT id, mode, avg_elixir, win_rate, avg_crowns, created_at
FROM decks
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListDecks(ctx context.Context) ([]Deck, error) {
	rows, err := q.db.QueryContext(ctx, listDecks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []Deck
	for rows.Next() {
		var d Deck
		err := rows.Scan(&d.ID, &d.Mode, &d.AvgElixir, &d.WinRate, &d.AvgCrowns, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

const listDeckCards = `
SELECT cards.api_id, cards.name, cards.max_level, cards.max_evolution_level, cards.max_star_level, cards.icon_url
FROM deck_cards
JOIN cards ON cards.api_id = deck_cards.card_api_id
WHERE deck_cards.deck_id = ?
ORDER BY deck_cards.position
`

func (q *Queries) ListDeckCards(ctx context.Context, deckID int64) ([]Card, error) {
	rows, err := q.db.QueryContext(ctx, listDeckCards, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []Card
	for rows.Next() {
		var c Card
		err := rows.Scan(&c.ApiID, &c.Name, &c.MaxLevel, &c.MaxEvolutionLevel, &c.MaxStarLevel, &c.IconUrl)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

const countDecks = `SELECT COUNT(*) FROM decks`

func (q *Queries) CountDecks(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countDecks)
	var n int64
	err := row.Scan(&n)
	return n, err
}

const countCards = `SELECT COUNT(*) FROM cards`

func (q *Queries) CountCards(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countCards)
	var n int64
	err := row.Scan(&n)
	return n, err
}

const deleteAllDecks = `DELETE FROM decks`

func (q *Queries) DeleteAllDecks(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllDecks)
	return err
}

const deleteAllDeckCards = `DELETE FROM deck_cards`

func (q *Queries) DeleteAllDeckCards(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllDeckCards)
	return err
}

const deleteAllCards = `DELETE FROM cards`

func (q *Queries) DeleteAllCards(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllCards)
	return err
}
