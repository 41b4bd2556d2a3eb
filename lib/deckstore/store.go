package deckstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"royalehelper/lib/deckstore/db"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// ErrDeckShape means the card list handed to CreateDeck does not form
// a valid deck: a deck is always exactly 8 distinct cards.
var ErrDeckShape = errors.New("a deck must reference exactly 8 distinct cards")

// ErrUnknownCard means a deck referenced a card the catalog does not
// know; the deck is never partially created.
var ErrUnknownCard = errors.New("deck references a card missing from the catalog")

// Card is one catalog entry, keyed by the game's card id. Level caps
// are nil for cards the upstream catalog doesn't report them for.
type Card struct {
	ApiID             int64
	Name              string
	MaxLevel          *int64
	MaxEvolutionLevel *int64
	MaxStarLevel      *int64
	IconUrl           string
}

// Deck is an ordered set of exactly 8 distinct cards plus the stats
// its source site reported, if any.
type Deck struct {
	ID        int64
	Mode      string
	AvgElixir *float64
	WinRate   *float64
	AvgCrowns *float64
	Cards     []Card
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

// Open opens (or creates) a deck database and applies the schema.
func Open(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = database.Exec(db.Schema)
	if err != nil {
		return nil, err
	}
	return database, nil
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// UpsertCard inserts the card or overwrites the existing record with
// the same api id. Reports whether a new row was created.
func (s Store) UpsertCard(ctx context.Context, card Card) (bool, error) {
	record := cardToRecord(card)

	_, err := s.qry.GetCard(ctx, card.ApiID)
	if errors.Is(err, sql.ErrNoRows) {
		return true, s.qry.CreateCard(ctx, record)
	}
	if err != nil {
		return false, err
	}
	return false, s.qry.UpdateCard(ctx, record)
}

// GetCardByID resolves a card by its external id, nil when unknown.
func (s Store) GetCardByID(ctx context.Context, apiID int64) (*Card, error) {
	record, err := s.qry.GetCard(ctx, apiID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	card := cardFromRecord(record)
	return &card, nil
}

// GetCardByName resolves a card by name, case-insensitively, nil when
// unknown.
func (s Store) GetCardByName(ctx context.Context, name string) (*Card, error) {
	record, err := s.qry.GetCardByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	card := cardFromRecord(record)
	return &card, nil
}

func (s Store) ListCards(ctx context.Context) ([]Card, error) {
	records, err := s.qry.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	cards := make([]Card, len(records))
	for i, r := range records {
		cards[i] = cardFromRecord(r)
	}
	return cards, nil
}

type CreateDeckParams struct {
	Mode      string
	AvgElixir *float64
	WinRate   *float64
	AvgCrowns *float64
	// ordered card ids, positions 0..7
	CardIDs []int64
}

// CreateDeck persists a deck and its 8 ordered card links in a single
// transaction: either the whole deck exists afterwards or none of it.
func (s Store) CreateDeck(ctx context.Context, params CreateDeckParams) (Deck, error) {
	if len(params.CardIDs) != 8 {
		return Deck{}, ErrDeckShape
	}
	seen := make(map[int64]struct{}, 8)
	for _, id := range params.CardIDs {
		if _, dup := seen[id]; dup {
			return Deck{}, ErrDeckShape
		}
		seen[id] = struct{}{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Deck{}, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	cards := make([]Card, 0, 8)
	for _, id := range params.CardIDs {
		record, err := txqry.GetCard(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return Deck{}, fmt.Errorf("%w: card %d", ErrUnknownCard, id)
		}
		if err != nil {
			return Deck{}, err
		}
		cards = append(cards, cardFromRecord(record))
	}

	deckID, err := txqry.CreateDeck(ctx, db.CreateDeckParams{
		Mode:      params.Mode,
		AvgElixir: nullFloat(params.AvgElixir),
		WinRate:   nullFloat(params.WinRate),
		AvgCrowns: nullFloat(params.AvgCrowns),
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		return Deck{}, err
	}

	for position, id := range params.CardIDs {
		err := txqry.CreateDeckCard(ctx, db.CreateDeckCardParams{
			DeckID:    deckID,
			Position:  int64(position),
			CardApiID: id,
		})
		if err != nil {
			return Deck{}, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return Deck{}, err
	}

	return Deck{
		ID:        deckID,
		Mode:      params.Mode,
		AvgElixir: params.AvgElixir,
		WinRate:   params.WinRate,
		AvgCrowns: params.AvgCrowns,
		Cards:     cards,
	}, nil
}

// ListDecks returns every stored deck with its cards in position
// order.
func (s Store) ListDecks(ctx context.Context) ([]Deck, error) {
	records, err := s.qry.ListDecks(ctx)
	if err != nil {
		return nil, err
	}

	var decks []Deck
	for _, record := range records {
		cardRecords, err := s.qry.ListDeckCards(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		cards := make([]Card, len(cardRecords))
		for i, r := range cardRecords {
			cards[i] = cardFromRecord(r)
		}

		decks = append(decks, Deck{
			ID:        record.ID,
			Mode:      record.Mode,
			AvgElixir: floatPtr(record.AvgElixir),
			WinRate:   floatPtr(record.WinRate),
			AvgCrowns: floatPtr(record.AvgCrowns),
			Cards:     cards,
		})
	}
	return decks, nil
}

func (s Store) CountDecks(ctx context.Context) (int64, error) {
	return s.qry.CountDecks(ctx)
}

func (s Store) CountCards(ctx context.Context) (int64, error) {
	return s.qry.CountCards(ctx)
}

// DeleteAll clears decks and cards, deck links first.
func (s Store) DeleteAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.DeleteAllDeckCards(ctx)
	if err != nil {
		return err
	}
	err = txqry.DeleteAllDecks(ctx)
	if err != nil {
		return err
	}
	err = txqry.DeleteAllCards(ctx)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteAllDecks clears decks but keeps the card catalog.
func (s Store) DeleteAllDecks(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.DeleteAllDeckCards(ctx)
	if err != nil {
		return err
	}
	err = txqry.DeleteAllDecks(ctx)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func cardToRecord(card Card) db.Card {
	return db.Card{
		ApiID:             card.ApiID,
		Name:              card.Name,
		MaxLevel:          nullInt(card.MaxLevel),
		MaxEvolutionLevel: nullInt(card.MaxEvolutionLevel),
		MaxStarLevel:      nullInt(card.MaxStarLevel),
		IconUrl:           card.IconUrl,
	}
}

func cardFromRecord(record db.Card) Card {
	return Card{
		ApiID:             record.ApiID,
		Name:              record.Name,
		MaxLevel:          intPtr(record.MaxLevel),
		MaxEvolutionLevel: intPtr(record.MaxEvolutionLevel),
		MaxStarLevel:      intPtr(record.MaxStarLevel),
		IconUrl:           record.IconUrl,
	}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
