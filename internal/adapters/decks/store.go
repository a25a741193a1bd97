package decks

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/randomtoy/tarot-spreads/internal/domain"
)

//go:embed data/*.json
var deckFS embed.FS

// DefaultDeckID is the deck served when none is requested.
const DefaultDeckID = "tarot_rws"

type source struct {
	name string
	file string
}

// sources lists the bundled card-meaning tables. Only the Rider-Waite major
// arcana ships for now.
var sources = map[string]source{
	DefaultDeckID: {name: "Tarot Rider-Waite", file: "data/tarot_rws.json"},
}

// EmbeddedStore serves the card-meaning tables compiled into the binary.
// Tables are parsed and validated once, on first use.
type EmbeddedStore struct {
	once  sync.Once
	decks map[string]domain.Deck
	err   error
}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (s *EmbeddedStore) load() {
	s.decks, s.err = loadDecks(deckFS, sources)
}

func loadDecks(fsys fs.FS, src map[string]source) (map[string]domain.Deck, error) {
	out := make(map[string]domain.Deck, len(src))
	for id, e := range src {
		raw, err := fs.ReadFile(fsys, e.file)
		if err != nil {
			return nil, fmt.Errorf("read deck %s: %w", id, err)
		}
		var cards []domain.CardMeaning
		if err := json.Unmarshal(raw, &cards); err != nil {
			return nil, fmt.Errorf("parse deck %s: %w", id, err)
		}
		deck := domain.Deck{ID: id, Name: e.name, Cards: cards}
		if err := deck.Validate(); err != nil {
			return nil, fmt.Errorf("deck %s: %w", id, err)
		}
		out[id] = deck
	}
	return out, nil
}

func (s *EmbeddedStore) GetDeck(_ context.Context, deckID string) (domain.Deck, error) {
	s.once.Do(s.load)
	if s.err != nil {
		return domain.Deck{}, s.err
	}
	if deckID == "" {
		deckID = DefaultDeckID
	}
	deck, ok := s.decks[deckID]
	if !ok {
		return domain.Deck{}, fmt.Errorf("%w: %s", domain.ErrDeckNotFound, deckID)
	}
	return deck, nil
}

// ListDecks returns the bundled decks sorted by id.
func (s *EmbeddedStore) ListDecks(_ context.Context) ([]domain.DeckInfo, error) {
	s.once.Do(s.load)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.DeckInfo, 0, len(s.decks))
	for _, d := range s.decks {
		out = append(out, domain.DeckInfo{ID: d.ID, Name: d.Name, Cards: len(d.Cards)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
