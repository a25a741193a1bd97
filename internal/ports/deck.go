package ports

import (
	"context"

	"github.com/randomtoy/tarot-spreads/internal/domain"
)

// DeckStore provides access to card-meaning tables.
type DeckStore interface {
	GetDeck(ctx context.Context, deckID string) (domain.Deck, error)
	ListDecks(ctx context.Context) ([]domain.DeckInfo, error)
}

// SpreadSource provides the spread layouts offered to the user.
type SpreadSource interface {
	Spreads(ctx context.Context) ([]domain.SpreadDefinition, error)
}
