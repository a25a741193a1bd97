package decks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/randomtoy/tarot-spreads/internal/adapters/decks"
	"github.com/randomtoy/tarot-spreads/internal/domain"
)

func TestEmbeddedStore_TarotRWS(t *testing.T) {
	s := decks.NewEmbeddedStore()

	deck, err := s.GetDeck(context.Background(), "tarot_rws")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deck.Cards) != 22 {
		t.Fatalf("expected 22 cards, got %d", len(deck.Cards))
	}
	if deck.Name != "Tarot Rider-Waite" {
		t.Errorf("unexpected deck name: %s", deck.Name)
	}

	seen := make(map[int]bool)
	for _, c := range deck.Cards {
		if seen[c.ID] {
			t.Errorf("duplicate card ID: %d", c.ID)
		}
		seen[c.ID] = true
		if c.Name == "" || c.Upright == "" || c.Reversed == "" || c.ImageURL == "" {
			t.Errorf("card %d has empty fields: %+v", c.ID, c)
		}
	}
	if deck.Cards[0].Name != "O Louco" {
		t.Errorf("expected O Louco first, got %s", deck.Cards[0].Name)
	}
}

func TestEmbeddedStore_DefaultDeck(t *testing.T) {
	deck, err := decks.NewEmbeddedStore().GetDeck(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deck.ID != decks.DefaultDeckID {
		t.Errorf("expected %s, got %s", decks.DefaultDeckID, deck.ID)
	}
}

func TestEmbeddedStore_NotFound(t *testing.T) {
	_, err := decks.NewEmbeddedStore().GetDeck(context.Background(), "marseille")
	if !errors.Is(err, domain.ErrDeckNotFound) {
		t.Errorf("expected ErrDeckNotFound, got %v", err)
	}
}

func TestEmbeddedStore_ListDecks(t *testing.T) {
	list, err := decks.NewEmbeddedStore().ListDecks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.DeckInfo{{ID: "tarot_rws", Name: "Tarot Rider-Waite", Cards: 22}}
	if len(list) != 1 || list[0] != want[0] {
		t.Errorf("unexpected decks: %+v", list)
	}
}
