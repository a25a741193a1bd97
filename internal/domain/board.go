package domain

import (
	"fmt"
	"slices"
)

// Board is the deck state manager: it owns every card instance of a session
// and their placement. Mutations build a new card slice and swap it in, so a
// reader never sees a half-applied change. Queries return copies.
type Board struct {
	meanings []CardMeaning
	rng      RNG

	cards []CardInstance
	seq   uint64
	gen   uint64
}

// NewBoard validates deck and returns an empty board. Call Initialize to
// populate it.
func NewBoard(deck Deck, rng RNG) (*Board, error) {
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return &Board{
		meanings: slices.Clone(deck.Cards),
		rng:      rng,
	}, nil
}

// Initialize replaces the board with one unplaced, upright instance per
// meaning record, in table order, each with fresh jitter.
func (b *Board) Initialize() {
	next := make([]CardInstance, len(b.meanings))
	for i, m := range b.meanings {
		next[i] = CardInstance{
			ID:     m.ID,
			Jitter: rollJitter(b.rng),
		}
	}
	b.swap(next)
}

// Shuffle permutes the deck and, per card, redraws reversal (50/50) and
// jitter and returns the card to the deck.
func (b *Board) Shuffle() {
	next := slices.Clone(b.cards)

	// Fisher-Yates.
	for i := len(next) - 1; i > 0; i-- {
		j := b.rng.Intn(i + 1)
		next[i], next[j] = next[j], next[i]
	}

	for i := range next {
		next[i] = CardInstance{
			ID:       next[i].ID,
			Reversed: b.rng.Intn(2) == 1,
			Jitter:   rollJitter(b.rng),
		}
	}
	b.swap(next)
}

// Clear returns every card to the deck. Reversal and jitter are kept.
func (b *Board) Clear() {
	next := slices.Clone(b.cards)
	for i := range next {
		next[i].Position = ""
		next[i].placedSeq = 0
	}
	b.swap(next)
}

// Place assigns the card to position. The card may come from the deck or
// from another position. The label is not checked against any spread.
func (b *Board) Place(cardID int, position string) error {
	if position == "" {
		return ErrEmptyPosition
	}
	i := b.indexOf(cardID)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrCardNotFound, cardID)
	}

	next := slices.Clone(b.cards)
	b.seq++
	next[i].Position = position
	next[i].placedSeq = b.seq
	b.cards = next
	return nil
}

// Card returns the instance with the given id.
func (b *Board) Card(cardID int) (CardInstance, bool) {
	i := b.indexOf(cardID)
	if i < 0 {
		return CardInstance{}, false
	}
	return b.cards[i], true
}

// Cards returns a copy of every instance in deck order.
func (b *Board) Cards() []CardInstance {
	return slices.Clone(b.cards)
}

// Unplaced returns the cards still in the deck, in deck order.
func (b *Board) Unplaced() []CardInstance {
	var out []CardInstance
	for _, c := range b.cards {
		if !c.Placed() {
			out = append(out, c)
		}
	}
	return out
}

// IsUnplaced reports whether the card exists and is still in the deck.
func (b *Board) IsUnplaced(cardID int) bool {
	c, ok := b.Card(cardID)
	return ok && !c.Placed()
}

// PlacedAt returns the cards on position in the order they were dropped.
func (b *Board) PlacedAt(position string) []CardInstance {
	if position == "" {
		return nil
	}
	var out []CardInstance
	for _, c := range b.cards {
		if c.Position == position {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b CardInstance) int {
		switch {
		case a.placedSeq < b.placedSeq:
			return -1
		case a.placedSeq > b.placedSeq:
			return 1
		}
		return 0
	})
	return out
}

// Generation increases on every bulk reset (initialize, shuffle, clear).
func (b *Board) Generation() uint64 { return b.gen }

func (b *Board) swap(next []CardInstance) {
	b.cards = next
	b.gen++
}

func (b *Board) indexOf(cardID int) int {
	for i, c := range b.cards {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

func rollJitter(rng RNG) Jitter {
	return Jitter{
		Angle:   (rng.Float64() - 0.5) * 10,
		OffsetX: (rng.Float64() - 0.5) * 6,
		OffsetY: (rng.Float64() - 0.5) * 6,
	}
}
