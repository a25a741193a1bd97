package domain

import "fmt"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// Orientation represents the orientation of a card on the table.
type Orientation string

const (
	Upright  Orientation = "upright"
	Reversed Orientation = "reversed"
)

// CardMeaning is one record of the static card-meaning table.
type CardMeaning struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Upright  string `json:"uprightMeaning"`
	Reversed string `json:"reversedMeaning"`
}

// Meaning returns the text for the given orientation.
func (m CardMeaning) Meaning(o Orientation) string {
	if o == Reversed {
		return m.Reversed
	}
	return m.Upright
}

// Deck is a named card-meaning table.
type Deck struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Cards []CardMeaning `json:"cards"`
}

// Validate checks the deck has cards and that card ids are unique.
func (d Deck) Validate() error {
	if len(d.Cards) == 0 {
		return ErrEmptyDeck
	}
	seen := make(map[int]bool, len(d.Cards))
	for _, c := range d.Cards {
		if seen[c.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateCard, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// DeckInfo summarizes a deck for listings.
type DeckInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Cards int    `json:"cards"`
}

// Index returns the deck's meanings keyed by card id.
func (d Deck) Index() map[int]CardMeaning {
	idx := make(map[int]CardMeaning, len(d.Cards))
	for _, c := range d.Cards {
		idx[c.ID] = c
	}
	return idx
}

// Jitter is the per-card visual scatter used to fan the deck. It is rolled
// on initialize and shuffle only.
type Jitter struct {
	Angle   float64 `json:"angle"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// CardInstance is one physical card in the current session.
type CardInstance struct {
	ID       int    `json:"id"`
	Position string `json:"position,omitempty"` // empty while in the deck
	Reversed bool   `json:"isReversed"`
	Jitter   Jitter `json:"jitter"`

	placedSeq uint64
}

// Placed reports whether the card occupies a spread position.
func (c CardInstance) Placed() bool { return c.Position != "" }

// Orientation maps the reversal flag to an Orientation.
func (c CardInstance) Orientation() Orientation {
	if c.Reversed {
		return Reversed
	}
	return Upright
}

// SpreadID identifies a spread layout.
type SpreadID string

const (
	SpreadDaily        SpreadID = "daily"
	SpreadCross        SpreadID = "cross"
	SpreadCeltic       SpreadID = "celtic"
	SpreadRelationship SpreadID = "relationship"
)

// SpreadDefinition is an immutable spread layout. Position names are unique
// within a spread and are the only link between a placed card and its slot.
type SpreadDefinition struct {
	ID        SpreadID `json:"id" yaml:"id"`
	Label     string   `json:"label" yaml:"label"`
	Positions []string `json:"positions" yaml:"positions"`
}

// Has reports whether position is one of the spread's slots.
func (s SpreadDefinition) Has(position string) bool {
	for _, p := range s.Positions {
		if p == position {
			return true
		}
	}
	return false
}
