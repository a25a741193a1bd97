package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/interaction"
	"github.com/randomtoy/tarot-spreads/internal/ports"
)

var (
	ErrCardNotPlaced   = errors.New("card is not placed")
	ErrNoPlacedCards   = errors.New("no cards placed in the spread")
	ErrReadingDisabled = errors.New("reading interpretation is not configured")
)

// PlacementMode decides whether drops must name a position of the active
// spread.
type PlacementMode string

const (
	PlacementStrict     PlacementMode = "strict"
	PlacementPermissive PlacementMode = "permissive"
)

// ParsePlacementMode accepts "strict" and "permissive"; empty means strict.
func ParsePlacementMode(s string) (PlacementMode, error) {
	switch PlacementMode(s) {
	case "", PlacementStrict:
		return PlacementStrict, nil
	case PlacementPermissive:
		return PlacementPermissive, nil
	}
	return "", fmt.Errorf("invalid placement mode %q", s)
}

// Options configures a Session.
type Options struct {
	Spread      domain.SpreadID
	Placement   PlacementMode
	Backend     interaction.Backend
	Interpreter ports.Interpreter
	Model       string
	Logger      *slog.Logger
}

// Session is the state container for one user's table: the deck, the active
// spread, the drag in flight and the open detail view. It is not safe for
// concurrent use; callers apply events one at a time.
type Session struct {
	deck     domain.Deck
	meanings map[int]domain.CardMeaning
	catalog  *domain.Catalog
	board    *domain.Board
	drag     *interaction.Controller
	spread   domain.SpreadDefinition
	mode     PlacementMode

	detailID   int
	detailOpen bool

	interpreter ports.Interpreter
	model       string
	logger      *slog.Logger
}

// NewSession builds the board from deck, initializes it once and activates
// the requested spread (the catalog default when empty).
func NewSession(deck domain.Deck, catalog *domain.Catalog, rng domain.RNG, opts Options) (*Session, error) {
	board, err := domain.NewBoard(deck, rng)
	if err != nil {
		return nil, fmt.Errorf("new board: %w", err)
	}
	board.Initialize()

	if opts.Placement == "" {
		opts.Placement = PlacementStrict
	}
	if opts.Backend == nil {
		opts.Backend = interaction.NewFineBackend()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Session{
		deck:        deck,
		meanings:    deck.Index(),
		catalog:     catalog,
		board:       board,
		mode:        opts.Placement,
		interpreter: opts.Interpreter,
		model:       opts.Model,
		logger:      opts.Logger.With("deck", deck.ID),
	}
	if opts.Spread == "" {
		s.spread = catalog.Default()
	} else {
		s.spread = catalog.Resolve(opts.Spread)
	}
	s.drag = interaction.NewController(s, opts.Backend, s.isTarget)
	return s, nil
}

// DeckID returns the id of the card-meaning table in use.
func (s *Session) DeckID() string { return s.deck.ID }

// Backend returns the name of the input backend chosen for the session.
func (s *Session) Backend() string { return s.drag.Backend().Name() }

// Spread returns the active spread.
func (s *Session) Spread() domain.SpreadDefinition { return s.spread }

// Board exposes the deck state for read-only queries.
func (s *Session) Board() *domain.Board { return s.board }

// SelectSpread activates a spread. Unknown ids get the placeholder layout.
// Cards stay where they are; labels missing from the new spread are not
// shown until the next clear or shuffle.
func (s *Session) SelectSpread(id domain.SpreadID) {
	if _, ok := s.catalog.Lookup(id); !ok {
		s.logger.Warn("unknown spread, using placeholder positions", "spread", id)
	}
	s.spread = s.catalog.Resolve(id)
	s.drag.SetTargets(s.isTarget)
}

// Shuffle reshuffles the deck and returns every card to it. An open card
// detail closes since its card is no longer on the table.
func (s *Session) Shuffle() {
	s.board.Shuffle()
	s.CloseDetail()
}

// Clear returns every card to the deck and closes any open card detail.
func (s *Session) Clear() {
	s.board.Clear()
	s.CloseDetail()
}

// IsUnplaced reports whether the card is in the deck.
func (s *Session) IsUnplaced(cardID int) bool { return s.board.IsUnplaced(cardID) }

// Place assigns a card to a position. In strict mode the position must
// belong to the active spread.
func (s *Session) Place(cardID int, position string) error {
	if s.mode == PlacementStrict && position != "" && !s.spread.Has(position) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPosition, position)
	}
	return s.board.Place(cardID, position)
}

// BeginDrag starts dragging a deck card.
func (s *Session) BeginDrag(cardID int) error { return s.drag.Begin(cardID) }

// HoverTarget arms position as the drop target; an empty label disarms.
func (s *Session) HoverTarget(position string) bool {
	if position == "" {
		s.drag.Leave()
		return false
	}
	return s.drag.Hover(position)
}

// LeaveTarget disarms the drop target.
func (s *Session) LeaveTarget() { s.drag.Leave() }

// Drop releases the drag in flight.
func (s *Session) Drop() interaction.Result {
	return s.logResult(s.drag.Release())
}

// HandleInput routes a raw input event through the session's backend. A tap
// on a placed card opens its detail view.
func (s *Session) HandleInput(ev interaction.InputEvent) interaction.Result {
	res := s.logResult(s.drag.Handle(ev))
	if res.Outcome == interaction.OutcomeSelected {
		if err := s.SelectCard(res.CardID); err != nil {
			res.Err = err
		}
	}
	return res
}

// SelectCard opens the detail view for a placed card.
func (s *Session) SelectCard(cardID int) error {
	c, ok := s.board.Card(cardID)
	if !ok {
		return fmt.Errorf("%w: %d", domain.ErrCardNotFound, cardID)
	}
	if !c.Placed() {
		return fmt.Errorf("%w: %d", ErrCardNotPlaced, cardID)
	}
	s.detailID = cardID
	s.detailOpen = true
	return nil
}

// CloseDetail closes the detail view.
func (s *Session) CloseDetail() {
	s.detailOpen = false
	s.detailID = 0
}

func (s *Session) isTarget(position string) bool {
	if position == "" {
		return false
	}
	if s.mode == PlacementPermissive {
		return true
	}
	return s.spread.Has(position)
}

func (s *Session) logResult(res interaction.Result) interaction.Result {
	switch res.Outcome {
	case interaction.OutcomePlaced:
		s.logger.Debug("card placed", "card_id", res.CardID, "position", res.Position)
	case interaction.OutcomeStale:
		s.logger.Debug("stale drop ignored", "card_id", res.CardID, "position", res.Position)
	case interaction.OutcomeRejected:
		s.logger.Info("drop rejected", "card_id", res.CardID, "position", res.Position, "error", res.Err)
	}
	return res
}
