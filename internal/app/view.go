package app

import (
	"github.com/randomtoy/tarot-spreads/internal/domain"
)

// View is everything a front end needs to draw one frame.
type View struct {
	Spread    SpreadView     `json:"spread"`
	Spreads   []SpreadView   `json:"spreads"`
	Deck      []DeckCardView `json:"deck"`
	Positions []PositionView `json:"positions"`
	Drag      DragView       `json:"drag"`
	Detail    *DetailView    `json:"detail,omitempty"`
	Placement PlacementMode  `json:"placement"`
}

type SpreadView struct {
	ID     domain.SpreadID `json:"id"`
	Label  string          `json:"label"`
	Active bool            `json:"active,omitempty"`
}

// DeckCardView is a face-down card in the deck fan.
type DeckCardView struct {
	ID        int              `json:"id"`
	Transform domain.Transform `json:"transform"`
	Dragging  bool             `json:"dragging,omitempty"`
}

// PositionView is one drop target with its stacked cards.
type PositionView struct {
	Name  string           `json:"name"`
	Armed bool             `json:"armed,omitempty"`
	Cards []PlacedCardView `json:"cards"`
}

type PlacedCardView struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	ImageURL    string             `json:"imageUrl"`
	Orientation domain.Orientation `json:"orientation"`
	Transform   domain.Transform   `json:"transform"`
}

type DragView struct {
	Active  bool   `json:"active"`
	CardID  int    `json:"card_id,omitempty"`
	Armed   string `json:"armed,omitempty"`
	Backend string `json:"backend"`
}

type DetailView struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	ImageURL    string             `json:"imageUrl"`
	Orientation domain.Orientation `json:"orientation"`
	Position    string             `json:"position"`
	Meaning     string             `json:"meaning"`
}

// View renders the current state. Cards whose meaning record is missing are
// left out instead of failing the frame.
func (s *Session) View() View {
	dragID, dragging := s.drag.Dragging()
	armed, _ := s.drag.Armed()

	v := View{
		Spread:    SpreadView{ID: s.spread.ID, Label: s.spread.Label, Active: true},
		Drag:      DragView{Active: dragging, Armed: armed, Backend: s.Backend()},
		Placement: s.mode,
	}
	if dragging {
		v.Drag.CardID = dragID
	}

	for _, d := range s.catalog.List() {
		v.Spreads = append(v.Spreads, SpreadView{ID: d.ID, Label: d.Label, Active: d.ID == s.spread.ID})
	}

	unplaced := s.board.Unplaced()
	v.Deck = make([]DeckCardView, len(unplaced))
	for i, c := range unplaced {
		v.Deck[i] = DeckCardView{
			ID:        c.ID,
			Transform: domain.FanTransform(i, len(unplaced), c.Jitter),
			Dragging:  dragging && c.ID == dragID,
		}
	}

	v.Positions = make([]PositionView, len(s.spread.Positions))
	for i, pos := range s.spread.Positions {
		pv := PositionView{Name: pos, Armed: pos == armed, Cards: []PlacedCardView{}}
		for idx, c := range s.board.PlacedAt(pos) {
			m, ok := s.meanings[c.ID]
			if !ok {
				s.logger.Warn("card meaning missing", "card_id", c.ID)
				continue
			}
			pv.Cards = append(pv.Cards, PlacedCardView{
				ID:          c.ID,
				Name:        m.Name,
				ImageURL:    m.ImageURL,
				Orientation: c.Orientation(),
				Transform:   domain.StackTransform(idx, c.Jitter),
			})
		}
		v.Positions[i] = pv
	}

	v.Detail = s.detail()
	return v
}

func (s *Session) detail() *DetailView {
	if !s.detailOpen {
		return nil
	}
	c, ok := s.board.Card(s.detailID)
	if !ok {
		return nil
	}
	m, ok := s.meanings[c.ID]
	if !ok {
		s.logger.Warn("card meaning missing", "card_id", c.ID)
		return nil
	}
	return &DetailView{
		ID:          c.ID,
		Name:        m.Name,
		ImageURL:    m.ImageURL,
		Orientation: c.Orientation(),
		Position:    c.Position,
		Meaning:     m.Meaning(c.Orientation()),
	}
}
