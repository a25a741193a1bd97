package tui

import (
	"math"

	"github.com/randomtoy/tarot-spreads/internal/app"
	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/interaction"
)

// Screen geometry, in terminal cells. The title, tab and status rows come
// first, then the deck label, the deck fan and the zone grid.
const (
	deckLabelRow = 3
	deckTop      = 4
	deckRows     = 3
	zonesTop     = deckTop + deckRows + 1

	cardCell   = 3 // glyph plus gap
	cardGlyph  = 2
	zoneWidth  = 22
	zoneHeight = 6
	zoneLines  = zoneHeight - 2 // title plus stacked cards
)

type rect struct{ x, y, w, h int }

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

type deckSlot struct {
	rect
	card app.DeckCardView
	row  int // row inside the fan, 0 is highest
}

type zoneSlot struct {
	rect
	pos app.PositionView
}

type placedSlot struct {
	rect
	cardID   int
	position string
}

// layout is the geometry of one frame. It is derived from the view and the
// terminal width only, so rendering and hit testing always agree.
type layout struct {
	deck   []deckSlot
	zones  []zoneSlot
	placed []placedSlot
	cols   int
}

func computeLayout(v app.View, width int) layout {
	var l layout

	for i, c := range v.Deck {
		x := i * cardCell
		if x+cardGlyph > width {
			break
		}
		l.deck = append(l.deck, deckSlot{
			rect: rect{x: x, y: deckTop, w: cardGlyph, h: deckRows},
			card: c,
			row:  fanRow(c.Transform),
		})
	}

	l.cols = max(1, width/zoneWidth)
	for i, p := range v.Positions {
		zx := (i % l.cols) * zoneWidth
		zy := zonesTop + (i/l.cols)*zoneHeight
		l.zones = append(l.zones, zoneSlot{rect: rect{x: zx, y: zy, w: zoneWidth, h: zoneHeight}, pos: p})

		for k, c := range visibleStack(p.Cards) {
			l.placed = append(l.placed, placedSlot{
				rect:     rect{x: zx + 1, y: zy + 2 + k, w: zoneWidth - 2, h: 1},
				cardID:   c.ID,
				position: p.Name,
			})
		}
	}
	return l
}

// visibleStack returns the cards that fit in a zone, newest last.
func visibleStack(cards []app.PlacedCardView) []app.PlacedCardView {
	limit := zoneLines - 1
	if len(cards) <= limit {
		return cards
	}
	return cards[len(cards)-limit:]
}

// fanRow maps the fan's vertical offset onto one of the deck rows: cards far
// from the middle of the fan sit higher.
func fanRow(t domain.Transform) int {
	lift := int(math.Round(-t.Y / 4))
	return deckRows - 1 - min(max(lift, 0), deckRows-1)
}

// hitTest reports what lies under cell (x, y).
func (l layout) hitTest(x, y int) interaction.Hit {
	for _, p := range l.placed {
		if p.contains(x, y) {
			return interaction.Hit{Kind: interaction.HitPlacedCard, CardID: p.cardID, Position: p.position}
		}
	}
	for _, z := range l.zones {
		if z.contains(x, y) {
			return interaction.Hit{Kind: interaction.HitTarget, Position: z.pos.Name}
		}
	}
	for _, d := range l.deck {
		if d.contains(x, y) {
			return interaction.Hit{Kind: interaction.HitDeckCard, CardID: d.card.ID}
		}
	}
	return interaction.Hit{Kind: interaction.HitNone}
}
