package interaction

import "math"

// EventKind is the phase of a raw pointer or touch event.
type EventKind string

const (
	Press   EventKind = "press"
	Move    EventKind = "move"
	Release EventKind = "release"
)

// HitKind says what lies under the pointer.
type HitKind string

const (
	HitNone       HitKind = "none"
	HitDeckCard   HitKind = "deck_card"
	HitPlacedCard HitKind = "placed_card"
	HitTarget     HitKind = "target"
)

// Hit is the result of the front end's hit test. Position is set for targets
// and for placed cards (which sit inside their target).
type Hit struct {
	Kind     HitKind `json:"kind"`
	CardID   int     `json:"card_id,omitempty"`
	Position string  `json:"position,omitempty"`
}

// InputEvent is one raw input event from the front end.
type InputEvent struct {
	Kind EventKind `json:"kind"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Hit  Hit       `json:"hit"`
}

// Backend turns raw input into controller calls.
type Backend interface {
	Name() string
	Handle(c *Controller, ev InputEvent) Result
}

// Capabilities is what device detection reports about the input hardware.
type Capabilities struct {
	MaxTouchPoints int `json:"max_touch_points"`
}

const (
	BackendFine   = "fine"
	BackendCoarse = "coarse"

	// DefaultTouchSlop is how far a touch must travel, in the front end's
	// units, before it counts as a drag rather than a tap.
	DefaultTouchSlop = 10
)

// DetectBackend picks the backend for a session: coarse when the device
// reports touch points, fine otherwise.
func DetectBackend(caps Capabilities, touchSlop float64) Backend {
	if caps.MaxTouchPoints > 0 {
		return NewCoarseBackend(touchSlop)
	}
	return NewFineBackend()
}

// NewFineBackend handles mouse-like input: any motion after pressing on a
// deck card starts the drag.
func NewFineBackend() Backend {
	return &pointerBackend{name: BackendFine}
}

// NewCoarseBackend handles touch input: the press must travel beyond slop
// before the drag starts, so short presses stay taps.
func NewCoarseBackend(slop float64) Backend {
	if slop < 0 {
		slop = 0
	}
	return &pointerBackend{name: BackendCoarse, slop: slop}
}

type pointerBackend struct {
	name string
	slop float64

	pressed bool
	moved   bool // press left the slop radius
	press   Hit
	ox, oy  float64
}

func (b *pointerBackend) Name() string { return b.name }

func (b *pointerBackend) Handle(c *Controller, ev InputEvent) Result {
	switch ev.Kind {
	case Press:
		b.pressed = true
		b.moved = false
		b.press = ev.Hit
		b.ox, b.oy = ev.X, ev.Y
		return Result{Outcome: OutcomeNone}

	case Move:
		if !b.pressed {
			return Result{Outcome: OutcomeNone}
		}
		if b.beyondSlop(ev) {
			b.moved = true
		}
		if _, dragging := c.Dragging(); !dragging {
			if b.press.Kind != HitDeckCard || !b.travelled(ev) {
				return Result{Outcome: OutcomeNone}
			}
			if err := c.Begin(b.press.CardID); err != nil {
				b.pressed = false
				return Result{Outcome: OutcomeNone, CardID: b.press.CardID, Err: err}
			}
			b.hover(c, ev.Hit)
			return Result{Outcome: OutcomeStarted, CardID: b.press.CardID}
		}
		if b.hover(c, ev.Hit) {
			pos, _ := c.Armed()
			return Result{Outcome: OutcomeArmed, Position: pos}
		}
		return Result{Outcome: OutcomeNone}

	case Release:
		pressed := b.press
		wasPressed := b.pressed
		moved := b.moved || b.beyondSlop(ev)
		b.pressed = false
		b.moved = false
		b.press = Hit{}

		if _, dragging := c.Dragging(); dragging {
			b.hover(c, ev.Hit)
			return c.Release()
		}
		if wasPressed && !moved && pressed.Kind == HitPlacedCard &&
			ev.Hit.Kind == HitPlacedCard && ev.Hit.CardID == pressed.CardID {
			return Result{Outcome: OutcomeSelected, CardID: pressed.CardID, Position: pressed.Position}
		}
		return Result{Outcome: OutcomeNone}
	}
	return Result{Outcome: OutcomeNone}
}

func (b *pointerBackend) travelled(ev InputEvent) bool {
	if b.slop == 0 {
		return true
	}
	return math.Hypot(ev.X-b.ox, ev.Y-b.oy) > b.slop
}

// beyondSlop reports whether ev lies strictly outside the slop radius of
// the press. Unlike travelled, a zero slop still needs some movement.
func (b *pointerBackend) beyondSlop(ev InputEvent) bool {
	return math.Hypot(ev.X-b.ox, ev.Y-b.oy) > b.slop
}

func (b *pointerBackend) hover(c *Controller, h Hit) bool {
	switch h.Kind {
	case HitTarget, HitPlacedCard:
		return c.Hover(h.Position)
	default:
		c.Leave()
		return false
	}
}
