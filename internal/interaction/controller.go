// Package interaction mediates drag and drop between the deck and the spread
// positions. It carries transient gesture state only; card placement lives
// in the deck state.
package interaction

import (
	"errors"
	"fmt"
)

var (
	ErrNotDraggable = errors.New("card is not in the deck")
	ErrNotDragging  = errors.New("no drag in progress")
)

// Placer is the slice of deck state the controller needs.
type Placer interface {
	IsUnplaced(cardID int) bool
	Place(cardID int, position string) error
}

// Outcome describes how an input event or release ended.
type Outcome string

const (
	OutcomeNone      Outcome = "none"
	OutcomeStarted   Outcome = "started"
	OutcomeArmed     Outcome = "armed"
	OutcomePlaced    Outcome = "placed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeStale     Outcome = "stale"
	OutcomeRejected  Outcome = "rejected"
	OutcomeSelected  Outcome = "selected"
)

// Result reports what a release or routed input event did.
type Result struct {
	Outcome  Outcome
	CardID   int
	Position string
	Err      error
}

// Controller owns one drag session at a time: the card being dragged and the
// drop target currently armed.
type Controller struct {
	placer  Placer
	backend Backend
	targets func(position string) bool

	dragging bool
	cardID   int
	armed    string
}

// NewController wires a controller to the deck state and an input backend.
// targets decides which labels are drop targets; nil accepts any non-empty
// label.
func NewController(p Placer, b Backend, targets func(string) bool) *Controller {
	if targets == nil {
		targets = func(pos string) bool { return pos != "" }
	}
	return &Controller{placer: p, backend: b, targets: targets}
}

// Backend returns the input backend chosen for this controller.
func (c *Controller) Backend() Backend { return c.backend }

// SetTargets replaces the drop-target predicate, e.g. after the active
// spread changes. An armed target that no longer qualifies is disarmed.
func (c *Controller) SetTargets(targets func(string) bool) {
	if targets == nil {
		targets = func(pos string) bool { return pos != "" }
	}
	c.targets = targets
	if c.armed != "" && !targets(c.armed) {
		c.armed = ""
	}
}

// Begin starts dragging cardID. The card must be in the deck. Beginning a new
// drag drops any previous one.
func (c *Controller) Begin(cardID int) error {
	if !c.placer.IsUnplaced(cardID) {
		return fmt.Errorf("%w: %d", ErrNotDraggable, cardID)
	}
	c.dragging = true
	c.cardID = cardID
	c.armed = ""
	return nil
}

// Hover arms position if it is a drop target and disarms otherwise. It
// reports whether a target is armed afterwards.
func (c *Controller) Hover(position string) bool {
	if !c.dragging {
		return false
	}
	if !c.targets(position) {
		c.armed = ""
		return false
	}
	c.armed = position
	return true
}

// Leave disarms the current target.
func (c *Controller) Leave() {
	c.armed = ""
}

// Release ends the drag. Over an armed target the card is re-resolved by id
// and placed; a card that left the deck mid-gesture makes the drop a no-op.
// Without an armed target the drag is cancelled.
func (c *Controller) Release() Result {
	if !c.dragging {
		return Result{Outcome: OutcomeNone, Err: ErrNotDragging}
	}
	cardID, position := c.cardID, c.armed
	c.reset()

	if position == "" {
		return Result{Outcome: OutcomeCancelled, CardID: cardID}
	}
	if !c.placer.IsUnplaced(cardID) {
		return Result{Outcome: OutcomeStale, CardID: cardID, Position: position}
	}
	if err := c.placer.Place(cardID, position); err != nil {
		return Result{Outcome: OutcomeRejected, CardID: cardID, Position: position, Err: err}
	}
	return Result{Outcome: OutcomePlaced, CardID: cardID, Position: position}
}

// Handle routes a raw input event through the backend.
func (c *Controller) Handle(ev InputEvent) Result {
	return c.backend.Handle(c, ev)
}

// Dragging returns the card being dragged.
func (c *Controller) Dragging() (int, bool) {
	return c.cardID, c.dragging
}

// Armed returns the armed drop target.
func (c *Controller) Armed() (string, bool) {
	return c.armed, c.armed != ""
}

func (c *Controller) reset() {
	c.dragging = false
	c.cardID = 0
	c.armed = ""
}
