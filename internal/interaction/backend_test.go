package interaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randomtoy/tarot-spreads/internal/interaction"
)

func deckHit(id int) interaction.Hit {
	return interaction.Hit{Kind: interaction.HitDeckCard, CardID: id}
}

func targetHit(pos string) interaction.Hit {
	return interaction.Hit{Kind: interaction.HitTarget, Position: pos}
}

func ev(kind interaction.EventKind, x, y float64, h interaction.Hit) interaction.InputEvent {
	return interaction.InputEvent{Kind: kind, X: x, Y: y, Hit: h}
}

func TestDetectBackend(t *testing.T) {
	assert.Equal(t, interaction.BackendFine, interaction.DetectBackend(interaction.Capabilities{}, 10).Name())
	assert.Equal(t, interaction.BackendCoarse, interaction.DetectBackend(interaction.Capabilities{MaxTouchPoints: 5}, 10).Name())
}

func TestFineBackend_PressMoveRelease(t *testing.T) {
	p := newFakePlacer(3)
	c := interaction.NewController(p, interaction.NewFineBackend(), dailyTargets)

	assert.Equal(t, interaction.OutcomeNone, c.Handle(ev(interaction.Press, 0, 0, deckHit(3))).Outcome)
	assert.Equal(t, interaction.OutcomeStarted, c.Handle(ev(interaction.Move, 1, 0, deckHit(3))).Outcome)
	assert.Equal(t, interaction.OutcomeArmed, c.Handle(ev(interaction.Move, 40, 10, targetHit("Conselho"))).Outcome)

	res := c.Handle(ev(interaction.Release, 40, 10, targetHit("Conselho")))
	assert.Equal(t, interaction.OutcomePlaced, res.Outcome)
	assert.Equal(t, "Conselho", p.placed[3])
}

func TestFineBackend_ReleaseOutsideCancels(t *testing.T) {
	p := newFakePlacer(3)
	c := interaction.NewController(p, interaction.NewFineBackend(), dailyTargets)

	c.Handle(ev(interaction.Press, 0, 0, deckHit(3)))
	c.Handle(ev(interaction.Move, 5, 0, targetHit("Desafio")))
	res := c.Handle(ev(interaction.Release, 90, 90, interaction.Hit{Kind: interaction.HitNone}))

	assert.Equal(t, interaction.OutcomeCancelled, res.Outcome)
	assert.Empty(t, p.placed)
}

func TestFineBackend_MoveWithoutPressIgnored(t *testing.T) {
	c := interaction.NewController(newFakePlacer(3), interaction.NewFineBackend(), dailyTargets)
	res := c.Handle(ev(interaction.Move, 5, 5, deckHit(3)))
	assert.Equal(t, interaction.OutcomeNone, res.Outcome)
	_, dragging := c.Dragging()
	assert.False(t, dragging)
}

func TestCoarseBackend_SlopSeparatesTapFromDrag(t *testing.T) {
	p := newFakePlacer(3)
	c := interaction.NewController(p, interaction.NewCoarseBackend(10), dailyTargets)

	c.Handle(ev(interaction.Press, 0, 0, deckHit(3)))
	assert.Equal(t, interaction.OutcomeNone, c.Handle(ev(interaction.Move, 3, 4, deckHit(3))).Outcome)
	_, dragging := c.Dragging()
	assert.False(t, dragging, "travel within slop must not start a drag")

	assert.Equal(t, interaction.OutcomeStarted, c.Handle(ev(interaction.Move, 30, 0, targetHit("Desafio"))).Outcome)
	armed, _ := c.Armed()
	assert.Equal(t, "Desafio", armed)

	res := c.Handle(ev(interaction.Release, 30, 0, targetHit("Desafio")))
	assert.Equal(t, interaction.OutcomePlaced, res.Outcome)
}

func TestCoarseBackend_SlideAcrossPlacedCardIsNotTap(t *testing.T) {
	c := interaction.NewController(newFakePlacer(), interaction.NewCoarseBackend(10), dailyTargets)
	placed := interaction.Hit{Kind: interaction.HitPlacedCard, CardID: 7, Position: "Desafio"}

	c.Handle(ev(interaction.Press, 1, 1, placed))
	c.Handle(ev(interaction.Move, 15, 1, placed))
	res := c.Handle(ev(interaction.Release, 15, 1, placed))
	assert.Equal(t, interaction.OutcomeNone, res.Outcome)

	// Wobble inside the slop is still a tap.
	c.Handle(ev(interaction.Press, 1, 1, placed))
	c.Handle(ev(interaction.Move, 4, 5, placed))
	res = c.Handle(ev(interaction.Release, 4, 5, placed))
	assert.Equal(t, interaction.OutcomeSelected, res.Outcome)

	// Travel seen only at release also rules out a tap.
	c.Handle(ev(interaction.Press, 1, 1, placed))
	res = c.Handle(ev(interaction.Release, 40, 1, placed))
	assert.Equal(t, interaction.OutcomeNone, res.Outcome)
}

func TestBackends_TapSelectsPlacedCard(t *testing.T) {
	for _, b := range []interaction.Backend{interaction.NewFineBackend(), interaction.NewCoarseBackend(10)} {
		t.Run(b.Name(), func(t *testing.T) {
			c := interaction.NewController(newFakePlacer(), b, dailyTargets)
			placed := interaction.Hit{Kind: interaction.HitPlacedCard, CardID: 7, Position: "Desafio"}

			c.Handle(ev(interaction.Press, 1, 1, placed))
			res := c.Handle(ev(interaction.Release, 1, 1, placed))
			assert.Equal(t, interaction.OutcomeSelected, res.Outcome)
			assert.Equal(t, 7, res.CardID)
		})
	}
}

func TestBackend_DragOfStaleCardDoesNotStart(t *testing.T) {
	p := newFakePlacer()
	c := interaction.NewController(p, interaction.NewFineBackend(), dailyTargets)

	c.Handle(ev(interaction.Press, 0, 0, deckHit(9)))
	res := c.Handle(ev(interaction.Move, 5, 0, deckHit(9)))
	assert.Equal(t, interaction.OutcomeNone, res.Outcome)
	assert.ErrorIs(t, res.Err, interaction.ErrNotDraggable)

	res = c.Handle(ev(interaction.Release, 5, 0, targetHit("Desafio")))
	assert.Equal(t, interaction.OutcomeNone, res.Outcome)
}
