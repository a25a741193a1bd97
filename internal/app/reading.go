package app

import (
	"context"
	"fmt"
	"time"

	"github.com/randomtoy/tarot-spreads/internal/ports"
)

// ReadingRequest is the application-level input (no HTTP types).
type ReadingRequest struct {
	Question string
	Lang     string
}

// ReadingResponse is the application-level output.
type ReadingResponse struct {
	Spread         string
	DeckID         string
	Cards          []ports.CardInput
	Interpretation ports.InterpretOutput
	Model          string
	LatencyMS      int64
}

// ReadingPlan is a snapshot of the table ready to be interpreted. It holds
// no reference to the session, so Run may be called after the session lock
// is released.
type ReadingPlan struct {
	interpreter ports.Interpreter
	input       ports.InterpretInput
	spreadID    string
	model       string
}

// PrepareReading captures the cards laid on the active spread, in position
// order.
func (s *Session) PrepareReading(req ReadingRequest) (ReadingPlan, error) {
	if s.interpreter == nil {
		return ReadingPlan{}, ErrReadingDisabled
	}

	cards := s.placedCardInputs()
	if len(cards) == 0 {
		return ReadingPlan{}, ErrNoPlacedCards
	}

	return ReadingPlan{
		interpreter: s.interpreter,
		input: ports.InterpretInput{
			DeckID:   s.deck.ID,
			Spread:   s.spread.Label,
			Question: req.Question,
			Lang:     req.Lang,
			Cards:    cards,
		},
		spreadID: string(s.spread.ID),
		model:    s.model,
	}, nil
}

// Run asks the interpreter for the reading.
func (p ReadingPlan) Run(ctx context.Context) (ReadingResponse, error) {
	start := time.Now()
	interpretation, err := p.interpreter.Interpret(ctx, p.input)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return ReadingResponse{}, fmt.Errorf("interpret: %w", err)
	}

	return ReadingResponse{
		Spread:         p.spreadID,
		DeckID:         p.input.DeckID,
		Cards:          p.input.Cards,
		Interpretation: interpretation,
		Model:          interpretationModel(interpretation.Model, p.model),
		LatencyMS:      latency,
	}, nil
}

// Reading prepares and runs a reading in one step.
func (s *Session) Reading(ctx context.Context, req ReadingRequest) (ReadingResponse, error) {
	plan, err := s.PrepareReading(req)
	if err != nil {
		return ReadingResponse{}, err
	}
	return plan.Run(ctx)
}

func (s *Session) placedCardInputs() []ports.CardInput {
	var out []ports.CardInput
	for _, pos := range s.spread.Positions {
		for _, c := range s.board.PlacedAt(pos) {
			m, ok := s.meanings[c.ID]
			if !ok {
				continue
			}
			out = append(out, ports.CardInput{
				Name:        m.Name,
				Position:    pos,
				Orientation: string(c.Orientation()),
				Meaning:     m.Meaning(c.Orientation()),
			})
		}
	}
	return out
}

func interpretationModel(fromLLM, fallback string) string {
	if fromLLM != "" {
		return fromLLM
	}
	return fallback
}
