package http

import (
	"github.com/randomtoy/tarot-spreads/internal/app"
	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/interaction"
)

type CreateSessionRequest struct {
	Deck           string `json:"deck"`
	Spread         string `json:"spread"`
	MaxTouchPoints int    `json:"max_touch_points"`
}

type SelectSpreadRequest struct {
	Spread string `json:"spread"`
}

type DragStartRequest struct {
	CardID *int `json:"card_id"`
}

type HoverRequest struct {
	Position string `json:"position"`
}

type ReadingRequest struct {
	Question string `json:"question"`
	Lang     string `json:"lang"`
}

// SessionResponse is the JSON shape returned by every session endpoint.
type SessionResponse struct {
	SessionID string   `json:"session_id"`
	Deck      string   `json:"deck"`
	View      app.View `json:"view"`
}

// InteractionResponse adds the outcome of a drag or input event.
type InteractionResponse struct {
	SessionResponse
	Outcome  interaction.Outcome `json:"outcome"`
	CardID   int                 `json:"card_id,omitempty"`
	Position string              `json:"position,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type SpreadsResponse struct {
	Spreads []domain.SpreadDefinition `json:"spreads"`
}

type DecksResponse struct {
	Decks []domain.DeckInfo `json:"decks"`
}

type ReadingResponse struct {
	Spread         string             `json:"spread"`
	Deck           string             `json:"deck"`
	Cards          []ReadingCard      `json:"cards"`
	Interpretation InterpretationResp `json:"interpretation"`
	Meta           MetaResp           `json:"meta"`
}

type ReadingCard struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	Orientation string `json:"orientation"`
}

type InterpretationResp struct {
	Style      string `json:"style"`
	Text       string `json:"text"`
	Disclaimer string `json:"disclaimer"`
}

type MetaResp struct {
	Model     string `json:"model"`
	RequestID string `json:"request_id"`
	LatencyMS int64  `json:"latency_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
