package domain

import "errors"

var (
	ErrCardNotFound      = errors.New("card not found")
	ErrEmptyPosition     = errors.New("position label must not be empty")
	ErrUnknownPosition   = errors.New("position is not part of the active spread")
	ErrSpreadNotFound    = errors.New("spread not found")
	ErrDuplicateSpread   = errors.New("duplicate spread id")
	ErrDuplicatePosition = errors.New("duplicate position in spread")
	ErrEmptySpread       = errors.New("spread has no positions")
	ErrDeckNotFound      = errors.New("deck not found")
	ErrEmptyDeck         = errors.New("deck has no cards")
	ErrDuplicateCard     = errors.New("duplicate card id in deck")
	ErrUpstreamLLM       = errors.New("upstream LLM failure")
	ErrInvalidLLMJSON    = errors.New("LLM returned invalid JSON after retry")
)
