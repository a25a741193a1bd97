package ports

import "context"

// InterpretInput holds everything the LLM needs to read a laid-out spread.
type InterpretInput struct {
	DeckID   string
	Spread   string
	Question string
	Lang     string
	Cards    []CardInput
}

// CardInput is a simplified placed card for the LLM prompt.
type CardInput struct {
	Name        string
	Position    string
	Orientation string
	Meaning     string
}

// InterpretOutput is the structured interpretation returned by the LLM.
type InterpretOutput struct {
	Text       string `json:"text"`
	Style      string `json:"style"`
	Disclaimer string `json:"disclaimer"`
	Model      string `json:"-"`
}

// Interpreter generates a reading of a spread via an LLM.
type Interpreter interface {
	Interpret(ctx context.Context, in InterpretInput) (InterpretOutput, error)
}
