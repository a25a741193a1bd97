package openrouter

import (
	"fmt"
	"strings"

	"github.com/randomtoy/tarot-spreads/internal/ports"
)

const readingSchema = `{
  "text": "<your interpretation>",
  "style": "neutral",
  "disclaimer": "` + defaultDisclaimer + `"
}`

const correctionPrompt = "That answer was not the JSON object requested. Reply again with ONLY the object, no markdown and no code fences:\n" + readingSchema

var languages = map[string]string{
	"en": "English",
	"pt": "Portuguese",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"ru": "Russian",
	"uk": "Ukrainian",
	"pl": "Polish",
	"ja": "Japanese",
	"zh": "Chinese",
}

// languageName resolves a BCP 47 tag by its primary subtag ("pt-BR" reads
// as Portuguese). Unknown tags are passed through.
func languageName(tag string) string {
	primary, _, _ := strings.Cut(strings.ToLower(tag), "-")
	if name, ok := languages[primary]; ok {
		return name
	}
	return tag
}

func systemPrompt(lang string) string {
	var b strings.Builder
	b.WriteString(`You read tarot spreads that the querent laid out by hand.
Every card lies on a named position of the spread. Read each card through the meaning of its position, then tie the positions together.

Rules:
- Stay neutral and balanced; offer possibilities and reflective questions.
- Never give medical, legal, or financial advice.
- Never predict specific outcomes or disasters, and never command actions.
- A reversed card tempers or turns inward the upright meaning; do not read it as doom.
- If a question is given, address it without guaranteeing anything.
`)
	if lang != "" && languageName(lang) != "English" {
		fmt.Fprintf(&b, "- Respond entirely in %s.\n", languageName(lang))
	}
	b.WriteString("\nReply with ONLY a JSON object of this shape:\n")
	b.WriteString(readingSchema)
	return b.String()
}

// spreadPrompt lists the cards in position order, numbered as laid.
func spreadPrompt(in ports.InterpretInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spread: %s (deck %s)\n\n", in.Spread, in.DeckID)

	for i, card := range in.Cards {
		fmt.Fprintf(&b, "%d. %s: %s (%s)\n", i+1, card.Position, card.Name, card.Orientation)
		if card.Meaning != "" {
			fmt.Fprintf(&b, "   Meaning: %s\n", card.Meaning)
		}
	}
	if in.Question != "" {
		fmt.Fprintf(&b, "\nQuestion: %q\n", in.Question)
	}
	return b.String()
}
