package quiz

import "github.com/p-n-ai/verse-quiz/internal/corpus"

// Mode selects which text of an item is shown as the prompt. Values other
// than ModeOriginal are treated as ModeTranslation for display but are
// otherwise carried through untouched.
type Mode string

const (
	ModeTranslation Mode = "translation"
	ModeOriginal    Mode = "original"
)

// Prompt returns the item's text for this mode, verbatim.
func (m Mode) Prompt(it corpus.Item) string {
	if m == ModeOriginal {
		return it.TextOriginal
	}
	return it.TextTranslated
}

// ChoiceStatus is the per-choice indicator shown once a round is answered.
type ChoiceStatus string

const (
	StatusNeutral   ChoiceStatus = "neutral"
	StatusCorrect   ChoiceStatus = "correct"
	StatusIncorrect ChoiceStatus = "incorrect"
)
