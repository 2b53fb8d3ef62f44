package quiz

import (
	"errors"
	"fmt"

	"github.com/p-n-ai/verse-quiz/internal/corpus"
)

// DistractorCount is the number of wrong choices offered when the corpus
// is large enough.
const DistractorCount = 3

var (
	// ErrEmptyCorpus is returned when there is nothing to ask about.
	ErrEmptyCorpus = errors.New("corpus is empty")
	// ErrCorpusTooSmall is returned at session start when the corpus cannot
	// yield at least two choices per question.
	ErrCorpusTooSmall = errors.New("corpus has fewer than 2 items")
)

// Choice is one candidate answer shown for a single round.
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Question is one round's answer and its shuffled choices.
type Question struct {
	Answer  corpus.Item
	Choices []Choice
}

// Label renders the human-readable reference of an item, e.g.
// "Al-Ikhlas 112:1".
func Label(it corpus.Item) string {
	return fmt.Sprintf("%s %d:%d", it.SurahName, it.SurahNumber, it.VerseNumber)
}

func choiceOf(it corpus.Item) Choice {
	return Choice{ID: it.ID, Label: Label(it)}
}

// GenerateQuestion picks an answer uniformly from items and up to
// DistractorCount distinct distractors, then shuffles the choices. It
// returns min(DistractorCount+1, len(items)) choices.
func GenerateQuestion(items []corpus.Item, rng RandomSource) (Question, error) {
	return GenerateQuestionExcluding(items, nil, rng)
}

// GenerateQuestionExcluding is GenerateQuestion with the answer drawn from
// items whose ids are not in exclude. When every item is excluded the
// answer is drawn from the full corpus. Distractors ignore exclude.
func GenerateQuestionExcluding(items []corpus.Item, exclude map[string]struct{}, rng RandomSource) (Question, error) {
	if len(items) == 0 {
		return Question{}, ErrEmptyCorpus
	}

	answerIdx := pickAnswer(items, exclude, rng)
	answer := items[answerIdx]

	picked := sampleWithout(rng, len(items), DistractorCount, answerIdx)

	choices := make([]Choice, 0, len(picked)+1)
	choices = append(choices, choiceOf(answer))
	for _, i := range picked {
		choices = append(choices, choiceOf(items[i]))
	}
	shuffle(rng, choices)

	return Question{Answer: answer, Choices: choices}, nil
}

func pickAnswer(items []corpus.Item, exclude map[string]struct{}, rng RandomSource) int {
	if len(exclude) == 0 {
		return rng.IntN(len(items))
	}

	eligible := make([]int, 0, len(items))
	for i, it := range items {
		if _, skip := exclude[it.ID]; !skip {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return rng.IntN(len(items))
	}
	return eligible[rng.IntN(len(eligible))]
}
