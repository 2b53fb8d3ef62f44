// Package quiz implements the verse challenge: question generation and the
// fixed-length session state machine.
package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/p-n-ai/verse-quiz/internal/corpus"
)

// DefaultRounds is the session length when none is configured.
const DefaultRounds = 10

// State is a session's position in its lifecycle.
type State int

const (
	StateAwaitingAnswer State = iota
	StateAnswered
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateAnswered:
		return "answered"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// SessionConfig holds dependencies and settings for a session.
type SessionConfig struct {
	Rounds        int          // default 10
	Mode          Mode         // default ModeTranslation
	Rand          RandomSource // default: randomly seeded PCG
	History       HistorySink  // default NopHistory
	UniqueAnswers bool         // never reuse an answer within one session while unused items remain
	Now           func() time.Time
}

// Session drives one player through a fixed number of rounds. It is not
// safe for concurrent use; out-of-state actions are ignored.
type Session struct {
	items   []corpus.Item
	rounds  int
	mode    Mode
	rng     RandomSource
	history HistorySink
	now     func() time.Time

	unique bool
	used   map[string]struct{}

	question Question
	selected string
	answered bool
	correct  bool
	score    int
	round    int
	state    State
}

// NewSession starts a session over items and generates round 0. items is
// shared, not copied, and must not be modified while the session lives.
func NewSession(items []corpus.Item, cfg SessionConfig) (*Session, error) {
	if len(items) < 2 {
		return nil, fmt.Errorf("starting session with %d items: %w", len(items), ErrCorpusTooSmall)
	}

	s := &Session{
		items:   items,
		rounds:  cfg.Rounds,
		mode:    cfg.Mode,
		rng:     cfg.Rand,
		history: cfg.History,
		now:     cfg.Now,
		unique:  cfg.UniqueAnswers,
	}
	if s.rounds <= 0 {
		s.rounds = DefaultRounds
	}
	if s.mode == "" {
		s.mode = ModeTranslation
	}
	if s.rng == nil {
		s.rng = NewRandomSource(0)
	}
	if s.history == nil {
		s.history = NopHistory{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.unique {
		s.used = make(map[string]struct{}, s.rounds)
	}

	if err := s.nextQuestion(); err != nil {
		return nil, err
	}
	return s, nil
}

// Submit records the player's choice for the current round. It reports
// false, changing nothing, unless the session is awaiting an answer and
// choiceID is one of the current choices.
func (s *Session) Submit(ctx context.Context, choiceID string) bool {
	if s.state != StateAwaitingAnswer || !s.hasChoice(choiceID) {
		return false
	}

	s.selected = choiceID
	s.answered = true
	s.correct = choiceID == s.question.Answer.ID
	if s.correct {
		s.score++
	}
	s.state = StateAnswered

	// History is best-effort.
	_ = s.history.AppendOutcome(ctx, NewOutcome(s.now(), s.question.Answer.ID, s.mode, s.correct))

	slog.Debug("round answered",
		"round", s.round,
		"item_id", s.question.Answer.ID,
		"correct", s.correct,
		"score", s.score,
	)
	return true
}

// Advance moves from an answered round to the next one, or completes the
// session after the last round. It reports false when nothing changed.
func (s *Session) Advance() bool {
	if s.state != StateAnswered {
		return false
	}

	if s.round+1 == s.rounds {
		s.state = StateComplete
		slog.Debug("session complete", "score", s.score, "rounds", s.rounds)
		return true
	}

	s.round++
	if err := s.nextQuestion(); err != nil {
		// Unreachable: NewSession guarantees a non-empty corpus.
		s.state = StateComplete
		return true
	}
	return true
}

// Quit ends the session immediately with the score accrued so far.
func (s *Session) Quit() bool {
	if s.state == StateComplete {
		return false
	}
	s.state = StateComplete
	slog.Debug("session quit", "score", s.score, "round", s.round)
	return true
}

func (s *Session) nextQuestion() error {
	q, err := GenerateQuestionExcluding(s.items, s.used, s.rng)
	if err != nil {
		return fmt.Errorf("generating question: %w", err)
	}
	if s.unique {
		s.used[q.Answer.ID] = struct{}{}
	}

	s.question = q
	s.selected = ""
	s.answered = false
	s.correct = false
	s.state = StateAwaitingAnswer
	return nil
}

func (s *Session) hasChoice(id string) bool {
	for _, c := range s.question.Choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// Round returns the zero-based index of the current round.
func (s *Session) Round() int { return s.round }

// TotalRounds returns the session length.
func (s *Session) TotalRounds() int { return s.rounds }

// Mode returns the prompt mode.
func (s *Session) Mode() Mode { return s.mode }

// Current returns the current round's answer item.
func (s *Session) Current() corpus.Item { return s.question.Answer }

// Prompt returns the text shown for the current round.
func (s *Session) Prompt() string { return s.mode.Prompt(s.question.Answer) }

// Choices returns a copy of the current round's choices in display order.
func (s *Session) Choices() []Choice {
	return append([]Choice(nil), s.question.Choices...)
}

// Selected returns the submitted choice id, if the round has been answered.
func (s *Session) Selected() (string, bool) { return s.selected, s.answered }

// Correct reports whether the submitted choice was right, and whether the
// round has been answered at all.
func (s *Session) Correct() (correct, answered bool) { return s.correct, s.answered }

// ChoiceStatus returns the display indicator for a choice: neutral until
// the round is answered, then correct for the answer and incorrect for a
// wrong selection.
func (s *Session) ChoiceStatus(id string) ChoiceStatus {
	if !s.answered {
		return StatusNeutral
	}
	switch id {
	case s.question.Answer.ID:
		return StatusCorrect
	case s.selected:
		return StatusIncorrect
	default:
		return StatusNeutral
	}
}
