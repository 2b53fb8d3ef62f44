// Package play owns the live quiz sessions of the embedding application.
package play

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/p-n-ai/verse-quiz/internal/corpus"
	"github.com/p-n-ai/verse-quiz/internal/quiz"
)

// ManagerConfig holds dependencies for the session manager.
type ManagerConfig struct {
	Items         []corpus.Item
	Rounds        int       // default quiz.DefaultRounds
	DefaultMode   quiz.Mode // default quiz.ModeTranslation
	UniqueAnswers bool
	Seed          uint64 // 0 seeds every session randomly
	History       quiz.HistorySink
	Store         SessionStore
	Now           func() time.Time
}

// Manager starts sessions and routes player actions to them.
type Manager struct {
	items         []corpus.Item
	rounds        int
	defaultMode   quiz.Mode
	uniqueAnswers bool
	seed          uint64
	started       atomic.Uint64
	history       quiz.HistorySink
	store         SessionStore
	now           func() time.Time
}

// NewManager creates a session manager. It fails when the corpus is too
// small to play.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if len(cfg.Items) < 2 {
		return nil, fmt.Errorf("creating manager with %d items: %w", len(cfg.Items), quiz.ErrCorpusTooSmall)
	}

	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	mode := cfg.DefaultMode
	if mode == "" {
		mode = quiz.ModeTranslation
	}
	history := cfg.History
	if history == nil {
		history = quiz.NopHistory{}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		items:         cfg.Items,
		rounds:        cfg.Rounds,
		defaultMode:   mode,
		uniqueAnswers: cfg.UniqueAnswers,
		seed:          cfg.Seed,
		history:       history,
		store:         store,
		now:           now,
	}, nil
}

// Start begins a session in mode (the default mode when empty).
func (m *Manager) Start(mode quiz.Mode) (string, quiz.View, error) {
	if mode == "" {
		mode = m.defaultMode
	}

	n := m.started.Add(1)
	var rng quiz.RandomSource
	if m.seed != 0 {
		rng = quiz.NewRandomSource(m.seed + n - 1)
	} else {
		rng = quiz.NewRandomSource(0)
	}

	s, err := quiz.NewSession(m.items, quiz.SessionConfig{
		Rounds:        m.rounds,
		Mode:          mode,
		Rand:          rng,
		History:       m.history,
		UniqueAnswers: m.uniqueAnswers,
		Now:           m.now,
	})
	if err != nil {
		return "", quiz.View{}, err
	}

	id, err := m.store.Create(&Entry{Session: s, StartedAt: m.now()})
	if err != nil {
		return "", quiz.View{}, fmt.Errorf("storing session: %w", err)
	}

	slog.Info("quiz session started",
		"session_id", id,
		"mode", mode,
		"rounds", s.TotalRounds(),
	)
	return id, s.Snapshot(), nil
}

// View returns the current snapshot of a session.
func (m *Manager) View(id string) (quiz.View, error) {
	var v quiz.View
	err := m.with(id, func(s *quiz.Session) bool {
		v = s.Snapshot()
		return false
	})
	return v, err
}

// Submit answers the current round. accepted is false when the action was
// ignored (already answered, complete, or not one of the choices).
func (m *Manager) Submit(ctx context.Context, id, choiceID string) (quiz.View, bool, error) {
	return m.act(id, func(s *quiz.Session) bool {
		return s.Submit(ctx, choiceID)
	})
}

// Advance moves an answered session to its next round or completes it.
func (m *Manager) Advance(id string) (quiz.View, bool, error) {
	return m.act(id, func(s *quiz.Session) bool {
		ok := s.Advance()
		if ok && s.State() == quiz.StateComplete {
			slog.Info("quiz session complete", "session_id", id, "score", s.Score(), "rounds", s.TotalRounds())
		}
		return ok
	})
}

// Quit ends a session early, keeping its score.
func (m *Manager) Quit(id string) (quiz.View, bool, error) {
	return m.act(id, func(s *quiz.Session) bool {
		ok := s.Quit()
		if ok {
			slog.Info("quiz session quit", "session_id", id, "score", s.Score(), "round", s.Round())
		}
		return ok
	})
}

// End discards a session.
func (m *Manager) End(id string) error {
	return m.store.Delete(id)
}

// Sweep discards sessions idle for longer than maxIdle and reports how
// many were removed.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	removed := 0
	for _, id := range m.store.IdleSince(m.now().Add(-maxIdle)) {
		if err := m.store.Delete(id); err == nil {
			removed++
		}
	}
	if removed > 0 {
		slog.Info("idle quiz sessions removed", "count", removed)
	}
	return removed
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.store.Len()
}

func (m *Manager) act(id string, fn func(*quiz.Session) bool) (quiz.View, bool, error) {
	var (
		v        quiz.View
		accepted bool
	)
	err := m.with(id, func(s *quiz.Session) bool {
		accepted = fn(s)
		v = s.Snapshot()
		return true
	})
	return v, accepted, err
}

func (m *Manager) with(id string, fn func(*quiz.Session) bool) error {
	e, err := m.store.Get(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if fn(e.Session) {
		e.lastActive = m.now()
	}
	return nil
}
