package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/p-n-ai/verse-quiz/internal/quiz"
)

const (
	// DefaultKey is the store key the log lives under.
	DefaultKey = "quran-quiz-history"
	// DefaultMaxEntries is how many of the most recent outcomes are kept.
	DefaultMaxEntries = 200
)

// LogConfig holds dependencies for a Log.
type LogConfig struct {
	Store      Store
	Key        string // default DefaultKey
	MaxEntries int    // default DefaultMaxEntries
}

// Log is a bounded outcome log. Every append reads the stored list, adds
// the entry, keeps the newest MaxEntries and writes the whole list back.
type Log struct {
	store Store
	key   string
	limit int
	mu    sync.Mutex
}

// NewLog creates a log over cfg.Store, defaulting to an in-memory store.
func NewLog(cfg LogConfig) *Log {
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	limit := cfg.MaxEntries
	if limit <= 0 {
		limit = DefaultMaxEntries
	}
	return &Log{
		store: store,
		key:   key,
		limit: limit,
	}
}

// AppendOutcome adds o to the log, evicting the oldest entries beyond the
// cap. A stored list that cannot be decoded is replaced.
func (l *Log) AppendOutcome(ctx context.Context, o quiz.Outcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read(ctx)
	if errors.Is(err, errCorrupt) {
		slog.Warn("history log unreadable, starting over", "key", l.key, "error", err)
		entries = nil
	} else if err != nil {
		return err
	}

	entries = append(entries, o)
	if len(entries) > l.limit {
		entries = entries[len(entries)-l.limit:]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := l.store.Set(ctx, l.key, data); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// Entries returns the retained outcomes, oldest first.
func (l *Log) Entries(ctx context.Context) ([]quiz.Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read(ctx)
}

var errCorrupt = errors.New("history log is corrupt")

func (l *Log) read(ctx context.Context) ([]quiz.Outcome, error) {
	data, err := l.store.Get(ctx, l.key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var entries []quiz.Outcome
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return entries, nil
}

// HealthCheck pings the backing store when it supports it.
func (l *Log) HealthCheck(ctx context.Context) error {
	if hc, ok := l.store.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
