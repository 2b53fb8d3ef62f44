package play

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/p-n-ai/verse-quiz/internal/quiz"
)

// ErrSessionNotFound is returned for unknown or ended session ids.
var ErrSessionNotFound = errors.New("session not found")

// Entry is one live session. mu serialises the single player's actions.
type Entry struct {
	ID         string
	Session    *quiz.Session
	StartedAt  time.Time
	lastActive time.Time
	mu         sync.Mutex
}

// SessionStore holds live sessions by id.
type SessionStore interface {
	Create(e *Entry) (string, error)
	Get(id string) (*Entry, error)
	Delete(id string) error
	IdleSince(cutoff time.Time) []string
	Len() int
}

// MemoryStore is an in-memory implementation of SessionStore.
type MemoryStore struct {
	entries map[string]*Entry
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
	}
}

func (s *MemoryStore) Create(e *Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := generateID()
	e.ID = id
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}
	e.lastActive = e.StartedAt
	s.entries[id] = e
	return id, nil
}

func (s *MemoryStore) Get(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.entries, id)
	return nil
}

// IdleSince returns the ids of sessions with no activity after cutoff.
func (s *MemoryStore) IdleSince(cutoff time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, e := range s.entries {
		e.mu.Lock()
		idle := e.lastActive.Before(cutoff)
		e.mu.Unlock()
		if idle {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func generateID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
