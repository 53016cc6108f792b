// internal/store/memory.go
//
// In-memory storage for filter sessions.
// A session is a guess history that grows one round at a time while the
// caller plays; each read derives requirements from the current history.
//
// Characteristics:
//   - Sessions keyed by a random UUID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/go-filter/internal/guess"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one player's guess history for a single word length.
type Session struct {
	ID        string        `json:"id"`
	History   guess.History `json:"history"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSession starts an empty session for words of the given length.
func NewSession(wordLength int) (*Session, error) {
	if wordLength <= 0 {
		return nil, fmt.Errorf("%w: word length %d", guess.ErrMalformedHistory, wordLength)
	}
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		History:   guess.History{WordLength: wordLength},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Store defines the persistence interface for sessions.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get returns a copy of the session, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// AddRound appends one round to the session's history atomically. When
	// check is not nil it sees the extended history before it is stored, and
	// an error from it leaves the session unchanged.
	AddRound(ctx context.Context, id string, round []guess.LetterGuess, check func(guess.History) error) (*Session, error)

	// Delete removes a session. Unknown IDs return ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are held.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("store: session without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = clone(s)
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return clone(s), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (m *memory) AddRound(ctx context.Context, id string, round []guess.LetterGuess, check func(guess.History) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	h, err := s.History.WithRound(round)
	if err != nil {
		return nil, err
	}
	if check != nil {
		if err := check(h); err != nil {
			return nil, err
		}
	}
	s.History = h
	s.UpdatedAt = time.Now().UTC()
	return clone(s), nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// clone copies s so callers never share the stored letter slice.
func clone(s *Session) *Session {
	c := *s
	c.History.Letters = append([]guess.LetterGuess(nil), s.History.Letters...)
	return &c
}
