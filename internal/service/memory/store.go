package memory

import (
	"sync"
	"time"

	"github.com/rafamelo/econochat/backend/internal/model/chat"
)

// Store keeps the bounded recent-turn history per session key. Session keys
// are caller-supplied and untrusted; they are used for lookup only.
type Store interface {
	Append(sessionID string, role chat.Role, content string) error
	History(sessionID string) ([]chat.Turn, error)
	Clear(sessionID string) error
	Close() error
}

type session struct {
	turns    []chat.Turn
	lastSeen time.Time
}

// InMemoryStore holds histories in RAM. Histories are trimmed FIFO to
// maxTurns, and the session map itself is capped at maxSessions with
// least-recently-touched eviction so churning unique session ids cannot
// grow memory without bound.
type InMemoryStore struct {
	mu          sync.RWMutex
	maxTurns    int
	maxSessions int
	sessions    map[string]*session
}

// NewInMemoryStore returns an empty store with the given bounds.
func NewInMemoryStore(maxTurns, maxSessions int) *InMemoryStore {
	return &InMemoryStore{
		maxTurns:    maxTurns,
		maxSessions: maxSessions,
		sessions:    make(map[string]*session),
	}
}

// Append adds a turn, creating the session on first use and dropping the
// oldest turns once the cap is exceeded.
func (s *InMemoryStore) Append(sessionID string, role chat.Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		if len(s.sessions) >= s.maxSessions {
			s.evictStalest()
		}
		sess = &session{turns: make([]chat.Turn, 0, s.maxTurns)}
		s.sessions[sessionID] = sess
	}

	sess.turns = append(sess.turns, chat.Turn{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if len(sess.turns) > s.maxTurns {
		sess.turns = append(sess.turns[:0:0], sess.turns[len(sess.turns)-s.maxTurns:]...)
	}
	sess.lastSeen = time.Now().UTC()

	return nil
}

// History returns a copy of the ordered turns, empty for unseen sessions.
func (s *InMemoryStore) History(sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}

	copied := make([]chat.Turn, len(sess.turns))
	copy(copied, sess.turns)
	return copied, nil
}

// Clear removes the whole history of a session.
func (s *InMemoryStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Close drops all sessions.
func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*session)
	return nil
}

// evictStalest removes the session untouched for the longest time.
// Caller must hold the write lock.
func (s *InMemoryStore) evictStalest() {
	var victim string
	var oldest time.Time
	for id, sess := range s.sessions {
		if victim == "" || sess.lastSeen.Before(oldest) {
			victim = id
			oldest = sess.lastSeen
		}
	}
	if victim != "" {
		delete(s.sessions, victim)
	}
}
