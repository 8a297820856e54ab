package session

import (
	"errors"
	"sync"
	"time"

	"github.com/agentroom/agentroom/internal/models"
)

// ErrSessionNotFound is returned when a session id is not in the store.
var ErrSessionNotFound = errors.New("session not found")

// Store is the keyed collection of live sessions. Every mutation runs under
// the write lock as one read-modify-write step; readers get deep copies.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	order    []string // insertion order, for stable enumeration
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*models.Session)}
}

// Update applies fn to the session with the given id, creating it first if
// needed, and returns a copy of the result.
func (s *Store) Update(id, agentID string, fn func(*models.Session)) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = models.NewSession(id, agentID)
		s.sessions[id] = sess
		s.order = append(s.order, id)
	}
	fn(sess)
	return sess.Clone()
}

// Sweep applies fn to every session and returns how many reported a change.
func (s *Store) Sweep(fn func(*models.Session) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, id := range s.order {
		if fn(s.sessions[id]) {
			changed++
		}
	}
	return changed
}

// Get returns a copy of the session with the given id.
func (s *Store) Get(id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// Has reports whether id is in the store.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// All returns copies of every session in insertion order.
func (s *Store) All() []*models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id].Clone())
	}
	return out
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictBefore removes sessions whose last activity is before cutoff and
// returns their ids. Sessions that never recorded activity are kept.
func (s *Store) EvictBefore(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []string
	kept := s.order[:0]
	for _, id := range s.order {
		sess := s.sessions[id]
		if sess.LastActivity != nil && sess.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return evicted
}
