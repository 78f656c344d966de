package session

import (
	"sync"

	"github.com/bankdesk/bankdesk/internal/domain"
)

// Store is the in-process implementation of domain.SessionStore. It is a
// pure holder: no validation happens here. Reads are process-wide and
// concurrent; writes come only from the gateway's unauthenticated handler
// and explicit logout.
type Store struct {
	mu      sync.RWMutex
	session domain.Session
	present bool
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Save replaces the held session.
func (s *Store) Save(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.present = true
}

// Clear drops the held session. Clearing an empty store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = domain.Session{}
	s.present = false
}

// Current returns the held session and whether one is present.
func (s *Store) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.present
}

// HasToken reports whether a non-empty credential token is held.
func (s *Store) HasToken() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.present && s.session.Token != ""
}
