// Package authstate keeps the identity state of one page and the listener
// that feeds it from the identity provider.
package authstate

import (
	"sync"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

// State holds the Session of a page. It starts not ready and becomes ready on
// the first applied notification.
type State struct {
	mu      sync.RWMutex
	session model.Session
}

// NewState creates an uninitialized State.
func NewState() *State {
	return &State{}
}

// Session returns the current session.
func (s *State) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Apply records identity and marks the session ready. It reports whether the
// session became ready or the identity changed.
func (s *State) Apply(identity *model.Identity) (model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := !s.session.Ready || !model.SameIdentity(s.session.Identity, identity)
	if identity != nil {
		id := *identity
		identity = &id
	}
	s.session = model.Session{Identity: identity, Ready: true}
	return s.session, changed
}
