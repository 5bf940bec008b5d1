package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// ErrSessionNotFound is returned when no session exists for the given ID.
var ErrSessionNotFound = goerr.New("session not found")

type sessionStore struct {
	mu       sync.Mutex
	sessions map[types.SessionID]*model.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[types.SessionID]*model.Session),
	}
}

func (s *sessionStore) Put(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	return nil
}

// Read runs fn against the session while holding the store lock. The session
// pointer is only valid inside fn; callers copy out what they need.
func (s *sessionStore) Read(ctx context.Context, id types.SessionID, fn func(*model.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return goerr.Wrap(ErrSessionNotFound, "cannot read session", goerr.V("session_id", id))
	}
	return fn(session)
}

// Update applies fn to the session while holding the store lock, so that all
// engine-state mutations of one logical operation happen atomically with
// respect to other callers.
func (s *sessionStore) Update(ctx context.Context, id types.SessionID, fn func(*model.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return goerr.Wrap(ErrSessionNotFound, "cannot update session", goerr.V("session_id", id))
	}
	return fn(session)
}

func (s *sessionStore) Delete(ctx context.Context, id types.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
