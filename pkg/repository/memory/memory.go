package memory

import (
	"github.com/museum-lab/engagedesk/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-process repository backend. Form sessions are scoped to
// one form lifetime by design, so no durable backend exists.
type Memory struct {
	sessions *sessionStore
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		sessions: newSessionStore(),
	}
}

func (m *Memory) Session() interfaces.SessionStore {
	return m.sessions
}

func (m *Memory) Close() error {
	return nil
}
