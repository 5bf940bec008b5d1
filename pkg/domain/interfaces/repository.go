package interfaces

import (
	"context"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// Repository provides access to the data stores.
type Repository interface {
	Session() SessionStore
	Close() error
}

// SessionStore holds the live form sessions. All access to a stored session
// goes through Read or Update, which run fn while holding the store's lock:
// the filter engine reads and writes several related maps per logical
// operation and must never see interleaved mutations. Session pointers never
// escape the lock; callers project whatever state they need inside fn.
type SessionStore interface {
	Put(ctx context.Context, session *model.Session) error
	Read(ctx context.Context, id types.SessionID, fn func(*model.Session) error) error
	Update(ctx context.Context, id types.SessionID, fn func(*model.Session) error) error
	Delete(ctx context.Context, id types.SessionID) error
}
