package types

import "github.com/google/uuid"

// BoardID identifies a board on the remote project-management service.
type BoardID string

// ItemID identifies an item (row) within a board.
type ItemID string

// ColumnID identifies a column within a board.
type ColumnID string

// CriterionID identifies a filter criterion in the static criteria catalog.
type CriterionID string

// SessionID is a UUID-based identifier for one form session.
type SessionID string

// NewSessionID generates a new UUID v4 SessionID.
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

func (x BoardID) String() string     { return string(x) }
func (x ItemID) String() string      { return string(x) }
func (x ColumnID) String() string    { return string(x) }
func (x CriterionID) String() string { return string(x) }
func (x SessionID) String() string   { return string(x) }
