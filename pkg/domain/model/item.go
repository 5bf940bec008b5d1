package model

import (
	"encoding/json"
	"strings"

	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// ColumnValue is one column's value attached to an item: the display text
// shown on the board plus the raw opaque value and the column kind.
type ColumnValue struct {
	ColumnID types.ColumnID
	Text     string
	Value    json.RawMessage
	Type     types.ColumnType
}

// Item is an immutable snapshot of one board row, valid for one fetch cycle.
type Item struct {
	ID           types.ItemID
	Name         string
	ColumnValues []ColumnValue
}

// ColumnText returns the display text of the named column. The second return
// value is false when the column is not present on this item or has no text;
// that is a normal outcome, not an error.
func (x *Item) ColumnText(columnID types.ColumnID) (string, bool) {
	for _, cv := range x.ColumnValues {
		if cv.ColumnID == columnID {
			if cv.Text == "" {
				return "", false
			}
			return cv.Text, true
		}
	}
	return "", false
}

// MatchesAll reports whether the item satisfies every (column, value)
// constraint by trimmed, case-sensitive text comparison. An item missing a
// constrained column does not match.
func (x *Item) MatchesAll(constraints []Constraint) bool {
	for _, c := range constraints {
		text, ok := x.ColumnText(c.ColumnID)
		if !ok {
			return false
		}
		if strings.TrimSpace(text) != strings.TrimSpace(c.Value) {
			return false
		}
	}
	return true
}

// Constraint is one narrowing condition: the item's column text must equal
// the value after whitespace trimming.
type Constraint struct {
	ColumnID types.ColumnID
	Value    string
}
