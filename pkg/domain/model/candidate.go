package model

import "github.com/museum-lab/engagedesk/pkg/domain/types"

// Candidate is a catalog item reduced to what the form shell needs while the
// user is choosing an engagement: identity, display name, description text,
// and the item's text for every criterion column.
type Candidate struct {
	ID          types.ItemID                 `json:"id"`
	Name        string                       `json:"name"`
	Description string                       `json:"description,omitempty"`
	Values      map[types.CriterionID]string `json:"values,omitempty"`
}
