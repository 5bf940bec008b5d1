package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// Criterion is one pre-declared filterable dimension, tied to one column on
// the source board and one column on the destination board.
type Criterion struct {
	ID         types.CriterionID
	Label      string
	SourceCol  types.ColumnID
	DestCol    types.ColumnID
	ColumnType types.ColumnType
}

// Catalog is the static, ordered set of filter criteria. It is process-wide
// and read-only after construction.
type Catalog struct {
	criteria []Criterion
	byID     map[types.CriterionID]*Criterion
}

// NewCatalog builds a Catalog, rejecting duplicate criterion IDs.
func NewCatalog(criteria []Criterion) (*Catalog, error) {
	c := &Catalog{
		criteria: make([]Criterion, len(criteria)),
		byID:     make(map[types.CriterionID]*Criterion, len(criteria)),
	}
	copy(c.criteria, criteria)

	for i := range c.criteria {
		crit := &c.criteria[i]
		if crit.ID == "" {
			return nil, goerr.New("criterion ID is required", goerr.V("index", i))
		}
		if crit.Label == "" {
			return nil, goerr.New("criterion label is required", goerr.V("id", crit.ID))
		}
		if crit.SourceCol == "" {
			return nil, goerr.New("criterion source column is required", goerr.V("id", crit.ID))
		}
		if _, exists := c.byID[crit.ID]; exists {
			return nil, goerr.New("duplicate criterion ID", goerr.V("id", crit.ID))
		}
		c.byID[crit.ID] = crit
	}

	return c, nil
}

// Criteria returns the criteria in declaration order.
func (c *Catalog) Criteria() []Criterion {
	out := make([]Criterion, len(c.criteria))
	copy(out, c.criteria)
	return out
}

// ByID looks up a criterion by its identifier.
func (c *Catalog) ByID(id types.CriterionID) (*Criterion, bool) {
	crit, ok := c.byID[id]
	return crit, ok
}

// Len returns the number of criteria in the catalog.
func (c *Catalog) Len() int {
	return len(c.criteria)
}

// FirstUnused returns the first criterion (in declaration order) whose ID is
// not in used, or false if every criterion is taken.
func (c *Catalog) FirstUnused(used map[types.CriterionID]bool) (*Criterion, bool) {
	for i := range c.criteria {
		if !used[c.criteria[i].ID] {
			return &c.criteria[i], true
		}
	}
	return nil, false
}

// Unused returns all criteria not present in used, in declaration order.
func (c *Catalog) Unused(used map[types.CriterionID]bool) []Criterion {
	var out []Criterion
	for i := range c.criteria {
		if !used[c.criteria[i].ID] {
			out = append(out, c.criteria[i])
		}
	}
	return out
}
