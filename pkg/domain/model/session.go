package model

import (
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// SlotCount is the fixed number of filter slots in a form session.
const SlotCount = 4

// Filter engine operation errors
var (
	ErrSlotOutOfRange     = goerr.New("slot position out of range")
	ErrUnknownCriterion   = goerr.New("unknown criterion")
	ErrCriterionUnslotted = goerr.New("criterion is not assigned to a slot")
	ErrUnknownItem        = goerr.New("item not found in catalog")
	ErrCandidateMismatch  = goerr.New("engagement does not match the active filters")
)

// Session is the cascading filter engine for one form session.
//
// It holds an ordered sequence of filter slots over a static criteria
// catalog, the user's selections, and all state derived from them: the
// per-criterion option lists (narrowed by every upstream selection) and the
// chosen engagement candidate. Each operation is a single reducer pass that
// recomputes the derived state before returning, so the session is always
// internally consistent.
//
// Session is not safe for concurrent use; the session store serializes
// mutations.
type Session struct {
	id             types.SessionID
	catalog        *Catalog
	items          []Item
	descriptionCol types.ColumnID

	slots       [SlotCount]types.CriterionID
	selections  map[types.CriterionID]string
	manuallySet map[types.CriterionID]bool
	options     map[types.CriterionID][]string
	candidate   types.ItemID
	rev         int64
	createdAt   time.Time
}

// NewSession creates a session over an immutable catalog item snapshot. The
// first catalog criterion is pre-assigned to slot 0 so the form opens with a
// usable first filter.
func NewSession(id types.SessionID, catalog *Catalog, items []Item, descriptionCol types.ColumnID) *Session {
	s := &Session{
		id:             id,
		catalog:        catalog,
		items:          items,
		descriptionCol: descriptionCol,
		selections:     make(map[types.CriterionID]string),
		manuallySet:    make(map[types.CriterionID]bool),
		options:        make(map[types.CriterionID][]string),
		createdAt:      time.Now(),
	}
	if catalog.Len() > 0 {
		s.slots[0] = catalog.Criteria()[0].ID
	}
	s.autoCollapse()
	s.recomputeOptions()
	return s
}

func (s *Session) ID() types.SessionID    { return s.id }
func (s *Session) Rev() int64             { return s.rev }
func (s *Session) CreatedAt() time.Time   { return s.createdAt }
func (s *Session) Catalog() *Catalog      { return s.catalog }
func (s *Session) Candidate() types.ItemID { return s.candidate }

// Slots returns the current slot assignments; empty entries are unassigned.
func (s *Session) Slots() [SlotCount]types.CriterionID {
	return s.slots
}

// Selection returns the current value chosen for a criterion, manual or
// inferred.
func (s *Session) Selection(id types.CriterionID) (string, bool) {
	v, ok := s.selections[id]
	return v, ok
}

// Selections returns a copy of the full selection map.
func (s *Session) Selections() map[types.CriterionID]string {
	out := make(map[types.CriterionID]string, len(s.selections))
	for k, v := range s.selections {
		out[k] = v
	}
	return out
}

// IsManuallySet reports whether the criterion's value was chosen directly by
// the user rather than inferred from a chosen engagement.
func (s *Session) IsManuallySet(id types.CriterionID) bool {
	return s.manuallySet[id]
}

// Options returns the cached available values for a criterion. Absent means
// the slot is beyond the active frontier and has not been computed yet.
func (s *Session) Options(id types.CriterionID) ([]string, bool) {
	opts, ok := s.options[id]
	return opts, ok
}

// Items returns the catalog snapshot this session filters over.
func (s *Session) Items() []Item {
	return s.items
}

// ItemByID finds an item in the session's catalog snapshot.
func (s *Session) ItemByID(id types.ItemID) (*Item, bool) {
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], true
		}
	}
	return nil, false
}

// SetSlotCriterion assigns, clears, or reorders the criterion at a slot.
//
// Clearing a slot clears every slot after it as well: downstream assignments,
// selections and option caches all depend on the cleared position. Assigning
// a criterion already held by another slot swaps the two assignments, which
// is how the user reorders filters without disturbing unrelated slots.
func (s *Session) SetSlotCriterion(pos int, id types.CriterionID) error {
	if pos < 0 || pos >= SlotCount {
		return goerr.Wrap(ErrSlotOutOfRange, "invalid slot position", goerr.V("position", pos))
	}

	if id == "" {
		for i := pos; i < SlotCount; i++ {
			s.clearSlot(i)
		}
		s.finishMutation()
		return nil
	}

	if _, ok := s.catalog.ByID(id); !ok {
		return goerr.Wrap(ErrUnknownCriterion, "cannot assign criterion", goerr.V("criterion", id))
	}

	changedFrom := pos
	if existing := s.slotIndex(id); existing >= 0 && existing != pos {
		s.slots[pos], s.slots[existing] = s.slots[existing], s.slots[pos]
		if existing < changedFrom {
			changedFrom = existing
		}
	} else if existing == -1 {
		s.slots[pos] = id
	} else {
		// Already at this position; nothing to do.
		return nil
	}

	// Selections at or after the earliest changed position were made against
	// a different upstream sequence and are no longer trustworthy.
	s.clearSelectionsFrom(changedFrom)
	s.finishMutation()
	return nil
}

// SetSelection writes or clears the value chosen for a slotted criterion.
//
// Every selection at a later slot is invalidated: its option set was
// computed against the previous value. When the next slot is still empty,
// the first unused catalog criterion is auto-assigned to it so the user is
// not asked a question with an obvious answer.
func (s *Session) SetSelection(id types.CriterionID, value string) error {
	pos := s.slotIndex(id)
	if pos == -1 {
		if _, ok := s.catalog.ByID(id); !ok {
			return goerr.Wrap(ErrUnknownCriterion, "cannot select value", goerr.V("criterion", id))
		}
		return goerr.Wrap(ErrCriterionUnslotted, "cannot select value", goerr.V("criterion", id))
	}

	if value == "" {
		delete(s.selections, id)
		delete(s.manuallySet, id)
	} else {
		s.selections[id] = value
		s.manuallySet[id] = true
	}

	s.clearSelectionsFrom(pos + 1)
	s.candidate = ""

	if pos+1 < SlotCount && s.slots[pos+1] == "" {
		if next, ok := s.catalog.FirstUnused(s.usedCriteria()); ok {
			s.slots[pos+1] = next.ID
		}
	}

	s.finishMutation()
	return nil
}

// SelectEngagement records a directly chosen catalog item as the candidate.
//
// The item must match every active filter selection; otherwise the call is
// rejected with no state change. On success the item's column values
// back-fill the selections of every criterion the user has not set manually,
// so the displayed filter state always explains the chosen candidate.
func (s *Session) SelectEngagement(id types.ItemID) error {
	item, ok := s.ItemByID(id)
	if !ok {
		return goerr.Wrap(ErrUnknownItem, "cannot select engagement", goerr.V("item", id))
	}

	if !item.MatchesAll(s.selectionConstraints()) {
		return goerr.Wrap(ErrCandidateMismatch, "cannot select engagement",
			goerr.V("item", id), goerr.V("selections", s.Selections()))
	}

	s.candidate = id

	for _, crit := range s.catalog.Criteria() {
		if s.manuallySet[crit.ID] {
			continue
		}
		if text, ok := item.ColumnText(crit.SourceCol); ok {
			s.selections[crit.ID] = text
		}
	}

	s.autoCollapse()
	s.recomputeOptions()
	s.rev++
	return nil
}

// Candidates returns the items matching every active filter selection,
// recomputed over the full catalog. With no active filters, every item is a
// candidate.
func (s *Session) Candidates() []Candidate {
	constraints := s.selectionConstraints()

	var out []Candidate
	for i := range s.items {
		item := &s.items[i]
		if len(constraints) > 0 && !item.MatchesAll(constraints) {
			continue
		}
		out = append(out, s.toCandidate(item))
	}
	return out
}

// HasCandidate reports whether an engagement has been chosen.
func (s *Session) HasCandidate() bool {
	return s.candidate != ""
}

// Reset returns the session to its initial state: no selections, no
// candidate, first catalog criterion at slot 0.
func (s *Session) Reset() {
	s.selections = make(map[types.CriterionID]string)
	s.manuallySet = make(map[types.CriterionID]bool)
	s.options = make(map[types.CriterionID][]string)
	s.candidate = ""
	s.slots = [SlotCount]types.CriterionID{}
	if s.catalog.Len() > 0 {
		s.slots[0] = s.catalog.Criteria()[0].ID
	}
	s.autoCollapse()
	s.recomputeOptions()
	s.rev++
}

func (s *Session) toCandidate(item *Item) Candidate {
	c := Candidate{
		ID:     item.ID,
		Name:   item.Name,
		Values: make(map[types.CriterionID]string),
	}
	if s.descriptionCol != "" {
		c.Description, _ = item.ColumnText(s.descriptionCol)
	}
	for _, crit := range s.catalog.Criteria() {
		if text, ok := item.ColumnText(crit.SourceCol); ok {
			c.Values[crit.ID] = text
		}
	}
	return c
}

// slotIndex returns the position holding the criterion, or -1.
func (s *Session) slotIndex(id types.CriterionID) int {
	for i, slot := range s.slots {
		if slot != "" && slot == id {
			return i
		}
	}
	return -1
}

func (s *Session) usedCriteria() map[types.CriterionID]bool {
	used := make(map[types.CriterionID]bool)
	for _, slot := range s.slots {
		if slot != "" {
			used[slot] = true
		}
	}
	return used
}

func (s *Session) clearSlot(pos int) {
	if id := s.slots[pos]; id != "" {
		delete(s.selections, id)
		delete(s.manuallySet, id)
		delete(s.options, id)
	}
	s.slots[pos] = ""
}

// clearSelectionsFrom drops the selection and manual mark of every slot at or
// after pos. Assignments are kept; only the chosen values are invalidated.
func (s *Session) clearSelectionsFrom(pos int) {
	for i := pos; i < SlotCount; i++ {
		if id := s.slots[i]; id != "" {
			delete(s.selections, id)
			delete(s.manuallySet, id)
		}
	}
}

// finishMutation recomputes all derived state after a slot or selection
// change and bumps the revision counter.
func (s *Session) finishMutation() {
	s.autoCollapse()
	s.recomputeOptions()
	s.revalidateCandidate()
	s.rev++
}

// autoCollapse assigns the only remaining criterion to any empty slot for
// which exactly one unused criterion is left. It runs to a fixed point:
// collapsing one slot can make the next one eligible. A full pass with no
// assignment terminates the loop.
func (s *Session) autoCollapse() {
	for {
		changed := false
		for pos := 0; pos < SlotCount; pos++ {
			if s.slots[pos] != "" {
				continue
			}
			avail := s.catalog.Unused(s.usedCriteria())
			if len(avail) == 1 {
				s.slots[pos] = avail[0].ID
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// recomputeOptions rebuilds the option cache along the selected prefix of
// the slot sequence. Computation stops at the first occupied slot without a
// selection (the active frontier): deeper slots are computed on demand as
// the user advances, keeping each mutation O(depth) rather than O(N·depth).
func (s *Session) recomputeOptions() {
	s.options = make(map[types.CriterionID][]string)

	var constraints []Constraint
	for pos := 0; pos < SlotCount; pos++ {
		id := s.slots[pos]
		if id == "" {
			continue
		}
		crit, ok := s.catalog.ByID(id)
		if !ok {
			continue
		}

		s.options[id] = s.narrow(constraints, crit.SourceCol)

		value, ok := s.selections[id]
		if !ok || value == "" {
			break
		}
		constraints = append(constraints, Constraint{ColumnID: crit.SourceCol, Value: value})
	}
}

// narrow computes the available values of a target column under the given
// upstream constraints: distinct, non-empty, lexicographically sorted text
// values of the column across the retained items. With no constraints the
// full item set is used; observed item values are preferred over declared
// column labels so that every offered option is guaranteed to match at least
// one item.
func (s *Session) narrow(constraints []Constraint, target types.ColumnID) []string {
	seen := make(map[string]bool)
	var values []string

	for i := range s.items {
		item := &s.items[i]
		if len(constraints) > 0 && !item.MatchesAll(constraints) {
			continue
		}
		text, ok := item.ColumnText(target)
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		values = append(values, text)
	}

	sort.Strings(values)
	return values
}

// selectionConstraints converts every non-empty selection, manual or
// inferred, into a narrowing constraint on its criterion's source column.
func (s *Session) selectionConstraints() []Constraint {
	var out []Constraint
	for _, crit := range s.catalog.Criteria() {
		value, ok := s.selections[crit.ID]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		out = append(out, Constraint{ColumnID: crit.SourceCol, Value: value})
	}
	return out
}

// revalidateCandidate silently drops the chosen candidate when it no longer
// matches the active selections, and with it any selections that were only
// ever inferred for criteria not assigned to a slot.
func (s *Session) revalidateCandidate() {
	if s.candidate != "" {
		item, ok := s.ItemByID(s.candidate)
		if !ok || !item.MatchesAll(s.selectionConstraints()) {
			s.candidate = ""
		}
	}

	if s.candidate == "" {
		for id := range s.selections {
			if s.slotIndex(id) == -1 && !s.manuallySet[id] {
				delete(s.selections, id)
			}
		}
	}
}
