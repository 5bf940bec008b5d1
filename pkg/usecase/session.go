package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
	"github.com/museum-lab/engagedesk/pkg/utils/logging"
)

// CriterionRef identifies one criterion in a slot's choice list.
type CriterionRef struct {
	ID    types.CriterionID `json:"id"`
	Label string            `json:"label"`
}

// SlotView is the render state of one filter slot.
type SlotView struct {
	Position    int               `json:"position"`
	Criterion   types.CriterionID `json:"criterion,omitempty"`
	Label       string            `json:"label,omitempty"`
	Selection   string            `json:"selection,omitempty"`
	ManuallySet bool              `json:"manually_set,omitempty"`

	// Options is the narrowed value list for the slot's criterion; nil when
	// the slot is beyond the active frontier.
	Options []string `json:"options"`

	// Available lists the criteria this slot may be switched to: every
	// criterion not held by another slot.
	Available []CriterionRef `json:"available"`
}

// SessionView is the full render state of a form session.
type SessionView struct {
	ID         types.SessionID   `json:"id"`
	Rev        int64             `json:"rev"`
	Loading    bool              `json:"loading"`
	Slots      []SlotView        `json:"slots"`
	Candidates []model.Candidate `json:"candidates"`
	Candidate  types.ItemID      `json:"candidate,omitempty"`
}

// StartSession creates a new form session over the current catalog snapshot.
func (uc *UseCases) StartSession(ctx context.Context) (*SessionView, error) {
	items := uc.Items()
	if len(items) == 0 {
		return nil, goerr.Wrap(ErrCatalogNotLoaded, "cannot start session")
	}

	// Project before Put: the session is not yet visible to other callers.
	session := model.NewSession(types.NewSessionID(), uc.catalog, items, uc.boards.DescriptionColumn)
	view := uc.view(session)
	if err := uc.repo.Session().Put(ctx, session); err != nil {
		return nil, goerr.Wrap(err, "failed to store new session")
	}

	logging.From(ctx).Info("session started",
		"session_id", session.ID(), "items", len(items))
	return view, nil
}

// GetSession returns the current render state of a session.
func (uc *UseCases) GetSession(ctx context.Context, id types.SessionID) (*SessionView, error) {
	var view *SessionView
	err := uc.repo.Session().Read(ctx, id, func(s *model.Session) error {
		view = uc.view(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// SetSlotCriterion assigns, clears, or reorders the criterion at a slot.
func (uc *UseCases) SetSlotCriterion(ctx context.Context, id types.SessionID, pos int, criterion types.CriterionID) (*SessionView, error) {
	return uc.updateView(ctx, id, func(s *model.Session) error {
		return s.SetSlotCriterion(pos, criterion)
	})
}

// SetSelection writes or clears the value chosen for a slotted criterion.
func (uc *UseCases) SetSelection(ctx context.Context, id types.SessionID, criterion types.CriterionID, value string) (*SessionView, error) {
	return uc.updateView(ctx, id, func(s *model.Session) error {
		return s.SetSelection(criterion, value)
	})
}

// SelectEngagement records a directly chosen catalog item as the session's
// candidate.
func (uc *UseCases) SelectEngagement(ctx context.Context, id types.SessionID, item types.ItemID) (*SessionView, error) {
	return uc.updateView(ctx, id, func(s *model.Session) error {
		return s.SelectEngagement(item)
	})
}

// ResetSession returns a session to its initial state.
func (uc *UseCases) ResetSession(ctx context.Context, id types.SessionID) (*SessionView, error) {
	return uc.updateView(ctx, id, func(s *model.Session) error {
		s.Reset()
		return nil
	})
}

// updateView applies a mutation and projects the resulting render state in
// the same store-locked pass, so a concurrent reader never observes the
// engine mid-mutation.
func (uc *UseCases) updateView(ctx context.Context, id types.SessionID, fn func(*model.Session) error) (*SessionView, error) {
	var view *SessionView
	err := uc.repo.Session().Update(ctx, id, func(s *model.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		view = uc.view(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// view projects a session into its render state.
func (uc *UseCases) view(s *model.Session) *SessionView {
	slots := s.Slots()
	out := &SessionView{
		ID:         s.ID(),
		Rev:        s.Rev(),
		Loading:    uc.Loading(),
		Slots:      make([]SlotView, model.SlotCount),
		Candidates: s.Candidates(),
		Candidate:  s.Candidate(),
	}

	for pos := 0; pos < model.SlotCount; pos++ {
		sv := SlotView{
			Position:  pos,
			Available: uc.availableFor(s, pos),
		}
		if id := slots[pos]; id != "" {
			sv.Criterion = id
			if crit, ok := uc.catalog.ByID(id); ok {
				sv.Label = crit.Label
			}
			sv.Selection, _ = s.Selection(id)
			sv.ManuallySet = s.IsManuallySet(id)
			sv.Options, _ = s.Options(id)
		}
		out.Slots[pos] = sv
	}
	return out
}

// availableFor lists the criteria a slot can hold: its own current criterion
// plus every criterion not assigned elsewhere.
func (uc *UseCases) availableFor(s *model.Session, pos int) []CriterionRef {
	slots := s.Slots()
	taken := make(map[types.CriterionID]bool)
	for i, id := range slots {
		if i != pos && id != "" {
			taken[id] = true
		}
	}

	var out []CriterionRef
	for _, crit := range uc.catalog.Criteria() {
		if taken[crit.ID] {
			continue
		}
		out = append(out, CriterionRef{ID: crit.ID, Label: crit.Label})
	}
	return out
}
