package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
	"github.com/museum-lab/engagedesk/pkg/utils/async"
	"github.com/museum-lab/engagedesk/pkg/utils/logging"
)

// Submit validates the request form against the session's chosen engagement,
// composes the destination item and creates it on the destination board.
//
// Validation runs fully before any network call; an invalid form or a
// session without a chosen engagement never reaches the remote service. On
// success the session is reset in the background after a short delay so the
// confirmation stays visible while the form becomes reusable.
func (uc *UseCases) Submit(ctx context.Context, id types.SessionID, form *model.RequestForm) (*model.CreatedItem, error) {
	// Validation and column composition read the session under the store
	// lock; only the resulting payload crosses the network call below.
	var columnValues map[types.ColumnID]any
	err := uc.repo.Session().Read(ctx, id, func(s *model.Session) error {
		if !s.HasCandidate() {
			return goerr.Wrap(ErrNoEngagement, "cannot submit request")
		}
		if err := form.Validate(); err != nil {
			return err
		}
		eventAt, err := form.EventTime(uc.location)
		if err != nil {
			return err
		}
		columnValues = uc.composeColumns(s, form, eventAt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, err := uc.client.CreateItem(ctx, uc.boards.DestinationBoard, strings.TrimSpace(form.EngagementName), columnValues)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create engagement request",
			goerr.V("session_id", id))
	}

	logging.From(ctx).Info("engagement request created",
		"session_id", id,
		"request_id", created.ID,
		"engagement", form.EngagementName)

	if uc.slack != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.slack.NotifyRequestCreated(ctx, created, form)
		})
	}

	uc.scheduleReset(ctx, id)
	return created, nil
}

// composeColumns builds the destination column payload: the user-entered
// form fields plus the resolved value of every criterion that maps to a
// destination column.
func (uc *UseCases) composeColumns(session *model.Session, form *model.RequestForm, eventAt time.Time) map[types.ColumnID]any {
	dest := uc.boards.Destination
	values := make(map[types.ColumnID]any)

	put := func(col types.ColumnID, v any) {
		if col == "" {
			return
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			return
		}
		values[col] = v
	}

	put(dest.RequesterName, strings.TrimSpace(form.RequesterName))
	put(dest.Email, model.EmailValue{
		Email: strings.TrimSpace(form.Email),
		Text:  strings.TrimSpace(form.Email),
	})
	put(dest.Department, strings.TrimSpace(form.Department))
	put(dest.EventDuration, strings.TrimSpace(form.EventDuration))
	put(dest.Description, strings.TrimSpace(form.Description))
	put(dest.EngagementName, strings.TrimSpace(form.EngagementName))
	put(dest.EventAt, model.NewDateValue(eventAt))
	put(dest.SubmittedAt, model.NewDateValue(time.Now()))

	if item, ok := session.ItemByID(session.Candidate()); ok {
		if dest.EngagementDescription != "" && uc.boards.DescriptionColumn != "" {
			if text, found := item.ColumnText(uc.boards.DescriptionColumn); found {
				put(dest.EngagementDescription, strings.TrimSpace(text))
			}
		}

		for _, crit := range uc.catalog.Criteria() {
			if crit.DestCol == "" {
				continue
			}
			value := uc.resolveCriterion(session, item, &crit)
			if value == "" {
				continue
			}
			put(crit.DestCol, uc.columnPayload(&crit, value))
		}
	}

	return values
}

// resolveCriterion picks the value a criterion contributes to the request:
// a manual selection wins over the chosen engagement's own column value.
func (uc *UseCases) resolveCriterion(session *model.Session, item *model.Item, crit *model.Criterion) string {
	if v, ok := session.Selection(crit.ID); ok && session.IsManuallySet(crit.ID) && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if text, ok := item.ColumnText(crit.SourceCol); ok && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	if v, ok := session.Selection(crit.ID); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// columnPayload wraps the resolved value in the destination column's wire
// shape. Choice-type destinations get the value normalized against the
// destination's accepted labels first; an unmapped value is sent as-is and
// the remote side's own validation decides.
func (uc *UseCases) columnPayload(crit *model.Criterion, value string) any {
	if !crit.ColumnType.IsChoice() {
		return value
	}

	normalized := uc.normalizer.Normalize(value, uc.destinationLabels(crit.ID))
	if crit.ColumnType == types.ColumnTypeDropdown {
		return model.DropdownValue{Labels: []string{normalized}}
	}
	return model.StatusValue{Label: normalized}
}

// scheduleReset resets the session after the confirmation delay. A failed
// reset only logs: the session stays submittable again either way.
func (uc *UseCases) scheduleReset(ctx context.Context, id types.SessionID) {
	delay := uc.resetDelay
	async.Dispatch(ctx, func(ctx context.Context) error {
		time.Sleep(delay)
		if err := uc.repo.Session().Update(ctx, id, func(s *model.Session) error {
			s.Reset()
			return nil
		}); err != nil {
			return goerr.Wrap(err, "failed to reset session after submission", goerr.V("session_id", id))
		}
		return nil
	})
}
