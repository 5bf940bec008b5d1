package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
	"github.com/museum-lab/engagedesk/pkg/utils/logging"
)

// LoadCatalog refreshes the catalog snapshot: the source board's items
// (reduced to those marked active) and the destination board's accepted
// label sets for choice-type criteria.
//
// Reloads are generation-tagged. Each call takes a generation number before
// fetching and applies its result only if no later reload has been applied
// in the meantime, so concurrent or retried reloads cannot reorder.
func (uc *UseCases) LoadCatalog(ctx context.Context) error {
	uc.mu.Lock()
	uc.generation++
	gen := uc.generation
	uc.loading = true
	uc.mu.Unlock()

	defer func() {
		uc.mu.Lock()
		if gen == uc.generation {
			uc.loading = false
		}
		uc.mu.Unlock()
	}()

	var items []model.Item
	var columns []model.Column

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		fetched, err := uc.client.ListItems(egCtx, uc.boards.SourceBoard)
		if err != nil {
			return goerr.Wrap(err, "failed to load source catalog")
		}
		items = fetched
		return nil
	})
	eg.Go(func() error {
		fetched, err := uc.client.ListColumns(egCtx, uc.boards.DestinationBoard)
		if err != nil {
			return goerr.Wrap(err, "failed to load destination columns")
		}
		columns = fetched
		return nil
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	active := uc.filterActive(items)
	labels := uc.buildDestLabels(columns)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if gen < uc.applied {
		logging.From(ctx).Warn("discarding stale catalog load",
			"generation", gen, "applied", uc.applied)
		return nil
	}
	uc.items = active
	uc.destLabels = labels
	uc.applied = gen

	logging.From(ctx).Info("catalog loaded",
		"items", len(active),
		"total_items", len(items),
		"generation", gen)
	return nil
}

// filterActive keeps only the items offered to requesters. Without a
// configured status column every item is offered.
func (uc *UseCases) filterActive(items []model.Item) []model.Item {
	if uc.boards.StatusColumn == "" || uc.boards.ActiveStatus == "" {
		return items
	}

	out := make([]model.Item, 0, len(items))
	for i := range items {
		text, ok := items[i].ColumnText(uc.boards.StatusColumn)
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(text), uc.boards.ActiveStatus) {
			out = append(out, items[i])
		}
	}
	return out
}

// buildDestLabels resolves each criterion's destination column to its
// declared label set. Criteria whose destination column is missing or not a
// choice type get no entry; normalization then passes their values through.
func (uc *UseCases) buildDestLabels(columns []model.Column) map[types.CriterionID][]string {
	byID := make(map[types.ColumnID]*model.Column, len(columns))
	for i := range columns {
		byID[columns[i].ID] = &columns[i]
	}

	labels := make(map[types.CriterionID][]string)
	for _, crit := range uc.catalog.Criteria() {
		if crit.DestCol == "" {
			continue
		}
		col, ok := byID[crit.DestCol]
		if !ok || !col.Type.IsChoice() {
			continue
		}
		opts := col.OptionLabels()
		if len(opts) == 0 {
			continue
		}
		labels[crit.ID] = opts
	}
	return labels
}
