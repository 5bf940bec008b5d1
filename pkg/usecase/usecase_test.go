package usecase_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/museum-lab/engagedesk/pkg/domain/interfaces"
	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
	"github.com/museum-lab/engagedesk/pkg/repository/memory"
	"github.com/museum-lab/engagedesk/pkg/service/monday"
	"github.com/museum-lab/engagedesk/pkg/usecase"
)

// fakeBoardClient records calls and serves canned data.
type fakeBoardClient struct {
	items   []model.Item
	columns []model.Column

	itemsErr  error
	createErr error

	createdBoard  types.BoardID
	createdName   string
	createdValues map[types.ColumnID]any
	createCalls   int
}

var _ interfaces.BoardClient = &fakeBoardClient{}

func (f *fakeBoardClient) ListItems(ctx context.Context, boardID types.BoardID) ([]model.Item, error) {
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	return f.items, nil
}

func (f *fakeBoardClient) ListColumns(ctx context.Context, boardID types.BoardID) ([]model.Column, error) {
	return f.columns, nil
}

func (f *fakeBoardClient) CreateItem(ctx context.Context, boardID types.BoardID, name string, columnValues map[types.ColumnID]any) (*model.CreatedItem, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdBoard = boardID
	f.createdName = name
	f.createdValues = columnValues
	return &model.CreatedItem{ID: "900", Name: name}, nil
}

func (f *fakeBoardClient) TestConnection(ctx context.Context) error {
	return nil
}

func (f *fakeBoardClient) Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func testCatalog(t *testing.T) *model.Catalog {
	t.Helper()
	catalog, err := model.NewCatalog([]model.Criterion{
		{ID: "theme", Label: "Theme", SourceCol: "src_theme", DestCol: "dst_theme", ColumnType: types.ColumnTypeStatus},
		{ID: "type", Label: "Type", SourceCol: "src_type", DestCol: "dst_type", ColumnType: types.ColumnTypeDropdown},
	})
	gt.NoError(t, err).Required()
	return catalog
}

func testBoards() *model.BoardConfig {
	return &model.BoardConfig{
		SourceBoard:       "100",
		DestinationBoard:  "200",
		StatusColumn:      "src_status",
		ActiveStatus:      "Active",
		DescriptionColumn: "src_desc",
		Destination: model.DestinationColumns{
			RequesterName:         "dst_requester",
			Email:                 "dst_email",
			Department:            "dst_department",
			EventDuration:         "dst_duration",
			Description:           "dst_description",
			EngagementName:        "dst_engagement",
			EngagementDescription: "dst_engagement_desc",
			SubmittedAt:           "dst_submitted",
			EventAt:               "dst_event",
		},
	}
}

func testItem(id, name, status string, values map[types.ColumnID]string) model.Item {
	item := model.Item{ID: types.ItemID(id), Name: name}
	item.ColumnValues = append(item.ColumnValues, model.ColumnValue{ColumnID: "src_status", Text: status})
	for col, text := range values {
		item.ColumnValues = append(item.ColumnValues, model.ColumnValue{ColumnID: col, Text: text})
	}
	return item
}

func testClient() *fakeBoardClient {
	return &fakeBoardClient{
		items: []model.Item{
			testItem("1", "Sculpture Tour", "Active", map[types.ColumnID]string{
				"src_theme": "Art", "src_type": "Gallery Talk, Tabling", "src_desc": "A guided walk",
			}),
			testItem("2", "Lab Visit", "Active", map[types.ColumnID]string{
				"src_theme": "Science", "src_type": "Tour",
			}),
			testItem("3", "Retired Exhibit", "Archived", map[types.ColumnID]string{
				"src_theme": "Art", "src_type": "Tour",
			}),
		},
		columns: []model.Column{
			{ID: "dst_theme", Title: "Theme", Type: types.ColumnTypeStatus,
				Settings: `{"labels":{"0":"Art","1":"Science"}}`},
			{ID: "dst_type", Title: "Type", Type: types.ColumnTypeDropdown,
				Settings: `{"labels":[{"id":1,"name":"Tour"},{"id":2,"name":"Tabling/Gallery Talk"}]}`},
		},
	}
}

func newUseCases(t *testing.T, client *fakeBoardClient, opts ...usecase.Option) *usecase.UseCases {
	t.Helper()
	normalizer := model.NewNormalizer(map[string]string{
		"Gallery Talk, Tabling": "Tabling/Gallery Talk",
	})
	uc := usecase.New(memory.New(), client, testCatalog(t), testBoards(), normalizer, opts...)
	gt.NoError(t, uc.LoadCatalog(context.Background())).Required()
	return uc
}

func TestLoadCatalog_FiltersActiveItems(t *testing.T) {
	uc := newUseCases(t, testClient())

	// The archived item is never offered.
	items := uc.Items()
	gt.Array(t, items).Length(2).Required()
	gt.Value(t, items[0].ID).Equal(types.ItemID("1"))
	gt.Value(t, items[1].ID).Equal(types.ItemID("2"))
}

func TestLoadCatalog_FetchFailureKeepsSnapshot(t *testing.T) {
	client := testClient()
	uc := newUseCases(t, client)

	client.itemsErr = goerr.Wrap(monday.ErrTransport, "down")
	err := uc.LoadCatalog(context.Background())
	gt.Error(t, err).Is(monday.ErrTransport)

	// The previous snapshot survives a failed reload.
	gt.Array(t, uc.Items()).Length(2)
	gt.Bool(t, uc.Loading()).False()
}

func TestStartSession_RequiresCatalog(t *testing.T) {
	client := testClient()
	client.items = nil
	normalizer := model.NewNormalizer(nil)
	uc := usecase.New(memory.New(), client, testCatalog(t), testBoards(), normalizer)
	gt.NoError(t, uc.LoadCatalog(context.Background())).Required()

	_, err := uc.StartSession(context.Background())
	gt.Error(t, err).Is(usecase.ErrCatalogNotLoaded)
	gt.Value(t, usecase.KindOf(err)).Equal(usecase.KindConfig)
}

func TestSessionFlow_ViewsTrackEngine(t *testing.T) {
	uc := newUseCases(t, testClient())
	ctx := context.Background()

	view, err := uc.StartSession(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, view.Slots).Length(model.SlotCount)
	gt.Value(t, view.Slots[0].Criterion).Equal(types.CriterionID("theme"))
	// With a two-criterion catalog the second slot collapses immediately.
	gt.Value(t, view.Slots[1].Criterion).Equal(types.CriterionID("type"))
	gt.Array(t, view.Slots[0].Options).Equal([]string{"Art", "Science"})
	gt.Array(t, view.Candidates).Length(2)

	view, err = uc.SetSelection(ctx, view.ID, "theme", "Art")
	gt.NoError(t, err).Required()
	gt.Array(t, view.Candidates).Length(1)

	view, err = uc.SelectEngagement(ctx, view.ID, "1")
	gt.NoError(t, err).Required()
	gt.Value(t, view.Candidate).Equal(types.ItemID("1"))

	view, err = uc.ResetSession(ctx, view.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, view.Candidate).Equal(types.ItemID(""))

	_, err = uc.GetSession(ctx, types.NewSessionID())
	gt.Error(t, err).Is(memory.ErrSessionNotFound)
}

func TestSession_ConcurrentReadAndMutate(t *testing.T) {
	uc := newUseCases(t, testClient())
	ctx := context.Background()

	view, err := uc.StartSession(ctx)
	gt.NoError(t, err).Required()
	id := view.ID

	// Readers and mutators share one session; view projection must never
	// observe the engine mid-mutation. Run under the race detector.
	const iterations = 200
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		values := []string{"Art", "Science", ""}
		for i := 0; i < iterations; i++ {
			_, err := uc.SetSelection(ctx, id, "theme", values[i%len(values)])
			gt.NoError(t, err)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			v, err := uc.GetSession(ctx, id)
			gt.NoError(t, err)
			gt.Value(t, v.ID).Equal(id)
		}
	}()

	wg.Wait()

	final, err := uc.GetSession(ctx, id)
	gt.NoError(t, err).Required()
	gt.Bool(t, final.Rev >= int64(iterations)).True()
}

func TestSessionView_AvailableExcludesOtherSlots(t *testing.T) {
	uc := newUseCases(t, testClient())
	ctx := context.Background()

	view, err := uc.StartSession(ctx)
	gt.NoError(t, err).Required()

	// Both slots are occupied, so each slot's choice list is reduced to its
	// own criterion.
	gt.Array(t, view.Slots[0].Available).Length(1).Required()
	gt.Value(t, view.Slots[0].Available[0].ID).Equal(types.CriterionID("theme"))
	gt.Array(t, view.Slots[1].Available).Length(1).Required()
	gt.Value(t, view.Slots[1].Available[0].ID).Equal(types.CriterionID("type"))
}
