package monday_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/museum-lab/engagedesk/pkg/domain/types"
	"github.com/museum-lab/engagedesk/pkg/service/monday"
)

type recordedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
	header    http.Header
}

// fakeAPI serves canned GraphQL responses and records every request.
func fakeAPI(t *testing.T, respond func(req recordedRequest) string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Method).Equal(http.MethodPost)

		var req recordedRequest
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&req)).Required()
		req.header = r.Header.Clone()
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(respond(req)))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newClient(t *testing.T, srv *httptest.Server) *monday.Client {
	t.Helper()
	client, err := monday.New("test-token", monday.WithAPIURL(srv.URL))
	gt.NoError(t, err).Required()
	return client
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := monday.New("")
	gt.Error(t, err)
}

func TestClient_SendsAuthHeaders(t *testing.T) {
	srv, requests := fakeAPI(t, func(recordedRequest) string {
		return `{"data": {"me": {"id": "1"}}}`
	})
	client := newClient(t, srv)

	gt.NoError(t, client.TestConnection(context.Background()))

	gt.Array(t, *requests).Length(1).Required()
	header := (*requests)[0].header
	gt.Value(t, header.Get("Authorization")).Equal("test-token")
	gt.Value(t, header.Get("API-Version")).Equal("2024-10")
	gt.Value(t, header.Get("Content-Type")).Equal("application/json")
}

func TestListItems_WalksCursor(t *testing.T) {
	srv, requests := fakeAPI(t, func(req recordedRequest) string {
		if _, ok := req.Variables["cursor"]; ok {
			return `{"data": {"next_items_page": {
				"cursor": "",
				"items": [{"id": "2", "name": "Lab Visit", "column_values": []}]
			}}}`
		}
		return `{"data": {"boards": [{"items_page": {
			"cursor": "page-2",
			"items": [{"id": "1", "name": "Sculpture Tour", "column_values": [
				{"id": "src_theme", "text": "Art", "value": "{\"index\":0}", "type": "status"}
			]}]
		}}]}}`
	})
	client := newClient(t, srv)

	items, err := client.ListItems(context.Background(), "12345")
	gt.NoError(t, err).Required()

	gt.Array(t, *requests).Length(2)
	gt.Array(t, items).Length(2).Required()
	gt.Value(t, items[0].ID).Equal(types.ItemID("1"))
	gt.Value(t, items[1].Name).Equal("Lab Visit")

	text, ok := items[0].ColumnText("src_theme")
	gt.Bool(t, ok).True()
	gt.Value(t, text).Equal("Art")

	// Numeric board IDs travel as integers.
	gt.Value(t, (*requests)[0].Variables["boardId"]).Equal(any(float64(12345)))
}

func TestListItems_BoardNotFound(t *testing.T) {
	srv, _ := fakeAPI(t, func(recordedRequest) string {
		return `{"data": {"boards": []}}`
	})
	client := newClient(t, srv)

	_, err := client.ListItems(context.Background(), "12345")
	gt.Error(t, err)
}

func TestListColumns(t *testing.T) {
	srv, _ := fakeAPI(t, func(recordedRequest) string {
		return `{"data": {"boards": [{"columns": [
			{"id": "dst_theme", "title": "Theme", "type": "status", "settings_str": "{\"labels\":{\"0\":\"Art\"}}"},
			{"id": "name", "title": "Name", "type": "text", "settings_str": ""}
		]}]}}`
	})
	client := newClient(t, srv)

	columns, err := client.ListColumns(context.Background(), "6789")
	gt.NoError(t, err).Required()
	gt.Array(t, columns).Length(2).Required()
	gt.Value(t, columns[0].Type).Equal(types.ColumnTypeStatus)
	gt.Array(t, columns[0].OptionLabels()).Equal([]string{"Art"})
}

func TestCreateItem_SerializesColumnValues(t *testing.T) {
	srv, requests := fakeAPI(t, func(recordedRequest) string {
		return `{"data": {"create_item": {"id": "777", "name": "Sculpture Tour"}}}`
	})
	client := newClient(t, srv)

	created, err := client.CreateItem(context.Background(), "6789", "Sculpture Tour", map[types.ColumnID]any{
		"text_req":  "Alex Doe",
		"color_thm": map[string]string{"label": "Art"},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, created.ID).Equal(types.ItemID("777"))

	// column_values travels as a JSON-encoded string, not a nested object.
	gt.Array(t, *requests).Length(1).Required()
	raw, ok := (*requests)[0].Variables["columnValues"].(string)
	gt.Bool(t, ok).True()

	var decoded map[string]any
	gt.NoError(t, json.Unmarshal([]byte(raw), &decoded)).Required()
	gt.Value(t, decoded["text_req"]).Equal(any("Alex Doe"))
}

func TestExecute_RemoteErrorSurfaced(t *testing.T) {
	srv, _ := fakeAPI(t, func(recordedRequest) string {
		return `{"errors": [{"message": "board not found"}, {"message": "secondary"}]}`
	})
	client := newClient(t, srv)

	_, err := client.Query(context.Background(), `query { boards { id } }`, nil)
	gt.Error(t, err).Is(monday.ErrRemoteRejected)

	// The first remote message is carried verbatim.
	msg, ok := monday.RemoteMessage(err)
	gt.Bool(t, ok).True()
	gt.Value(t, msg).Equal("board not found")
}

func TestExecute_TransportError(t *testing.T) {
	srv, _ := fakeAPI(t, func(recordedRequest) string { return `{}` })
	client := newClient(t, srv)
	srv.Close()

	err := client.TestConnection(context.Background())
	gt.Error(t, err).Is(monday.ErrTransport)

	_, ok := monday.RemoteMessage(err)
	gt.Bool(t, ok).False()
}

func TestExecute_HTTPErrorWithoutGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	client := newClient(t, srv)

	err := client.TestConnection(context.Background())
	gt.Error(t, err).Is(monday.ErrRemoteRejected)
}
