package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"

	"github.com/museum-lab/engagedesk/pkg/domain/interfaces"
	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
	"github.com/museum-lab/engagedesk/pkg/utils/safe"
)

const (
	defaultAPIURL     = "https://api.monday.com/v2"
	defaultAPIVersion = "2024-10"

	// pageSize covers realistic catalog sizes in one page; larger boards are
	// walked through the cursor.
	pageSize = 500
)

// Client-level error classes. ErrTransport means the remote service could
// not be reached at all; ErrRemoteRejected means it executed the call and
// returned an application-level error (first message under the
// "remote_message" value).
var (
	ErrTransport      = goerr.New("cannot reach remote API")
	ErrRemoteRejected = goerr.New("remote API rejected the request")
)

// Client speaks the remote board service's GraphQL-over-POST protocol. The
// proxy contract forwards raw query strings, so the client carries queries
// as strings rather than through a typed query builder.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiVersion string
	token      string
}

var _ interfaces.BoardClient = &Client{}

// Option configures the Client.
type Option func(*Client)

// WithAPIURL overrides the remote API endpoint.
func WithAPIURL(url string) Option {
	return func(c *Client) {
		c.apiURL = url
	}
}

// WithAPIVersion overrides the API-Version request header.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a board API client with the provided API token.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("board API token is required")
	}

	c := &Client{
		httpClient: http.DefaultClient,
		apiURL:     defaultAPIURL,
		apiVersion: defaultAPIVersion,
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// execute posts one GraphQL document and returns the response data.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal API request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build API request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)
	req.Header.Set("API-Version", c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(ErrTransport, "request failed", goerr.V("cause", err.Error()))
	}
	defer safe.Close(ctx, resp.Body)

	var result graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(ErrTransport, "cannot decode API response",
			goerr.V("status", resp.StatusCode), goerr.V("cause", err.Error()))
	}

	if len(result.Errors) > 0 {
		return nil, goerr.Wrap(ErrRemoteRejected, result.Errors[0].Message,
			goerr.V("remote_message", result.Errors[0].Message),
			goerr.V("status", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.Wrap(ErrRemoteRejected, "unexpected API status",
			goerr.V("remote_message", http.StatusText(resp.StatusCode)),
			goerr.V("status", resp.StatusCode))
	}

	return result.Data, nil
}

const itemsQuery = `
	query ($boardId: [ID!], $limit: Int!) {
		boards(ids: $boardId) {
			items_page(limit: $limit) {
				cursor
				items {
					id
					name
					column_values {
						id
						text
						value
						type
					}
				}
			}
		}
	}
`

const nextItemsQuery = `
	query ($cursor: String!, $limit: Int!) {
		next_items_page(cursor: $cursor, limit: $limit) {
			cursor
			items {
				id
				name
				column_values {
					id
					text
					value
					type
				}
			}
		}
	}
`

// ListItems retrieves all items of a board, walking the items_page cursor
// until the board is exhausted.
func (c *Client) ListItems(ctx context.Context, boardID types.BoardID) ([]model.Item, error) {
	data, err := c.execute(ctx, itemsQuery, map[string]any{
		"boardId": boardIDValue(boardID),
		"limit":   pageSize,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch board items", goerr.V("board_id", boardID))
	}

	var first struct {
		Boards []struct {
			ItemsPage itemsPage `json:"items_page"`
		} `json:"boards"`
	}
	if err := json.Unmarshal(data, &first); err != nil {
		return nil, goerr.Wrap(err, "cannot decode items response", goerr.V("board_id", boardID))
	}
	if len(first.Boards) == 0 {
		return nil, goerr.New("board not found", goerr.V("board_id", boardID))
	}

	page := first.Boards[0].ItemsPage
	items := make([]model.Item, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, page.Items[i].toModel())
	}

	for page.Cursor != "" {
		data, err := c.execute(ctx, nextItemsQuery, map[string]any{
			"cursor": page.Cursor,
			"limit":  pageSize,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch next items page", goerr.V("board_id", boardID))
		}

		var next struct {
			NextItemsPage itemsPage `json:"next_items_page"`
		}
		if err := json.Unmarshal(data, &next); err != nil {
			return nil, goerr.Wrap(err, "cannot decode next items page", goerr.V("board_id", boardID))
		}

		page = next.NextItemsPage
		for i := range page.Items {
			items = append(items, page.Items[i].toModel())
		}
	}

	return items, nil
}

const columnsQuery = `
	query ($boardId: [ID!]) {
		boards(ids: $boardId) {
			columns {
				id
				title
				type
				settings_str
			}
		}
	}
`

// ListColumns retrieves the board's column metadata.
func (c *Client) ListColumns(ctx context.Context, boardID types.BoardID) ([]model.Column, error) {
	data, err := c.execute(ctx, columnsQuery, map[string]any{
		"boardId": boardIDValue(boardID),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch board columns", goerr.V("board_id", boardID))
	}

	var resp struct {
		Boards []struct {
			Columns []apiColumn `json:"columns"`
		} `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, goerr.Wrap(err, "cannot decode columns response", goerr.V("board_id", boardID))
	}
	if len(resp.Boards) == 0 {
		return nil, goerr.New("board not found", goerr.V("board_id", boardID))
	}

	columns := make([]model.Column, len(resp.Boards[0].Columns))
	for i := range resp.Boards[0].Columns {
		columns[i] = resp.Boards[0].Columns[i].toModel()
	}
	return columns, nil
}

const createItemMutation = `
	mutation ($boardId: ID!, $itemName: String!, $columnValues: JSON) {
		create_item(
			board_id: $boardId,
			item_name: $itemName,
			column_values: $columnValues
		) {
			id
			name
		}
	}
`

// CreateItem creates an item with the given column values. The value map is
// serialized to the opaque JSON string the mutation expects.
func (c *Client) CreateItem(ctx context.Context, boardID types.BoardID, name string, columnValues map[types.ColumnID]any) (*model.CreatedItem, error) {
	variables := map[string]any{
		"boardId":  boardIDValue(boardID),
		"itemName": name,
	}
	if len(columnValues) > 0 {
		encoded, err := json.Marshal(columnValues)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to serialize column values")
		}
		variables["columnValues"] = string(encoded)
	}

	data, err := c.execute(ctx, createItemMutation, variables)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create item",
			goerr.V("board_id", boardID), goerr.V("item_name", name))
	}

	var resp struct {
		CreateItem struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"create_item"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, goerr.Wrap(err, "cannot decode create_item response")
	}

	return &model.CreatedItem{
		ID:   types.ItemID(resp.CreateItem.ID),
		Name: resp.CreateItem.Name,
	}, nil
}

const meQuery = `
	query {
		me {
			id
			name
			email
		}
	}
`

// TestConnection performs a trivial authenticated call. The returned error
// carries the distinct failure reason; callers at UI-facing boundaries
// convert it to a plain yes/no.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.execute(ctx, meQuery, nil); err != nil {
		return goerr.Wrap(err, "connectivity check failed")
	}
	return nil
}

// Query executes a raw query with variables, for the proxy's passthrough
// action.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	return c.execute(ctx, query, variables)
}

// RemoteMessage extracts the remote service's first error message from a
// rejection error, for surfacing verbatim to the user.
func RemoteMessage(err error) (string, bool) {
	var ge *goerr.Error
	if !errors.As(err, &ge) {
		return "", false
	}
	if msg, ok := ge.Values()["remote_message"].(string); ok && msg != "" {
		return msg, true
	}
	return "", false
}

// boardIDValue mirrors the original wire behavior: numeric board IDs travel
// as integers.
func boardIDValue(boardID types.BoardID) any {
	if n, err := strconv.ParseInt(string(boardID), 10, 64); err == nil {
		return n
	}
	return string(boardID)
}
