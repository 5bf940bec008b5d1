package interfaces

import (
	"context"
	"encoding/json"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// BoardClient is the narrow contract to the remote project-management
// service. It is a pure I/O wrapper: no business logic, no local state
// beyond the transport handle.
type BoardClient interface {
	// ListItems retrieves all items of a board with their column values,
	// following pagination until the board is exhausted.
	ListItems(ctx context.Context, boardID types.BoardID) ([]model.Item, error)

	// ListColumns retrieves the board's column metadata, including the raw
	// option-settings blob of choice-type columns.
	ListColumns(ctx context.Context, boardID types.BoardID) ([]model.Column, error)

	// CreateItem creates a new item with the given column values.
	CreateItem(ctx context.Context, boardID types.BoardID, name string, columnValues map[types.ColumnID]any) (*model.CreatedItem, error)

	// TestConnection performs a trivial authenticated call. The returned
	// error carries the distinct failure reason; conversion to a plain
	// yes/no happens only at UI-facing boundaries.
	TestConnection(ctx context.Context) error

	// Query executes a raw query with variables and returns the raw response
	// data. Used by the request proxy's passthrough action.
	Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}
