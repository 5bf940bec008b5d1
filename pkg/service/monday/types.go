package monday

import (
	"encoding/json"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// graphqlRequest is the JSON-over-POST wire format of the remote API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse is the remote API's response envelope.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// apiColumnValue mirrors the column_values selection of the items query.
type apiColumnValue struct {
	ID    string          `json:"id"`
	Text  string          `json:"text"`
	Value json.RawMessage `json:"value"`
	Type  string          `json:"type"`
}

// apiItem mirrors the items selection of the items query.
type apiItem struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	ColumnValues []apiColumnValue `json:"column_values"`
}

func (x *apiItem) toModel() model.Item {
	item := model.Item{
		ID:           types.ItemID(x.ID),
		Name:         x.Name,
		ColumnValues: make([]model.ColumnValue, len(x.ColumnValues)),
	}
	for i, cv := range x.ColumnValues {
		item.ColumnValues[i] = model.ColumnValue{
			ColumnID: types.ColumnID(cv.ID),
			Text:     cv.Text,
			Value:    cv.Value,
			Type:     types.ColumnType(cv.Type),
		}
	}
	return item
}

// apiColumn mirrors the columns selection of the columns query.
type apiColumn struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	SettingsStr string `json:"settings_str"`
}

func (x *apiColumn) toModel() model.Column {
	return model.Column{
		ID:       types.ColumnID(x.ID),
		Title:    x.Title,
		Type:     types.ColumnType(x.Type),
		Settings: x.SettingsStr,
	}
}

type itemsPage struct {
	Cursor string    `json:"cursor"`
	Items  []apiItem `json:"items"`
}
