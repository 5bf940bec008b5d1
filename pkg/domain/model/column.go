package model

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// Column is board column metadata: identity, kind, and the raw settings blob
// the remote service attaches to choice-type columns.
type Column struct {
	ID       types.ColumnID
	Title    string
	Type     types.ColumnType
	Settings string
}

// statusSettings is the settings shape of a status column: labels keyed by
// numeric index.
type statusSettings struct {
	Labels            map[string]string `json:"labels"`
	DeactivatedLabels []int             `json:"deactivated_labels"`
}

// dropdownSettings is the settings shape of a dropdown column.
type dropdownSettings struct {
	Labels []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"labels"`
	DeactivatedLabels []int `json:"deactivated_labels"`
}

// OptionLabels parses the settings blob of a choice-type column and returns
// every configured, non-deactivated option label. Status labels come back in
// their numeric key order, dropdown labels in declaration order. For
// free-text and other non-choice columns it returns nil; callers derive
// options from observed item values instead.
func (c *Column) OptionLabels() []string {
	if !c.Type.IsChoice() || c.Settings == "" {
		return nil
	}

	if c.Type == types.ColumnTypeDropdown {
		var settings dropdownSettings
		if err := json.Unmarshal([]byte(c.Settings), &settings); err != nil {
			return nil
		}
		deactivated := make(map[int]bool, len(settings.DeactivatedLabels))
		for _, id := range settings.DeactivatedLabels {
			deactivated[id] = true
		}
		var labels []string
		for _, label := range settings.Labels {
			if label.Name != "" && !deactivated[label.ID] {
				labels = append(labels, label.Name)
			}
		}
		return labels
	}

	var settings statusSettings
	if err := json.Unmarshal([]byte(c.Settings), &settings); err != nil {
		return nil
	}
	deactivated := make(map[int]bool, len(settings.DeactivatedLabels))
	for _, id := range settings.DeactivatedLabels {
		deactivated[id] = true
	}

	keys := make([]int, 0, len(settings.Labels))
	byKey := make(map[int]string, len(settings.Labels))
	for k, name := range settings.Labels {
		idx, err := strconv.Atoi(k)
		if err != nil || name == "" || deactivated[idx] {
			continue
		}
		keys = append(keys, idx)
		byKey[idx] = name
	}
	sort.Ints(keys)

	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, byKey[k])
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}

// CreatedItem is the remote service's acknowledgement of an item creation.
type CreatedItem struct {
	ID   types.ItemID
	Name string
}
