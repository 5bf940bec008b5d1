package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// BoardConfig binds the form to its two boards: the source catalog that is
// filtered and the destination board that receives created requests.
type BoardConfig struct {
	SourceBoard      types.BoardID
	DestinationBoard types.BoardID

	// StatusColumn/ActiveStatus gate the catalog: only items whose status
	// text equals ActiveStatus are offered.
	StatusColumn types.ColumnID
	ActiveStatus string

	// DescriptionColumn holds the engagement description on the source board.
	DescriptionColumn types.ColumnID

	Destination DestinationColumns
}

// DestinationColumns maps the composed request payload onto the destination
// board's columns. Empty entries are skipped at composition time.
type DestinationColumns struct {
	RequesterName         types.ColumnID
	Email                 types.ColumnID
	Department            types.ColumnID
	EventDuration         types.ColumnID
	Description           types.ColumnID
	EngagementName        types.ColumnID
	EngagementDescription types.ColumnID
	SubmittedAt           types.ColumnID
	EventAt               types.ColumnID
}

// Validate checks that the config names both boards.
func (c *BoardConfig) Validate() error {
	if c.SourceBoard == "" {
		return goerr.New("source board ID is required")
	}
	if c.DestinationBoard == "" {
		return goerr.New("destination board ID is required")
	}
	return nil
}
