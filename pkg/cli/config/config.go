package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// AppConfig is the TOML application configuration: the two boards, the
// filter criteria, the value alias table, and the destination column map.
type AppConfig struct {
	SourceBoard       string `toml:"source_board"`
	DestinationBoard  string `toml:"destination_board"`
	StatusColumn      string `toml:"status_column"`
	ActiveStatus      string `toml:"active_status"`
	DescriptionColumn string `toml:"description_column"`

	Criteria    []Criterion       `toml:"criterion"`
	Aliases     map[string]string `toml:"aliases"`
	Destination Destination       `toml:"destination"`
}

// Criterion is one filterable dimension in the config file.
type Criterion struct {
	ID                string `toml:"id"`
	Label             string `toml:"label"`
	SourceColumn      string `toml:"source_column"`
	DestinationColumn string `toml:"destination_column"`
	ColumnType        string `toml:"column_type"`
}

// Validate checks if the Criterion is valid
func (c *Criterion) Validate() error {
	if c.ID == "" {
		return goerr.Wrap(ErrInvalidConfig, "criterion ID is required")
	}
	if c.Label == "" {
		return goerr.Wrap(ErrInvalidConfig, "criterion label is required", goerr.V("id", c.ID))
	}
	if c.SourceColumn == "" {
		return goerr.Wrap(ErrMissingColumn, "criterion source column is required", goerr.V("id", c.ID))
	}
	return nil
}

// Destination maps the request form fields onto destination board columns.
type Destination struct {
	RequesterName         string `toml:"requester_name"`
	Email                 string `toml:"email"`
	Department            string `toml:"department"`
	EventDuration         string `toml:"event_duration"`
	Description           string `toml:"description"`
	EngagementName        string `toml:"engagement_name"`
	EngagementDescription string `toml:"engagement_description"`
	SubmittedAt           string `toml:"submitted_at"`
	EventAt               string `toml:"event_at"`
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if a.SourceBoard == "" {
		return goerr.Wrap(ErrMissingBoard, "source_board is required")
	}
	if a.DestinationBoard == "" {
		return goerr.Wrap(ErrMissingBoard, "destination_board is required")
	}
	if len(a.Criteria) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "at least one criterion is required")
	}

	seen := make(map[string]bool)
	for _, crit := range a.Criteria {
		if err := crit.Validate(); err != nil {
			return err
		}
		if seen[crit.ID] {
			return goerr.Wrap(ErrDuplicateCriterionID, "criterion IDs must be unique", goerr.V("id", crit.ID))
		}
		seen[crit.ID] = true
	}
	return nil
}

// Flags returns the CLI flag set for loading the app config.
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the TOML configuration file",
			Sources: cli.EnvVars("ENGAGEDESK_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "source-board",
			Usage:   "Source board ID (overrides source_board in the config file)",
			Sources: cli.EnvVars("ENGAGEDESK_SOURCE_BOARD"),
		},
		&cli.StringFlag{
			Name:    "destination-board",
			Usage:   "Destination board ID (overrides destination_board in the config file)",
			Sources: cli.EnvVars("ENGAGEDESK_DESTINATION_BOARD"),
		},
	}
}

// Configure loads the config file named by --config (or the built-in column
// defaults when no path is given), applies the board ID flag overrides and
// validates the result. The board IDs have no default: they identify the
// deployment's own boards.
func (a *AppConfig) Configure(c *cli.Command) error {
	if path := c.String("config"); path != "" {
		loaded, err := LoadAppConfiguration(path)
		if err != nil {
			return err
		}
		*a = *loaded
	} else {
		*a = *DefaultAppConfig()
	}

	if v := c.String("source-board"); v != "" {
		a.SourceBoard = v
	}
	if v := c.String("destination-board"); v != "" {
		a.DestinationBoard = v
	}

	return a.Validate()
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "cannot read config file", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	// Board IDs may still come from flags; Configure validates the merged
	// result.
	return &config, nil
}

// ToBoardConfig converts the loaded config to the domain board config.
func (a *AppConfig) ToBoardConfig() *model.BoardConfig {
	return &model.BoardConfig{
		SourceBoard:       types.BoardID(a.SourceBoard),
		DestinationBoard:  types.BoardID(a.DestinationBoard),
		StatusColumn:      types.ColumnID(a.StatusColumn),
		ActiveStatus:      a.ActiveStatus,
		DescriptionColumn: types.ColumnID(a.DescriptionColumn),
		Destination: model.DestinationColumns{
			RequesterName:         types.ColumnID(a.Destination.RequesterName),
			Email:                 types.ColumnID(a.Destination.Email),
			Department:            types.ColumnID(a.Destination.Department),
			EventDuration:         types.ColumnID(a.Destination.EventDuration),
			Description:           types.ColumnID(a.Destination.Description),
			EngagementName:        types.ColumnID(a.Destination.EngagementName),
			EngagementDescription: types.ColumnID(a.Destination.EngagementDescription),
			SubmittedAt:           types.ColumnID(a.Destination.SubmittedAt),
			EventAt:               types.ColumnID(a.Destination.EventAt),
		},
	}
}

// ToCatalog converts the configured criteria to the domain catalog.
func (a *AppConfig) ToCatalog() (*model.Catalog, error) {
	criteria := make([]model.Criterion, len(a.Criteria))
	for i, crit := range a.Criteria {
		criteria[i] = model.Criterion{
			ID:         types.CriterionID(crit.ID),
			Label:      crit.Label,
			SourceCol:  types.ColumnID(crit.SourceColumn),
			DestCol:    types.ColumnID(crit.DestinationColumn),
			ColumnType: types.ColumnType(crit.ColumnType),
		}
	}
	return model.NewCatalog(criteria)
}

// ToNormalizer converts the alias table to the domain normalizer.
func (a *AppConfig) ToNormalizer() *model.Normalizer {
	return model.NewNormalizer(a.Aliases)
}

// DefaultAppConfig returns the built-in criteria and column mapping of the
// museum's engagement boards. Board IDs are deployment-specific and must be
// supplied via config file, flag, or environment.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		StatusColumn:      "color_mkxxab7g",
		ActiveStatus:      "Active",
		DescriptionColumn: "text_mkvnh9sm",
		Criteria: []Criterion{
			{ID: "paCategory", Label: "Theme", SourceColumn: "color_mkvnrc08", DestinationColumn: "color_mkwrzjh2", ColumnType: "status"},
			{ID: "depth", Label: "Depth", SourceColumn: "color_mkvnyaj9", DestinationColumn: "color_mkwr6zfj", ColumnType: "status"},
			{ID: "type", Label: "Type", SourceColumn: "dropdown_mkvn675a", DestinationColumn: "dropdown_mkwr1011", ColumnType: "dropdown"},
			{ID: "audience", Label: "Audience", SourceColumn: "color_mkvnh5kw", DestinationColumn: "color_mkwr3jx0", ColumnType: "status"},
		},
		Aliases: map[string]string{
			"Gallery Talk, Tabling": "Tabling/Gallery Talk",
			"Tabling, Gallery Talk": "Tabling/Gallery Talk",
		},
		Destination: Destination{
			RequesterName:         "text_mkwrbr6p",
			Email:                 "email_mkwr1ham",
			Department:            "text_mkwr3hq0",
			EventDuration:         "text_mkwrh03s",
			Description:           "text_mkwrjgwf",
			EngagementName:        "text_mkwrmbrf",
			EngagementDescription: "text_mkwrhk6d",
			SubmittedAt:           "date_mkwsfa4p",
			EventAt:               "date4",
		},
	}
}
