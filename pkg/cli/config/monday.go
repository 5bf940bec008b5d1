package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/museum-lab/engagedesk/pkg/service/monday"
)

type Monday struct {
	token      string
	apiURL     string
	apiVersion string
}

func (x *Monday) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "monday-api-token",
			Usage:       "Board API token (kept server-side; never sent to browsers)",
			Category:    "Board API",
			Sources:     cli.EnvVars("ENGAGEDESK_MONDAY_API_TOKEN"),
			Destination: &x.token,
		},
		&cli.StringFlag{
			Name:        "monday-api-url",
			Usage:       "Board API endpoint",
			Category:    "Board API",
			Sources:     cli.EnvVars("ENGAGEDESK_MONDAY_API_URL"),
			Destination: &x.apiURL,
		},
		&cli.StringFlag{
			Name:        "monday-api-version",
			Usage:       "Board API version header",
			Category:    "Board API",
			Sources:     cli.EnvVars("ENGAGEDESK_MONDAY_API_VERSION"),
			Destination: &x.apiVersion,
		},
	}
}

func (x Monday) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("token.len", len(x.token)),
		slog.String("url", x.apiURL),
		slog.String("version", x.apiVersion),
	)
}

// IsConfigured reports whether an API token is present.
func (x *Monday) IsConfigured() bool {
	return x.token != ""
}

// Configure creates the board API client.
func (x *Monday) Configure() (*monday.Client, error) {
	if x.token == "" {
		return nil, goerr.New("board API token is required: set --monday-api-token or ENGAGEDESK_MONDAY_API_TOKEN")
	}

	var opts []monday.Option
	if x.apiURL != "" {
		opts = append(opts, monday.WithAPIURL(x.apiURL))
	}
	if x.apiVersion != "" {
		opts = append(opts, monday.WithAPIVersion(x.apiVersion))
	}
	return monday.New(x.token, opts...)
}
