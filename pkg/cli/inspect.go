package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/museum-lab/engagedesk/pkg/cli/config"
	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/domain/types"
)

// cmdInspect dumps a board's column metadata: every column with its type,
// its declared option labels, and the values actually observed on items.
// Useful when wiring a new board into the criteria config, where declared
// labels and observed values routinely disagree.
func cmdInspect() *cli.Command {
	var boardID string
	var withItems bool
	var mondayCfg config.Monday

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "board",
			Usage:       "Board ID to inspect",
			Required:    true,
			Sources:     cli.EnvVars("ENGAGEDESK_INSPECT_BOARD"),
			Destination: &boardID,
		},
		&cli.BoolFlag{
			Name:        "items",
			Usage:       "Also fetch items and show observed column values",
			Value:       true,
			Destination: &withItems,
		},
	}
	flags = append(flags, mondayCfg.Flags()...)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Show a board's columns, declared labels, and observed values",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := mondayCfg.Configure()
			if err != nil {
				return err
			}

			columns, err := client.ListColumns(ctx, types.BoardID(boardID))
			if err != nil {
				return goerr.Wrap(err, "failed to fetch columns", goerr.V("board_id", boardID))
			}

			var items []model.Item
			if withItems {
				items, err = client.ListItems(ctx, types.BoardID(boardID))
				if err != nil {
					return goerr.Wrap(err, "failed to fetch items", goerr.V("board_id", boardID))
				}
			}

			title := color.New(color.FgCyan, color.Bold)
			title.Printf("Board %s: %d columns, %d items\n\n", boardID, len(columns), len(items))

			for i := range columns {
				printColumn(&columns[i], items)
			}
			return nil
		},
	}
}

func printColumn(col *model.Column, items []model.Item) {
	colType := color.YellowString(string(col.Type))
	if col.Type.IsChoice() {
		colType = color.MagentaString(string(col.Type))
	}
	fmt.Printf("%s  %s (%s)\n", color.New(color.Bold).Sprint(col.ID), col.Title, colType)

	if labels := col.OptionLabels(); len(labels) > 0 {
		fmt.Printf("  declared: %s\n", strings.Join(labels, " | "))
	}

	if observed := observedValues(col.ID, items); len(observed) > 0 {
		fmt.Printf("  observed: %s\n", strings.Join(observed, " | "))
	}
	fmt.Println()
}

// observedValues collects the distinct non-empty texts of a column across
// the board's items, the same reduction the filter engine applies.
func observedValues(colID types.ColumnID, items []model.Item) []string {
	seen := make(map[string]bool)
	var values []string
	for i := range items {
		text, ok := items[i].ColumnText(colID)
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		values = append(values, text)
	}
	sort.Strings(values)
	return values
}
