package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/museum-lab/engagedesk/pkg/cli/config"
	"github.com/museum-lab/engagedesk/pkg/utils/logging"
)

// cmdPing checks connectivity and credentials against the board API. The
// distinct failure reason goes to the log; the terminal gets a plain yes/no.
func cmdPing() *cli.Command {
	var mondayCfg config.Monday

	return &cli.Command{
		Name:  "ping",
		Usage: "Check board API connectivity and credentials",
		Flags: mondayCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			client, err := mondayCfg.Configure()
			if err != nil {
				return err
			}

			if err := client.TestConnection(ctx); err != nil {
				logging.From(ctx).Error("connectivity check failed", "error", err)
				fmt.Println(color.RedString("NG"))
				return err
			}

			fmt.Println(color.GreenString("OK"))
			return nil
		},
	}
}
