package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/museum-lab/engagedesk/pkg/cli/config"
	httpctrl "github.com/museum-lab/engagedesk/pkg/controller/http"
	"github.com/museum-lab/engagedesk/pkg/repository/memory"
	"github.com/museum-lab/engagedesk/pkg/usecase"
	"github.com/museum-lab/engagedesk/pkg/utils/logging"
	"github.com/museum-lab/engagedesk/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var addr string
	var catalogRefresh time.Duration
	var appCfg config.AppConfig
	var mondayCfg config.Monday
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ENGAGEDESK_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "catalog-refresh",
			Usage:       "Interval for background catalog reloads (0 disables)",
			Value:       5 * time.Minute,
			Sources:     cli.EnvVars("ENGAGEDESK_CATALOG_REFRESH"),
			Destination: &catalogRefresh,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, mondayCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Configure(c); err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}
			boards := appCfg.ToBoardConfig()

			catalog, err := appCfg.ToCatalog()
			if err != nil {
				return goerr.Wrap(err, "failed to build criteria catalog")
			}

			client, err := mondayCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize board API client")
			}

			notifier, err := slackCfg.Configure(boards.DestinationBoard)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Slack notifier")
			}

			repo := memory.New()
			defer safe.Close(ctx, repo)

			ucOpts := []usecase.Option{}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithSlack(notifier))
			}
			uc := usecase.New(repo, client, catalog, boards, appCfg.ToNormalizer(), ucOpts...)

			if err := uc.LoadCatalog(ctx); err != nil {
				return goerr.Wrap(err, "failed to load initial catalog")
			}

			srv := httpctrl.New(uc, httpctrl.WithProxyClient(client))

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logging.From(ctx).Info("starting HTTP server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "HTTP server failed")
				}
			}()

			if catalogRefresh > 0 {
				go refreshCatalog(serverCtx, uc, catalogRefresh)
			}

			select {
			case err := <-errCh:
				return err
			case <-serverCtx.Done():
			}

			logging.From(ctx).Info("shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shut down HTTP server")
			}
			return nil
		},
	}
}

// refreshCatalog reloads the catalog on an interval so new or retired
// engagements show up without a restart. A failed reload keeps the previous
// snapshot.
func refreshCatalog(ctx context.Context, uc *usecase.UseCases, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.LoadCatalog(ctx); err != nil {
				logging.From(ctx).Warn("catalog refresh failed", "error", err)
			}
		}
	}
}
