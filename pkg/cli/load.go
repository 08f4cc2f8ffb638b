package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/cli/config"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/usecase"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/logging"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/safe"
)

func cmdLoad() *cli.Command {
	var (
		sourceCfg   config.Source
		bigqueryCfg config.BigQuery
		policyCfg   config.Policy
	)

	flags := joinFlags(
		sourceCfg.Flags(),
		bigqueryCfg.Flags(),
		policyCfg.Flags(),
	)

	return &cli.Command{
		Name:    "load",
		Aliases: []string{"l"},
		Usage:   "Load source tables into BigQuery",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.From(ctx).Info("starting BigQuery load",
				"source", sourceCfg,
				"bigquery", bigqueryCfg,
				"policy", policyCfg,
			)

			source, err := sourceCfg.Configure(ctx)
			if err != nil {
				return err
			}

			loader, err := bigqueryCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(ctx, loader)

			syncPolicy, err := policyCfg.Configure()
			if err != nil {
				return err
			}

			uc := usecase.New(source,
				usecase.WithLoader(loader),
				usecase.WithPolicy(syncPolicy),
			)

			summary, err := uc.SyncBigQuery(ctx)
			if summary != nil {
				logging.From(ctx).Info("BigQuery load finished",
					"loaded", len(summary.Loaded),
					"skipped", len(summary.Skipped),
					"failed", len(summary.Failed),
				)
			}
			return err
		},
	}
}
