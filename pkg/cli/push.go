package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/cli/config"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/usecase"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/logging"
)

func cmdPush() *cli.Command {
	var (
		sourceCfg    config.Source
		firestoreCfg config.Firestore
		policyCfg    config.Policy
	)

	flags := joinFlags(
		sourceCfg.Flags(),
		firestoreCfg.Flags(),
		policyCfg.Flags(),
	)

	return &cli.Command{
		Name:    "push",
		Aliases: []string{"p"},
		Usage:   "Push source tables to Firestore as documents",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logging.From(ctx).Info("starting Firestore push",
				"source", sourceCfg,
				"firestore", firestoreCfg,
				"policy", policyCfg,
			)

			source, err := sourceCfg.Configure(ctx)
			if err != nil {
				return err
			}

			writer, minter, err := firestoreCfg.Configure()
			if err != nil {
				return err
			}

			syncPolicy, err := policyCfg.Configure()
			if err != nil {
				return err
			}

			uc := usecase.New(source,
				usecase.WithWriter(writer, minter),
				usecase.WithPolicy(syncPolicy),
			)

			return uc.SyncFirestore(ctx)
		},
	}
}
