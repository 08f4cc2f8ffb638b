package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/cli/config"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/logging"
)

func Run(ctx context.Context, args []string) error {
	// .env is optional and loaded before flag parsing so cli env sources
	// can see it. Real environment variables win over file values.
	_ = godotenv.Load()

	var loggerCfg config.Logger
	var closer func()
	app := &cli.Command{
		Name:  "sbsync",
		Usage: "Sync spreadsheet tables to BigQuery and Firestore",
		Flags: loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("base options", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdLoad(),
			cmdPush(),
			cmdInspect(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
