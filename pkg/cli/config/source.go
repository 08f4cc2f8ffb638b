package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/adapter/csvfile"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/adapter/sheets"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/interfaces"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
)

type Source struct {
	spreadsheetID string
	credentials   string
	csvFiles      []string
	includeHidden bool
	excludeSheets []string
}

func (x *Source) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "spreadsheet-id",
			Usage:       "Google spreadsheet ID to read tables from",
			Destination: &x.spreadsheetID,
			Category:    "Source",
			Sources:     cli.EnvVars("SBSYNC_SPREADSHEET_ID"),
		},
		&cli.StringFlag{
			Name:        "sheets-credentials",
			Usage:       "Path to Google Cloud credentials JSON file for the Sheets API (optional)",
			Destination: &x.credentials,
			Category:    "Source",
			Sources:     cli.EnvVars("SBSYNC_SHEETS_CREDENTIALS"),
		},
		&cli.StringSliceFlag{
			Name:        "csv-file",
			Usage:       "CSV file to read as a source table (repeatable, alternative to a spreadsheet)",
			Destination: &x.csvFiles,
			Category:    "Source",
			Sources:     cli.EnvVars("SBSYNC_CSV_FILES"),
		},
		&cli.BoolFlag{
			Name:        "include-hidden-sheets",
			Usage:       "Read hidden sheets as well",
			Destination: &x.includeHidden,
			Category:    "Source",
			Sources:     cli.EnvVars("SBSYNC_INCLUDE_HIDDEN_SHEETS"),
		},
		&cli.StringSliceFlag{
			Name:        "exclude-sheet",
			Usage:       "Sheet title to skip (repeatable)",
			Destination: &x.excludeSheets,
			Category:    "Source",
			Sources:     cli.EnvVars("SBSYNC_EXCLUDE_SHEETS"),
		},
	}
}

func (x Source) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("spreadsheet_id", x.spreadsheetID),
		slog.Int("csv_files", len(x.csvFiles)),
		slog.Bool("include_hidden", x.includeHidden),
		slog.Any("exclude_sheets", x.excludeSheets),
	)
}

func (x *Source) Configure(ctx context.Context) (interfaces.TableSource, error) {
	switch {
	case x.spreadsheetID != "" && len(x.csvFiles) > 0:
		return nil, goerr.New("spreadsheet and CSV sources are exclusive, configure only one",
			goerr.T(errs.TagConfig))

	case x.spreadsheetID != "":
		return sheets.New(ctx, x.spreadsheetID, x.credentials,
			sheets.WithIncludeHidden(x.includeHidden),
			sheets.WithExclude(x.excludeSheets),
		)

	case len(x.csvFiles) > 0:
		return csvfile.New(x.csvFiles...), nil
	}

	return nil, goerr.New("no source configured, set --spreadsheet-id or --csv-file",
		goerr.T(errs.TagConfig))
}
