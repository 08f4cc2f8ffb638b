package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/bqload"
)

type BigQuery struct {
	projectID    string
	datasetID    string
	credentials  string
	mode         string
	delimiter    string
	pollInterval time.Duration
	maxAttempts  int64
	timezone     string
}

func (x *BigQuery) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bigquery-project-id",
			Usage:       "Google Cloud project of the destination dataset",
			Destination: &x.projectID,
			Category:    "BigQuery",
			Sources:     cli.EnvVars("SBSYNC_BIGQUERY_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "bigquery-dataset-id",
			Usage:       "Destination dataset ID",
			Destination: &x.datasetID,
			Category:    "BigQuery",
			Sources:     cli.EnvVars("SBSYNC_BIGQUERY_DATASET_ID"),
		},
		&cli.StringFlag{
			Name:        "bigquery-credentials",
			Usage:       "Path to Google Cloud credentials JSON file (optional)",
			Destination: &x.credentials,
			Category:    "BigQuery",
			Sources:     cli.EnvVars("SBSYNC_BIGQUERY_CREDENTIALS"),
		},
		&cli.StringFlag{
			Name:        "inference-mode",
			Usage:       "Column type inference mode [basic|all-string]",
			Destination: &x.mode,
			Category:    "BigQuery",
			Value:       types.InferenceBasic.String(),
			Sources:     cli.EnvVars("SBSYNC_INFERENCE_MODE"),
		},
		&cli.StringFlag{
			Name:        "field-delimiter",
			Usage:       "Field delimiter of the generated load payload",
			Destination: &x.delimiter,
			Category:    "BigQuery",
			Value:       ",",
			Sources:     cli.EnvVars("SBSYNC_FIELD_DELIMITER"),
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Interval between load job status polls",
			Destination: &x.pollInterval,
			Category:    "BigQuery",
			Value:       2 * time.Second,
			Sources:     cli.EnvVars("SBSYNC_POLL_INTERVAL"),
		},
		&cli.Int64Flag{
			Name:        "poll-max-attempts",
			Usage:       "Maximum number of load job status polls",
			Destination: &x.maxAttempts,
			Category:    "BigQuery",
			Value:       60,
			Sources:     cli.EnvVars("SBSYNC_POLL_MAX_ATTEMPTS"),
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "IANA time zone for DATETIME rendering (e.g. Asia/Karachi)",
			Destination: &x.timezone,
			Category:    "BigQuery",
			Value:       "UTC",
			Sources:     cli.EnvVars("SBSYNC_TIMEZONE"),
		},
	}
}

func (x BigQuery) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", x.projectID),
		slog.String("dataset_id", x.datasetID),
		slog.String("mode", x.mode),
		slog.String("delimiter", x.delimiter),
		slog.Duration("poll_interval", x.pollInterval),
		slog.Int64("poll_max_attempts", x.maxAttempts),
		slog.String("timezone", x.timezone),
	)
}

func (x *BigQuery) IsConfigured() bool {
	return x.projectID != "" && x.datasetID != ""
}

func (x *BigQuery) Configure(ctx context.Context) (*bqload.Loader, error) {
	var opts []option.ClientOption
	if x.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(x.credentials))
	}
	client, err := bqload.NewClient(ctx, x.projectID, opts...)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(x.timezone)
	if err != nil {
		return nil, err
	}

	delim := ','
	if x.delimiter != "" {
		delim = []rune(x.delimiter)[0]
	}

	return bqload.New(client, bqload.Config{
		DatasetID:    x.datasetID,
		Mode:         types.InferenceMode(x.mode),
		Delimiter:    delim,
		PollInterval: x.pollInterval,
		MaxAttempts:  int(x.maxAttempts),
		Location:     loc,
	})
}
