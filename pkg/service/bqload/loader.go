package bqload

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/googleapi"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/encode"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/infer"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/clock"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/logging"
)

// Config carries the fixed per-invocation load settings.
type Config struct {
	DatasetID    string
	Mode         types.InferenceMode
	Delimiter    rune
	PollInterval time.Duration
	MaxAttempts  int
	Location     *time.Location
}

func (c *Config) Validate() error {
	if c.DatasetID == "" {
		return goerr.New("dataset ID is required", goerr.T(errs.TagConfig))
	}
	if err := c.Mode.Validate(); err != nil {
		return goerr.Wrap(err, "invalid inference mode", goerr.T(errs.TagConfig))
	}
	return nil
}

// Result reports one completed load.
type Result struct {
	TableID types.TableID
	JobID   types.JobID
	Rows    int
}

// Loader drives delimited-text bulk loads into BigQuery.
type Loader struct {
	client Client
	config Config
	eb     *goerr.Builder
}

func New(client Client, config Config) (*Loader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 60
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	return &Loader{
		client: client,
		config: config,
		eb:     goerr.NewBuilder(goerr.V("dataset_id", config.DatasetID)),
	}, nil
}

func (x *Loader) Close() error {
	return x.client.Close()
}

// Load encodes the table and drives a load job to a terminal state. The
// submitted job carries a schema only when the destination table does not
// exist yet; an existing table keeps its own shape so an inference drift
// cannot overwrite it.
func (x *Loader) Load(ctx context.Context, tbl *table.Table, override types.TableID) (*Result, error) {
	if tbl.IsEmpty() {
		return nil, x.eb.New("source table has no data rows",
			goerr.V("source", tbl.Name),
			goerr.T(errs.TagData))
	}

	tableID := override
	if tableID == "" {
		tableID = types.TableID(table.SanitizeTableID(tbl.Name.String()))
	}

	var schema table.Schema
	if x.config.Mode == types.InferenceAllString {
		schema = infer.AllString(tbl.Header)
	} else {
		schema = infer.Schema(tbl.Header, tbl.Rows)
	}

	payload := encode.Table(tbl, x.config.Delimiter, schema, x.config.Location)

	dst := x.client.Dataset(x.config.DatasetID).Table(tableID.String())
	exists, err := x.tableExists(ctx, dst, tbl.Name, tableID)
	if err != nil {
		return nil, err
	}

	src := bigquery.NewReaderSource(strings.NewReader(payload))
	src.SourceFormat = bigquery.CSV
	src.FieldDelimiter = string(x.config.Delimiter)
	src.SkipLeadingRows = 1
	src.AllowQuotedNewlines = true
	src.Encoding = bigquery.UTF_8
	if !exists {
		src.Schema = toBigQuerySchema(schema)
	}

	job := dst.LoaderFrom(src)
	if err := job.Run(ctx); err != nil {
		return nil, x.eb.Wrap(err, "failed to submit load job",
			goerr.V("source", tbl.Name),
			goerr.V("table_id", tableID),
			goerr.T(errs.TagExternal))
	}

	logging.From(ctx).Info("submitted load job",
		slog.Any("source", tbl.Name),
		slog.Any("table_id", tableID),
		slog.String("job_id", job.ID()),
		slog.String("payload_size", humanize.Bytes(uint64(len(payload)))),
		slog.Bool("with_schema", !exists),
	)

	if err := x.waitForJob(ctx, job, tbl.Name); err != nil {
		return nil, err
	}

	return &Result{
		TableID: tableID,
		JobID:   types.JobID(job.ID()),
		Rows:    len(tbl.Rows),
	}, nil
}

// tableExists probes destination metadata. A 404 means the table is absent
// and the load must carry a schema. Permission denial is NOT treated as
// absence: loading into a table we cannot read would silently attempt a
// create, so it fails here instead.
func (x *Loader) tableExists(ctx context.Context, dst Table, source types.SourceName, tableID types.TableID) (bool, error) {
	_, err := dst.Metadata(ctx)
	if err == nil {
		return true, nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return false, nil
		case http.StatusForbidden:
			return false, x.eb.Wrap(err, "permission denied on destination table",
				goerr.V("source", source),
				goerr.V("table_id", tableID),
				goerr.T(errs.TagConfig))
		}
	}
	return false, x.eb.Wrap(err, "failed to probe destination table",
		goerr.V("source", source),
		goerr.V("table_id", tableID),
		goerr.T(errs.TagExternal))
}

func (x *Loader) waitForJob(ctx context.Context, job Job, source types.SourceName) error {
	for attempt := 0; attempt < x.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := clock.Sleep(ctx, x.config.PollInterval); err != nil {
				return x.eb.Wrap(err, "canceled while polling load job",
					goerr.V("source", source),
					goerr.V("job_id", job.ID()))
			}
		}

		status, err := job.Status(ctx)
		if err != nil {
			return x.eb.Wrap(err, "failed to fetch load job status",
				goerr.V("source", source),
				goerr.V("job_id", job.ID()),
				goerr.T(errs.TagExternal))
		}
		if !status.Done() {
			continue
		}

		jobErr := status.Err()
		if jobErr == nil && len(status.Errors) > 0 {
			jobErr = status.Errors[0]
		}
		if jobErr != nil {
			return x.eb.Wrap(jobErr, "load job failed",
				goerr.V("source", source),
				goerr.V("job_id", job.ID()),
				goerr.V("details", joinJobErrors(status.Errors)),
				goerr.T(errs.TagJob))
		}
		return nil
	}

	return x.eb.New("load job did not finish within the polling budget",
		goerr.V("source", source),
		goerr.V("job_id", job.ID()),
		goerr.V("max_attempts", x.config.MaxAttempts),
		goerr.V("poll_interval", x.config.PollInterval),
		goerr.T(errs.TagTimeout))
}

func joinJobErrors(jobErrs []*bigquery.Error) string {
	parts := make([]string, 0, len(jobErrs))
	for _, e := range jobErrs {
		if e == nil {
			continue
		}
		part := e.Message
		if e.Reason != "" {
			part += " (" + e.Reason + ")"
		}
		if e.Location != "" {
			part += " [" + e.Location + "]"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

func toBigQuerySchema(schema table.Schema) bigquery.Schema {
	out := make(bigquery.Schema, len(schema))
	for i, col := range schema {
		out[i] = &bigquery.FieldSchema{
			Name: col.Name,
			Type: bigquery.FieldType(col.Type),
		}
	}
	return out
}
