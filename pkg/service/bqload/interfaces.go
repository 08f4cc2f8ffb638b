package bqload

import (
	"context"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"
)

// Client is a narrow interface over the BigQuery client.
type Client interface {
	Dataset(datasetID string) Dataset
	Close() error
}

// Dataset is a narrow interface over a BigQuery dataset.
type Dataset interface {
	Table(tableID string) Table
}

// Table is a narrow interface over a BigQuery table.
type Table interface {
	Metadata(ctx context.Context) (*bigquery.TableMetadata, error)
	LoaderFrom(src *bigquery.ReaderSource) Job
}

// Job is a narrow interface over a submitted load job.
type Job interface {
	Run(ctx context.Context) error
	ID() string
	Status(ctx context.Context) (*bigquery.JobStatus, error)
}

// NewClient creates a Client backed by the real BigQuery service.
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (Client, error) {
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}
	return &defaultClient{client: client}, nil
}

type defaultClient struct {
	client *bigquery.Client
}

var _ Client = (*defaultClient)(nil)

func (c *defaultClient) Dataset(datasetID string) Dataset {
	return &defaultDataset{dataset: c.client.Dataset(datasetID)}
}

func (c *defaultClient) Close() error {
	return c.client.Close()
}

type defaultDataset struct {
	dataset *bigquery.Dataset
}

var _ Dataset = (*defaultDataset)(nil)

func (d *defaultDataset) Table(tableID string) Table {
	return &defaultTable{table: d.dataset.Table(tableID)}
}

type defaultTable struct {
	table *bigquery.Table
}

var _ Table = (*defaultTable)(nil)

func (t *defaultTable) Metadata(ctx context.Context) (*bigquery.TableMetadata, error) {
	return t.table.Metadata(ctx)
}

func (t *defaultTable) LoaderFrom(src *bigquery.ReaderSource) Job {
	loader := t.table.LoaderFrom(src)
	loader.WriteDisposition = bigquery.WriteTruncate
	return &defaultJob{loader: loader}
}

type defaultJob struct {
	loader *bigquery.Loader
	job    *bigquery.Job
}

var _ Job = (*defaultJob)(nil)

func (j *defaultJob) Run(ctx context.Context) error {
	job, err := j.loader.Run(ctx)
	if err != nil {
		return err
	}
	j.job = job
	return nil
}

func (j *defaultJob) ID() string {
	if j.job == nil {
		return ""
	}
	return j.job.ID()
}

func (j *defaultJob) Status(ctx context.Context) (*bigquery.JobStatus, error) {
	return j.job.Status(ctx)
}
