package bqload

import (
	"context"

	"cloud.google.com/go/bigquery"
)

// ClientMock is a test implementation of Client.
type ClientMock struct {
	// Tables maps "dataset/table" to its mock
	Tables map[string]*TableMock
}

var _ Client = (*ClientMock)(nil)

func NewClientMock() *ClientMock {
	return &ClientMock{Tables: make(map[string]*TableMock)}
}

func (c *ClientMock) Dataset(datasetID string) Dataset {
	return &mockDataset{client: c, datasetID: datasetID}
}

func (c *ClientMock) Close() error { return nil }

// Table returns the mock table for the key, creating it on first access.
func (c *ClientMock) Table(datasetID, tableID string) *TableMock {
	key := datasetID + "/" + tableID
	if t, ok := c.Tables[key]; ok {
		return t
	}
	t := &TableMock{}
	c.Tables[key] = t
	return t
}

type mockDataset struct {
	client    *ClientMock
	datasetID string
}

var _ Dataset = (*mockDataset)(nil)

func (d *mockDataset) Table(tableID string) Table {
	return d.client.Table(d.datasetID, tableID)
}

// TableMock is a test implementation of Table.
type TableMock struct {
	// Metadata probe behavior
	Meta    *bigquery.TableMetadata
	MetaErr error

	// Submitted load source (set by LoaderFrom)
	Submitted *bigquery.ReaderSource

	// Job behavior
	Job JobMock
}

var _ Table = (*TableMock)(nil)

func (t *TableMock) Metadata(ctx context.Context) (*bigquery.TableMetadata, error) {
	if t.MetaErr != nil {
		return nil, t.MetaErr
	}
	return t.Meta, nil
}

func (t *TableMock) LoaderFrom(src *bigquery.ReaderSource) Job {
	t.Submitted = src
	return &t.Job
}

// JobMock is a test implementation of Job. Statuses are returned in order;
// the last one repeats once the sequence is exhausted.
type JobMock struct {
	JobID       string
	RunErr      error
	Statuses    []*bigquery.JobStatus
	StatusErr   error
	StatusCalls int
}

var _ Job = (*JobMock)(nil)

func (j *JobMock) Run(ctx context.Context) error { return j.RunErr }

func (j *JobMock) ID() string {
	if j.JobID == "" {
		return "mock-job"
	}
	return j.JobID
}

func (j *JobMock) Status(ctx context.Context) (*bigquery.JobStatus, error) {
	j.StatusCalls++
	if j.StatusErr != nil {
		return nil, j.StatusErr
	}
	if len(j.Statuses) == 0 {
		return &bigquery.JobStatus{State: bigquery.Done}, nil
	}
	idx := j.StatusCalls - 1
	if idx >= len(j.Statuses) {
		idx = len(j.Statuses) - 1
	}
	return j.Statuses[idx], nil
}
