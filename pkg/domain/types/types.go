package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// SourceName is the natural name of a source table (e.g. a sheet title).
type SourceName string

func (x SourceName) String() string {
	return string(x)
}

func (x SourceName) Validate() error {
	if x == "" {
		return goerr.New("empty source name")
	}
	return nil
}

// TableID is a destination table identifier in the warehouse.
type TableID string

func (x TableID) String() string {
	return string(x)
}

// JobID identifies a submitted bulk-load job.
type JobID string

func (x JobID) String() string {
	return string(x)
}

// DocumentID identifies a document within a collection.
type DocumentID string

func (x DocumentID) String() string {
	return string(x)
}

// InferenceMode selects how column types are derived from source data.
type InferenceMode string

const (
	// InferenceBasic scans data rows and narrows each column to the single
	// non-string kind it observed, falling back to STRING on mixed evidence.
	InferenceBasic InferenceMode = "basic"

	// InferenceAllString skips the data scan and types every column STRING.
	InferenceAllString InferenceMode = "all-string"
)

func (x InferenceMode) String() string {
	return string(x)
}

func (x InferenceMode) Validate() error {
	switch x {
	case InferenceBasic, InferenceAllString:
		return nil
	}
	return goerr.New("invalid inference mode", goerr.V("mode", x))
}
