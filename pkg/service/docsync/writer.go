package docsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/token"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/logging"
)

const (
	defaultBaseURL   = "https://firestore.googleapis.com/v1"
	defaultDatabase  = "(default)"
	defaultBatchSize = 500
)

// HTTPClient is the transport used for batch writes.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config carries the Firestore destination coordinates.
type Config struct {
	ProjectID  string
	DatabaseID string
	BatchSize  int
	BaseURL    string
}

func (c *Config) Validate() error {
	if c.ProjectID == "" {
		return goerr.New("Firestore project ID is required", goerr.T(errs.TagConfig))
	}
	return nil
}

// Writer upserts table rows as documents through the Firestore REST batch
// endpoint. Chunks are committed sequentially and independently: a failure
// aborts the remaining chunks but already committed ones stay applied.
type Writer struct {
	config     Config
	httpClient HTTPClient
	eb         *goerr.Builder
}

type Option func(*Writer)

func WithHTTPClient(client HTTPClient) Option {
	return func(w *Writer) { w.httpClient = client }
}

func New(config Config, opts ...Option) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.DatabaseID == "" {
		config.DatabaseID = defaultDatabase
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	w := &Writer{
		config:     config,
		httpClient: http.DefaultClient,
		eb: goerr.NewBuilder(
			goerr.V("project_id", config.ProjectID),
			goerr.V("database_id", config.DatabaseID),
		),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

type write struct {
	Update     document  `json:"update"`
	UpdateMask fieldMask `json:"updateMask"`
}

type document struct {
	Name   string         `json:"name"`
	Fields map[string]any `json:"fields"`
}

type fieldMask struct {
	FieldPaths []string `json:"fieldPaths"`
}

// Sync upserts every non-empty data row of the table into the collection
// named after the table. A table with no data rows is silently skipped.
func (x *Writer) Sync(ctx context.Context, tbl *table.Table, accessToken *token.AccessToken) error {
	if tbl.IsEmpty() {
		logging.From(ctx).Debug("skipping document sync for empty table", slog.Any("source", tbl.Name))
		return nil
	}

	writes := x.buildWrites(tbl)
	logger := logging.From(ctx)

	for offset := 0; offset < len(writes); offset += x.config.BatchSize {
		end := offset + x.config.BatchSize
		if end > len(writes) {
			end = len(writes)
		}
		if err := x.commit(ctx, tbl.Name.String(), writes[offset:end], accessToken); err != nil {
			return err
		}
		logger.Info("committed document batch",
			slog.Any("source", tbl.Name),
			slog.Int("documents", end-offset),
			slog.Int("remaining", len(writes)-end),
		)
	}
	return nil
}

func (x *Writer) buildWrites(tbl *table.Table) []write {
	idCol := -1
	for c, label := range tbl.Header {
		if strings.EqualFold(strings.TrimSpace(label), "id") {
			idCol = c
			break
		}
	}

	parent := fmt.Sprintf("projects/%s/databases/%s/documents",
		x.config.ProjectID, x.config.DatabaseID)
	collection := sanitizePathSegment(tbl.Name.String())
	names := fieldNames(tbl.Header)

	var writes []write
	for r, row := range tbl.Rows {
		if tbl.RowIsEmpty(r) {
			continue
		}

		docID := ""
		if idCol >= 0 && !row[idCol].IsEmpty() {
			docID = row[idCol].String()
		}
		if docID == "" {
			// 1-based source row number, counting the header row
			docID = "ROW_" + strconv.Itoa(r+2)
		}
		docID = sanitizePathSegment(docID)

		fields := make(map[string]any, len(row))
		mask := make([]string, 0, len(row))
		for c, cell := range row {
			fields[names[c]] = cellValue(cell)
			mask = append(mask, names[c])
		}

		writes = append(writes, write{
			Update: document{
				Name:   parent + "/" + collection + "/" + docID,
				Fields: fields,
			},
			UpdateMask: fieldMask{FieldPaths: mask},
		})
	}
	return writes
}

func (x *Writer) commit(ctx context.Context, source string, chunk []write, accessToken *token.AccessToken) error {
	body, err := json.Marshal(map[string]any{"writes": chunk})
	if err != nil {
		return x.eb.Wrap(err, "failed to marshal batch write request", goerr.V("source", source))
	}

	endpoint := fmt.Sprintf("%s/projects/%s/databases/%s/documents:commit",
		x.config.BaseURL, x.config.ProjectID, x.config.DatabaseID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return x.eb.Wrap(err, "failed to create batch write request", goerr.V("source", source))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken.Value)

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return x.eb.Wrap(err, "batch write request failed",
			goerr.V("source", source),
			goerr.T(errs.TagWrite))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return x.eb.New("batch write rejected",
			goerr.V("source", source),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)),
			goerr.T(errs.TagWrite))
	}
	return nil
}
