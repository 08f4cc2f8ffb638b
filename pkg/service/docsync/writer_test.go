package docsync_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/docsync"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/token"
)

type commitRequest struct {
	Writes []struct {
		Update struct {
			Name   string                    `json:"name"`
			Fields map[string]map[string]any `json:"fields"`
		} `json:"update"`
		UpdateMask struct {
			FieldPaths []string `json:"fieldPaths"`
		} `json:"updateMask"`
	} `json:"writes"`
}

func testToken() *token.AccessToken {
	return &token.AccessToken{Value: "test-token", ExpiresAt: time.Now().Add(time.Hour)}
}

func newWriter(t *testing.T, baseURL string, batchSize int) *docsync.Writer {
	t.Helper()
	return gt.R1(docsync.New(docsync.Config{
		ProjectID: "proj",
		BatchSize: batchSize,
		BaseURL:   baseURL,
	})).NoError(t)
}

func TestSyncFieldsAndDocumentIDs(t *testing.T) {
	var got []commitRequest
	var auths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get("Authorization"))
		var req commitRequest
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = append(got, req)
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	ts := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)
	tbl := table.New(types.SourceName("My Sheet"),
		[]string{"ID", "amount", "ratio", "active", "seen", ""},
		[][]table.Cell{
			{table.Text("u/1 a"), table.Number(5), table.Number(0.5), table.Bool(true), table.Time(ts), table.Text("x")},
			{table.Empty(), table.Number(7), table.Empty(), table.Empty(), table.Empty(), table.Empty()},
			{table.Empty(), table.Empty(), table.Empty(), table.Empty(), table.Empty(), table.Empty()},
		})

	writer := newWriter(t, srv.URL, 0)
	gt.NoError(t, writer.Sync(context.Background(), tbl, testToken()))

	gt.Array(t, auths).Length(1)
	gt.Equal(t, auths[0], "Bearer test-token")

	gt.Array(t, got).Length(1)
	writes := got[0].Writes
	// The all-empty third row is skipped
	gt.Array(t, writes).Length(2)

	first := writes[0]
	gt.Equal(t, first.Update.Name, "projects/proj/databases/(default)/documents/My_Sheet/u_1_a")
	gt.Equal(t, first.Update.Fields["ID"], map[string]any{"stringValue": "u/1 a"})
	gt.Equal(t, first.Update.Fields["amount"], map[string]any{"integerValue": "5"})
	gt.Equal(t, first.Update.Fields["ratio"], map[string]any{"doubleValue": 0.5})
	gt.Equal(t, first.Update.Fields["active"], map[string]any{"booleanValue": true})
	gt.Equal(t, first.Update.Fields["seen"], map[string]any{"timestampValue": "2024-05-01T08:30:00Z"})
	gt.Equal(t, first.Update.Fields["Col6"], map[string]any{"stringValue": "x"})
	gt.Array(t, first.UpdateMask.FieldPaths).Length(6)

	second := writes[1]
	// No id value: synthesized from the 1-based source row number
	gt.S(t, second.Update.Name).Contains("/My_Sheet/ROW_3")
	gt.Equal(t, second.Update.Fields["ID"], map[string]any{"nullValue": nil})
}

func TestSyncLargeIntegerValues(t *testing.T) {
	var got commitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	tbl := table.New(types.SourceName("t"),
		[]string{"in_range", "beyond_int64"},
		[][]table.Cell{{table.Number(1e16), table.Number(1e19)}})

	writer := newWriter(t, srv.URL, 500)
	gt.NoError(t, writer.Sync(context.Background(), tbl, testToken()))

	fields := got.Writes[0].Update.Fields
	gt.Equal(t, fields["in_range"], map[string]any{"integerValue": "10000000000000000"})
	// beyond int64 range the conversion would be undefined, so it stays a double
	gt.Equal(t, fields["beyond_int64"], map[string]any{"doubleValue": 1e19})
}

func TestSyncDuplicateHeaderLabels(t *testing.T) {
	var got commitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	tbl := table.New(types.SourceName("t"),
		[]string{"name", "name", ""},
		[][]table.Cell{{table.Text("a"), table.Text("b"), table.Text("c")}})

	writer := newWriter(t, srv.URL, 500)
	gt.NoError(t, writer.Sync(context.Background(), tbl, testToken()))

	fields := got.Writes[0].Update.Fields
	gt.Equal(t, fields["name"], map[string]any{"stringValue": "a"})
	gt.Equal(t, fields["name_2"], map[string]any{"stringValue": "b"})
	gt.Equal(t, fields["Col3"], map[string]any{"stringValue": "c"})
	gt.Equal(t, got.Writes[0].UpdateMask.FieldPaths, []string{"name", "name_2", "Col3"})
}

func TestSyncChunking(t *testing.T) {
	var sizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req commitRequest
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sizes = append(sizes, len(req.Writes))
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	rows := make([][]table.Cell, 1200)
	for i := range rows {
		rows[i] = []table.Cell{table.Number(float64(i))}
	}
	tbl := table.New(types.SourceName("big"), []string{"v"}, rows)

	writer := newWriter(t, srv.URL, 500)
	gt.NoError(t, writer.Sync(context.Background(), tbl, testToken()))
	gt.Equal(t, sizes, []int{500, 500, 200})
}

func TestSyncAbortsOnChunkFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"contention"}`))
			return
		}
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	rows := make([][]table.Cell, 30)
	for i := range rows {
		rows[i] = []table.Cell{table.Number(float64(i))}
	}
	tbl := table.New(types.SourceName("partial"), []string{"v"}, rows)

	writer := newWriter(t, srv.URL, 10)
	err := writer.Sync(context.Background(), tbl, testToken())
	gt.Error(t, err)
	gt.True(t, errs.IsWrite(err))
	gt.Equal(t, goerr.Values(err)["status"], http.StatusConflict)
	gt.Equal(t, goerr.Values(err)["body"], `{"error":"contention"}`)
	gt.Equal(t, goerr.Values(err)["source"], "partial")
	// First chunk was applied, third was never attempted
	gt.Equal(t, calls, 2)
}

func TestSyncHeaderOnlyTableIsNoOp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for a header-only table")
	}))
	defer srv.Close()

	tbl := table.New(types.SourceName("empty"), []string{"a", "b"}, nil)
	writer := newWriter(t, srv.URL, 500)
	gt.NoError(t, writer.Sync(context.Background(), tbl, testToken()))
}

func TestSyncDocumentIDLengthBound(t *testing.T) {
	var got commitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	longID := strings.Repeat("x", 2000)
	tbl := table.New(types.SourceName("t"),
		[]string{"id"},
		[][]table.Cell{{table.Text(longID)}})

	writer := newWriter(t, srv.URL, 500)
	gt.NoError(t, writer.Sync(context.Background(), tbl, testToken()))

	name := got.Writes[0].Update.Name
	gt.S(t, name).Contains("/t/" + strings.Repeat("x", 1500))
	gt.False(t, strings.HasSuffix(name, strings.Repeat("x", 1501)))
}

func TestConfigValidation(t *testing.T) {
	_, err := docsync.New(docsync.Config{})
	gt.Error(t, err)
	gt.True(t, errs.IsConfig(err))
}
