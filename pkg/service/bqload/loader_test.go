package bqload

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"google.golang.org/api/googleapi"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/clock"
)

func testConfig() Config {
	return Config{
		DatasetID:    "sales",
		Mode:         types.InferenceBasic,
		Delimiter:    ',',
		PollInterval: time.Millisecond,
		MaxAttempts:  5,
		Location:     time.UTC,
	}
}

func testTable() *table.Table {
	return table.New(types.SourceName("Sales 2024!"),
		[]string{"id", "amount"},
		[][]table.Cell{
			{table.Number(1), table.Number(9.5)},
			{table.Number(2), table.Number(3)},
		})
}

// noSleep removes wall-clock delay from polling loops.
func noSleep(ctx context.Context) context.Context {
	return clock.WithSleeper(ctx, func(ctx context.Context, d time.Duration) error {
		return nil
	})
}

func TestLoadNewTableCarriesSchema(t *testing.T) {
	ctx := noSleep(context.Background())
	client := NewClientMock()
	client.Table("sales", "Sales_2024_").MetaErr = &googleapi.Error{Code: 404}

	loader := gt.R1(New(client, testConfig())).NoError(t)
	result := gt.R1(loader.Load(ctx, testTable(), "")).NoError(t)

	gt.Equal(t, result.TableID, types.TableID("Sales_2024_"))
	gt.Equal(t, result.Rows, 2)

	src := client.Table("sales", "Sales_2024_").Submitted
	gt.NotNil(t, src)
	gt.Array(t, src.Schema).Length(2)
	gt.Equal(t, src.Schema[0].Name, "id")
	gt.Equal(t, src.Schema[0].Type, bigquery.IntegerFieldType)
	gt.Equal(t, src.Schema[1].Type, bigquery.FloatFieldType)
	gt.Equal(t, src.FieldDelimiter, ",")
	gt.Equal(t, src.SkipLeadingRows, int64(1))
	gt.True(t, src.AllowQuotedNewlines)
}

func TestLoadExistingTableOmitsSchema(t *testing.T) {
	ctx := noSleep(context.Background())
	client := NewClientMock()
	client.Table("sales", "Sales_2024_").Meta = &bigquery.TableMetadata{}

	loader := gt.R1(New(client, testConfig())).NoError(t)
	gt.R1(loader.Load(ctx, testTable(), "")).NoError(t)

	src := client.Table("sales", "Sales_2024_").Submitted
	gt.NotNil(t, src)
	gt.Nil(t, src.Schema)
}

func TestLoadPermissionDeniedFailsLoudly(t *testing.T) {
	ctx := noSleep(context.Background())
	client := NewClientMock()
	client.Table("sales", "Sales_2024_").MetaErr = &googleapi.Error{Code: 403}

	loader := gt.R1(New(client, testConfig())).NoError(t)
	_, err := loader.Load(ctx, testTable(), "")
	gt.Error(t, err)
	gt.True(t, errs.IsConfig(err))
}

func TestLoadOverrideWinsOverSanitizedName(t *testing.T) {
	ctx := noSleep(context.Background())
	client := NewClientMock()
	client.Table("sales", "orders_v2").Meta = &bigquery.TableMetadata{}

	loader := gt.R1(New(client, testConfig())).NoError(t)
	result := gt.R1(loader.Load(ctx, testTable(), types.TableID("orders_v2"))).NoError(t)
	gt.Equal(t, result.TableID, types.TableID("orders_v2"))
}

func TestLoadEmptyTable(t *testing.T) {
	ctx := noSleep(context.Background())
	client := NewClientMock()

	loader := gt.R1(New(client, testConfig())).NoError(t)
	empty := table.New(types.SourceName("empty"), []string{"a"}, nil)
	_, err := loader.Load(ctx, empty, "")
	gt.Error(t, err)
	gt.True(t, errs.IsData(err))
}

func TestLoadJobFailure(t *testing.T) {
	ctx := noSleep(context.Background())
	client := NewClientMock()
	tbl := client.Table("sales", "Sales_2024_")
	tbl.Meta = &bigquery.TableMetadata{}
	tbl.Job.Statuses = []*bigquery.JobStatus{
		{State: bigquery.Running},
		{State: bigquery.Done, Errors: []*bigquery.Error{
			{Message: "bad row", Reason: "invalid", Location: "line 3"},
			{Message: "type clash", Reason: "invalidQuery"},
		}},
	}

	loader := gt.R1(New(client, testConfig())).NoError(t)
	_, err := loader.Load(ctx, testTable(), "")
	gt.Error(t, err)
	gt.True(t, errs.IsJob(err))
	gt.Equal(t, goerr.Values(err)["details"], "bad row (invalid) [line 3]; type clash (invalidQuery)")
}

func TestLoadPollTimeout(t *testing.T) {
	var sleeps int
	ctx := clock.WithSleeper(context.Background(), func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	})

	client := NewClientMock()
	tbl := client.Table("sales", "Sales_2024_")
	tbl.Meta = &bigquery.TableMetadata{}
	tbl.Job.Statuses = []*bigquery.JobStatus{{State: bigquery.Running}}

	config := testConfig()
	config.MaxAttempts = 3
	loader := gt.R1(New(client, config)).NoError(t)

	_, err := loader.Load(ctx, testTable(), "")
	gt.Error(t, err)
	gt.True(t, errs.IsTimeout(err))
	gt.Equal(t, tbl.Job.StatusCalls, 3)
	gt.Equal(t, sleeps, 2)
}

func TestLoadConfigValidation(t *testing.T) {
	client := NewClientMock()

	t.Run("missing dataset", func(t *testing.T) {
		config := testConfig()
		config.DatasetID = ""
		_, err := New(client, config)
		gt.Error(t, err)
		gt.True(t, errs.IsConfig(err))
	})

	t.Run("invalid mode", func(t *testing.T) {
		config := testConfig()
		config.Mode = types.InferenceMode("fancy")
		_, err := New(client, config)
		gt.Error(t, err)
		gt.True(t, errs.IsConfig(err))
	})
}

func TestLoadAllStringMode(t *testing.T) {
	ctx := noSleep(context.Background())
	client := NewClientMock()
	client.Table("sales", "Sales_2024_").MetaErr = &googleapi.Error{Code: 404}

	config := testConfig()
	config.Mode = types.InferenceAllString
	loader := gt.R1(New(client, config)).NoError(t)
	gt.R1(loader.Load(ctx, testTable(), "")).NoError(t)

	src := client.Table("sales", "Sales_2024_").Submitted
	for _, field := range src.Schema {
		gt.Equal(t, field.Type, bigquery.StringFieldType)
	}
}
