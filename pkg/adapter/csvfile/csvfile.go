package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/interfaces"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/safe"
)

// Source reads local CSV files as tables. Each file becomes one table named
// after its base name; cell text is parsed back into typed cells so the
// inference and encoding pipeline sees the same variants a spreadsheet
// source would produce.
type Source struct {
	paths []string
}

var _ interfaces.TableSource = (*Source)(nil)

func New(paths ...string) *Source {
	return &Source{paths: paths}
}

func (x *Source) Tables(ctx context.Context) ([]*table.Table, error) {
	tables := make([]*table.Table, 0, len(x.paths))
	for _, path := range x.paths {
		tbl, err := x.readFile(ctx, path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, tbl)
	}
	return tables, nil
}

func (x *Source) readFile(ctx context.Context, path string) (*table.Table, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open CSV file",
			goerr.V("path", path),
			goerr.T(errs.TagData))
	}
	defer safe.Close(ctx, fd)

	reader := csv.NewReader(fd)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse CSV file",
			goerr.V("path", path),
			goerr.T(errs.TagData))
	}
	if len(records) == 0 {
		return nil, goerr.New("CSV file has no header row",
			goerr.V("path", path),
			goerr.T(errs.TagData))
	}

	rows := make([][]table.Cell, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]table.Cell, len(record))
		for i, field := range record {
			row[i] = parseCell(field)
		}
		rows = append(rows, row)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return table.New(types.SourceName(name), records[0], rows), nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCell(field string) table.Cell {
	if field == "" {
		return table.Empty()
	}
	if strings.EqualFold(field, "true") {
		return table.Bool(true)
	}
	if strings.EqualFold(field, "false") {
		return table.Bool(false)
	}
	if n, err := strconv.ParseFloat(field, 64); err == nil {
		return table.Number(n)
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, field); err == nil {
			return table.Time(ts)
		}
	}
	return table.Text(field)
}
