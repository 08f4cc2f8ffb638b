package sheets

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/interfaces"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
)

// Source reads a Google spreadsheet as a set of tables, one per sheet.
// Hidden sheets are skipped unless includeHidden is set; the exclusion list
// drops sheets by title.
type Source struct {
	svc           *sheets.Service
	spreadsheetID string
	includeHidden bool
	exclude       map[string]bool
}

var _ interfaces.TableSource = (*Source)(nil)

type Option func(*Source)

func WithIncludeHidden(include bool) Option {
	return func(s *Source) { s.includeHidden = include }
}

func WithExclude(titles []string) Option {
	return func(s *Source) {
		for _, title := range titles {
			s.exclude[title] = true
		}
	}
}

// WithService injects a pre-built Sheets service (tests, custom transports).
func WithService(svc *sheets.Service) Option {
	return func(s *Source) { s.svc = svc }
}

func New(ctx context.Context, spreadsheetID string, credentialsFile string, opts ...Option) (*Source, error) {
	if spreadsheetID == "" {
		return nil, goerr.New("spreadsheet ID is required", goerr.T(errs.TagConfig))
	}

	src := &Source{
		spreadsheetID: spreadsheetID,
		exclude:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(src)
	}

	if src.svc == nil {
		var clientOpts []option.ClientOption
		if credentialsFile != "" {
			clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
		}
		svc, err := sheets.NewService(ctx, clientOpts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Sheets service", goerr.T(errs.TagConfig))
		}
		src.svc = svc
	}
	return src, nil
}

func (x *Source) Tables(ctx context.Context) ([]*table.Table, error) {
	resp, err := x.svc.Spreadsheets.Get(x.spreadsheetID).IncludeGridData(true).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch spreadsheet",
			goerr.V("spreadsheet_id", x.spreadsheetID),
			goerr.T(errs.TagExternal))
	}

	var tables []*table.Table
	for _, sheet := range resp.Sheets {
		props := sheet.Properties
		if props == nil {
			continue
		}
		if props.Hidden && !x.includeHidden {
			continue
		}
		if x.exclude[props.Title] {
			continue
		}
		tables = append(tables, sheetToTable(sheet))
	}
	return tables, nil
}

func sheetToTable(sheet *sheets.Sheet) *table.Table {
	var rowData []*sheets.RowData
	if len(sheet.Data) > 0 {
		rowData = sheet.Data[0].RowData
	}

	if len(rowData) == 0 {
		return table.New(types.SourceName(sheet.Properties.Title), nil, nil)
	}

	header := make([]string, len(rowData[0].Values))
	for c, cell := range rowData[0].Values {
		if cell != nil {
			header[c] = cell.FormattedValue
		}
	}

	rows := make([][]table.Cell, 0, len(rowData)-1)
	for _, rd := range rowData[1:] {
		row := make([]table.Cell, len(rd.Values))
		for c, cell := range rd.Values {
			row[c] = toCell(cell)
		}
		rows = append(rows, row)
	}

	return table.New(types.SourceName(sheet.Properties.Title), header, rows)
}

// sheetEpoch is day zero of the spreadsheet serial date system.
var sheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func toCell(cell *sheets.CellData) table.Cell {
	if cell == nil || cell.EffectiveValue == nil {
		return table.Empty()
	}
	ev := cell.EffectiveValue

	switch {
	case ev.BoolValue != nil:
		return table.Bool(*ev.BoolValue)
	case ev.NumberValue != nil:
		if isDateFormatted(cell) {
			return table.Time(serialToTime(*ev.NumberValue))
		}
		return table.Number(*ev.NumberValue)
	case ev.StringValue != nil:
		return table.Text(*ev.StringValue)
	}
	return table.Empty()
}

func isDateFormatted(cell *sheets.CellData) bool {
	if cell.EffectiveFormat == nil || cell.EffectiveFormat.NumberFormat == nil {
		return false
	}
	switch cell.EffectiveFormat.NumberFormat.Type {
	case "DATE", "DATE_TIME", "TIME":
		return true
	}
	return false
}

// serialToTime converts a spreadsheet serial date (days since the 1899-12-30
// epoch, fractional part is time of day) to an instant.
func serialToTime(serial float64) time.Time {
	return sheetEpoch.Add(time.Duration(serial * float64(24*time.Hour))).Round(time.Second)
}
