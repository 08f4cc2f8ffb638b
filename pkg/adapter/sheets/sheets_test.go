package sheets

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/ptr"
)

func TestSerialToTime(t *testing.T) {
	// 2024-03-14 12:00:00 UTC is serial 45365.5
	gt.Equal(t, serialToTime(45365.5), time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC))
	gt.Equal(t, serialToTime(0), time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC))
}

func TestToCell(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		gt.Equal(t, toCell(nil), table.Empty())
		gt.Equal(t, toCell(&sheetsapi.CellData{}), table.Empty())
	})

	t.Run("text", func(t *testing.T) {
		cell := &sheetsapi.CellData{
			EffectiveValue: &sheetsapi.ExtendedValue{StringValue: ptr.Ref("hello")},
		}
		gt.Equal(t, toCell(cell), table.Text("hello"))
	})

	t.Run("number", func(t *testing.T) {
		cell := &sheetsapi.CellData{
			EffectiveValue: &sheetsapi.ExtendedValue{NumberValue: ptr.Ref(2.5)},
		}
		gt.Equal(t, toCell(cell), table.Number(2.5))
	})

	t.Run("bool", func(t *testing.T) {
		cell := &sheetsapi.CellData{
			EffectiveValue: &sheetsapi.ExtendedValue{BoolValue: ptr.Ref(true)},
		}
		gt.Equal(t, toCell(cell), table.Bool(true))
	})

	t.Run("date formatted number becomes an instant", func(t *testing.T) {
		cell := &sheetsapi.CellData{
			EffectiveValue: &sheetsapi.ExtendedValue{NumberValue: ptr.Ref(45365.5)},
			EffectiveFormat: &sheetsapi.CellFormat{
				NumberFormat: &sheetsapi.NumberFormat{Type: "DATE_TIME"},
			},
		}
		gt.Equal(t, toCell(cell), table.Time(time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)))
	})
}

func TestSheetToTable(t *testing.T) {
	sheet := &sheetsapi.Sheet{
		Properties: &sheetsapi.SheetProperties{Title: "Sales"},
		Data: []*sheetsapi.GridData{{
			RowData: []*sheetsapi.RowData{
				{Values: []*sheetsapi.CellData{
					{FormattedValue: "name"},
					{FormattedValue: "count"},
				}},
				{Values: []*sheetsapi.CellData{
					{EffectiveValue: &sheetsapi.ExtendedValue{StringValue: ptr.Ref("a")}},
					{EffectiveValue: &sheetsapi.ExtendedValue{NumberValue: ptr.Ref(3.0)}},
				}},
				// ragged row: padded to header width
				{Values: []*sheetsapi.CellData{
					{EffectiveValue: &sheetsapi.ExtendedValue{StringValue: ptr.Ref("b")}},
				}},
			},
		}},
	}

	tbl := sheetToTable(sheet)
	gt.Equal(t, tbl.Name.String(), "Sales")
	gt.Equal(t, tbl.Header, []string{"name", "count"})
	gt.Array(t, tbl.Rows).Length(2)
	gt.Equal(t, tbl.Rows[0][1], table.Number(3))
	gt.Equal(t, tbl.Rows[1][1], table.Empty())
}
