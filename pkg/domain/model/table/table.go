package table

import (
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
)

// Table is a snapshot of one source table: a header row followed by data
// rows. Column count is uniform; New normalizes ragged input to the header
// width (short rows are padded with empty cells, long rows truncated).
type Table struct {
	Name   types.SourceName
	Header []string
	Rows   [][]Cell
}

func New(name types.SourceName, header []string, rows [][]Cell) *Table {
	normalized := make([][]Cell, len(rows))
	for i, row := range rows {
		normalized[i] = normalizeRow(row, len(header))
	}
	return &Table{
		Name:   name,
		Header: header,
		Rows:   normalized,
	}
}

func normalizeRow(row []Cell, width int) []Cell {
	if len(row) == width {
		return row
	}
	out := make([]Cell, width)
	for i := range out {
		if i < len(row) {
			out[i] = row[i]
		} else {
			out[i] = Empty()
		}
	}
	return out
}

// IsEmpty reports whether the table has no data rows.
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// RowIsEmpty reports whether every cell of the given data row is empty.
func (t *Table) RowIsEmpty(idx int) bool {
	for _, c := range t.Rows[idx] {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
