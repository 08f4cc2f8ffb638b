package infer

import (
	"strconv"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
)

// Schema derives a column schema from a header row plus the full data
// sample. Each column is narrowed to a non-string type only when every
// observed non-empty value belongs to exactly one non-string kind; any mix
// of kinds, any plain text, or a column with no values at all falls back to
// STRING.
func Schema(header []string, rows [][]table.Cell) table.Schema {
	names := columnNames(header)
	schema := make(table.Schema, len(header))
	for c := range header {
		schema[c] = table.Column{
			Name: names[c],
			Type: columnType(rows, c),
		}
	}
	return schema
}

// AllString bypasses the data scan entirely and types every column STRING.
func AllString(header []string) table.Schema {
	names := columnNames(header)
	schema := make(table.Schema, len(header))
	for c := range header {
		schema[c] = table.Column{
			Name: names[c],
			Type: table.TypeString,
		}
	}
	return schema
}

func columnType(rows [][]table.Cell, c int) table.ColumnType {
	var seenNumber, seenFloat, seenBool, seenTime, seenString bool

	for _, row := range rows {
		if c >= len(row) {
			continue
		}
		cell := row[c]
		switch cell.Kind {
		case table.KindEmpty:
			// no evidence
		case table.KindNumber:
			seenNumber = true
			if !cell.IsInteger() {
				seenFloat = true
			}
		case table.KindBool:
			seenBool = true
		case table.KindTime:
			seenTime = true
		default:
			if cell.String() != "" {
				seenString = true
			}
		}
	}

	if seenString {
		return table.TypeString
	}
	switch {
	case seenBool && !seenNumber && !seenTime:
		return table.TypeBoolean
	case seenTime && !seenNumber && !seenBool:
		return table.TypeDatetime
	case seenNumber && !seenBool && !seenTime:
		if seenFloat {
			return table.TypeFloat
		}
		return table.TypeInteger
	}
	return table.TypeString
}

// columnNames sanitizes every header label and de-duplicates collisions by
// appending a numeric suffix. Without this, two labels like "a b" and "a_b"
// would collapse into one field and the load job would reject the schema.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for c, label := range header {
		name := table.SanitizeColumnName(label, c)
		if used[name] {
			for n := 2; ; n++ {
				candidate := name + "_" + strconv.Itoa(n)
				if !used[candidate] {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		names[c] = name
	}
	return names
}
