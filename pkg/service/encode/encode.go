package encode

import (
	"strings"
	"time"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
)

const datetimeLayout = "2006-01-02 15:04:05"

// Table renders the whole table as delimited text: the header row as escaped
// raw labels (the load job skips it), then one line per data row with each
// cell formatted by its column type. loc is the fixed time zone for DATETIME
// rendering and must be provided by the caller.
func Table(tbl *table.Table, delim rune, schema table.Schema, loc *time.Location) string {
	var b strings.Builder

	for i, label := range tbl.Header {
		if i > 0 {
			b.WriteRune(delim)
		}
		b.WriteString(Escape(label, delim))
	}

	for _, row := range tbl.Rows {
		b.WriteByte('\n')
		for c, cell := range row {
			if c > 0 {
				b.WriteRune(delim)
			}
			b.WriteString(Escape(Field(cell, schema.TypeAt(c), loc), delim))
		}
	}

	return b.String()
}

// Field renders one cell according to the column type. Values that do not
// match the declared type pass through as raw text rather than failing; the
// schema is inferred from the same data, so mismatches only occur under the
// all-string bypass or out-of-schema columns.
func Field(cell table.Cell, typ table.ColumnType, loc *time.Location) string {
	if cell.IsEmpty() {
		return ""
	}

	switch typ {
	case table.TypeInteger, table.TypeFloat:
		return cell.String()

	case table.TypeBoolean:
		if cell.Kind == table.KindBool {
			if cell.Bool {
				return "TRUE"
			}
			return "FALSE"
		}
		if s := cell.String(); strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
			return strings.ToUpper(s)
		}
		return cell.String()

	case table.TypeDatetime:
		if cell.Kind == table.KindTime {
			return cell.Time.In(loc).Format(datetimeLayout)
		}
		return cell.String()

	default:
		return cell.String()
	}
}

// Escape quotes a field when it contains the delimiter, a double quote, or a
// line break, doubling internal quotes. The bulk loader is configured for
// exactly this quoting, so it must not deviate.
func Escape(field string, delim rune) string {
	if !strings.ContainsAny(field, string(delim)+"\"\r\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
