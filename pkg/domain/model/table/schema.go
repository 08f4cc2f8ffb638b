package table

import (
	"strconv"
	"strings"
	"unicode"
)

// ColumnType is the destination-side type of a column. The values match
// BigQuery field type names so a schema can be handed to the loader as-is.
type ColumnType string

const (
	TypeString   ColumnType = "STRING"
	TypeInteger  ColumnType = "INTEGER"
	TypeFloat    ColumnType = "FLOAT"
	TypeBoolean  ColumnType = "BOOLEAN"
	TypeDatetime ColumnType = "DATETIME"
)

// Column is the schema of one table column. Columns are always nullable;
// sparse source data offers no ground for required fields.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the ordered column schema of a table, index-aligned with the
// table's columns.
type Schema []Column

// TypeAt returns the column type at index idx, defaulting to STRING for
// indexes outside the schema.
func (s Schema) TypeAt(idx int) ColumnType {
	if idx < 0 || idx >= len(s) {
		return TypeString
	}
	return s[idx].Type
}

const maxColumnNameLen = 300

// SanitizeColumnName derives a safe field name from a raw header label.
// Whitespace runs collapse to a single underscore, anything outside
// [A-Za-z0-9_] is stripped, and the result is forced to start with a letter
// or underscore. An empty label becomes col_<1-based-index>.
func SanitizeColumnName(label string, idx int) string {
	name := sanitizeIdentifier(label)
	if name == "" {
		return "col_" + strconv.Itoa(idx+1)
	}
	if !unicode.IsLetter(rune(name[0])) && name[0] != '_' {
		name = "_" + name
	}
	if len(name) > maxColumnNameLen {
		name = name[:maxColumnNameLen]
	}
	return name
}

// SanitizeTableID derives a destination table identifier from a source name,
// replacing anything outside [A-Za-z0-9_] with underscores.
func SanitizeTableID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// sanitizeIdentifier collapses whitespace runs to a single underscore first,
// then strips everything outside [A-Za-z0-9_].
func sanitizeIdentifier(label string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.TrimSpace(label) {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
		case r == '_' || unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			inSpace = false
		default:
			inSpace = false
		}
	}
	return b.String()
}
