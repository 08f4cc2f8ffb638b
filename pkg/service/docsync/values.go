package docsync

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
)

const maxDocumentIDLen = 1500

// cellValue maps a cell to its Firestore REST value representation.
// Integer-valued numbers within int64 range become integerValue (a decimal
// string on the wire); beyond that range the float→int conversion would be
// undefined, so they stay doubleValue. Everything the type system cannot
// place becomes stringValue.
func cellValue(cell table.Cell) map[string]any {
	switch cell.Kind {
	case table.KindEmpty:
		return map[string]any{"nullValue": nil}
	case table.KindTime:
		return map[string]any{"timestampValue": cell.Time.UTC().Format(time.RFC3339)}
	case table.KindNumber:
		if cell.IsInteger() && math.Abs(cell.Num) < 1<<63 {
			return map[string]any{"integerValue": strconv.FormatInt(int64(cell.Num), 10)}
		}
		return map[string]any{"doubleValue": cell.Num}
	case table.KindBool:
		return map[string]any{"booleanValue": cell.Bool}
	default:
		return map[string]any{"stringValue": cell.String()}
	}
}

// fieldName returns the document field name for a column: the raw header
// label, or Col<1-based-index> when the label is blank.
func fieldName(label string, idx int) string {
	if strings.TrimSpace(label) == "" {
		return "Col" + strconv.Itoa(idx+1)
	}
	return label
}

// fieldNames resolves one field name per column, de-duplicating repeated
// header labels with a numeric suffix. Without this, duplicate labels would
// collapse into one map entry while the field mask keeps both paths, and one
// column's value would be dropped silently.
func fieldNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for c, label := range header {
		name := fieldName(label, c)
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

// sanitizePathSegment makes a value safe to embed in a document path:
// slashes and whitespace runs become single underscores, and the result is
// length-bounded.
func sanitizePathSegment(s string) string {
	var b strings.Builder
	inRun := false
	for _, r := range s {
		if r == '/' || unicode.IsSpace(r) {
			if !inRun {
				b.WriteByte('_')
			}
			inRun = true
			continue
		}
		b.WriteRune(r)
		inRun = false
	}
	out := b.String()
	if len(out) > maxDocumentIDLen {
		out = out[:maxDocumentIDLen]
	}
	return out
}
