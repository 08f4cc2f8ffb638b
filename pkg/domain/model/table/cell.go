package table

import (
	"math"
	"strconv"
	"time"
)

// CellKind discriminates the tagged variant held by a Cell.
type CellKind int

const (
	KindEmpty CellKind = iota
	KindText
	KindNumber
	KindBool
	KindTime
)

// Cell is one value of a source table. The source hands us loosely typed
// values (text, numbers, booleans, instants or nothing at all), so the cell
// keeps an explicit kind instead of relying on runtime type switches further
// down the pipeline.
type Cell struct {
	Kind CellKind
	Text string
	Num  float64
	Bool bool
	Time time.Time
}

func Empty() Cell {
	return Cell{Kind: KindEmpty}
}

func Text(s string) Cell {
	return Cell{Kind: KindText, Text: s}
}

func Number(f float64) Cell {
	return Cell{Kind: KindNumber, Num: f}
}

func Bool(b bool) Cell {
	return Cell{Kind: KindBool, Bool: b}
}

func Time(t time.Time) Cell {
	return Cell{Kind: KindTime, Time: t}
}

func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty
}

// IsInteger reports whether a number cell has no fractional part.
func (c Cell) IsInteger() bool {
	return c.Kind == KindNumber && c.Num == math.Trunc(c.Num)
}

// String renders the raw textual form of the cell. Integer-valued numbers
// always use plain decimal notation so a warehouse INTEGER column can parse
// them at any magnitude; other numbers use the shortest representation that
// round-trips. Instants use RFC3339.
func (c Cell) String() string {
	switch c.Kind {
	case KindEmpty:
		return ""
	case KindText:
		return c.Text
	case KindNumber:
		if c.IsInteger() {
			return strconv.FormatFloat(c.Num, 'f', -1, 64)
		}
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case KindBool:
		if c.Bool {
			return "true"
		}
		return "false"
	case KindTime:
		return c.Time.Format(time.RFC3339)
	}
	return ""
}
