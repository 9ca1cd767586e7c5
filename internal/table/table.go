// Package table defines the engine-neutral Result Table both pipelines
// produce and the database sinks consume.
package table

import (
	"fmt"
	"time"
)

// Kind is the logical type of a column. Backends map kinds to SQL types.
type Kind string

const (
	KindInt       Kind = "int"
	KindFloat     Kind = "float"
	KindString    Kind = "string"
	KindBool      Kind = "bool"
	KindDate      Kind = "date"
	KindTimestamp Kind = "timestamp"
)

// Column is a named, typed column.
type Column struct {
	Name string
	Kind Kind
}

// Table is an ordered set of rows sharing Columns. Cell values are int64,
// float64, string, bool, time.Time or nil for a missing value.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Names returns the column names in order.
func (t Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// ColumnIndex returns the position of name, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Strings renders every value of the named column in row order. Missing
// values render as the empty string.
func (t Table) Strings(name string) ([]string, error) {
	ix := t.ColumnIndex(name)
	if ix < 0 {
		return nil, fmt.Errorf("table: no column %q", name)
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		if r[ix] == nil {
			continue
		}
		out[i] = fmt.Sprint(r[ix])
	}
	return out, nil
}

// AsFloat converts numeric cell values to float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	default:
		return 0, false
	}
}

// KindOf guesses the Kind of a Go value; nil and unknown values are strings.
func KindOf(v any) Kind {
	switch x := v.(type) {
	case int, int32, int64:
		return KindInt
	case float32, float64:
		return KindFloat
	case bool:
		return KindBool
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return KindDate
		}
		return KindTimestamp
	default:
		return KindString
	}
}

func stringify(v any) string { return fmt.Sprint(v) }
