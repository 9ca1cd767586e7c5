package ddl

import (
	"fmt"
	"strings"

	"moviebench/internal/table"
)

// ColumnDef describes a single column in a table definition. It uses simple,
// database-agnostic fields.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - Kind: logical kind the SQLType was derived from
//   - SQLType: target SQL type (e.g., TEXT, BIGINT, TIMESTAMPTZ)
//   - Nullable: whether NULL is allowed
type ColumnDef struct {
	Name     string
	Kind     table.Kind
	SQLType  string
	Nullable bool
}

// TableDef holds the table name (optionally "schema.table") and an ordered
// list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Names returns the column names in order.
func (t TableDef) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// TypeMapper maps a logical kind to a backend SQL type.
type TypeMapper func(table.Kind) string

// FromTable derives a TableDef for fqn from the columns of t. Every column
// is nullable: result columns may carry missing values. A column without a
// Kind takes the kind of its first non-nil value.
func FromTable(fqn string, t table.Table, mapType TypeMapper) (TableDef, error) {
	if strings.TrimSpace(fqn) == "" {
		return TableDef{}, fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return TableDef{}, fmt.Errorf("ddl: table %s has no columns", fqn)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	td := TableDef{FQN: fqn, Columns: make([]ColumnDef, len(t.Columns))}
	for i, c := range t.Columns {
		key := strings.ToLower(c.Name)
		if _, dup := seen[key]; dup {
			return TableDef{}, fmt.Errorf("ddl: duplicate column %q in table %s", c.Name, fqn)
		}
		seen[key] = struct{}{}
		kind := c.Kind
		if kind == "" {
			kind = inferKind(t, i)
		}
		td.Columns[i] = ColumnDef{
			Name:     c.Name,
			Kind:     kind,
			SQLType:  mapType(kind),
			Nullable: true,
		}
	}
	return td, nil
}

func inferKind(t table.Table, col int) table.Kind {
	for _, row := range t.Rows {
		if col < len(row) && row[col] != nil {
			return table.KindOf(row[col])
		}
	}
	return table.KindString
}
