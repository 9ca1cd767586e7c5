// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import "moviebench/internal/table"

// MapType maps a table kind into a SQLite column type.
//
// SQLite is dynamically typed, so this mapping prefers canonical affinities:
//   - int       -> INTEGER
//   - bool      -> INTEGER (0/1)
//   - float     -> REAL
//   - date/time -> TEXT (ISO-8601)
//   - others    -> TEXT
func MapType(kind table.Kind) string {
	switch kind {
	case table.KindInt, table.KindBool:
		return "INTEGER"
	case table.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}
