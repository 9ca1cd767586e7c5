// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import "moviebench/internal/table"

// MapType maps a table kind into a MySQL column type.
func MapType(kind table.Kind) string {
	switch kind {
	case table.KindInt:
		return "BIGINT"
	case table.KindFloat:
		return "DOUBLE"
	case table.KindBool:
		return "BOOLEAN"
	case table.KindDate:
		return "DATE"
	case table.KindTimestamp:
		return "DATETIME"
	default:
		return "TEXT"
	}
}
