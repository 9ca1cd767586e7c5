// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import "moviebench/internal/table"

// MapType maps a table kind into a Postgres SQL type.
//
//	int       -> BIGINT
//	float     -> DOUBLE PRECISION
//	bool      -> BOOLEAN
//	date      -> DATE
//	timestamp -> TIMESTAMPTZ
//	else      -> TEXT
func MapType(kind table.Kind) string {
	switch kind {
	case table.KindInt:
		return "BIGINT"
	case table.KindFloat:
		return "DOUBLE PRECISION"
	case table.KindBool:
		return "BOOLEAN"
	case table.KindDate:
		return "DATE"
	case table.KindTimestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}
