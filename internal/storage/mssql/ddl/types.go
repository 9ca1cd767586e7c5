// Package ddl contains MSSQL-specific helpers for generating DDL.
//
// It maps table kinds into SQL Server types. The mapping is conservative
// and biased toward widely-supported choices.
package ddl

import "moviebench/internal/table"

// MapType maps a table kind into a SQL Server column type. Unknown kinds
// fall back to NVARCHAR(MAX).
func MapType(kind table.Kind) string {
	switch kind {
	case table.KindInt:
		return "BIGINT"
	case table.KindFloat:
		return "FLOAT"
	case table.KindBool:
		return "BIT"
	case table.KindDate:
		return "DATE"
	case table.KindTimestamp:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}
