// Package engine runs the top-N selection as one SQL statement inside an
// in-memory DuckDB database (github.com/duckdb/duckdb-go/v2). DuckDB reads
// the CSV itself, so read, filter, sort and limit are a single phase.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver

	"moviebench/internal/ddl"
	"moviebench/internal/rule"
	"moviebench/internal/table"
)

// rowOrderColumn carries the CSV row position as the sort tie-break. It is
// excluded from the result.
const rowOrderColumn = "__row_order"

// Query renders the statement for csvPath under r.
func Query(r rule.Rule, csvPath string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT * EXCLUDE (%s) FROM (\n", ddl.QuoteIdent(rowOrderColumn))
	fmt.Fprintf(&sb, "  SELECT *, row_number() OVER () AS %s FROM read_csv_auto(%s, nullstr = %s)\n",
		ddl.QuoteIdent(rowOrderColumn), rule.QuoteLiteral(csvPath), rule.NullList())
	sb.WriteString(")\n")
	fmt.Fprintf(&sb, "WHERE %s\n", r.WhereSQL())
	fmt.Fprintf(&sb, "ORDER BY %s", r.OrderSQL(rowOrderColumn))
	if r.Limit > 0 {
		fmt.Fprintf(&sb, "\nLIMIT %d", r.Limit)
	}
	return sb.String()
}

// Run opens a private in-memory database, executes Query and materializes
// the result. The database is closed before Run returns.
func Run(ctx context.Context, r rule.Rule, csvPath string) (table.Table, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return table.Table{}, fmt.Errorf("duckdb open: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, Query(r, csvPath))
	if err != nil {
		return table.Table{}, fmt.Errorf("duckdb query %s: %w", csvPath, err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return table.Table{}, fmt.Errorf("duckdb columns: %w", err)
	}
	out := table.Table{Columns: make([]table.Column, len(colTypes)), Rows: [][]any{}}
	for i, ct := range colTypes {
		out.Columns[i] = table.Column{Name: ct.Name(), Kind: KindOf(ct.DatabaseTypeName())}
	}

	for rows.Next() {
		vals := make([]any, len(colTypes))
		ptrs := make([]any, len(colTypes))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return table.Table{}, fmt.Errorf("duckdb scan: %w", err)
		}
		for i, v := range vals {
			vals[i] = normalize(v, out.Columns[i].Kind)
		}
		out.Rows = append(out.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return table.Table{}, fmt.Errorf("duckdb rows: %w", err)
	}
	return out, nil
}

// KindOf maps a DuckDB type name to a table kind.
func KindOf(dbType string) table.Kind {
	t := strings.ToUpper(dbType)
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	switch t {
	case "TINYINT", "SMALLINT", "INTEGER", "BIGINT",
		"UTINYINT", "USMALLINT", "UINTEGER", "UBIGINT", "HUGEINT":
		return table.KindInt
	case "FLOAT", "DOUBLE", "DECIMAL":
		return table.KindFloat
	case "BOOLEAN":
		return table.KindBool
	case "DATE":
		return table.KindDate
	case "TIMESTAMP", "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE",
		"TIMESTAMP_S", "TIMESTAMP_MS", "TIMESTAMP_NS":
		return table.KindTimestamp
	default:
		return table.KindString
	}
}

// normalize narrows driver values to the set table.Table allows.
func normalize(v any, k table.Kind) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return fmt.Sprint(x)
		}
		return int64(x)
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}
		return x.String()
	case float32:
		return float64(x)
	case float64:
		return x
	case bool, string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		if k == table.KindDate {
			return time.Date(x.Year(), x.Month(), x.Day(), 0, 0, 0, 0, time.UTC)
		}
		return x
	case interface{ Float64() float64 }:
		// DECIMAL
		return x.Float64()
	default:
		return fmt.Sprint(x)
	}
}
