// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE and DROP TABLE statements from that model.
//
// The package does not assume a SQL dialect. Identifier quoting is supplied
// by the caller; backend packages (internal/storage/<kind>/ddl) wrap these
// builders with their own quoting and type mapping.
package ddl

import (
	"fmt"
	"strings"
)

// Quoter quotes a single identifier segment.
type Quoter func(string) string

// QuoteIdent double-quotes an identifier segment (ANSI SQL), doubling
// embedded quotes. Postgres, SQLite and DuckDB share it.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteFQN quotes each dotted segment of fqn with q. Empty segments are
// dropped.
func QuoteFQN(fqn string, q Quoter) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, q(p))
	}
	return strings.Join(out, ".")
}

// BuildCreateTableSQL renders a CREATE TABLE statement from a TableDef.
//
// Rules:
//
//   - t.FQN must be non-empty.
//
//   - Each column must have a non-empty Name and SQLType.
//
//   - A column is rendered as:
//
//     <Name> <SQLType> [NOT NULL]
//
//     where NOT NULL is added when Nullable == false.
//
// The resulting statement has the form:
//
//	CREATE TABLE <FQN> (
//	  <col1-def>,
//	  <col2-def>
//	);
func BuildCreateTableSQL(t TableDef, q Quoter) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(q(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		QuoteFQN(fqn, q),
		strings.Join(cols, ",\n  "),
	), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string, q Quoter) (string, error) {
	if strings.TrimSpace(fqn) == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", QuoteFQN(fqn, q)), nil
}
