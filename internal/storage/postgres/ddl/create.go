package ddl

import (
	gddl "moviebench/internal/ddl"
)

// BuildCreateTableSQL returns a Postgres CREATE TABLE statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, gddl.QuoteIdent)
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string) (string, error) {
	return gddl.BuildDropTableSQL(fqn, gddl.QuoteIdent)
}
