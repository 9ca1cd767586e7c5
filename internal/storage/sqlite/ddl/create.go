package ddl

import (
	gddl "moviebench/internal/ddl"
)

// BuildCreateTableSQL returns a SQLite CREATE TABLE statement for t. Dotted
// names such as "main.top" are quoted per segment.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, gddl.QuoteIdent)
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string) (string, error) {
	return gddl.BuildDropTableSQL(fqn, gddl.QuoteIdent)
}
