package ddl

import (
	"strings"

	gddl "moviebench/internal/ddl"
)

// QuoteIdent backtick-quotes an identifier, doubling embedded backticks.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// QuoteFQN quotes each dotted segment of fqn.
func QuoteFQN(fqn string) string { return gddl.QuoteFQN(fqn, QuoteIdent) }

// BuildCreateTableSQL returns a MySQL CREATE TABLE statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, QuoteIdent)
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS for fqn.
func BuildDropTableSQL(fqn string) (string, error) {
	return gddl.BuildDropTableSQL(fqn, QuoteIdent)
}
