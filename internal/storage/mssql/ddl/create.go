package ddl

import (
	"fmt"
	"strings"

	gddl "moviebench/internal/ddl"
)

// QuoteIdent quotes a single identifier segment for SQL Server using
// bracket syntax, escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteFQN quotes each dotted segment of fqn.
func QuoteFQN(fqn string) string { return gddl.QuoteFQN(fqn, QuoteIdent) }

// BuildCreateTableSQL returns a T-SQL CREATE TABLE statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, QuoteIdent)
}

// BuildDropTableSQL returns a guarded DROP TABLE. OBJECT_ID is used instead
// of DROP TABLE IF EXISTS so the statement also runs on SQL Server 2014.
func BuildDropTableSQL(fqn string) (string, error) {
	if strings.TrimSpace(fqn) == "" {
		return "", fmt.Errorf("mssql ddl: table FQN must not be empty")
	}
	q := QuoteFQN(fqn)
	lit := strings.ReplaceAll(q, "'", "''")
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s;", lit, q), nil
}
