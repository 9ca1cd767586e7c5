// Package rule holds the row predicate, ordering and limit shared by the
// dataframe and DuckDB pipelines. Both pipelines derive their behavior from
// the same Rule value so their outputs stay comparable.
package rule

import (
	"fmt"
	"strings"

	"moviebench/internal/ddl"
)

// NAValues are the cell spellings both pipelines read as missing.
var NAValues = []string{"", "NA", "NaN"}

// Rule selects the top-N rows: keep rows with MinVotesColumn > MinVotes and
// StatusColumn == Status, order by OrderColumn descending (missing values
// last, ties in input order), then keep the first Limit rows.
type Rule struct {
	MinVotesColumn string
	MinVotes       int
	StatusColumn   string
	Status         string
	OrderColumn    string
	TitleColumn    string
	Limit          int
}

// TopRated is the rule both pipelines run.
var TopRated = Rule{
	MinVotesColumn: "vote_count",
	MinVotes:       20000,
	StatusColumn:   "status",
	Status:         "Released",
	OrderColumn:    "vote_average",
	TitleColumn:    "title",
	Limit:          10,
}

// Match reports whether a row with the given vote count and status passes
// the predicate. Counts are floats because the CSV may spell them "30000.0".
func (r Rule) Match(votes float64, status string) bool {
	return votes > float64(r.MinVotes) && status == r.Status
}

// Columns lists the columns the rule reads.
func (r Rule) Columns() []string {
	return []string{r.TitleColumn, r.MinVotesColumn, r.OrderColumn, r.StatusColumn}
}

// WhereSQL renders the predicate as a SQL boolean expression.
func (r Rule) WhereSQL() string {
	return fmt.Sprintf("%s > %d AND %s = %s",
		ddl.QuoteIdent(r.MinVotesColumn), r.MinVotes,
		ddl.QuoteIdent(r.StatusColumn), QuoteLiteral(r.Status))
}

// OrderSQL renders the ordering. tieBreak names a column holding the input
// row position and may be empty.
func (r Rule) OrderSQL(tieBreak string) string {
	s := ddl.QuoteIdent(r.OrderColumn) + " DESC NULLS LAST"
	if tieBreak != "" {
		s += ", " + ddl.QuoteIdent(tieBreak)
	}
	return s
}

// Describe is the human-readable form printed in reports.
func (r Rule) Describe() string {
	return fmt.Sprintf("%s > %d AND %s == %q, top %d by %s desc",
		r.MinVotesColumn, r.MinVotes, r.StatusColumn, r.Status, r.Limit, r.OrderColumn)
}

// NullList renders NAValues as a SQL list literal.
func NullList() string {
	out := make([]string, len(NAValues))
	for i, v := range NAValues {
		out[i] = QuoteLiteral(v)
	}
	return "[" + strings.Join(out, ", ") + "]"
}

// QuoteLiteral single-quotes a SQL string literal, escaping embedded quotes.
func QuoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}
