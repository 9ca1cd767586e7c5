package pipeline

import (
	"fmt"
	"math"

	"moviebench/internal/rule"
	"moviebench/internal/table"
)

// Verify checks that t is a valid result under r: at most r.Limit rows,
// every row passes the predicate, and the order column never increases
// (missing values, NaN included, only at the end).
func Verify(t table.Table, r rule.Rule) error {
	if r.Limit > 0 && t.Len() > r.Limit {
		return fmt.Errorf("%d rows exceeds limit %d", t.Len(), r.Limit)
	}
	votes := t.ColumnIndex(r.MinVotesColumn)
	status := t.ColumnIndex(r.StatusColumn)
	order := t.ColumnIndex(r.OrderColumn)
	if votes < 0 || status < 0 || order < 0 {
		return fmt.Errorf("result lacks rule columns %v", r.Columns())
	}

	var prev float64
	havePrev, sawMissing := false, false
	for i, row := range t.Rows {
		v, ok := table.AsFloat(row[votes])
		s, _ := row[status].(string)
		if !ok || !r.Match(v, s) {
			return fmt.Errorf("row %d fails %s > %d AND %s = %q",
				i, r.MinVotesColumn, r.MinVotes, r.StatusColumn, r.Status)
		}

		avg, ok := table.AsFloat(row[order])
		if !ok || math.IsNaN(avg) {
			sawMissing = true
			continue
		}
		if sawMissing {
			return fmt.Errorf("row %d has %s after a missing value", i, r.OrderColumn)
		}
		if havePrev && avg > prev {
			return fmt.Errorf("row %d: %s %v > previous %v", i, r.OrderColumn, avg, prev)
		}
		prev, havePrev = avg, true
	}
	return nil
}
