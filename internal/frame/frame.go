// Package frame runs the top-N selection with an in-memory dataframe
// (github.com/go-gota/gota). The whole CSV is loaded, filtered, sorted and
// truncated as separate steps so each can be timed on its own.
package frame

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"moviebench/internal/datasource"
	"moviebench/internal/rule"
	"moviebench/internal/table"
)

// columnTypes pins the rule columns. The numeric ones are read as text and
// converted by parseNumeric, so a junk cell is an error instead of a
// silently missing value.
func columnTypes(r rule.Rule) map[string]series.Type {
	return map[string]series.Type{
		r.TitleColumn:    series.String,
		r.StatusColumn:   series.String,
		r.MinVotesColumn: series.String,
		r.OrderColumn:    series.String,
	}
}

// Load reads every row of src into a dataframe. Types of the remaining
// columns are inferred by gota. Vote counts are floats: the CSV may spell
// them "30000.0".
func Load(ctx context.Context, src datasource.Source, r rule.Rule) (dataframe.DataFrame, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer rc.Close()

	df := dataframe.ReadCSV(rc,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(rule.NAValues),
		dataframe.WithTypes(columnTypes(r)),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv %s: %w", src.Path(), df.Err)
	}
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := requireColumns(df, r.Columns()); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv %s: %w", src.Path(), err)
	}
	for _, col := range []string{r.MinVotesColumn, r.OrderColumn} {
		if df, err = parseNumeric(df, col); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("read csv %s: %w", src.Path(), err)
		}
	}
	return df, nil
}

// parseNumeric replaces the text column col with a Float column. Missing
// cells stay missing; anything else that is not a number is an error.
func parseNumeric(df dataframe.DataFrame, col string) (dataframe.DataFrame, error) {
	s := df.Col(col)
	recs := s.Records()
	for i, rec := range recs {
		if s.Elem(i).IsNA() {
			recs[i] = "NaN"
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(rec), 64)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("column %s row %d: %q is not a number", col, i+1, rec)
		}
		if math.IsNaN(f) {
			recs[i] = "NaN"
			continue
		}
		recs[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	out := df.Mutate(series.New(recs, series.Float, col))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("convert %s: %w", col, out.Err)
	}
	return out, nil
}

func requireColumns(df dataframe.DataFrame, cols []string) error {
	have := make(map[string]struct{}, df.Ncol())
	for _, n := range df.Names() {
		have[n] = struct{}{}
	}
	for _, c := range cols {
		if _, ok := have[c]; !ok {
			return fmt.Errorf("missing column %q", c)
		}
	}
	return nil
}

// Filter keeps rows passing the rule predicate. A single gota Filter call
// ORs its conditions, so the two conditions are applied one after another.
func Filter(df dataframe.DataFrame, r rule.Rule) (dataframe.DataFrame, error) {
	out := df.Filter(dataframe.F{
		Colname:    r.MinVotesColumn,
		Comparator: series.Greater,
		Comparando: r.MinVotes,
	})
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("filter %s: %w", r.MinVotesColumn, out.Err)
	}
	out = out.Filter(dataframe.F{
		Colname:    r.StatusColumn,
		Comparator: series.Eq,
		Comparando: r.Status,
	})
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("filter %s: %w", r.StatusColumn, out.Err)
	}
	return out, nil
}

// TopN orders df by the rule's order column, descending, and keeps the
// first r.Limit rows. gota sorts stably and places missing values last, so
// ties keep their input order.
func TopN(df dataframe.DataFrame, r rule.Rule) (dataframe.DataFrame, error) {
	if df.Nrow() == 0 {
		return df, nil
	}
	out := df.Arrange(dataframe.RevSort(r.OrderColumn))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("sort by %s: %w", r.OrderColumn, out.Err)
	}
	if r.Limit <= 0 || out.Nrow() <= r.Limit {
		return out, nil
	}
	idx := make([]int, r.Limit)
	for i := range idx {
		idx[i] = i
	}
	out = out.Subset(idx)
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("limit %d: %w", r.Limit, out.Err)
	}
	return out, nil
}

// ToTable copies df into an engine-neutral table.Table.
func ToTable(df dataframe.DataFrame) (table.Table, error) {
	names := df.Names()
	types := df.Types()

	t := table.Table{Columns: make([]table.Column, len(names))}
	cols := make([]series.Series, len(names))
	for i, n := range names {
		t.Columns[i] = table.Column{Name: n, Kind: kindOf(types[i])}
		cols[i] = df.Col(n)
	}

	t.Rows = make([][]any, df.Nrow())
	for r := range t.Rows {
		row := make([]any, len(cols))
		for c, s := range cols {
			v, err := cellValue(s.Elem(r), types[c])
			if err != nil {
				return table.Table{}, fmt.Errorf("row %d column %s: %w", r, names[c], err)
			}
			row[c] = v
		}
		t.Rows[r] = row
	}
	return t, nil
}

func kindOf(t series.Type) table.Kind {
	switch t {
	case series.Int:
		return table.KindInt
	case series.Float:
		return table.KindFloat
	case series.Bool:
		return table.KindBool
	default:
		return table.KindString
	}
}

func cellValue(e series.Element, t series.Type) (any, error) {
	if e.IsNA() {
		return nil, nil
	}
	switch t {
	case series.Int:
		v, err := e.Int()
		if err != nil {
			return nil, err
		}
		return int64(v), nil
	case series.Float:
		return e.Float(), nil
	case series.Bool:
		return e.Bool()
	default:
		return e.String(), nil
	}
}
