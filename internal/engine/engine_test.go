package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"moviebench/internal/rule"
	"moviebench/internal/table"
)

const header = "id,title,vote_count,vote_average,status,release_date\n"

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "movies.csv")
	if err := os.WriteFile(p, []byte(header+body), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func titles(t *testing.T, tb table.Table) []string {
	t.Helper()
	got, err := tb.Strings("title")
	if err != nil {
		t.Fatalf("Strings: %v", err)
	}
	return got
}

func TestQuery_Text(t *testing.T) {
	t.Parallel()

	q := Query(rule.TopRated, "/data/it's.csv")
	for _, want := range []string{
		`read_csv_auto('/data/it''s.csv', nullstr = ['', 'NA', 'NaN'])`,
		`WHERE "vote_count" > 20000 AND "status" = 'Released'`,
		`ORDER BY "vote_average" DESC NULLS LAST, "__row_order"`,
		"LIMIT 10",
		`EXCLUDE ("__row_order")`,
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q:\n%s", want, q)
		}
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := map[string]table.Kind{
		"BIGINT":        table.KindInt,
		"INTEGER":       table.KindInt,
		"DOUBLE":        table.KindFloat,
		"DECIMAL(18,3)": table.KindFloat,
		"VARCHAR":       table.KindString,
		"BOOLEAN":       table.KindBool,
		"DATE":          table.KindDate,
		"TIMESTAMP":     table.KindTimestamp,
		"UUID":          table.KindString,
	}
	for in, want := range cases {
		if got := KindOf(in); got != want {
			t.Errorf("KindOf(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := normalize(int32(7), table.KindInt); got != int64(7) {
		t.Fatalf("int32 -> %#v", got)
	}
	if got := normalize(float32(1.5), table.KindFloat); got != 1.5 {
		t.Fatalf("float32 -> %#v", got)
	}
	if got := normalize([]byte("x"), table.KindString); got != "x" {
		t.Fatalf("[]byte -> %#v", got)
	}
	in := time.Date(2010, 7, 15, 0, 0, 0, 0, time.Local)
	got := normalize(in, table.KindDate).(time.Time)
	if got.Location() != time.UTC || got.Day() != 15 {
		t.Fatalf("date -> %v", got)
	}
}

func TestRun_FilterSortLimit(t *testing.T) {
	t.Parallel()

	p := writeCSV(t, ""+
		"1,A,25000,7.5,Released,2010-07-15\n"+
		"2,B,30000,9.0,Released,2008-07-16\n"+
		"3,C,21000,8.0,Released,2014-11-05\n"+
		"4,D,50000,9.9,Rumored,2020-01-01\n"+
		"5,E,19999,9.5,Released,2019-01-01\n")

	out, err := Run(context.Background(), rule.TopRated, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := titles(t, out); !reflect.DeepEqual(got, []string{"B", "C", "A"}) {
		t.Fatalf("titles = %v, want [B C A]", got)
	}
	if out.ColumnIndex(rowOrderColumn) >= 0 {
		t.Fatalf("tie-break column leaked into result: %v", out.Names())
	}
	if len(out.Columns) != 6 {
		t.Fatalf("columns = %v", out.Names())
	}
	if k := out.Columns[out.ColumnIndex("release_date")].Kind; k != table.KindDate {
		t.Fatalf("release_date kind = %s, want date", k)
	}
}

func TestRun_NoMatches(t *testing.T) {
	t.Parallel()

	p := writeCSV(t, "1,A,100,7.5,Released,2010-07-15\n")
	out, err := Run(context.Background(), rule.TopRated, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 || len(out.Columns) != 6 {
		t.Fatalf("want empty result with columns, got rows=%d cols=%v", out.Len(), out.Names())
	}
}

func TestRun_LimitAndStableTies(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := 0; i < 15; i++ {
		avg := 8.0
		if i == 14 {
			avg = 9.0
		}
		fmt.Fprintf(&sb, "%d,M%02d,%d,%.1f,Released,2000-01-01\n", i, i, 20001+i, avg)
	}
	out, err := Run(context.Background(), rule.TopRated, writeCSV(t, sb.String()))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"M14", "M00", "M01", "M02", "M03", "M04", "M05", "M06", "M07", "M08"}
	if got := titles(t, out); !reflect.DeepEqual(got, want) {
		t.Fatalf("titles = %v, want %v", got, want)
	}
}

func TestRun_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Run(context.Background(), rule.TopRated, filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRun_NaNRatingSortsLast(t *testing.T) {
	t.Parallel()

	p := writeCSV(t, ""+
		"1,A,25000,8.0,Released,2010-07-15\n"+
		"2,B,30000,NaN,Released,2008-07-16\n"+
		"3,C,21000,7.0,Released,2014-11-05\n")
	out, err := Run(context.Background(), rule.TopRated, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := titles(t, out); !reflect.DeepEqual(got, []string{"A", "C", "B"}) {
		t.Fatalf("titles = %v, want [A C B]", got)
	}
	if v := out.Rows[2][out.ColumnIndex("vote_average")]; v != nil {
		t.Fatalf("NaN rating = %#v, want nil", v)
	}
}

func TestRun_NATitlesAreMissing(t *testing.T) {
	t.Parallel()

	p := writeCSV(t, ""+
		"1,NA,25000,8.0,Released,2010-07-15\n"+
		"2,NaN,30000,9.0,Released,2008-07-16\n")
	out, err := Run(context.Background(), rule.TopRated, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	ix := out.ColumnIndex("title")
	for i, row := range out.Rows {
		if row[ix] != nil {
			t.Fatalf("row %d title = %#v, want nil", i, row[ix])
		}
	}
}

func TestRun_FloatFormattedCounts(t *testing.T) {
	t.Parallel()

	p := writeCSV(t, ""+
		"1,A,30000.0,8.0,Released,2010-07-15\n"+
		"2,B,25000.0,9.0,Released,2008-07-16\n"+
		"3,C,20000.0,9.5,Released,2008-07-16\n")
	out, err := Run(context.Background(), rule.TopRated, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := titles(t, out); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Fatalf("titles = %v, want [B A]", got)
	}
}
