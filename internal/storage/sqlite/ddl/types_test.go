package ddl

import (
	"testing"

	gddl "moviebench/internal/ddl"
	"moviebench/internal/table"
)

func TestMapType(t *testing.T) {
	t.Parallel()

	cases := map[table.Kind]string{
		table.KindInt:       "INTEGER",
		table.KindBool:      "INTEGER",
		table.KindFloat:     "REAL",
		table.KindDate:      "TEXT",
		table.KindTimestamp: "TEXT",
		table.KindString:    "TEXT",
		table.Kind("odd"):   "TEXT",
	}
	for in, want := range cases {
		if got := MapType(in); got != want {
			t.Errorf("MapType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildCreateTableSQL_Quotes(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateTableSQL(gddl.TableDef{
		FQN:     `main.we"ird`,
		Columns: []gddl.ColumnDef{{Name: "title", SQLType: "TEXT", Nullable: true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "CREATE TABLE \"main\".\"we\"\"ird\" (\n  \"title\" TEXT\n);"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
