package ddl

import (
	"strings"
	"testing"

	"moviebench/internal/table"
)

func dq(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` }

// TestBuildCreateTableSQL verifies the rendered statement and the errors
// surfaced for invalid definitions.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		def         TableDef
		wantSQL     string
		errContains string
	}{
		{
			name:        "empty FQN returns error",
			def:         TableDef{Columns: []ColumnDef{{Name: "id", SQLType: "INT"}}},
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns returns error",
			def:         TableDef{FQN: "public.t"},
			errContains: "at least one column is required",
		},
		{
			name:        "column with empty name returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{SQLType: "INT"}}},
			errContains: "column with empty name",
		},
		{
			name:        "column with empty type returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id"}}},
			errContains: "missing SQLType",
		},
		{
			name: "nullable and not null columns",
			def: TableDef{FQN: "public.top", Columns: []ColumnDef{
				{Name: "title", SQLType: "TEXT", Nullable: true},
				{Name: "vote_count", SQLType: "BIGINT"},
			}},
			wantSQL: "CREATE TABLE \"public\".\"top\" (\n  \"title\" TEXT,\n  \"vote_count\" BIGINT NOT NULL\n);",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BuildCreateTableSQL(tt.def, dq)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("err = %v, want containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.wantSQL {
				t.Fatalf("SQL mismatch\n got: %q\nwant: %q", got, tt.wantSQL)
			}
		})
	}
}

func TestBuildDropTableSQL(t *testing.T) {
	t.Parallel()

	got, err := BuildDropTableSQL("a.b", dq)
	if err != nil {
		t.Fatal(err)
	}
	if want := `DROP TABLE IF EXISTS "a"."b";`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if _, err := BuildDropTableSQL(" ", dq); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestFromTable(t *testing.T) {
	t.Parallel()

	src := table.Table{Columns: []table.Column{
		{Name: "title", Kind: table.KindString},
		{Name: "vote_count", Kind: table.KindInt},
	}}
	mapType := func(k table.Kind) string {
		if k == table.KindInt {
			return "BIGINT"
		}
		return "TEXT"
	}

	td, err := FromTable("top", src, mapType)
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	if td.FQN != "top" || len(td.Columns) != 2 {
		t.Fatalf("td = %+v", td)
	}
	if c := td.Columns[1]; c.SQLType != "BIGINT" || !c.Nullable || c.Kind != table.KindInt {
		t.Fatalf("column = %+v", c)
	}
	if got := strings.Join(td.Names(), ","); got != "title,vote_count" {
		t.Fatalf("Names = %s", got)
	}

	dup := table.Table{Columns: []table.Column{{Name: "a"}, {Name: "A"}}}
	if _, err := FromTable("t", dup, mapType); err == nil {
		t.Fatal("expected duplicate column error")
	}
	if _, err := FromTable("t", table.Table{}, mapType); err == nil {
		t.Fatal("expected error for no columns")
	}
}

func TestFromTable_InfersMissingKind(t *testing.T) {
	t.Parallel()

	src := table.Table{
		Columns: []table.Column{{Name: "votes"}, {Name: "note"}},
		Rows:    [][]any{{nil, nil}, {int64(3), nil}},
	}
	td, err := FromTable("t", src, func(k table.Kind) string { return string(k) })
	if err != nil {
		t.Fatalf("FromTable: %v", err)
	}
	if td.Columns[0].Kind != table.KindInt || td.Columns[1].Kind != table.KindString {
		t.Fatalf("kinds = %s, %s", td.Columns[0].Kind, td.Columns[1].Kind)
	}
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	if got := QuoteIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("QuoteIdent = %s", got)
	}
	if got := QuoteFQN("public.top", QuoteIdent); got != `"public"."top"` {
		t.Fatalf("QuoteFQN = %s", got)
	}
}
