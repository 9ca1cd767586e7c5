package ddl

import (
	"testing"

	gddl "moviebench/internal/ddl"
	"moviebench/internal/table"
)

func TestMapType(t *testing.T) {
	t.Parallel()

	cases := map[table.Kind]string{
		table.KindInt:       "BIGINT",
		table.KindFloat:     "FLOAT",
		table.KindBool:      "BIT",
		table.KindDate:      "DATE",
		table.KindTimestamp: "DATETIME2",
		table.KindString:    "NVARCHAR(MAX)",
	}
	for in, want := range cases {
		if got := MapType(in); got != want {
			t.Errorf("MapType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	if got := QuoteIdent("weird]id"); got != "[weird]]id]" {
		t.Fatalf("QuoteIdent = %q", got)
	}
	if got := QuoteFQN("dbo.top"); got != "[dbo].[top]" {
		t.Fatalf("QuoteFQN = %q", got)
	}
}

func TestBuildSQL(t *testing.T) {
	t.Parallel()

	create, err := BuildCreateTableSQL(gddl.TableDef{
		FQN:     "dbo.top",
		Columns: []gddl.ColumnDef{{Name: "title", SQLType: "NVARCHAR(MAX)", Nullable: true}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := "CREATE TABLE [dbo].[top] (\n  [title] NVARCHAR(MAX)\n);"; create != want {
		t.Fatalf("create = %q, want %q", create, want)
	}

	drop, err := BuildDropTableSQL("dbo.it's")
	if err != nil {
		t.Fatal(err)
	}
	if want := "IF OBJECT_ID(N'[dbo].[it''s]', N'U') IS NOT NULL DROP TABLE [dbo].[it's];"; drop != want {
		t.Fatalf("drop = %q, want %q", drop, want)
	}
	if _, err := BuildDropTableSQL(""); err == nil {
		t.Fatal("expected error for empty name")
	}
}
