package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	gddl "moviebench/internal/ddl"
	sqliteddl "moviebench/internal/storage/sqlite/ddl"
	"moviebench/internal/table"
)

// Repository is a SQLite-backed implementation of storage.Repository.
// SQLite has no bulk-load API like Postgres COPY; rows go through one
// prepared INSERT inside the replacing transaction.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// ReplaceTable drops and recreates name, then inserts the rows of t, all in
// one transaction.
func (r *Repository) ReplaceTable(ctx context.Context, name string, t table.Table) (int64, error) {
	td, err := gddl.FromTable(name, t, sqliteddl.MapType)
	if err != nil {
		return 0, fmt.Errorf("sqlite: %w", err)
	}
	drop, err := sqliteddl.BuildDropTableSQL(td.FQN)
	if err != nil {
		return 0, fmt.Errorf("sqlite: %w", err)
	}
	create, err := sqliteddl.BuildCreateTableSQL(td)
	if err != nil {
		return 0, fmt.Errorf("sqlite: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	if _, err := tx.ExecContext(ctx, drop); err != nil {
		rollback()
		return 0, fmt.Errorf("sqlite: drop %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		rollback()
		return 0, fmt.Errorf("sqlite: create %s: %w", name, err)
	}

	inserted, err := insertRows(ctx, tx, td, t.Rows)
	if err != nil {
		rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

func insertRows(ctx context.Context, tx *sql.Tx, td gddl.TableDef, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	cols := make([]string, len(td.Columns))
	placeholders := make([]string, len(td.Columns))
	for i, c := range td.Columns {
		cols[i] = gddl.QuoteIdent(c.Name)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		gddl.QuoteFQN(td.FQN, gddl.QuoteIdent),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	args := make([]any, len(td.Columns))
	for i, row := range rows {
		if len(row) != len(td.Columns) {
			return inserted, fmt.Errorf("sqlite: row %d has %d values, want %d", i, len(row), len(td.Columns))
		}
		for j, v := range row {
			args[j] = toSQLiteVal(td.Columns[j].Kind, v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return inserted, fmt.Errorf("sqlite: insert row %d: %w", i, err)
		}
		inserted++
	}
	return inserted, nil
}

// toSQLiteVal renders dates and timestamps as ISO-8601 text to match the
// TEXT affinity MapType chooses for them.
func toSQLiteVal(k table.Kind, v any) any {
	tm, ok := v.(time.Time)
	if !ok {
		return v
	}
	if k == table.KindDate {
		return tm.Format("2006-01-02")
	}
	return tm.UTC().Format(time.RFC3339Nano)
}

