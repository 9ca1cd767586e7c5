// Package mssql implements a Microsoft SQL Server repository using the
// go-mssqldb bulk copy API. A replace drops and recreates the target table
// and bulk-copies the rows in one transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	gddl "moviebench/internal/ddl"
	msddl "moviebench/internal/storage/mssql/ddl"
	"moviebench/internal/table"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN string
}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	close := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, close, nil
}

// ReplaceTable drops name if present, recreates it from the columns of t and
// bulk-copies the rows.
func (r *Repository) ReplaceTable(ctx context.Context, name string, t table.Table) (int64, error) {
	td, err := gddl.FromTable(name, t, msddl.MapType)
	if err != nil {
		return 0, err
	}
	drop, err := msddl.BuildDropTableSQL(td.FQN)
	if err != nil {
		return 0, err
	}
	create, err := msddl.BuildCreateTableSQL(td)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	if _, err := tx.ExecContext(ctx, drop); err != nil {
		rollback()
		return 0, fmt.Errorf("drop %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		rollback()
		return 0, fmt.Errorf("create %s: %w", name, err)
	}

	copied, err := bulkCopy(ctx, tx, td, t.Rows)
	if err != nil {
		rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	log.Printf("mssql: replaced %s with %d rows", name, copied)
	return copied, nil
}

func bulkCopy(ctx context.Context, tx *sql.Tx, td gddl.TableDef, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(msddl.QuoteFQN(td.FQN), mssql.BulkOptions{}, td.Names()...))
	if err != nil {
		return 0, fmt.Errorf("prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			return 0, fmt.Errorf("bulk row %d: %w", i, err)
		}
	}
	res, err := stmt.ExecContext(ctx) // flush
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("bulk finalize: %w", err)
	}
	copied, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return copied, nil
}

