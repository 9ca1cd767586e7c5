// Package postgres implements a Postgres repository using pgx v5. A replace
// runs DROP, CREATE and COPY inside one transaction, so readers see either
// the previous table or the complete new one.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	gddl "moviebench/internal/ddl"
	pgddl "moviebench/internal/storage/postgres/ddl"
	"moviebench/internal/table"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres ping: %w", pgError(err))
	}
	close := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, close, nil
}

// ReplaceTable drops name if present, recreates it from the columns of t and
// bulk-loads the rows with COPY.
func (r *Repository) ReplaceTable(ctx context.Context, name string, t table.Table) (int64, error) {
	td, err := gddl.FromTable(name, t, pgddl.MapType)
	if err != nil {
		return 0, err
	}
	drop, err := pgddl.BuildDropTableSQL(td.FQN)
	if err != nil {
		return 0, err
	}
	create, err := pgddl.BuildCreateTableSQL(td)
	if err != nil {
		return 0, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op after commit

	if _, err := tx.Exec(ctx, drop); err != nil {
		return 0, fmt.Errorf("drop %s: %w", name, pgError(err))
	}
	if _, err := tx.Exec(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", name, pgError(err))
	}

	var copied int64
	if len(t.Rows) > 0 {
		copied, err = tx.CopyFrom(ctx, identifier(td.FQN), td.Names(), pgx.CopyFromRows(t.Rows))
		if err != nil {
			return 0, fmt.Errorf("copy into %s: %w", name, pgError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", pgError(err))
	}
	log.Printf("postgres: replaced %s with %d rows", name, copied)
	return copied, nil
}


// pgError surfaces the server-side detail and SQLSTATE when present.
func pgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w: %s (%s)", err, pgErr.Detail, pgErr.SQLState())
	}
	return err
}

// identifier splits a possibly schema-qualified name for CopyFrom.
func identifier(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	out := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
