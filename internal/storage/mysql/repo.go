// Package mysql implements a MySQL repository on database/sql with the
// go-sql-driver/mysql driver. MySQL commits DDL implicitly, so a replace is
// DROP + CREATE followed by chunked multi-row INSERTs in one transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	gddl "moviebench/internal/ddl"
	myddl "moviebench/internal/storage/mysql/ddl"
	"moviebench/internal/table"
)

// maxPlaceholders is the server limit on bound parameters per statement.
const maxPlaceholders = 65535

// Config holds MySQL repository configuration.
type Config struct {
	DSN string
	// BatchSize bounds rows per INSERT statement.
	BatchSize int
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository parses the DSN, opens a pool and pings it.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	mc, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	conn, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(conn)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	close := func() { _ = db.Close() }
	return &Repository{db: db, cfg: cfg}, close, nil
}

// ReplaceTable drops and recreates name, then inserts the rows of t.
func (r *Repository) ReplaceTable(ctx context.Context, name string, t table.Table) (int64, error) {
	td, err := gddl.FromTable(name, t, myddl.MapType)
	if err != nil {
		return 0, err
	}
	drop, err := myddl.BuildDropTableSQL(td.FQN)
	if err != nil {
		return 0, err
	}
	create, err := myddl.BuildCreateTableSQL(td)
	if err != nil {
		return 0, err
	}

	if _, err := r.db.ExecContext(ctx, drop); err != nil {
		return 0, fmt.Errorf("drop %s: %w", name, err)
	}
	if _, err := r.db.ExecContext(ctx, create); err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}
	if len(t.Rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	var inserted int64
	for _, chunk := range chunkRows(t.Rows, chunkSize(r.cfg.BatchSize, len(td.Columns))) {
		q := buildInsert(td, len(chunk))
		args := make([]any, 0, len(chunk)*len(td.Columns))
		for _, row := range chunk {
			if len(row) != len(td.Columns) {
				_ = tx.Rollback()
				return 0, fmt.Errorf("row has %d values, want %d", len(row), len(td.Columns))
			}
			for j, v := range row {
				args = append(args, toMySQLVal(td.Columns[j].Kind, v))
			}
		}
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert into %s: %w", name, err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	log.Printf("mysql: replaced %s with %d rows", name, inserted)
	return inserted, nil
}

// chunkSize caps batch so one statement stays under the placeholder limit.
func chunkSize(batch, ncols int) int {
	if ncols <= 0 {
		return 1
	}
	limit := maxPlaceholders / ncols
	if batch <= 0 || batch > limit {
		return limit
	}
	return batch
}

func chunkRows(rows [][]any, size int) [][][]any {
	var out [][][]any
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}

// buildInsert renders INSERT INTO `t` (`a`,`b`) VALUES (?,?),(?,?) for n rows.
func buildInsert(td gddl.TableDef, n int) string {
	cols := make([]string, len(td.Columns))
	for i, c := range td.Columns {
		cols[i] = myddl.QuoteIdent(c.Name)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",") + ")"

	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", myddl.QuoteFQN(td.FQN), strings.Join(cols, ","))
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(tuple)
	}
	return sb.String()
}

// toMySQLVal sends dates as YYYY-MM-DD so DATE columns do not depend on the
// connection time zone.
func toMySQLVal(k table.Kind, v any) any {
	if tm, ok := v.(time.Time); ok && k == table.KindDate {
		return tm.Format("2006-01-02")
	}
	return v
}

