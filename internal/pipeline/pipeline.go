// Package pipeline runs the two benchmarked pipelines back to back:
//
//   - frame:  CSV -> gota dataframe -> filter -> sort+limit -> database
//   - engine: CSV -> one DuckDB query -> database
//
// Each phase is timed, printed through a bench.Reporter and recorded through
// the metrics package. The pipelines share nothing but the Runner's
// configuration.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"moviebench/internal/bench"
	"moviebench/internal/datasource"
	"moviebench/internal/engine"
	"moviebench/internal/frame"
	"moviebench/internal/metrics"
	"moviebench/internal/rule"
	"moviebench/internal/storage"
	"moviebench/internal/table"
)

// Pipeline names, used in report lines and metric labels.
const (
	FrameName  = "gota"
	EngineName = "DuckDB"
)

// Result is what one pipeline run produced.
type Result struct {
	Pipeline string
	Table    table.Table
	// Matched is the row count after the predicate, before the limit. The
	// engine pipeline only sees the limited result, so it reports that.
	Matched int
	Written int64
	Laps    []bench.Lap
	Total   time.Duration
}

// Runner holds everything both pipelines need.
type Runner struct {
	Source  datasource.Source
	Rule    rule.Rule
	Storage storage.Config
	Job     string
	Report  *bench.Reporter

	// Now, OpenRepo and Check default to time.Now, storage.New and Verify.
	Now      func() time.Time
	OpenRepo func(ctx context.Context, cfg storage.Config) (storage.Repository, error)
	Check    func(t table.Table, r rule.Rule) error
}

func (r *Runner) openRepo(ctx context.Context) (storage.Repository, error) {
	if r.OpenRepo != nil {
		return r.OpenRepo(ctx, r.Storage)
	}
	return storage.New(ctx, r.Storage)
}

// lap closes a phase on sw and records it.
func (r *Runner) lap(sw *bench.Stopwatch, pipeline, phase string, err error) time.Duration {
	d := sw.Lap(phase)
	metrics.RecordPhase(r.Job, pipeline, phase, err, d)
	return d
}

// RunFrame runs the dataframe pipeline and writes its result to tableName.
func (r *Runner) RunFrame(ctx context.Context, tableName string) (Result, error) {
	res := Result{Pipeline: FrameName}
	r.Report.Printf("Starting load with %s...", FrameName)
	sw := bench.NewStopwatch(r.Now)

	df, err := frame.Load(ctx, r.Source, r.Rule)
	d := r.lap(sw, FrameName, "read", err)
	if err != nil {
		return res, fmt.Errorf("%s read: %w", FrameName, err)
	}
	metrics.RecordRows(r.Job, FrameName, "loaded", int64(df.Nrow()))
	r.Report.Phase("read CSV with "+FrameName, d)

	df, err = frame.Filter(df, r.Rule)
	d = r.lap(sw, FrameName, "filter", err)
	if err != nil {
		return res, fmt.Errorf("%s filter: %w", FrameName, err)
	}
	res.Matched = df.Nrow()
	metrics.RecordRows(r.Job, FrameName, "filtered", int64(res.Matched))
	r.Report.Phase("filter data with "+FrameName, d)
	r.Report.Printf("Number of records after filtering: %d", res.Matched)

	df, err = frame.TopN(df, r.Rule)
	if err == nil {
		res.Table, err = frame.ToTable(df)
	}
	d = r.lap(sw, FrameName, "limit", err)
	if err != nil {
		return res, fmt.Errorf("%s limit: %w", FrameName, err)
	}
	r.Report.Phase(fmt.Sprintf("select top %d Movies by Rating with %s", r.Rule.Limit, FrameName), d)
	if err := r.printTitles(res.Table); err != nil {
		return res, err
	}

	return r.finish(ctx, sw, res, tableName)
}

// RunEngine runs the DuckDB pipeline and writes its result to tableName.
func (r *Runner) RunEngine(ctx context.Context, tableName string) (Result, error) {
	res := Result{Pipeline: EngineName}
	r.Report.Printf("Starting load with %s...", EngineName)
	sw := bench.NewStopwatch(r.Now)

	t, err := engine.Run(ctx, r.Rule, r.Source.Path())
	d := r.lap(sw, EngineName, "query", err)
	if err != nil {
		return res, fmt.Errorf("%s query: %w", EngineName, err)
	}
	res.Table = t
	res.Matched = t.Len()
	r.Report.Phase(fmt.Sprintf("read, filter, and select top %d movies with %s", r.Rule.Limit, EngineName), d)
	r.Report.Printf("Number of records after processing: %d", res.Matched)
	if err := r.printTitles(res.Table); err != nil {
		return res, err
	}

	return r.finish(ctx, sw, res, tableName)
}

func (r *Runner) printTitles(t table.Table) error {
	titles, err := t.Strings(r.Rule.TitleColumn)
	if err != nil {
		return err
	}
	r.Report.Titles(titles)
	return nil
}

// finish runs the write phase and prints the totals. The result check runs
// after the last lap so it is not part of any timing.
func (r *Runner) finish(ctx context.Context, sw *bench.Stopwatch, res Result, tableName string) (Result, error) {
	n, err := r.write(ctx, tableName, res.Table)
	d := r.lap(sw, res.Pipeline, "write", err)
	if err != nil {
		return res, fmt.Errorf("%s write: %w", res.Pipeline, err)
	}
	res.Written = n
	r.Report.Phase(fmt.Sprintf("load data into %s with %s", DatabaseLabel(r.Storage.Kind), res.Pipeline), d)

	res.Laps = sw.Laps()
	res.Total = sw.Total()
	r.Report.Total(res.Pipeline, res.Total)

	metrics.RecordRows(r.Job, res.Pipeline, "selected", int64(res.Table.Len()))
	metrics.RecordRows(r.Job, res.Pipeline, "written", n)
	if err := r.check(res.Table); err != nil {
		log.Printf("%s: result check failed: %v", res.Pipeline, err)
	}
	return res, nil
}

func (r *Runner) check(t table.Table) error {
	if r.Check != nil {
		return r.Check(t, r.Rule)
	}
	return Verify(t, r.Rule)
}

func (r *Runner) write(ctx context.Context, name string, t table.Table) (int64, error) {
	repo, err := r.openRepo(ctx)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", r.Storage.Kind, err)
	}
	defer repo.Close()

	n, err := repo.ReplaceTable(ctx, name, t)
	if err != nil {
		return 0, fmt.Errorf("replace %s: %w", name, err)
	}
	return n, nil
}

// DatabaseLabel is the product name printed for a storage kind.
func DatabaseLabel(kind string) string {
	switch kind {
	case "postgres":
		return "PostgreSQL"
	case "sqlite":
		return "SQLite"
	case "mssql":
		return "SQL Server"
	case "mysql":
		return "MySQL"
	default:
		return kind
	}
}
