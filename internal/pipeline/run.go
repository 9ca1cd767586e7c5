package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"

	"moviebench/internal/bench"
	"moviebench/internal/config"
	"moviebench/internal/datasource/file"
	"moviebench/internal/rule"
	"moviebench/internal/storage"
	"moviebench/internal/table"
)

// Summary is the outcome of a full benchmark run.
type Summary struct {
	Frame  Result
	Engine Result
	// Match reports whether both pipelines produced the same rows.
	Match bool
}

// NewRunner builds a Runner for cfg that reports to out.
func NewRunner(cfg *config.Config, out io.Writer) (*Runner, error) {
	dsn, err := cfg.ConnString()
	if err != nil {
		return nil, err
	}
	return &Runner{
		Source: file.NewLocal(cfg.CSVPath),
		Rule:   rule.TopRated,
		Storage: storage.Config{
			Kind:      cfg.DBKind,
			DSN:       dsn,
			BatchSize: cfg.BatchSize,
		},
		Job:    cfg.Job,
		Report: bench.NewReporter(out),
	}, nil
}

// Run executes the frame pipeline, then the engine pipeline, and compares
// their results. The first pipeline error aborts the run.
func (r *Runner) Run(ctx context.Context, frameTable, engineTable string) (Summary, error) {
	var s Summary
	var err error

	log.Printf("rule: %s", r.Rule.Describe())

	if s.Frame, err = r.RunFrame(ctx, frameTable); err != nil {
		return s, err
	}
	if s.Engine, err = r.RunEngine(ctx, engineTable); err != nil {
		return s, err
	}

	s.Match = table.SameRows(s.Frame.Table, s.Engine.Table)
	r.Report.Printf("Results match: %t", s.Match)
	if !s.Match {
		log.Printf("result mismatch: %s=%d rows, %s=%d rows",
			FrameName, s.Frame.Table.Len(), EngineName, s.Engine.Table.Len())
	}
	return s, nil
}

// Run is the entry point used by main.
func Run(ctx context.Context, cfg *config.Config, out io.Writer) (Summary, error) {
	r, err := NewRunner(cfg, out)
	if err != nil {
		return Summary{}, fmt.Errorf("configure: %w", err)
	}
	return r.Run(ctx, cfg.FrameTable, cfg.EngineTable)
}
