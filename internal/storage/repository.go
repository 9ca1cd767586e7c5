// Package storage is the backend-agnostic face of the result sinks. Concrete
// backends (postgres, sqlite, mssql, mysql) register a Factory at init time;
// callers open one with New and never import a backend directly.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"moviebench/internal/table"
)

// Repository writes result tables to a database.
type Repository interface {
	// ReplaceTable drops name if it exists, recreates it with the columns
	// of t and inserts every row of t. It returns the number of rows
	// written.
	ReplaceTable(ctx context.Context, name string, t table.Table) (int64, error)
	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind string
	DSN  string
	// BatchSize bounds rows per statement on backends that batch INSERTs.
	BatchSize int
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it
// from init.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s (registered: %s)",
			cfg.Kind, strings.Join(ListKinds(), ", "))
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered kinds.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
