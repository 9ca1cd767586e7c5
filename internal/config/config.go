// Package config centralizes moviebench configuration. All tunables are
// sourced from command-line flags with environment-variable fallbacks
// (12-factor friendly). Flags are defined first so that `-help` shows every
// knob and its default.
//
// Typical usage:
//
//	cfg, err := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg, err := config.LoadFromArgs(fs, getenv, []string{"-db_kind=sqlite"})
package config

import (
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Config holds all process configuration derived from flags and environment
// variables. It is passed explicitly to each pipeline; nothing reads it from
// package state.
type Config struct {
	// CSVPath is the movie dataset both pipelines read.
	CSVPath string

	// DB describes the target database. A full DSN wins; otherwise postgres
	// and mysql DSNs are composed from the discrete parts below.
	DBKind     string // storage backend: postgres, sqlite, mssql, mysql
	DSN        string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// FrameTable and EngineTable are the per-pipeline destination tables.
	FrameTable  string
	EngineTable string

	// BatchSize bounds the rows per multi-row INSERT on backends without a
	// native bulk path.
	BatchSize int

	// Job labels metrics emitted by this run.
	Job string
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag to
// an environment-variable fallback via getenv, and then parsing args.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
//
// Extra flags may be registered on fs by the caller before calling.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := &Config{}

	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}

	fs.StringVar(&cfg.CSVPath, "csv", envOrDefaultFn("CSV_FILE_PATH", "movies.csv"), "Path to the movies CSV")

	fs.StringVar(&cfg.DBKind, "db_kind", envOrDefaultFn("DB_KIND", "postgres"), "Storage backend: postgres, sqlite, mssql or mysql")
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Full DSN (required for sqlite and mssql)")
	fs.StringVar(&cfg.DBUser, "db_user", envOrDefaultFn("POSTGRES_USER", "postgres"), "DB user")
	fs.StringVar(&cfg.DBPassword, "db_password", envOrDefaultFn("POSTGRES_PASSWORD", "postgres"), "DB password")
	fs.StringVar(&cfg.DBHost, "db_host", envOrDefaultFn("POSTGRES_HOST", "localhost"), "DB host")
	fs.StringVar(&cfg.DBPort, "db_port", envOrDefaultFn("POSTGRES_PORT", "5432"), "DB port")
	fs.StringVar(&cfg.DBName, "db_name", envOrDefaultFn("POSTGRES_DB", "postgres"), "DB name")

	fs.StringVar(&cfg.FrameTable, "frame_table", envOrDefaultFn("FRAME_TABLE", "top_movies_by_rating_frame"), "Destination table for the dataframe pipeline")
	fs.StringVar(&cfg.EngineTable, "engine_table", envOrDefaultFn("ENGINE_TABLE", "top_movies_by_rating_engine"), "Destination table for the DuckDB pipeline")

	fs.IntVar(&cfg.BatchSize, "batch_size", intEnvOrDefaultFn("BATCH_SIZE", 10000), "Rows per multi-row INSERT")
	fs.StringVar(&cfg.Job, "job", envOrDefaultFn("JOB_NAME", "moviebench"), "Job name used for metrics labels")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	cfg.DBKind = strings.ToLower(strings.TrimSpace(cfg.DBKind))
	return cfg, nil
}

// Load is the production entry point. It wires the loader to the process
// flag set, reads environment variables via os.Getenv, and parses os.Args[1:].
func Load() (*Config, error) {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}

// ConnString returns the connection string for the configured backend.
//
// An explicit DSN is returned unchanged. Otherwise postgres and mysql DSNs
// are composed from user, password, host, port and database name; the
// remaining backends have no sensible composed form and yield an error.
func (c *Config) ConnString() (string, error) {
	return c.connString(c.DBPassword)
}

// Redacted returns the connection string with the password masked, for logs.
func (c *Config) Redacted() string {
	if c.DSN != "" {
		if u, err := url.Parse(c.DSN); err == nil && u.User != nil {
			return u.Redacted()
		}
		return "<dsn>"
	}
	dsn, err := c.connString("xxxxx")
	if err != nil {
		return "<none>"
	}
	return dsn
}

func (c *Config) connString(password string) (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch c.DBKind {
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.DBUser, password),
			Host:   net.JoinHostPort(c.DBHost, c.DBPort),
			Path:   "/" + c.DBName,
		}
		return u.String(), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = c.DBUser
		mc.Passwd = password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
		mc.DBName = c.DBName
		return mc.FormatDSN(), nil
	default:
		return "", fmt.Errorf("db_kind=%s requires an explicit -dsn", c.DBKind)
	}
}
