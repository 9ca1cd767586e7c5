package config

import (
	"fmt"
	"os"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path names the flag the
// finding is about.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// knownKinds lists the storage backends wired by internal/storage/all.
var knownKinds = map[string]struct{}{
	"postgres": {},
	"sqlite":   {},
	"mssql":    {},
	"mysql":    {},
}

// statFn is a test seam for the CSV existence check.
var statFn = os.Stat

// Validate performs static checks over c and returns the findings. It does
// not mutate c and never touches the database.
func (c *Config) Validate() []Issue {
	var issues []Issue

	if strings.TrimSpace(c.CSVPath) == "" {
		issues = append(issues, Issue{SeverityError, "csv", "csv path must not be empty"})
	} else if fi, err := statFn(c.CSVPath); err != nil {
		issues = append(issues, Issue{SeverityError, "csv", fmt.Sprintf("cannot stat csv: %v", err)})
	} else if fi.IsDir() {
		issues = append(issues, Issue{SeverityError, "csv", fmt.Sprintf("%s is a directory", c.CSVPath)})
	}

	if _, ok := knownKinds[c.DBKind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "db_kind",
			Message:  fmt.Sprintf("unsupported storage kind %q", c.DBKind),
		})
	} else if _, err := c.ConnString(); err != nil {
		issues = append(issues, Issue{SeverityError, "dsn", err.Error()})
	}

	frame := strings.TrimSpace(c.FrameTable)
	engine := strings.TrimSpace(c.EngineTable)
	if frame == "" {
		issues = append(issues, Issue{SeverityError, "frame_table", "table name must not be empty"})
	}
	if engine == "" {
		issues = append(issues, Issue{SeverityError, "engine_table", "table name must not be empty"})
	}
	if frame != "" && strings.EqualFold(frame, engine) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "engine_table",
			Message:  "frame and engine pipelines must write to distinct tables",
		})
	}

	if c.BatchSize <= 0 {
		issues = append(issues, Issue{SeverityError, "batch_size", "batch_size must be > 0"})
	} else if c.BatchSize > 50000 && c.DBKind == "mysql" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "batch_size",
			Message:  "large multi-row INSERTs may exceed mysql max_allowed_packet",
		})
	}

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{SeverityWarning, "job", "job is empty; metrics will be unlabeled"})
	}

	return issues
}

// HasErrors reports whether any issue is blocking.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
