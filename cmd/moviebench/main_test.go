package main

import (
	"bytes"
	"strings"
	"testing"

	"moviebench/internal/config"
	"moviebench/internal/metrics/datadog"
	"moviebench/internal/metrics/prompush"
)

// TestNewMetricsBackend checks backend selection by name.
func TestNewMetricsBackend(t *testing.T) {
	t.Parallel()

	base := metricsOptions{
		GatewayURL: "http://localhost:9091",
		StatsdAddr: "127.0.0.1:8125",
		Job:        "test",
	}

	for _, name := range []string{"", "none", " NONE "} {
		o := base
		o.Backend = name
		b, err := newMetricsBackend(o)
		if err != nil || b != nil {
			t.Fatalf("backend %q = %v, %v; want nil, nil", name, b, err)
		}
	}

	o := base
	o.Backend = "pushgateway"
	b, err := newMetricsBackend(o)
	if err != nil {
		t.Fatalf("pushgateway: %v", err)
	}
	if _, ok := b.(*prompush.Backend); !ok {
		t.Fatalf("pushgateway backend type = %T", b)
	}

	o.Backend = "datadog"
	b, err = newMetricsBackend(o)
	if err != nil {
		t.Fatalf("datadog: %v", err)
	}
	dd, ok := b.(*datadog.Backend)
	if !ok {
		t.Fatalf("datadog backend type = %T", b)
	}
	_ = dd.Flush()

	o.Backend = "graphite"
	if _, err := newMetricsBackend(o); err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("graphite err = %v", err)
	}

	o.Backend = "pushgateway"
	o.GatewayURL = ""
	if _, err := newMetricsBackend(o); err == nil {
		t.Fatal("expected error for empty gateway URL")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	t.Parallel()

	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Fatalf("firstNonEmpty = %q, want b", got)
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Fatalf("firstNonEmpty = %q, want empty", got)
	}
}

func TestReportIssues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warn := config.Issue{Severity: config.SeverityWarning, Path: "batch_size", Message: "large"}
	if reportIssues(&buf, []config.Issue{warn}) {
		t.Fatal("warnings alone must not block")
	}
	if got := buf.String(); got != "warning: batch_size: large\n" {
		t.Fatalf("output = %q", got)
	}

	buf.Reset()
	bad := config.Issue{Severity: config.SeverityError, Path: "csv", Message: "missing"}
	if !reportIssues(&buf, []config.Issue{warn, bad}) {
		t.Fatal("an error issue must block")
	}
	if !strings.Contains(buf.String(), "error: csv: missing") {
		t.Fatalf("output = %q", buf.String())
	}
}
