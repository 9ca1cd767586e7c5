// Command moviebench runs the top-rated movies benchmark: the same filter,
// sort and limit rule through a gota dataframe and through one DuckDB query,
// each result written to its own database table, with per-phase timings
// printed to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"moviebench/internal/config"
	"moviebench/internal/metrics"
	"moviebench/internal/metrics/datadog"
	"moviebench/internal/metrics/prompush"
	"moviebench/internal/pipeline"

	// register all backends with the storage factory.
	_ "moviebench/internal/storage/all"
)

func main() {
	var (
		metricsBackendFlg string
		pushGatewayURLFlg string
		statsdAddrFlg     string
		validate          bool
	)

	flag.StringVar(&metricsBackendFlg, "metrics-backend", os.Getenv("METRICS_BACKEND"), "metrics backend to use: pushgateway, datadog or none")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&statsdAddrFlg, "statsd-addr", "", "DogStatsD address (overrides env DD_DOGSTATSD_ADDR)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	cfg, err := config.Load()
	if err != nil {
		fatalf("config: %v", err)
	}

	if reportIssues(os.Stderr, cfg.Validate()) {
		log.Printf("Configuration is invalid")
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: csv=%s db=%s", cfg.CSVPath, cfg.Redacted())
		os.Exit(0)
	}

	b, err := newMetricsBackend(metricsOptions{
		Backend:    metricsBackendFlg,
		GatewayURL: firstNonEmpty(pushGatewayURLFlg, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091"),
		StatsdAddr: firstNonEmpty(statsdAddrFlg, os.Getenv("DD_DOGSTATSD_ADDR"), "127.0.0.1:8125"),
		Job:        cfg.Job,
	})
	if err != nil {
		log.Printf("metrics: %v; using nop", err)
	} else if b != nil {
		log.Printf("metrics: backend=%s job_name=%s", metricsBackendFlg, cfg.Job)
		metrics.SetBackend(b)
	} else if *verbose {
		log.Printf("metrics: disabled (backend=%q)", metricsBackendFlg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	start := time.Now()

	if *verbose {
		log.Printf("run: csv=%s storage=%s db=%s tables=%s,%s",
			cfg.CSVPath, cfg.DBKind, cfg.Redacted(), cfg.FrameTable, cfg.EngineTable)
	}

	s, runErr := pipeline.Run(ctx, cfg, os.Stdout)
	stop()

	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush error: %v", err)
	}
	if runErr != nil {
		log.Fatalf("%v", runErr)
	}

	if *verbose {
		log.Printf("completed in %s (match=%t)", time.Since(start).Truncate(time.Millisecond), s.Match)
	}
}

// reportIssues prints every validation issue to w and reports whether any
// of them blocks the run.
func reportIssues(w io.Writer, issues []config.Issue) bool {
	for _, iss := range issues {
		fmt.Fprintf(w, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	return config.HasErrors(issues)
}

// metricsOptions carries the resolved metrics flags.
type metricsOptions struct {
	Backend    string
	GatewayURL string
	StatsdAddr string
	Job        string
}

// newMetricsBackend builds the backend named by o.Backend. It returns a nil
// backend with no error when metrics are disabled.
func newMetricsBackend(o metricsOptions) (metrics.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(o.Backend)) {
	case "", "none":
		return nil, nil
	case "pushgateway":
		b, err := prompush.NewBackend(o.Job, o.GatewayURL)
		if err != nil {
			return nil, fmt.Errorf("init prom push backend: %w", err)
		}
		return b, nil
	case "datadog":
		b, err := datadog.NewBackend(datadog.Config{
			Addr:       o.StatsdAddr,
			GlobalTags: []string{"job:" + o.Job},
		})
		if err != nil {
			return nil, fmt.Errorf("init datadog backend: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", o.Backend)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
